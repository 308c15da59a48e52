package debugui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/blockfall/tetris"
)

// PieceShare is one row of the piece distribution table.
type PieceShare struct {
	Type    tetris.PieceType
	Count   int
	Percent float32
}

// pieceShares lists every piece type in catalog order with its share of the
// total draws.
func pieceShares(counts map[tetris.PieceType]int) []PieceShare {
	total := 0
	for _, n := range counts {
		total += n
	}

	shares := make([]PieceShare, 0, len(tetris.PieceTypes))
	for _, p := range tetris.PieceTypes {
		share := PieceShare{Type: p, Count: counts[p]}
		if total > 0 {
			share.Percent = 100 * float32(share.Count) / float32(total)
		}
		shares = append(shares, share)
	}
	return shares
}

// SessionPanel shows score, phase, hold and lookahead, line clears and the
// piece distribution. It also offers a reset button.
type SessionPanel struct{}

func (sp *SessionPanel) Render(session *tetris.Session) {
	if !imgui.BeginV("Session", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("Phase: %s", session.Phase()))
	imgui.Text(fmt.Sprintf("Lines: %d", session.Score()))
	imgui.Text(fmt.Sprintf("Locked: %d", session.Locked()))
	imgui.Text(fmt.Sprintf("Elapsed: %s (%.2f pieces/s)", session.Elapsed().Truncate(time.Millisecond), session.PiecesPerSecond()))

	held, ok := session.Held()
	holdText := "empty"
	if ok {
		holdText = held.String()
	}
	imgui.Text(fmt.Sprintf("Next: %s  Hold: %s", session.Next(), holdText))
	if active, ok := session.Active(); ok {
		imgui.Text(fmt.Sprintf("Active: %s %s at (%d, %d)",
			active.Type, active.Orientation, active.Position.Row, active.Position.Col))
	}

	if imgui.Button("Reset") {
		session.Reset()
	}

	imgui.Separator()

	if imgui.TreeNodeStr("Line Clears") {
		clears := session.LineClears()
		imgui.BulletText(fmt.Sprintf("%s: %d", tetris.ClearName(1), clears.Single))
		imgui.BulletText(fmt.Sprintf("%s: %d", tetris.ClearName(2), clears.Double))
		imgui.BulletText(fmt.Sprintf("%s: %d", tetris.ClearName(3), clears.Triple))
		imgui.BulletText(fmt.Sprintf("%s: %d", tetris.ClearName(4), clears.Quadruple))
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Piece Distribution") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("PieceTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Piece")
			imgui.TableSetupColumn("Drawn")
			imgui.TableSetupColumn("Share")
			imgui.TableHeadersRow()

			for _, share := range pieceShares(session.PieceCounts()) {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(share.Type.String())
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", share.Count))
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%.1f%%", share.Percent))

				c := share.Type.Color()
				imgui.SameLine()
				drawList := imgui.WindowDrawList()
				pos := imgui.CursorScreenPos()
				color := imgui.ColorU32Vec4(imgui.NewVec4(float32(c.R)/255, float32(c.G)/255, float32(c.B)/255, 0.8))
				drawList.AddRectFilled(pos, imgui.NewVec2(pos.X+share.Percent*2, pos.Y+10), color)
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	imgui.End()
}
