package debugui

import (
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/blockfall/tetris"
)

// GridView renders the playfield as text, one letter per locked cell.
type GridView struct {
	Shadow bool
}

// gridLines draws the grid with the active piece in lower case and, when
// shadow is set, its landing position as '+'.
func gridLines(session *tetris.Session, shadow bool) []string {
	grid := session.Grid()
	rows := make([][]byte, grid.Height())
	for row, cells := range grid.Rows() {
		rows[row] = make([]byte, len(cells))
		for col, c := range cells {
			rows[row][col] = '.'
			if c != tetris.Empty {
				rows[row][col] = tetris.PieceType(c).String()[0]
			}
		}
	}

	active, ok := session.Active()
	if ok {
		mark := func(pos tetris.Position, b byte) {
			for i, j := range active.Shape.Cells() {
				r, c := pos.Row+i, pos.Col+j
				if grid.InBounds(r, c) && rows[r][c] == '.' {
					rows[r][c] = b
				}
			}
		}
		mark(active.Position, strings.ToLower(active.Type.String())[0])
		if shadow {
			mark(session.Shadow(), '+')
		}
	}

	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = string(row)
	}
	return lines
}

func (gv *GridView) Render(session *tetris.Session) {
	if !imgui.BeginV("Grid", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.Checkbox("Show shadow", &gv.Shadow)
	imgui.Separator()
	for _, line := range gridLines(session, gv.Shadow) {
		imgui.Text(line)
	}

	imgui.End()
}
