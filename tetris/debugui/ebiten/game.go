package ebiten

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/blockfall/tetris"
	"github.com/plus3/blockfall/tetris/debugui"
)

const (
	CellSize = 24
	boardX   = 20
	boardY   = 20
)

var keyBindings = []struct {
	key    ebiten.Key
	action tetris.Action
}{
	{ebiten.KeyArrowLeft, tetris.MoveLeft},
	{ebiten.KeyArrowRight, tetris.MoveRight},
	{ebiten.KeyArrowDown, tetris.SoftDrop},
	{ebiten.KeySpace, tetris.HardDrop},
	{ebiten.KeyArrowUp, tetris.RotateCW},
	{ebiten.KeyX, tetris.RotateCW},
	{ebiten.KeyZ, tetris.RotateCCW},
	{ebiten.KeyC, tetris.Hold},
	{ebiten.KeyShiftLeft, tetris.Hold},
}

// Game implements ebiten.Game for one session.
type Game struct {
	session   *tetris.Session
	backend   ImguiBackend
	inspector *debugui.Inspector
	timer     *debugui.FrameTimer
	start     time.Time
}

func NewGame(session *tetris.Session, backend ImguiBackend) *Game {
	return &Game{
		session:   session,
		backend:   backend,
		inspector: debugui.NewInspector(session, 120),
		timer:     debugui.NewFrameTimer(),
		start:     time.Now(),
	}
}

func (g *Game) Update() error {
	now := time.Since(g.start)

	g.backend.BeginFrame()

	captured := g.inspector.Input().WantCaptureKeyboard
	if !captured && inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.session.Reset()
	}
	for _, binding := range keyBindings {
		// releases are forwarded even while ImGui has the keyboard
		for _, in := range tetris.Transitions(binding.action, now,
			!captured && inpututil.IsKeyJustPressed(binding.key),
			inpututil.IsKeyJustReleased(binding.key)) {
			g.session.HandleInput(in)
		}
	}
	g.session.AdvanceTime(now)

	g.inspector.Render(g.timer.GetDeltaTime())

	g.backend.EndFrame()
	return nil
}

func pieceColor(p tetris.PieceType, alpha uint8) color.RGBA {
	c := p.Color()
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: alpha}
}

func fillCell(screen *ebiten.Image, row, col int, clr color.Color) {
	x := float32(boardX + col*CellSize)
	y := float32(boardY + row*CellSize)
	vector.DrawFilledRect(screen, x+1, y+1, CellSize-2, CellSize-2, clr, false)
}

func (g *Game) Draw(screen *ebiten.Image) {
	grid := g.session.Grid()
	w, h := float32(grid.Width()*CellSize), float32(grid.Height()*CellSize)
	vector.StrokeRect(screen, boardX-2, boardY-2, w+4, h+4, 2, color.Gray{Y: 128}, false)

	for row, cells := range grid.Rows() {
		for col, c := range cells {
			if c != tetris.Empty {
				fillCell(screen, row, col, pieceColor(tetris.PieceType(c), 255))
			}
		}
	}

	if active, ok := g.session.Active(); ok {
		shadow := g.session.Shadow()
		for i, j := range active.Shape.Cells() {
			fillCell(screen, shadow.Row+i, shadow.Col+j, color.RGBA{R: 255, G: 255, B: 255, A: 60})
		}
		for i, j := range active.Shape.Cells() {
			fillCell(screen, active.Position.Row+i, active.Position.Col+j, pieceColor(active.Type, 255))
		}
	}

	g.backend.Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.backend.Layout(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}
