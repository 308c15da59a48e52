package main

import (
	"github.com/plus3/blockfall/tetris"
)

// weights scores a resulting grid. Lines is a reward, the rest are penalties.
type weights struct {
	Height    float64
	Lines     float64
	Holes     float64
	Bumpiness float64
}

var defaultWeights = weights{
	Height:    -0.510066,
	Lines:     0.760666,
	Holes:     -0.35663,
	Bumpiness: -0.184483,
}

// placement is a target the bot steers the active piece towards.
type placement struct {
	Rotations int
	Col       int
	Landing   tetris.Position
	Score     float64
}

// surface summarises the column profile of a grid.
type surface struct {
	Heights   []int
	Aggregate int
	Holes     int
	Bumpiness int
}

func measure(grid *tetris.Grid) surface {
	s := surface{Heights: make([]int, grid.Width())}

	for col := range grid.Width() {
		seen := false
		for row := range grid.Height() {
			if grid.Occupied(row, col) {
				if !seen {
					s.Heights[col] = grid.Height() - row
					seen = true
				}
			} else if seen {
				s.Holes++
			}
		}
		s.Aggregate += s.Heights[col]
	}

	for col := 1; col < len(s.Heights); col++ {
		d := s.Heights[col] - s.Heights[col-1]
		if d < 0 {
			d = -d
		}
		s.Bumpiness += d
	}
	return s
}

func (w weights) evaluate(grid *tetris.Grid, cleared int) float64 {
	s := measure(grid)
	return w.Height*float64(s.Aggregate) +
		w.Lines*float64(cleared) +
		w.Holes*float64(s.Holes) +
		w.Bumpiness*float64(s.Bumpiness)
}

// choose tries every clockwise rotation count and column for piece, dropping
// it straight down from its current row, and returns the best scoring one.
func (w weights) choose(grid *tetris.Grid, piece tetris.ActivePiece) (placement, bool) {
	var (
		best  placement
		found bool
	)

	shape := piece.Shape
	for rotations := range 4 {
		if rotations > 0 {
			shape = tetris.Rotate(shape, tetris.Clockwise)
		}

		for col := -3; col < grid.Width(); col++ {
			pos := tetris.Position{Row: piece.Position.Row, Col: col}
			if !tetris.IsValid(shape, grid, pos) {
				continue
			}

			landing := tetris.ShadowPosition(shape, grid, pos)
			after := grid.Clone()
			if err := after.Lock(shape, piece.Type.ID(), landing); err != nil {
				continue
			}
			cleared := after.ClearFullRows()

			score := w.evaluate(after, cleared)
			if !found || score > best.Score {
				best = placement{Rotations: rotations, Col: col, Landing: landing, Score: score}
				found = true
			}
		}
	}
	return best, found
}
