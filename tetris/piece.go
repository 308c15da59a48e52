package tetris

import (
	"iter"
	"strings"
)

// PieceType identifies one of the seven tetrominoes. Its numeric value is also
// the Cell written into the grid when the piece locks.
type PieceType uint8

// Possible pieces. NoPiece marks an empty hold slot.
const (
	NoPiece PieceType = iota
	I
	O
	T
	S
	Z
	J
	L
)

// PieceTypes lists every real piece in catalog order.
var PieceTypes = [7]PieceType{I, O, T, S, Z, J, L}

func (p PieceType) String() string {
	switch p {
	case NoPiece:
		return "-"
	case I:
		return "I"
	case O:
		return "O"
	case T:
		return "T"
	case S:
		return "S"
	case Z:
		return "Z"
	case J:
		return "J"
	case L:
		return "L"
	}
	return "?"
}

// Valid reports whether p is one of the seven real pieces.
func (p PieceType) Valid() bool {
	return p >= I && p <= L
}

// ID returns the grid cell value used for locked blocks of this piece.
func (p PieceType) ID() Cell {
	return Cell(p)
}

// Color is the display colour assigned to a piece.
type Color struct {
	Name    string
	R, G, B uint8
}

// Color returns the piece's display colour. NoPiece maps to black.
func (p PieceType) Color() Color {
	switch p {
	case I:
		return Color{Name: "cyan", R: 0, G: 255, B: 255}
	case O:
		return Color{Name: "yellow", R: 255, G: 255, B: 0}
	case T:
		return Color{Name: "purple", R: 128, G: 0, B: 128}
	case S:
		return Color{Name: "green", R: 0, G: 128, B: 0}
	case Z:
		return Color{Name: "red", R: 255, G: 0, B: 0}
	case J:
		return Color{Name: "blue", R: 0, G: 0, B: 255}
	case L:
		return Color{Name: "orange", R: 255, G: 165, B: 0}
	}
	return Color{Name: "black"}
}

// Shape is a piece's 4x4 occupancy box, indexed [row][col].
type Shape [4][4]bool

// Cells yields the (row, col) of every occupied cell in row-major order.
func (s Shape) Cells() iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for i := range s {
			for j := range s[i] {
				if s[i][j] && !yield(i, j) {
					return
				}
			}
		}
	}
}

// Count returns the number of occupied cells.
func (s Shape) Count() int {
	n := 0
	for range s.Cells() {
		n++
	}
	return n
}

// String renders the box with '#' for occupied and '.' for empty cells.
func (s Shape) String() string {
	var b strings.Builder
	for i := range s {
		if i > 0 {
			b.WriteByte('\n')
		}
		for j := range s[i] {
			if s[i][j] {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
	}
	return b.String()
}

// Shape returns the spawn-orientation box for the piece. The result is a
// fresh value; callers may modify it without affecting the catalog.
func (p PieceType) Shape() Shape {
	switch p {
	case I:
		return Shape{
			{false, false, false, false},
			{true, true, true, true},
			{false, false, false, false},
			{false, false, false, false},
		}
	case O:
		return Shape{
			{false, false, false, false},
			{false, true, true, false},
			{false, true, true, false},
			{false, false, false, false},
		}
	case T:
		return Shape{
			{false, false, false, false},
			{false, true, true, true},
			{false, false, true, false},
			{false, false, false, false},
		}
	case S:
		return Shape{
			{false, false, false, false},
			{false, false, true, true},
			{false, true, true, false},
			{false, false, false, false},
		}
	case Z:
		return Shape{
			{false, false, false, false},
			{false, true, true, false},
			{false, false, true, true},
			{false, false, false, false},
		}
	case J:
		return Shape{
			{false, false, false, false},
			{false, true, true, true},
			{false, false, false, true},
			{false, false, false, false},
		}
	case L:
		return Shape{
			{false, false, false, false},
			{false, true, true, true},
			{false, true, false, false},
			{false, false, false, false},
		}
	}
	return Shape{}
}

// Definition is the immutable catalog record of a piece.
type Definition struct {
	Type  PieceType
	Shape Shape
	Color Color
	ID    Cell
}

// Define returns the catalog record for p.
func Define(p PieceType) Definition {
	return Definition{
		Type:  p,
		Shape: p.Shape(),
		Color: p.Color(),
		ID:    p.ID(),
	}
}
