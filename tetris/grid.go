package tetris

import (
	"errors"
	"fmt"
)

// Cell is a grid value: Empty or the ID of the piece that locked there.
type Cell uint8

// Empty is the value of an unoccupied cell.
const Empty Cell = 0

var (
	ErrInvalidDimensions = errors.New("grid dimensions must be positive")
	ErrLockOutOfBounds   = errors.New("piece cell outside grid")
)

// Position is the grid coordinate of the top-left corner of a piece's 4x4 box.
type Position struct {
	Row, Col int
}

// Add returns the position displaced by o.
func (p Position) Add(o Offset) Position {
	return Position{Row: p.Row + o.Row, Col: p.Col + o.Col}
}

// Grid is a fixed-size matrix of cells. Row 0 is the top.
type Grid struct {
	width  int
	height int
	cells  []Cell
}

// NewGrid creates an empty width x height grid.
func NewGrid(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%dx%d: %w", width, height, ErrInvalidDimensions)
	}
	return &Grid{
		width:  width,
		height: height,
		cells:  make([]Cell, width*height),
	}, nil
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// InBounds reports whether (row, col) lies inside the grid.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.height && col >= 0 && col < g.width
}

// Cell returns the value at (row, col), or Empty when out of bounds.
func (g *Grid) Cell(row, col int) Cell {
	if !g.InBounds(row, col) {
		return Empty
	}
	return g.cells[row*g.width+col]
}

// Occupied reports whether (row, col) is blocked. Cells outside the grid
// are always blocked.
func (g *Grid) Occupied(row, col int) bool {
	if !g.InBounds(row, col) {
		return true
	}
	return g.cells[row*g.width+col] != Empty
}

// Set writes a single cell. Out-of-bounds writes are ignored.
func (g *Grid) Set(row, col int, value Cell) {
	if g.InBounds(row, col) {
		g.cells[row*g.width+col] = value
	}
}

// Lock writes id into every cell covered by shape at pos. Either every cell
// is written or, when any would fall outside the grid, none are.
func (g *Grid) Lock(shape Shape, id Cell, pos Position) error {
	for i, j := range shape.Cells() {
		if !g.InBounds(pos.Row+i, pos.Col+j) {
			return fmt.Errorf("lock at (%d,%d): %w", pos.Row+i, pos.Col+j, ErrLockOutOfBounds)
		}
	}

	for i, j := range shape.Cells() {
		g.cells[(pos.Row+i)*g.width+pos.Col+j] = id
	}
	return nil
}

// RowFull reports whether every cell in row is occupied.
func (g *Grid) RowFull(row int) bool {
	for _, c := range g.cells[row*g.width : (row+1)*g.width] {
		if c == Empty {
			return false
		}
	}
	return true
}

// ClearFullRows removes every full row at once, shifts the remaining rows
// down preserving their order, and fills the top with empty rows. It returns
// the number of rows removed.
func (g *Grid) ClearFullRows() int {
	write := g.height - 1
	for read := g.height - 1; read >= 0; read-- {
		if g.RowFull(read) {
			continue
		}
		if write != read {
			copy(g.cells[write*g.width:(write+1)*g.width], g.cells[read*g.width:(read+1)*g.width])
		}
		write--
	}

	cleared := write + 1
	clear(g.cells[:cleared*g.width])
	return cleared
}

// Reset empties every cell.
func (g *Grid) Reset() {
	clear(g.cells)
}

// Clone returns an independent copy of the grid.
func (g *Grid) Clone() *Grid {
	return &Grid{
		width:  g.width,
		height: g.height,
		cells:  append([]Cell(nil), g.cells...),
	}
}

// Rows returns a copy of the cells as a slice of rows, top row first.
func (g *Grid) Rows() [][]Cell {
	rows := make([][]Cell, g.height)
	for r := range rows {
		rows[r] = append([]Cell(nil), g.cells[r*g.width:(r+1)*g.width]...)
	}
	return rows
}
