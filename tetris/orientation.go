package tetris

import "fmt"

// Direction selects a rotation sense.
type Direction uint8

const (
	Clockwise Direction = iota
	CounterClockwise
)

func (d Direction) String() string {
	if d == CounterClockwise {
		return "counter-clockwise"
	}
	return "clockwise"
}

// Orientation is a piece's rotation state relative to its spawn shape.
type Orientation uint8

const (
	Spawn Orientation = iota // 0
	Right                    // R
	Two                      // 2
	Left                     // L
)

func (o Orientation) String() string {
	switch o {
	case Spawn:
		return "0"
	case Right:
		return "R"
	case Two:
		return "2"
	case Left:
		return "L"
	}
	return fmt.Sprintf("Orientation(%d)", uint8(o))
}

// Next returns the orientation reached by one rotation in dir.
// Clockwise cycles 0 -> R -> 2 -> L -> 0.
func (o Orientation) Next(dir Direction) Orientation {
	if dir == CounterClockwise {
		return (o + 3) % 4
	}
	return (o + 1) % 4
}

// TransitionKey names a rotation for kick table lookups, e.g. "0->R".
func TransitionKey(from, to Orientation) string {
	return from.String() + "->" + to.String()
}

// Rotate turns the shape a quarter turn within its 4x4 box: a transpose
// followed by reversing each row (clockwise) or the row order
// (counter-clockwise).
func Rotate(shape Shape, dir Direction) Shape {
	var transposed Shape
	for i := range shape {
		for j := range shape[i] {
			transposed[j][i] = shape[i][j]
		}
	}

	var rotated Shape
	for i := range transposed {
		for j := range transposed[i] {
			if dir == CounterClockwise {
				rotated[i][j] = transposed[len(transposed)-1-i][j]
			} else {
				rotated[i][j] = transposed[i][len(transposed[i])-1-j]
			}
		}
	}
	return rotated
}
