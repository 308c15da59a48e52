package tetris

import (
	"errors"
	"fmt"
)

// ErrKickTable reports a kick table that cannot serve every rotation.
var ErrKickTable = errors.New("incomplete kick table")

// Offset is a (row, col) displacement tried when a rotation collides.
type Offset struct {
	Row, Col int
}

// KickFamily groups pieces that share a kick table.
type KickFamily uint8

const (
	KickOthers KickFamily = iota
	KickI
)

func (f KickFamily) String() string {
	if f == KickI {
		return "I"
	}
	return "others"
}

// FamilyOf returns the kick table family used by p.
func FamilyOf(p PieceType) KickFamily {
	if p == I {
		return KickI
	}
	return KickOthers
}

var iKicks = map[string][]Offset{
	"0->R": {{0, 0}, {-2, 0}, {1, 0}, {-2, -1}, {1, 2}},
	"R->0": {{0, 0}, {2, 0}, {-1, 0}, {2, 1}, {-1, -2}},
	"R->2": {{0, 0}, {-1, 0}, {2, 0}, {-1, 2}, {2, -1}},
	"2->R": {{0, 0}, {1, 0}, {-2, 0}, {1, -2}, {-2, 1}},
	"2->L": {{0, 0}, {2, 0}, {-1, 0}, {2, 1}, {-1, -2}},
	"L->2": {{0, 0}, {-2, 0}, {1, 0}, {-2, -1}, {1, 2}},
	"L->0": {{0, 0}, {1, 0}, {-2, 0}, {1, -2}, {-2, 1}},
	"0->L": {{0, 0}, {-1, 0}, {2, 0}, {-1, 2}, {2, -1}},
}

var otherKicks = map[string][]Offset{
	"0->R": {{0, 0}, {-1, 0}, {-1, 1}, {0, -2}, {-1, -2}},
	"R->0": {{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}},
	"R->2": {{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}},
	"2->R": {{0, 0}, {-1, 0}, {-1, 1}, {0, -2}, {-1, -2}},
	"2->L": {{0, 0}, {-1, 0}, {-1, 1}, {0, -2}, {-1, -2}},
	"L->2": {{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}},
	"L->0": {{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}},
	"0->L": {{0, 0}, {-1, 0}, {-1, 1}, {0, -2}, {-1, -2}},
}

// Kicks returns the ordered offsets for the given family and transition key.
// The returned slice is a copy. An unknown key is a programming error and
// panics.
func Kicks(family KickFamily, key string) []Offset {
	table := otherKicks
	if family == KickI {
		table = iKicks
	}

	offsets, ok := table[key]
	if !ok || len(offsets) == 0 {
		panic("no kick offsets for " + family.String() + " transition " + key)
	}
	return append([]Offset(nil), offsets...)
}

// validateKickTable checks that table has offsets for every adjacent
// orientation transition and that each list starts with the identity.
func validateKickTable(family KickFamily, table map[string][]Offset) error {
	for _, from := range [...]Orientation{Spawn, Right, Two, Left} {
		for _, dir := range [...]Direction{Clockwise, CounterClockwise} {
			key := TransitionKey(from, from.Next(dir))
			offsets := table[key]
			if len(offsets) == 0 {
				return fmt.Errorf("%s kicks: no offsets for %s: %w", family, key, ErrKickTable)
			}
			if offsets[0] != (Offset{}) {
				return fmt.Errorf("%s kicks: %s starts with %v: %w", family, key, offsets[0], ErrKickTable)
			}
		}
	}
	return nil
}

// validateKicks checks both kick families.
func validateKicks() error {
	if err := validateKickTable(KickOthers, otherKicks); err != nil {
		return err
	}
	return validateKickTable(KickI, iKicks)
}
