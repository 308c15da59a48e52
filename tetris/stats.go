package tetris

import (
	"github.com/kamstrup/intmap"
)

// MaxClearRows is the most rows a single lock can complete: a piece spans at
// most four rows.
const MaxClearRows = 4

// ClearName returns the conventional name of a clear of the given size.
func ClearName(rows int) string {
	switch rows {
	case 0:
		return "none"
	case 1:
		return "single"
	case 2:
		return "double"
	case 3:
		return "triple"
	case 4:
		return "quadruple"
	}
	return "unknown"
}

// LineClears counts locks by the number of rows they completed.
type LineClears struct {
	Single    int
	Double    int
	Triple    int
	Quadruple int
}

// Lines returns the total number of rows cleared.
func (c LineClears) Lines() int {
	return c.Single + 2*c.Double + 3*c.Triple + 4*c.Quadruple
}

// Statistics accumulates draw and line clear counters for one session.
type Statistics struct {
	total  int
	pieces *intmap.Map[PieceType, int]
	clears *intmap.Map[int, int]
}

func newStatistics() *Statistics {
	return &Statistics{
		pieces: intmap.New[PieceType, int](len(PieceTypes)),
		clears: intmap.New[int, int](MaxClearRows),
	}
}

func (s *Statistics) recordDraw(p PieceType) {
	s.total++
	n, _ := s.pieces.Get(p)
	s.pieces.Put(p, n+1)
}

// recordClear counts a lock that completed rows rows. Zero-row locks are not
// a clear and are not counted.
func (s *Statistics) recordClear(rows int) {
	if rows <= 0 {
		return
	}
	n, _ := s.clears.Get(rows)
	s.clears.Put(rows, n+1)
}

func (s *Statistics) reset() {
	s.total = 0
	s.pieces.Clear()
	s.clears.Clear()
}

// TotalPieces returns the number of pieces drawn.
func (s *Statistics) TotalPieces() int {
	return s.total
}

// PieceCount returns how many times p was drawn.
func (s *Statistics) PieceCount(p PieceType) int {
	n, _ := s.pieces.Get(p)
	return n
}

// ClearCount returns how many locks cleared exactly rows rows.
func (s *Statistics) ClearCount(rows int) int {
	n, _ := s.clears.Get(rows)
	return n
}

// PieceCounts returns a snapshot of the per-piece draw counters, with an
// entry for every piece type.
func (s *Statistics) PieceCounts() map[PieceType]int {
	counts := make(map[PieceType]int, len(PieceTypes))
	for _, p := range PieceTypes {
		counts[p] = 0
	}
	for p, n := range s.pieces.All() {
		counts[p] = n
	}
	return counts
}

// LineClears returns a snapshot of the per-size clear counters.
func (s *Statistics) LineClears() LineClears {
	return LineClears{
		Single:    s.ClearCount(1),
		Double:    s.ClearCount(2),
		Triple:    s.ClearCount(3),
		Quadruple: s.ClearCount(4),
	}
}
