package tetris

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/plus3/blockfall/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ms = time.Millisecond

func newTestSession(t *testing.T) *Session {
	t.Helper()

	cfg := DefaultConfig()
	cfg.Seed = 1234
	s, err := NewSession(cfg)
	require.NoError(t, err)
	require.Equal(t, PhaseFalling, s.Phase())
	return s
}

// force replaces the active piece, bypassing the sequencer.
func force(s *Session, p PieceType, pos Position) {
	s.place(p)
	s.active.Position = pos
}

func fillCells(s *Session, value Cell, rows []int, skip ...int) {
	for _, row := range rows {
		for col := range s.grid.Width() {
			skipped := false
			for _, c := range skip {
				skipped = skipped || c == col
			}
			if !skipped {
				s.grid.Set(row, col, value)
			}
		}
	}
}

func TestNewSessionSpawns(t *testing.T) {
	s := newTestSession(t)

	active, ok := s.Active()
	require.True(t, ok)
	assert.True(t, active.Type.Valid())
	assert.True(t, s.Next().Valid())
	assert.Equal(t, Spawn, active.Orientation)
	assert.Equal(t, Position{Row: 0, Col: 3}, active.Position)
	assert.Equal(t, active.Type.Shape(), active.Shape)
	assert.Equal(t, 2, s.TotalPieces())
	assert.Equal(t, 0, s.Score())

	_, held := s.Held()
	assert.False(t, held)
	assert.True(t, s.HoldAvailable())
}

func TestSeededSessionsMatch(t *testing.T) {
	a := newTestSession(t)
	b := newTestSession(t)

	for range 20 {
		pa, _ := a.Active()
		pb, _ := b.Active()
		require.Equal(t, pa.Type, pb.Type)
		require.Equal(t, a.Next(), b.Next())

		a.HandleInput(Press(HardDrop, 0))
		b.HandleInput(Press(HardDrop, 0))
		if a.GameOver() {
			break
		}
	}
}

func TestMove(t *testing.T) {
	s := newTestSession(t)
	force(s, O, s.spawnPosition())

	assert.True(t, s.HandleInput(Press(MoveLeft, 0)))
	assert.Equal(t, 2, s.active.Position.Col)
	assert.False(t, s.HandleInput(Press(MoveLeft, 0)), "key already held")

	s.HandleInput(ReleaseKey(MoveLeft, 0))
	for range 10 {
		s.HandleInput(Press(MoveLeft, 0))
		s.HandleInput(ReleaseKey(MoveLeft, 0))
	}
	assert.Equal(t, -1, s.active.Position.Col, "O may overhang its empty box column")

	assert.False(t, s.HandleInput(Press(MoveLeft, 0)), "blocked by the wall")
	assert.Equal(t, -1, s.active.Position.Col)
}

func TestSoftDrop(t *testing.T) {
	t.Run("moves down", func(t *testing.T) {
		s := newTestSession(t)
		force(s, T, s.spawnPosition())

		assert.True(t, s.HandleInput(Press(SoftDrop, 0)))
		assert.Equal(t, 1, s.active.Position.Row)
		assert.Equal(t, 0, s.Locked())
	})

	t.Run("locks when resting", func(t *testing.T) {
		s := newTestSession(t)
		force(s, O, Position{Row: 17, Col: 3})

		assert.True(t, s.HandleInput(Press(SoftDrop, 0)))
		assert.Equal(t, 1, s.Locked())
		assert.Equal(t, O.ID(), s.grid.Cell(19, 4))
		assert.Equal(t, 0, s.active.Position.Row, "next piece spawned")
	})
}

func TestRotate(t *testing.T) {
	t.Run("I piece at spawn", func(t *testing.T) {
		s := newTestSession(t)
		force(s, I, s.spawnPosition())

		assert.True(t, s.HandleInput(Press(RotateCW, 0)))
		assert.Equal(t, Right, s.active.Orientation)
		assert.Equal(t, Position{Row: 0, Col: 3}, s.active.Position)
		assert.Equal(t, Rotate(I.Shape(), Clockwise), s.active.Shape)
	})

	t.Run("kick off the left wall", func(t *testing.T) {
		s := newTestSession(t)
		force(s, T, Position{Row: 5, Col: -1})
		s.active.Shape = Rotate(T.Shape(), Clockwise)
		s.active.Orientation = Right
		require.True(t, IsValid(s.active.Shape, s.grid, s.active.Position))

		// R->2 pokes out of column 0; (0,2) is the first offset in bounds
		assert.True(t, s.HandleInput(Press(RotateCW, 0)))
		assert.Equal(t, Two, s.active.Orientation)
		assert.Equal(t, Position{Row: 5, Col: 1}, s.active.Position)
		assert.Equal(t, Rotate(Rotate(T.Shape(), Clockwise), Clockwise), s.active.Shape)
	})

	t.Run("orientation unchanged when every kick fails", func(t *testing.T) {
		s := newTestSession(t)
		pos := Position{Row: 10, Col: 3}
		force(s, T, pos)

		for row := range s.grid.Height() {
			for col := range s.grid.Width() {
				s.grid.Set(row, col, Z.ID())
			}
		}
		for i, j := range T.Shape().Cells() {
			s.grid.Set(pos.Row+i, pos.Col+j, Empty)
		}

		assert.False(t, s.HandleInput(Press(RotateCW, 0)))
		assert.False(t, s.HandleInput(Press(RotateCCW, 0)))
		assert.Equal(t, Spawn, s.active.Orientation)
		assert.Equal(t, T.Shape(), s.active.Shape)
		assert.Equal(t, pos, s.active.Position)
	})

	t.Run("counter-clockwise cycle", func(t *testing.T) {
		s := newTestSession(t)
		force(s, T, Position{Row: 8, Col: 3})

		var seen []Orientation
		for range 4 {
			require.True(t, s.HandleInput(Press(RotateCCW, 0)))
			seen = append(seen, s.active.Orientation)
		}
		assert.Equal(t, []Orientation{Left, Two, Right, Spawn}, seen)
		assert.Equal(t, T.Shape(), s.active.Shape)
	})
}

func TestHardDropClearsSingle(t *testing.T) {
	s := newTestSession(t)

	fillCells(s, S.ID(), []int{19}, 9)
	s.grid.Set(18, 4, T.ID())

	force(s, I, Position{Row: 0, Col: 7})
	s.active.Shape = Rotate(I.Shape(), Clockwise)
	s.active.Orientation = Right
	assert.Equal(t, Position{Row: 16, Col: 7}, s.Shadow())

	require.True(t, s.HandleInput(Press(HardDrop, 0)))

	want := make([][]Cell, 20)
	for i := range want {
		want[i] = make([]Cell, 10)
	}
	want[17][9], want[18][9], want[19][9] = I.ID(), I.ID(), I.ID()
	want[19][4] = T.ID()
	if diff := cmp.Diff(want, s.grid.Rows()); diff != "" {
		t.Errorf("grid after clear (-want +got):\n%s", diff)
	}

	assert.Equal(t, 1, s.Score())
	assert.Equal(t, LineClears{Single: 1}, s.LineClears())
	assert.Equal(t, 1, s.Locked())
	assert.Equal(t, PhaseFalling, s.Phase())
}

func TestQuadrupleClear(t *testing.T) {
	s := newTestSession(t)
	fillCells(s, L.ID(), []int{16, 17, 18, 19}, 0)

	force(s, I, Position{Row: 0, Col: -2})
	s.active.Shape = Rotate(I.Shape(), Clockwise)
	s.active.Orientation = Right

	require.True(t, s.HandleInput(Press(HardDrop, 0)))
	assert.Equal(t, 4, s.Score())
	assert.Equal(t, LineClears{Quadruple: 1}, s.LineClears())
	assert.Equal(t, 4, s.LineClears().Lines())
}

func TestHold(t *testing.T) {
	t.Run("first hold takes the lookahead", func(t *testing.T) {
		s := newTestSession(t)
		force(s, T, Position{Row: 6, Col: 1})
		s.active.Orientation = Right
		next := s.Next()
		drawn := s.TotalPieces()

		require.True(t, s.HandleInput(Press(Hold, 0)))

		held, ok := s.Held()
		require.True(t, ok)
		assert.Equal(t, T, held)
		assert.Equal(t, next, s.active.Type)
		assert.Equal(t, Spawn, s.active.Orientation)
		assert.Equal(t, s.spawnPosition(), s.active.Position)
		assert.Equal(t, drawn+1, s.TotalPieces())
		assert.False(t, s.HoldAvailable())
	})

	t.Run("second hold before lock is a no-op", func(t *testing.T) {
		s := newTestSession(t)
		force(s, T, s.spawnPosition())

		require.True(t, s.HandleInput(Press(Hold, 0)))
		active := s.active
		next := s.Next()

		assert.False(t, s.HandleInput(Press(Hold, 0)))
		assert.Equal(t, active, s.active)
		assert.Equal(t, next, s.Next())
		held, _ := s.Held()
		assert.Equal(t, T, held)
	})

	t.Run("swap after lock", func(t *testing.T) {
		s := newTestSession(t)
		force(s, T, s.spawnPosition())
		require.True(t, s.HandleInput(Press(Hold, 0)))
		require.True(t, s.HandleInput(Press(HardDrop, 0)))
		require.True(t, s.HoldAvailable())

		current := s.active.Type
		require.True(t, s.HandleInput(Press(Hold, 0)))
		assert.Equal(t, T, s.active.Type)
		held, _ := s.Held()
		assert.Equal(t, current, held)
	})

	t.Run("refused when the incoming piece cannot spawn", func(t *testing.T) {
		s := newTestSession(t)
		force(s, O, Position{Row: 10, Col: 3})
		s.held = I
		fillCells(s, Z.ID(), []int{1}, 0)

		assert.False(t, s.HandleInput(Press(Hold, 0)))
		assert.Equal(t, O, s.active.Type)
		held, _ := s.Held()
		assert.Equal(t, I, held)
		assert.True(t, s.HoldAvailable())
	})
}

func TestSpawnBlockedEndsGame(t *testing.T) {
	s := newTestSession(t)
	force(s, O, Position{Row: 17, Col: 0})
	fillCells(s, Z.ID(), []int{1, 2}, 9)

	require.True(t, s.HandleInput(Press(HardDrop, 0)))

	assert.True(t, s.GameOver())
	assert.Equal(t, PhaseGameOver, s.Phase())
	_, ok := s.Active()
	assert.False(t, ok)

	grid := s.grid.Rows()
	for _, action := range []Action{MoveLeft, MoveRight, SoftDrop, HardDrop, RotateCW, RotateCCW, Hold} {
		assert.False(t, s.HandleInput(Press(action, 0)), action.String())
	}
	s.AdvanceTime(10 * time.Second)
	assert.Equal(t, grid, s.grid.Rows())
	assert.Equal(t, PhaseGameOver, s.Phase())
	assert.Equal(t, 1, s.Locked())
}

func TestGravity(t *testing.T) {
	t.Run("one row per interval", func(t *testing.T) {
		s := newTestSession(t)
		force(s, T, s.spawnPosition())

		s.AdvanceTime(499 * ms)
		assert.Equal(t, 0, s.active.Position.Row)

		s.AdvanceTime(500 * ms)
		assert.Equal(t, 1, s.active.Position.Row)

		s.AdvanceTime(1600 * ms)
		assert.Equal(t, 3, s.active.Position.Row)
	})

	t.Run("catch-up stops at lock", func(t *testing.T) {
		s := newTestSession(t)
		force(s, O, Position{Row: 17, Col: 3})

		s.AdvanceTime(10 * time.Second)
		assert.Equal(t, 1, s.Locked())
		assert.Equal(t, 0, s.active.Position.Row)

		s.AdvanceTime(10*time.Second + 499*ms)
		assert.Equal(t, 0, s.active.Position.Row)
		s.AdvanceTime(10*time.Second + 500*ms)
		assert.Equal(t, 1, s.active.Position.Row)
	})
}

func TestAutoShift(t *testing.T) {
	t.Run("repeats after the delay", func(t *testing.T) {
		s := newTestSession(t)
		force(s, O, s.spawnPosition())

		require.True(t, s.HandleInput(Press(MoveLeft, 0)))
		assert.Equal(t, 2, s.active.Position.Col)

		s.AdvanceTime(99 * ms)
		assert.Equal(t, 2, s.active.Position.Col)

		s.AdvanceTime(100 * ms)
		assert.Equal(t, 1, s.active.Position.Col)

		s.AdvanceTime(149 * ms)
		assert.Equal(t, 1, s.active.Position.Col)

		s.AdvanceTime(150 * ms)
		assert.Equal(t, 0, s.active.Position.Col)

		s.AdvanceTime(250 * ms)
		assert.Equal(t, -1, s.active.Position.Col)

		s.HandleInput(ReleaseKey(MoveLeft, 260*ms))
		assert.False(t, s.KeyHeld(MoveLeft))
	})

	t.Run("first repeat waits the delay, not the interval", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Seed = 1234
		cfg.DASDelay = 20 * ms
		cfg.DASInterval = 100 * ms
		s, err := NewSession(cfg)
		require.NoError(t, err)
		force(s, O, s.spawnPosition())

		require.True(t, s.HandleInput(Press(MoveLeft, 0)))
		assert.Equal(t, 2, s.active.Position.Col)

		s.AdvanceTime(19 * ms)
		assert.Equal(t, 2, s.active.Position.Col)

		s.AdvanceTime(30 * ms)
		assert.Equal(t, 1, s.active.Position.Col, "first repeat due at 20ms")

		s.AdvanceTime(99 * ms)
		assert.Equal(t, 1, s.active.Position.Col)

		s.AdvanceTime(120 * ms)
		assert.Equal(t, 0, s.active.Position.Col, "second repeat one interval after the first")

		s.AdvanceTime(219 * ms)
		assert.Equal(t, 0, s.active.Position.Col)
		s.AdvanceTime(220 * ms)
		assert.Equal(t, -1, s.active.Position.Col)
	})

	t.Run("re-press restarts the delay", func(t *testing.T) {
		s := newTestSession(t)
		force(s, O, s.spawnPosition())

		s.HandleInput(Press(MoveLeft, 0))
		s.AdvanceTime(100 * ms)
		assert.Equal(t, 1, s.active.Position.Col)

		s.HandleInput(ReleaseKey(MoveLeft, 110*ms))
		s.HandleInput(Press(MoveLeft, 120*ms))
		assert.Equal(t, 0, s.active.Position.Col)

		s.AdvanceTime(219 * ms)
		assert.Equal(t, 0, s.active.Position.Col)
		s.AdvanceTime(220 * ms)
		assert.Equal(t, -1, s.active.Position.Col)
	})

	t.Run("no repeat after release", func(t *testing.T) {
		s := newTestSession(t)
		force(s, O, s.spawnPosition())

		s.HandleInput(Press(MoveRight, 0))
		s.HandleInput(ReleaseKey(MoveRight, 50*ms))
		s.AdvanceTime(400 * ms)
		assert.Equal(t, 4, s.active.Position.Col)
	})

	t.Run("catch-up stops at the wall", func(t *testing.T) {
		s := newTestSession(t)
		force(s, O, s.spawnPosition())

		s.HandleInput(Press(MoveRight, 0))
		s.AdvanceTime(300 * ms)
		assert.Equal(t, 7, s.active.Position.Col)
		assert.True(t, s.KeyHeld(MoveRight))
	})

	t.Run("directions are independent", func(t *testing.T) {
		s := newTestSession(t)
		force(s, O, s.spawnPosition())

		s.HandleInput(Press(MoveLeft, 0))
		s.HandleInput(Press(MoveRight, 80*ms))
		assert.Equal(t, 3, s.active.Position.Col)

		// left repeats at 100ms, right not before 180ms
		s.AdvanceTime(120 * ms)
		assert.Equal(t, 2, s.active.Position.Col)
		assert.True(t, s.KeyHeld(MoveLeft))
		assert.True(t, s.KeyHeld(MoveRight))
	})

	t.Run("held soft drop locks and keeps falling", func(t *testing.T) {
		s := newTestSession(t)
		force(s, O, Position{Row: 15, Col: 3})

		s.HandleInput(Press(SoftDrop, 0))
		assert.Equal(t, 16, s.active.Position.Row)

		s.AdvanceTime(100 * ms)
		assert.Equal(t, 17, s.active.Position.Row)

		s.AdvanceTime(150 * ms)
		assert.Equal(t, 1, s.Locked())
		assert.Equal(t, 0, s.active.Position.Row)

		s.AdvanceTime(200 * ms)
		assert.Equal(t, 1, s.active.Position.Row)
	})
}

func TestResetAndTiming(t *testing.T) {
	s := newTestSession(t)
	force(s, T, s.spawnPosition())

	s.AdvanceTime(2 * time.Second)
	assert.Equal(t, 2*time.Second, s.Elapsed())
	assert.InDelta(t, 1.0, s.PiecesPerSecond(), 1e-9)

	s.HandleInput(Press(Hold, 2*time.Second))
	s.HandleInput(Press(HardDrop, 2*time.Second))
	s.HandleInput(Press(MoveLeft, 2*time.Second))

	s.Reset()
	assert.Equal(t, PhaseFalling, s.Phase())
	assert.Equal(t, 0, s.Score())
	assert.Equal(t, 0, s.Locked())
	assert.Equal(t, 2, s.TotalPieces())
	assert.Equal(t, time.Duration(0), s.Elapsed())
	assert.Equal(t, 0.0, s.PiecesPerSecond())
	assert.False(t, s.KeyHeld(MoveLeft))
	_, held := s.Held()
	assert.False(t, held)
	for _, row := range s.grid.Rows() {
		for _, c := range row {
			require.Equal(t, Empty, c)
		}
	}

	stats := s.SystemStats()
	require.Len(t, stats.Systems, 3)
	assert.Equal(t, "ClockSystem", stats.Systems[0].Name)
	assert.Equal(t, "AutoShiftSystem", stats.Systems[1].Name)
	assert.Equal(t, "GravitySystem", stats.Systems[2].Name)
	assert.Equal(t, int64(1), stats.Systems[2].ExecutionCount)
}

func TestClockIgnoresEarlierTime(t *testing.T) {
	s := newTestSession(t)

	s.AdvanceTime(2 * time.Second)
	s.AdvanceTime(time.Second)
	assert.Equal(t, 2*time.Second, s.Elapsed())

	s.AdvanceTime(2500 * ms)
	assert.Equal(t, 2500*ms, s.Elapsed())
}

func TestQueriesReturnCopies(t *testing.T) {
	s := newTestSession(t)

	g := s.Grid()
	g.Set(19, 0, 7)
	assert.False(t, s.grid.Occupied(19, 0))

	counts := s.PieceCounts()
	counts[T] = 100
	assert.NotEqual(t, 100, s.PieceCounts()[T])
}

func TestValidateKickTable(t *testing.T) {
	require.NoError(t, validateKicks())

	copyTable := func(table map[string][]Offset) map[string][]Offset {
		out := make(map[string][]Offset, len(table))
		for k, v := range table {
			out[k] = v
		}
		return out
	}

	missing := copyTable(otherKicks)
	delete(missing, "R->2")
	err := validateKickTable(KickOthers, missing)
	assert.ErrorIs(t, err, ErrKickTable)
	assert.Contains(t, err.Error(), "R->2")

	empty := copyTable(iKicks)
	empty["L->0"] = nil
	assert.ErrorIs(t, validateKickTable(KickI, empty), ErrKickTable)

	shifted := copyTable(otherKicks)
	shifted["0->R"] = []Offset{{-1, 0}, {0, 0}}
	assert.ErrorIs(t, validateKickTable(KickOthers, shifted), ErrKickTable)
}

type dropOnce struct {
	session *Session
	cancel  context.CancelFunc
	at      time.Duration
}

func (d *dropOnce) Execute(frame *engine.Frame) {
	if d.at == 0 && frame.Now > 0 {
		d.at = frame.Now
		d.session.HandleInput(Press(HardDrop, frame.Now))
		d.cancel()
	}
}

func TestRunDrivesRegisteredSystems(t *testing.T) {
	s := newTestSession(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	drop := &dropOnce{session: s, cancel: cancel}
	s.Register(drop)
	s.Run(ctx, time.Millisecond)

	assert.Positive(t, drop.at)
	assert.Equal(t, 1, s.Locked())
	assert.GreaterOrEqual(t, s.Elapsed(), drop.at)

	stats := s.SystemStats()
	require.Len(t, stats.Systems, 4)
	assert.Equal(t, "dropOnce", stats.Systems[3].Name)
}
