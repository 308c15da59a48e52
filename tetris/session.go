package tetris

import (
	"context"
	"fmt"
	"time"

	"github.com/plus3/blockfall/engine"
)

// ActivePiece is the falling piece under player control.
type ActivePiece struct {
	Type        PieceType
	Shape       Shape
	Orientation Orientation
	Position    Position
}

// Session is one game: grid, falling piece, lookahead, hold slot, score and
// statistics. It is not safe for concurrent use; drive it from one goroutine.
type Session struct {
	cfg       Config
	grid      *Grid
	bag       *Bag
	stats     *Statistics
	scheduler *engine.Scheduler
	shift     autoShifter

	phase    Phase
	active   ActivePiece
	next     PieceType
	held     PieceType
	holdUsed bool

	score int
	locks int

	now       time.Duration
	startedAt time.Duration
	lastFall  time.Duration
}

// NewSession validates cfg and starts a game with the first piece falling.
func NewSession(cfg Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}
	if err := validateKicks(); err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}

	grid, err := NewGrid(cfg.Width, cfg.Height)
	if err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}

	bag := NewBag(nil)
	if cfg.Seed != 0 {
		bag = NewSeededBag(cfg.Seed)
	}

	s := &Session{
		cfg:       cfg,
		grid:      grid,
		bag:       bag,
		stats:     bag.Stats(),
		scheduler: engine.NewScheduler(),
		shift: autoShifter{
			delay:    cfg.DASDelay,
			interval: cfg.DASInterval,
		},
	}

	s.scheduler.Register(&ClockSystem{session: s})
	s.scheduler.Register(&AutoShiftSystem{session: s})
	s.scheduler.Register(&GravitySystem{session: s})

	s.start()
	return s, nil
}

// Reset abandons the current game and starts a new one at the session's
// current time. The piece sequence continues from the same random stream.
func (s *Session) Reset() {
	s.grid.Reset()
	s.bag.Reset()
	s.start()
}

func (s *Session) start() {
	s.shift.releaseAll()
	s.held = NoPiece
	s.holdUsed = false
	s.score = 0
	s.locks = 0
	s.startedAt = s.now
	s.lastFall = s.now

	s.phase = PhaseSpawning
	s.next = s.bag.Draw()
	s.spawn()
}

// enter moves the lifecycle to next. An illegal transition is a bug in the
// session itself.
func (s *Session) enter(next Phase) {
	if !s.phase.CanTransition(next) {
		panic(fmt.Sprintf("illegal phase transition %s -> %s", s.phase, next))
	}
	s.phase = next
}

func (s *Session) spawnPosition() Position {
	return Position{Row: 0, Col: s.cfg.Width/2 - 2}
}

func (s *Session) place(p PieceType) {
	s.active = ActivePiece{
		Type:        p,
		Shape:       p.Shape(),
		Orientation: Spawn,
		Position:    s.spawnPosition(),
	}
}

// spawn promotes the lookahead piece. A blocked spawn position ends the game.
func (s *Session) spawn() {
	p := s.next
	s.next = s.bag.Draw()
	s.place(p)

	if !IsValid(s.active.Shape, s.grid, s.active.Position) {
		s.enter(PhaseGameOver)
		return
	}

	s.holdUsed = false
	s.enter(PhaseFalling)
}

// lock commits the active piece, clears completed rows, scores them and
// spawns the next piece.
func (s *Session) lock() {
	s.enter(PhaseLocking)
	if err := s.grid.Lock(s.active.Shape, s.active.Type.ID(), s.active.Position); err != nil {
		panic(fmt.Sprintf("lock %s: %v", s.active.Type, err))
	}
	s.locks++

	s.enter(PhaseLineClear)
	cleared := s.grid.ClearFullRows()
	s.score += cleared
	s.stats.recordClear(cleared)
	s.holdUsed = false

	s.enter(PhaseSpawning)
	s.spawn()
}

// shiftBy moves the active piece when the destination is valid.
func (s *Session) shiftBy(rows, cols int) bool {
	target := Position{Row: s.active.Position.Row + rows, Col: s.active.Position.Col + cols}
	if !IsValid(s.active.Shape, s.grid, target) {
		return false
	}
	s.active.Position = target
	return true
}

// fall moves the piece down one row, locking it when it cannot move.
func (s *Session) fall() bool {
	if s.shiftBy(1, 0) {
		return true
	}
	s.lock()
	return false
}

// step performs one move for a repeating action and reports whether the
// piece moved.
func (s *Session) step(action Action) bool {
	switch action {
	case MoveLeft:
		return s.shiftBy(0, -1)
	case MoveRight:
		return s.shiftBy(0, 1)
	case SoftDrop:
		return s.fall()
	}
	return false
}

func (s *Session) rotate(dir Direction) bool {
	a := &s.active
	to := a.Orientation.Next(dir)
	rotated := Rotate(a.Shape, dir)
	pos := a.Position

	if !IsValid(rotated, s.grid, pos) {
		kicked, ok := ResolveRotation(rotated, a.Type, TransitionKey(a.Orientation, to), s.grid, pos)
		if !ok {
			return false
		}
		pos = kicked
	}

	a.Shape = rotated
	a.Orientation = to
	a.Position = pos
	return true
}

func (s *Session) hardDrop() bool {
	s.active.Position = ShadowPosition(s.active.Shape, s.grid, s.active.Position)
	s.lock()
	return true
}

// hold swaps the active piece with the hold slot, or parks it and takes the
// lookahead piece when the slot is empty. It is allowed once per piece and is
// refused when the incoming piece does not fit at the spawn position.
func (s *Session) hold() bool {
	if s.holdUsed {
		return false
	}

	incoming := s.held
	fromQueue := incoming == NoPiece
	if fromQueue {
		incoming = s.next
	}
	if !IsValid(incoming.Shape(), s.grid, s.spawnPosition()) {
		return false
	}

	s.held = s.active.Type
	if fromQueue {
		s.next = s.bag.Draw()
	}
	s.place(incoming)
	s.holdUsed = true
	return true
}

// HandleInput applies a key event and reports whether it changed the
// session. Key-down of a repeating action moves immediately and arms
// auto-shift; key-up disarms it. Rejected moves are not errors. Once the game
// is over only key-ups are accepted.
func (s *Session) HandleInput(in Input) bool {
	if in.Release {
		if in.Action.Repeats() {
			s.shift.release(in.Action)
		}
		return false
	}
	if s.phase != PhaseFalling {
		return false
	}

	switch in.Action {
	case MoveLeft, MoveRight, SoftDrop:
		if !s.shift.press(in.Action, in.At) {
			return false
		}
		locks := s.locks
		return s.step(in.Action) || s.locks != locks
	case HardDrop:
		return s.hardDrop()
	case RotateCW:
		return s.rotate(Clockwise)
	case RotateCCW:
		return s.rotate(CounterClockwise)
	case Hold:
		return s.hold()
	}
	return false
}

// AdvanceTime runs auto-shift and gravity up to now, the time since the
// session was created. It must be called every cycle, input or not.
func (s *Session) AdvanceTime(now time.Duration) {
	s.scheduler.Once(now)
}

// Register appends a host system that runs every cycle after auto-shift and
// gravity. It may call HandleInput; it runs on the cycle's goroutine.
func (s *Session) Register(system engine.System) {
	s.scheduler.Register(system)
}

// Run advances the session every interval of wall-clock time until ctx is
// cancelled. Game time continues from the session's current time. All input
// must then come from registered systems.
func (s *Session) Run(ctx context.Context, interval time.Duration) {
	s.scheduler.Run(ctx, interval)
}

// Phase returns the current lifecycle phase. Outside of a call it is either
// PhaseFalling or PhaseGameOver.
func (s *Session) Phase() Phase {
	return s.phase
}

// GameOver reports whether the session has ended.
func (s *Session) GameOver() bool {
	return s.phase == PhaseGameOver
}

// Grid returns a copy of the playfield.
func (s *Session) Grid() *Grid {
	return s.grid.Clone()
}

// Active returns the falling piece. The second result is false once the game
// is over; the piece is then the one that failed to spawn.
func (s *Session) Active() (ActivePiece, bool) {
	return s.active, s.phase == PhaseFalling
}

// Shadow returns where the active piece would land on a hard drop.
func (s *Session) Shadow() Position {
	return ShadowPosition(s.active.Shape, s.grid, s.active.Position)
}

// Next returns the lookahead piece.
func (s *Session) Next() PieceType {
	return s.next
}

// Held returns the piece in the hold slot, if any.
func (s *Session) Held() (PieceType, bool) {
	return s.held, s.held != NoPiece
}

// HoldAvailable reports whether a hold is allowed for the current piece.
func (s *Session) HoldAvailable() bool {
	return !s.holdUsed && s.phase == PhaseFalling
}

// KeyHeld reports whether the key for a repeating action is down.
func (s *Session) KeyHeld(action Action) bool {
	return s.shift.isHeld(action)
}

// Score returns the number of rows cleared this game.
func (s *Session) Score() int {
	return s.score
}

// Locked returns how many pieces have been committed to the grid.
func (s *Session) Locked() int {
	return s.locks
}

// PieceCounts returns how many times each piece type has been drawn.
func (s *Session) PieceCounts() map[PieceType]int {
	return s.stats.PieceCounts()
}

// LineClears returns the per-size line clear counters.
func (s *Session) LineClears() LineClears {
	return s.stats.LineClears()
}

// Statistics returns the session's live draw and line clear counters.
func (s *Session) Statistics() *Statistics {
	return s.stats
}

// TotalPieces returns the number of pieces drawn, including the lookahead.
func (s *Session) TotalPieces() int {
	return s.stats.TotalPieces()
}

// Elapsed returns the game time since the session (or last Reset) started.
func (s *Session) Elapsed() time.Duration {
	return s.now - s.startedAt
}

// PiecesPerSecond returns pieces drawn per second of elapsed game time.
func (s *Session) PiecesPerSecond() float64 {
	elapsed := s.Elapsed().Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(s.stats.TotalPieces()) / elapsed
}

// Config returns the configuration the session was created with.
func (s *Session) Config() Config {
	return s.cfg
}

// SystemStats returns timing statistics for the per-cycle systems.
func (s *Session) SystemStats() *engine.SchedulerStats {
	return s.scheduler.GetStats()
}
