package main

import (
	"context"
	"fmt"
	"time"

	"github.com/plus3/blockfall/engine"
	"github.com/plus3/blockfall/tetris"
)

// Reasons a simulated game stopped.
const (
	endGameOver    = "game over"
	endPieceLimit  = "piece limit"
	endInterrupted = "interrupt"
)

// GameResult is the outcome of one simulated game.
type GameResult struct {
	Game        int
	Seed        uint64
	Lines       int
	Locked      int
	Drawn       int
	Clears      tetris.LineClears
	PieceCounts map[tetris.PieceType]int
	GameTime    time.Duration
	PiecesPerS  float64
	Ended       string
	Systems     []engine.SystemStats
}

// pilot steers pieces towards the bot's chosen placement one key tap at a
// time, the way a player would.
type pilot struct {
	bot     weights
	session *tetris.Session
	plan    placement
	planned bool
	locks   int
}

// tap presses and releases a key at now and reports whether the press took
// effect.
func (p *pilot) tap(action tetris.Action, now time.Duration) bool {
	changed := p.session.HandleInput(tetris.Press(action, now))
	p.session.HandleInput(tetris.ReleaseKey(action, now))
	return changed
}

// step performs the next tap for the current piece: rotate, then shift, then
// hard drop. A new plan is made whenever a piece has locked since the last one.
func (p *pilot) step(now time.Duration) {
	s := p.session
	piece, ok := s.Active()
	if !ok {
		return
	}

	if !p.planned || s.Locked() != p.locks {
		p.locks = s.Locked()
		p.plan, p.planned = p.bot.choose(s.Grid(), piece)
		if !p.planned {
			p.tap(tetris.HardDrop, now)
			return
		}
	}

	switch {
	case p.plan.Rotations > 0:
		p.plan.Rotations--
		p.tap(tetris.RotateCW, now)
	case piece.Position.Col != p.plan.Col:
		action := tetris.MoveRight
		if piece.Position.Col > p.plan.Col {
			action = tetris.MoveLeft
		}
		if !p.tap(action, now) {
			// blocked: drop from here
			p.plan.Col = piece.Position.Col
		}
	default:
		p.tap(tetris.HardDrop, now)
	}
}

// pilotSystem runs the pilot inside the session's own cycle and stops the
// run once the game ends or reaches the piece limit.
type pilotSystem struct {
	pilot     *pilot
	maxPieces int
	ended     string
	cancel    context.CancelFunc
}

func (s *pilotSystem) Execute(frame *engine.Frame) {
	if s.ended != "" {
		return
	}

	session := s.pilot.session
	switch {
	case session.GameOver():
		s.ended = endGameOver
	case session.Locked() >= s.maxPieces:
		s.ended = endPieceLimit
	default:
		s.pilot.step(frame.Now)
		return
	}
	s.cancel()
}

// simulator plays sessions with a greedy bot. Headless games advance time by
// a fixed frame after every tap; realtime games run on the wall clock.
type simulator struct {
	bot       weights
	frame     time.Duration
	maxPieces int
	realtime  bool
}

func (s *simulator) play(ctx context.Context, cfg tetris.Config) (GameResult, error) {
	session, err := tetris.NewSession(cfg)
	if err != nil {
		return GameResult{}, fmt.Errorf("play seed %d: %w", cfg.Seed, err)
	}

	p := &pilot{bot: s.bot, session: session}
	var ended string
	if s.realtime {
		ended = s.runRealtime(ctx, session, p)
	} else {
		ended = s.runHeadless(ctx, session, p)
	}

	return GameResult{
		Seed:        cfg.Seed,
		Lines:       session.Score(),
		Locked:      session.Locked(),
		Drawn:       session.TotalPieces(),
		Clears:      session.LineClears(),
		PieceCounts: session.PieceCounts(),
		GameTime:    session.Elapsed(),
		PiecesPerS:  session.PiecesPerSecond(),
		Ended:       ended,
		Systems:     session.SystemStats().Systems,
	}, nil
}

func (s *simulator) runHeadless(ctx context.Context, session *tetris.Session, p *pilot) string {
	var now time.Duration
	for session.Locked() < s.maxPieces {
		if ctx.Err() != nil {
			return endInterrupted
		}
		if session.GameOver() {
			return endGameOver
		}

		p.step(now)
		now += s.frame
		session.AdvanceTime(now)
	}
	return endPieceLimit
}

func (s *simulator) runRealtime(ctx context.Context, session *tetris.Session, p *pilot) string {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	system := &pilotSystem{pilot: p, maxPieces: s.maxPieces, cancel: cancel}
	session.Register(system)
	session.Run(ctx, s.frame)

	if system.ended == "" {
		return endInterrupted
	}
	return system.ended
}
