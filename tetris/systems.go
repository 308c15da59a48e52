package tetris

import (
	"github.com/plus3/blockfall/engine"
)

// ClockSystem advances the session's current time by the cycle's delta.
// An earlier cycle time has a zero delta and leaves the clock where it is.
type ClockSystem struct {
	session *Session
}

func (s *ClockSystem) Execute(frame *engine.Frame) {
	s.session.now += frame.Delta
}

// AutoShiftSystem repeats held movement keys once their delay has elapsed.
type AutoShiftSystem struct {
	session *Session
}

func (s *AutoShiftSystem) Execute(frame *engine.Frame) {
	session := s.session
	for _, action := range [...]Action{MoveLeft, MoveRight, SoftDrop} {
		if session.phase != PhaseFalling {
			return
		}
		session.shift.repeat(action, frame.Now, func() bool {
			return session.step(action)
		})
	}
}

// GravitySystem drops the active piece one row per gravity interval and
// locks it when it cannot fall.
type GravitySystem struct {
	session *Session
}

func (s *GravitySystem) Execute(frame *engine.Frame) {
	session := s.session
	interval := session.cfg.GravityInterval

	for session.phase == PhaseFalling && frame.Now-session.lastFall >= interval {
		session.lastFall += interval
		if !session.fall() {
			session.lastFall = frame.Now
			return
		}
	}
}
