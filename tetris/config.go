package tetris

import (
	"errors"
	"fmt"
	"time"
)

// MinDimension is the smallest width or height a session accepts: one piece
// box must fit.
const MinDimension = 4

var ErrInvalidTiming = errors.New("timing intervals must be positive")

// Config enumerates the tunables of a session.
type Config struct {
	Width  int
	Height int

	// GravityInterval is the time between automatic one-row drops.
	GravityInterval time.Duration
	// DASDelay is how long a movement key must be held before it repeats.
	DASDelay time.Duration
	// DASInterval is the time between repeats once DASDelay has elapsed.
	DASInterval time.Duration

	// Seed fixes the piece sequence. Zero picks a random seed.
	Seed uint64
}

// DefaultConfig returns the standard 10x20 setup.
func DefaultConfig() Config {
	return Config{
		Width:           10,
		Height:          20,
		GravityInterval: 500 * time.Millisecond,
		DASDelay:        100 * time.Millisecond,
		DASInterval:     50 * time.Millisecond,
	}
}

// Validate reports configuration errors. A failing config indicates a
// programming error in the caller, not a runtime condition.
func (c Config) Validate() error {
	if c.Width < MinDimension || c.Height < MinDimension {
		return fmt.Errorf("%dx%d below %dx%d: %w", c.Width, c.Height, MinDimension, MinDimension, ErrInvalidDimensions)
	}
	if c.GravityInterval <= 0 {
		return fmt.Errorf("gravity interval %s: %w", c.GravityInterval, ErrInvalidTiming)
	}
	if c.DASDelay <= 0 || c.DASInterval <= 0 {
		return fmt.Errorf("auto-shift %s/%s: %w", c.DASDelay, c.DASInterval, ErrInvalidTiming)
	}
	return nil
}
