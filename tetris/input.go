package tetris

import (
	"fmt"
	"time"
)

// Action is a player command forwarded by the presentation layer.
type Action uint8

const (
	MoveLeft Action = iota
	MoveRight
	SoftDrop
	HardDrop
	RotateCW
	RotateCCW
	Hold
)

func (a Action) String() string {
	switch a {
	case MoveLeft:
		return "move-left"
	case MoveRight:
		return "move-right"
	case SoftDrop:
		return "soft-drop"
	case HardDrop:
		return "hard-drop"
	case RotateCW:
		return "rotate-cw"
	case RotateCCW:
		return "rotate-ccw"
	case Hold:
		return "hold"
	}
	return fmt.Sprintf("Action(%d)", uint8(a))
}

// Repeats reports whether holding the action's key auto-repeats it.
func (a Action) Repeats() bool {
	return a == MoveLeft || a == MoveRight || a == SoftDrop
}

// Input is a raw key event. At is on the same timeline as AdvanceTime.
// Release marks key-up; it only matters for repeating actions.
type Input struct {
	Action  Action
	Release bool
	At      time.Duration
}

// Press is shorthand for a key-down Input.
func Press(a Action, at time.Duration) Input {
	return Input{Action: a, At: at}
}

// ReleaseKey is shorthand for a key-up Input.
func ReleaseKey(a Action, at time.Duration) Input {
	return Input{Action: a, Release: true, At: at}
}

// Transitions returns the inputs for one key's edges within a single host
// frame, key-down first, so a tap seen in one frame leaves the key released.
func Transitions(a Action, at time.Duration, pressed, released bool) []Input {
	var inputs []Input
	if pressed {
		inputs = append(inputs, Press(a, at))
	}
	if released {
		inputs = append(inputs, ReleaseKey(a, at))
	}
	return inputs
}

// heldKey is the delayed auto-shift state of one repeating action.
type heldKey struct {
	held       bool
	repeated   bool
	pressedAt  time.Duration
	lastRepeat time.Duration
}

// autoShifter implements delayed auto-shift for the three repeating actions.
// Each key tracks when it became active and when it last repeated.
type autoShifter struct {
	delay    time.Duration
	interval time.Duration
	keys     [SoftDrop + 1]heldKey
}

// press arms the key and reports whether it was newly pressed.
func (a *autoShifter) press(action Action, at time.Duration) bool {
	k := &a.keys[action]
	if k.held {
		return false
	}
	*k = heldKey{held: true, pressedAt: at}
	return true
}

func (a *autoShifter) release(action Action) {
	a.keys[action] = heldKey{}
}

func (a *autoShifter) releaseAll() {
	for i := range a.keys {
		a.keys[i] = heldKey{}
	}
}

// isHeld reports whether the key for action is currently down.
func (a *autoShifter) isHeld(action Action) bool {
	return action.Repeats() && a.keys[action].held
}

// due returns the time of the key's next repeat: the delay after the press
// for the first one, then one interval after the previous repeat.
func (a *autoShifter) due(action Action) time.Duration {
	k := &a.keys[action]
	if !k.repeated {
		return k.pressedAt + a.delay
	}
	return k.lastRepeat + a.interval
}

// repeat runs step for every repeat of action that is due by now. step
// reports whether the move took effect; the first failure ends the run and
// skips the repeats that were due, so a blocked key retries at the next slot.
func (a *autoShifter) repeat(action Action, now time.Duration, step func() bool) {
	k := &a.keys[action]
	if !k.held {
		return
	}

	for {
		due := a.due(action)
		if now < due {
			return
		}

		k.lastRepeat = due
		k.repeated = true
		if !step() {
			k.lastRepeat += (now - due) / a.interval * a.interval
			return
		}
	}
}
