package tetris

import "fmt"

// Phase is the session's position in the piece lifecycle.
type Phase uint8

const (
	PhaseSpawning Phase = iota
	PhaseFalling
	PhaseLocking
	PhaseLineClear
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseSpawning:
		return "spawning"
	case PhaseFalling:
		return "falling"
	case PhaseLocking:
		return "locking"
	case PhaseLineClear:
		return "line-clear"
	case PhaseGameOver:
		return "game-over"
	}
	return fmt.Sprintf("Phase(%d)", uint8(p))
}

// phaseTransitions lists the legal successors of each phase. GameOver has
// none; only Reset leaves it.
var phaseTransitions = [...][]Phase{
	PhaseSpawning:  {PhaseFalling, PhaseGameOver},
	PhaseFalling:   {PhaseLocking},
	PhaseLocking:   {PhaseLineClear},
	PhaseLineClear: {PhaseSpawning},
	PhaseGameOver:  nil,
}

// CanTransition reports whether the lifecycle allows moving from p to next.
func (p Phase) CanTransition(next Phase) bool {
	if int(p) >= len(phaseTransitions) {
		return false
	}
	for _, allowed := range phaseTransitions[p] {
		if allowed == next {
			return true
		}
	}
	return false
}
