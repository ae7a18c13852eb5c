package states

import "fmt"

// Stage is the top-level state of a game
type Stage int

const (
	// StageSetup - pieces are being placed
	StageSetup Stage = iota

	// StagePlay - rounds are being played
	StagePlay

	// StageEnd - game over, terminal
	StageEnd
)

// String returns the string representation of a Stage
func (s Stage) String() string {
	switch s {
	case StageSetup:
		return "setup"
	case StagePlay:
		return "play"
	case StageEnd:
		return "end"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// IsTerminal returns true if the stage accepts no further transitions
func (s Stage) IsTerminal() bool {
	return s == StageEnd
}

// CanReceiveMoves returns true if hunter moves are accepted in this stage
func (s Stage) CanReceiveMoves() bool {
	return s == StagePlay
}

// CanPlaceEntities returns true if pieces may be placed in this stage
func (s Stage) CanPlaceEntities() bool {
	return s == StageSetup
}

// AllowedTransitions returns the valid stages this stage can transition to
func (s Stage) AllowedTransitions() []Stage {
	switch s {
	case StageSetup:
		return []Stage{StagePlay}
	case StagePlay:
		return []Stage{StageEnd}
	default:
		return []Stage{}
	}
}

// CanTransitionTo checks if a transition from this stage to the target stage is allowed
func (s Stage) CanTransitionTo(target Stage) bool {
	for _, stage := range s.AllowedTransitions() {
		if stage == target {
			return true
		}
	}
	return false
}
