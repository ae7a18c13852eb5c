package rules

import (
	"github.com/mitchelldurbincs/TreasureHunter/internal/game/entities"
	"github.com/rs/zerolog"
)

// Outcome is the final result of a finished game
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomePlayer
	OutcomeComputer
	OutcomeDraw
)

func (o Outcome) String() string {
	switch o {
	case OutcomePlayer:
		return "player"
	case OutcomeComputer:
		return "computer"
	case OutcomeDraw:
		return "draw"
	default:
		return "none"
	}
}

// OutcomeEvaluator determines the winner once the game has ended
type OutcomeEvaluator struct {
	logger zerolog.Logger
}

// NewOutcomeEvaluator creates a new outcome evaluator
func NewOutcomeEvaluator(logger zerolog.Logger) *OutcomeEvaluator {
	return &OutcomeEvaluator{
		logger: logger.With().Str("component", "OutcomeEvaluator").Logger(),
	}
}

// Evaluate returns the outcome for the registry's final state.
// A dead hunter, or one sharing a cell with a monster, always loses.
func (oe *OutcomeEvaluator) Evaluate(r *entities.Registry) Outcome {
	hunter, ok := r.Hunter()
	if !ok || !hunter.Alive || r.MonsterAt(hunter.Pos) >= 0 {
		oe.logger.Debug().Msg("Hunter is dead, computer wins")
		return OutcomeComputer
	}

	scores := r.Scores()
	var outcome Outcome
	switch {
	case scores.Player > scores.Computer:
		outcome = OutcomePlayer
	case scores.Computer > scores.Player:
		outcome = OutcomeComputer
	default:
		outcome = OutcomeDraw
	}

	oe.logger.Debug().
		Int("player_score", scores.Player).
		Int("computer_score", scores.Computer).
		Str("outcome", outcome.String()).
		Msg("Outcome determined by score")
	return outcome
}
