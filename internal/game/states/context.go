package states

import (
	"time"

	"github.com/rs/zerolog"
)

// GameContext provides game-specific information to states for making decisions
type GameContext struct {
	// GameID uniquely identifies this game instance
	GameID string

	// Logger for state-specific logging
	Logger zerolog.Logger

	// HunterPlaced is set by the engine once the hunter is on the board
	HunterPlaced bool

	// Round is the current round, valid from the play stage on
	Round int

	// StartTime is when play began
	StartTime time.Time

	// EndTime is when the end stage was entered
	EndTime time.Time

	// EndReason explains why the game ended
	EndReason string
}

// NewGameContext creates a new game context
func NewGameContext(gameID string, logger zerolog.Logger) *GameContext {
	return &GameContext{
		GameID: gameID,
		Logger: logger.With().Str("game_id", gameID).Logger(),
	}
}

// GetElapsedTime returns the play time so far, or the total once ended
func (gc *GameContext) GetElapsedTime() time.Duration {
	if gc.StartTime.IsZero() {
		return 0
	}
	if !gc.EndTime.IsZero() {
		return gc.EndTime.Sub(gc.StartTime)
	}
	return time.Since(gc.StartTime)
}
