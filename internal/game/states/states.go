package states

import (
	"errors"
	"time"

	"github.com/mitchelldurbincs/TreasureHunter/internal/game/core"
)

// SetupState is the placement stage
type SetupState struct{}

func NewSetupState() State {
	return &SetupState{}
}

func (s *SetupState) Stage() Stage {
	return StageSetup
}

func (s *SetupState) Enter(ctx *GameContext) error {
	ctx.Logger.Debug().Msg("Entering setup stage")
	return nil
}

func (s *SetupState) Exit(ctx *GameContext) error {
	ctx.Logger.Debug().Msg("Setup stage complete")
	return nil
}

func (s *SetupState) Validate(ctx *GameContext) error {
	return nil
}

// PlayState represents active gameplay
type PlayState struct{}

func NewPlayState() State {
	return &PlayState{}
}

func (s *PlayState) Stage() Stage {
	return StagePlay
}

func (s *PlayState) Enter(ctx *GameContext) error {
	ctx.StartTime = time.Now()
	ctx.Round = 1
	ctx.Logger.Info().
		Time("start_time", ctx.StartTime).
		Msg("Game started")
	return nil
}

func (s *PlayState) Exit(ctx *GameContext) error {
	ctx.Logger.Info().
		Int("round", ctx.Round).
		Dur("elapsed", ctx.GetElapsedTime()).
		Msg("Exiting play stage")
	return nil
}

func (s *PlayState) Validate(ctx *GameContext) error {
	if !ctx.HunterPlaced {
		return core.ErrSetupIncomplete
	}
	return nil
}

// EndState represents a finished game
type EndState struct{}

func NewEndState() State {
	return &EndState{}
}

func (s *EndState) Stage() Stage {
	return StageEnd
}

func (s *EndState) Enter(ctx *GameContext) error {
	ctx.EndTime = time.Now()
	ctx.Logger.Info().
		Str("reason", ctx.EndReason).
		Int("round", ctx.Round).
		Dur("game_duration", ctx.GetElapsedTime()).
		Msg("Game ended")
	return nil
}

func (s *EndState) Exit(ctx *GameContext) error {
	return nil
}

func (s *EndState) Validate(ctx *GameContext) error {
	if ctx.EndReason == "" {
		return errors.New("end stage requires a reason")
	}
	return nil
}
