package game

import (
	"context"
	"errors"
	"time"

	"github.com/mitchelldurbincs/TreasureHunter/internal/game/ai"
	"github.com/mitchelldurbincs/TreasureHunter/internal/game/core"
	"github.com/mitchelldurbincs/TreasureHunter/internal/game/entities"
	"github.com/mitchelldurbincs/TreasureHunter/internal/game/events"
	"github.com/mitchelldurbincs/TreasureHunter/internal/game/rules"
	"github.com/mitchelldurbincs/TreasureHunter/internal/game/states"
	"github.com/rs/zerolog"
)

// Engine owns a single game session and drives it from setup to end.
// It is not safe for concurrent use.
type Engine struct {
	registry *entities.Registry
	logger   zerolog.Logger
	eventBus *events.EventBus
	gameID   string
	seed     int64

	maxTreasureValue int
	defaultEnd       string

	stateMachine  *states.StateMachine
	monsterAI     *ai.MonsterAI
	movement      *rules.MovementChecker
	outcomes      *rules.OutcomeEvaluator
	turnProcessor *TurnProcessor
}

// NewEngine creates an engine in the setup stage
func NewEngine(ctx context.Context, cfg GameConfig) (*Engine, error) {
	return NewEngineInitializer(cfg).Initialize(ctx)
}

// PlaceEntity places a piece during setup. value is only used for treasures.
func (e *Engine) PlaceEntity(kind EntityKind, pos core.Position, value int) error {
	if !e.Stage().CanPlaceEntities() {
		return core.WrapSetupError(kind.String(), pos, core.ErrNotInSetup)
	}

	var err error
	switch kind {
	case KindHunter:
		err = e.registry.PlaceHunter(pos)
	case KindMonster:
		_, err = e.registry.AddMonster(pos)
	case KindObstacle:
		err = e.registry.AddObstacle(pos)
	case KindTreasure:
		if value < 1 || value > e.maxTreasureValue {
			err = core.ErrInvalidTreasureValue
		} else {
			err = e.registry.AddTreasure(pos, value)
		}
	default:
		err = core.ErrInvalidKind
	}
	if err != nil {
		e.logger.Debug().
			Err(err).
			Str("kind", kind.String()).
			Stringer("pos", pos).
			Msg("Placement rejected")
		return core.WrapSetupError(kind.String(), pos, err)
	}

	e.stateMachine.GetContext().HunterPlaced = e.registry.HasHunter()
	if kind != KindTreasure {
		value = 0
	}

	e.logger.Debug().
		Str("kind", kind.String()).
		Stringer("pos", pos).
		Int("value", value).
		Msg("Entity placed")
	e.eventBus.Publish(events.NewEntityPlacedEvent(e.gameID, kind.String(), pos, value))
	return nil
}

// CompleteSetup moves the game into play. It fails with ErrSetupIncomplete
// until a hunter has been placed.
func (e *Engine) CompleteSetup() error {
	if stage := e.Stage(); stage != states.StageSetup {
		return core.NewGameError(e.Round(), stage.String(), "complete setup", core.ErrStageViolation)
	}

	if err := e.stateMachine.TransitionTo(states.StagePlay, ReasonSetupDone); err != nil {
		e.logger.Warn().Err(err).Msg("Setup could not be completed")
		if errors.Is(err, core.ErrSetupIncomplete) {
			return core.ErrSetupIncomplete
		}
		return err
	}

	e.eventBus.Publish(events.NewGameStartedEvent(
		e.gameID,
		e.registry.Grid().Size,
		e.registry.MonsterCount(),
		e.registry.TreasureCount(),
		len(e.registry.Grid().Obstacles()),
	))
	return nil
}

// SubmitMoveInput parses a w/a/s/d or direction word and submits it
func (e *Engine) SubmitMoveInput(input string) (MoveResult, error) {
	if stage := e.Stage(); !stage.CanReceiveMoves() {
		return MoveResult{}, core.NewGameError(e.Round(), stage.String(), "submit move", core.ErrStageViolation)
	}
	dir, err := core.ParseDirection(input)
	if err != nil {
		e.logger.Debug().Str("input", input).Msg("Invalid direction input")
		return MoveResult{}, err
	}
	return e.SubmitMove(dir)
}

// SubmitMove plays one round: the hunter move and, if the game goes on, the monster phase.
// A rejected move leaves the session untouched and does not consume the turn.
func (e *Engine) SubmitMove(dir core.Direction) (MoveResult, error) {
	stage := e.Stage()
	if !stage.CanReceiveMoves() {
		return MoveResult{}, core.NewGameError(e.Round(), stage.String(), "submit move", core.ErrStageViolation)
	}
	if !dir.IsValid() {
		return MoveResult{}, core.NewGameError(e.Round(), stage.String(), "submit move", core.ErrInvalidDirection)
	}

	hunter, _ := e.registry.Hunter()
	target := hunter.Pos.Move(dir)
	if !e.registry.Grid().CanEnter(target) {
		e.logger.Debug().
			Int("round", e.Round()).
			Str("direction", dir.String()).
			Stringer("from", hunter.Pos).
			Stringer("target", target).
			Msg("Move rejected")
		e.eventBus.Publish(events.NewMoveRejectedEvent(e.gameID, e.Round(), dir.String(), hunter.Pos, target, core.ErrMoveRejected.Error()))
		return MoveResult{}, core.WrapMoveError(hunter.Pos, dir, core.ErrMoveRejected)
	}

	return e.turnProcessor.ProcessRound(dir, hunter.Pos, target), nil
}

// RequestEnd ends a game in play. An empty reason uses the configured default.
func (e *Engine) RequestEnd(reason string) error {
	if stage := e.Stage(); stage != states.StagePlay {
		return core.NewGameError(e.Round(), stage.String(), "request end", core.ErrStageViolation)
	}
	if reason == "" {
		reason = e.defaultEnd
	}
	return e.endGame(reason)
}

// endGame transitions to the end stage and announces the result
func (e *Engine) endGame(reason string) error {
	ctx := e.stateMachine.GetContext()
	ctx.EndReason = reason
	if err := e.stateMachine.TransitionTo(states.StageEnd, reason); err != nil {
		e.logger.Error().Err(err).Str("reason", reason).Msg("Failed to end game")
		return err
	}

	scores := e.registry.Scores()
	outcome := e.outcomes.Evaluate(e.registry)
	e.eventBus.Publish(events.NewGameEndedEvent(
		e.gameID,
		ctx.Round,
		reason,
		outcome.String(),
		scores.Player,
		scores.Computer,
		ctx.GetElapsedTime(),
	))
	return nil
}

// Stage returns the current stage
func (e *Engine) Stage() states.Stage {
	return e.stateMachine.CurrentStage()
}

// Round returns the current round; zero during setup
func (e *Engine) Round() int {
	return e.stateMachine.GetContext().Round
}

// TreasureCount returns the number of treasures still on the board
func (e *Engine) TreasureCount() int {
	return e.registry.TreasureCount()
}

// Scores returns both running totals
func (e *Engine) Scores() entities.Scores {
	return e.registry.Scores()
}

// Outcome returns the winner. It is only defined once the game has ended.
func (e *Engine) Outcome() (rules.Outcome, error) {
	if stage := e.Stage(); !stage.IsTerminal() {
		return rules.OutcomeNone, core.NewGameError(e.Round(), stage.String(), "outcome", core.ErrStageViolation)
	}
	return e.outcomes.Evaluate(e.registry), nil
}

// EndReason returns why the game ended, or "" while it is still running
func (e *Engine) EndReason() string {
	return e.stateMachine.GetContext().EndReason
}

// GameID returns the unique id of this game
func (e *Engine) GameID() string {
	return e.gameID
}

// Seed returns the seed the monster AI was created with, zero if an rng was injected
func (e *Engine) Seed() int64 {
	return e.seed
}

// EventBus returns the bus the engine publishes game events on
func (e *Engine) EventBus() *events.EventBus {
	return e.eventBus
}

// Elapsed returns the play time so far
func (e *Engine) Elapsed() time.Duration {
	return e.stateMachine.GetContext().GetElapsedTime()
}

// History returns the stage transitions taken so far
func (e *Engine) History() []states.Transition {
	return e.stateMachine.GetHistory()
}

// Snapshot returns a copy of the whole session
func (e *Engine) Snapshot() Snapshot {
	hunter, hasHunter := e.registry.Hunter()
	return Snapshot{
		GameID:    e.gameID,
		GridSize:  e.registry.Grid().Size,
		Stage:     e.Stage(),
		Round:     e.Round(),
		HasHunter: hasHunter,
		Hunter:    hunter,
		Monsters:  e.registry.Monsters(),
		Treasures: e.registry.Treasures(),
		Obstacles: e.registry.Grid().Obstacles(),
		Scores:    e.registry.Scores(),
		EndReason: e.EndReason(),
	}
}
