package game

import (
	"time"

	"github.com/mitchelldurbincs/TreasureHunter/internal/game/ai"
	"github.com/mitchelldurbincs/TreasureHunter/internal/game/core"
	"github.com/mitchelldurbincs/TreasureHunter/internal/game/events"
	"github.com/rs/zerolog"
)

// TurnProcessor handles the orchestration of a single round
type TurnProcessor struct {
	engine *Engine
	logger zerolog.Logger
}

// NewTurnProcessor creates a new turn processor
func NewTurnProcessor(engine *Engine) *TurnProcessor {
	return &TurnProcessor{
		engine: engine,
		logger: engine.logger,
	}
}

// ProcessRound applies an accepted hunter move from -> to, then runs the monster
// phase unless the game is already over.
func (tp *TurnProcessor) ProcessRound(dir core.Direction, from, to core.Position) MoveResult {
	e := tp.engine
	round := e.Round()
	roundLogger := tp.logger.With().Int("round", round).Logger()
	roundLogger.Debug().Msg("Starting round")
	start := time.Now()

	if reason, ended := tp.processHunterPhase(round, dir, from, to); ended {
		return tp.finish(reason)
	}
	if reason, ended := tp.checkEndConditions(); ended {
		return tp.finish(reason)
	}

	if reason, ended := tp.processMonsterPhase(round, roundLogger); ended {
		return tp.finish(reason)
	}
	if reason, ended := tp.checkEndConditions(); ended {
		return tp.finish(reason)
	}

	scores := e.registry.Scores()
	e.eventBus.Publish(events.NewRoundCompletedEvent(
		e.gameID,
		round,
		e.registry.TreasureCount(),
		scores.Player,
		scores.Computer,
		time.Since(start),
	))
	e.stateMachine.GetContext().Round++

	roundLogger.Debug().Msg("Round finished")
	return MoveResult{Applied: true}
}

// processHunterPhase moves the hunter onto an enterable cell. Walking onto a
// monster kills the hunter; a treasure there is collected.
func (tp *TurnProcessor) processHunterPhase(round int, dir core.Direction, from, to core.Position) (string, bool) {
	e := tp.engine
	r := e.registry

	if id := r.MonsterAt(to); id >= 0 {
		r.MoveHunter(to)
		r.KillHunter()
		e.eventBus.Publish(events.NewHunterMovedEvent(e.gameID, round, dir, from, to))
		e.eventBus.Publish(events.NewHunterDiedEvent(e.gameID, round, to, id, true))
		return ReasonHunterDied, true
	}

	value, collected := r.RemoveTreasure(to)
	if collected {
		r.AddPlayerScore(value)
	}
	r.MoveHunter(to)
	e.eventBus.Publish(events.NewHunterMovedEvent(e.gameID, round, dir, from, to))

	if collected {
		scores := r.Scores()
		e.eventBus.Publish(events.NewTreasureCollectedEvent(
			e.gameID, round, events.CollectorHunter, -1, to, value,
			scores.Player, scores.Computer, r.TreasureCount(),
		))
	}
	return "", false
}

// processMonsterPhase runs each monster in registration order. Every decision is
// applied before the next monster decides. A capture ends the phase.
func (tp *TurnProcessor) processMonsterPhase(round int, roundLogger zerolog.Logger) (string, bool) {
	e := tp.engine
	r := e.registry

	for id := 0; id < r.MonsterCount(); id++ {
		m, _ := r.Monster(id)
		d := e.monsterAI.Decide(r, m)
		e.eventBus.Publish(events.NewMonsterMovedEvent(e.gameID, round, d.MonsterID, d.Kind.String(), d.From, d.To))

		switch d.Kind {
		case ai.DecisionCapture:
			r.MoveMonster(d.MonsterID, d.To)
			r.KillHunter()
			e.eventBus.Publish(events.NewHunterDiedEvent(e.gameID, round, d.To, d.MonsterID, false))
			roundLogger.Debug().Int("monster_id", d.MonsterID).Msg("Hunter captured")
			return ReasonHunterDied, true
		case ai.DecisionCollect:
			r.MoveMonster(d.MonsterID, d.To)
			r.RemoveTreasure(d.To)
			r.AddComputerScore(d.Value)
			scores := r.Scores()
			e.eventBus.Publish(events.NewTreasureCollectedEvent(
				e.gameID, round, events.CollectorMonster, d.MonsterID, d.To, d.Value,
				scores.Player, scores.Computer, r.TreasureCount(),
			))
		case ai.DecisionWander:
			r.MoveMonster(d.MonsterID, d.To)
		}
	}
	return "", false
}

// checkEndConditions reports the first end condition that holds
func (tp *TurnProcessor) checkEndConditions() (string, bool) {
	e := tp.engine
	if e.registry.TreasureCount() == 0 {
		return ReasonNoTreasures, true
	}
	if !e.movement.MovementPossible(e.registry) {
		return ReasonNoMovement, true
	}
	return "", false
}

// finish ends the game for reason and builds the move result
func (tp *TurnProcessor) finish(reason string) MoveResult {
	if err := tp.engine.endGame(reason); err != nil {
		tp.logger.Error().Err(err).Msg("Round ended the game but the transition failed")
	}
	return MoveResult{Applied: true, GameEnded: true, Reason: reason}
}
