package game

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/mitchelldurbincs/TreasureHunter/internal/game/ai"
	"github.com/mitchelldurbincs/TreasureHunter/internal/game/core"
	"github.com/mitchelldurbincs/TreasureHunter/internal/game/entities"
	"github.com/mitchelldurbincs/TreasureHunter/internal/game/events"
	"github.com/mitchelldurbincs/TreasureHunter/internal/game/rules"
	"github.com/mitchelldurbincs/TreasureHunter/internal/game/states"
	"github.com/rs/zerolog"
)

// GameConfig holds construction parameters for an Engine
type GameConfig struct {
	GridSize int
	// MaxTreasureValue is capped at DefaultMaxTreasureValue
	MaxTreasureValue int
	// EndReason is used by RequestEnd when the caller gives none
	EndReason string
	GameID    string
	// Seed feeds the monster AI when Rng is nil. Zero picks a time-based seed.
	// It is cleared when Rng is set.
	Seed   int64
	Rng    *rand.Rand
	Logger zerolog.Logger
}

// EngineInitializer handles the initialization of a game engine
type EngineInitializer struct {
	config GameConfig
	logger zerolog.Logger
}

// NewEngineInitializer creates a new engine initializer
func NewEngineInitializer(cfg GameConfig) *EngineInitializer {
	logger := cfg.Logger.With().Str("component", "GameEngine").Logger()
	return &EngineInitializer{
		config: cfg,
		logger: logger,
	}
}

// Initialize creates a new engine in the setup stage
func (ei *EngineInitializer) Initialize(ctx context.Context) (*Engine, error) {
	select {
	case <-ctx.Done():
		ei.logger.Error().Err(ctx.Err()).Msg("Engine creation cancelled or timed out")
		return nil, ctx.Err()
	default:
	}

	ei.setupDefaults()
	engine := ei.createEngine()

	ei.logger.Info().
		Str("game_id", engine.gameID).
		Int("grid_size", ei.config.GridSize).
		Int64("seed", ei.config.Seed).
		Msg("Engine created successfully")

	return engine, nil
}

// setupDefaults sets up default values for missing configuration
func (ei *EngineInitializer) setupDefaults() {
	if ei.config.GridSize <= 0 {
		ei.config.GridSize = core.DefaultGridSize
	}
	if ei.config.MaxTreasureValue <= 0 || ei.config.MaxTreasureValue > DefaultMaxTreasureValue {
		ei.config.MaxTreasureValue = DefaultMaxTreasureValue
	}
	if ei.config.EndReason == "" {
		ei.config.EndReason = ReasonPlayerEnded
	}
	if ei.config.GameID == "" {
		ei.config.GameID = uuid.New().String()
	}
	if ei.config.Rng != nil && ei.config.Seed != 0 {
		// The seed cannot describe an injected source
		ei.logger.Warn().Int64("seed", ei.config.Seed).Msg("Seed ignored because an RNG was provided")
		ei.config.Seed = 0
	}
	if ei.config.Rng == nil {
		if ei.config.Seed == 0 {
			ei.config.Seed = time.Now().UnixNano()
		}
		ei.logger.Debug().Int64("seed", ei.config.Seed).Msg("No RNG provided, creating seeded RNG")
		ei.config.Rng = rand.New(rand.NewSource(ei.config.Seed))
	}
}

// createEngine creates the engine with all its components
func (ei *EngineInitializer) createEngine() *Engine {
	eventBus := events.NewEventBus(ei.logger)

	gameContext := states.NewGameContext(ei.config.GameID, ei.logger)

	engine := &Engine{
		registry:         entities.NewRegistry(core.NewGrid(ei.config.GridSize)),
		logger:           ei.logger,
		eventBus:         eventBus,
		gameID:           ei.config.GameID,
		seed:             ei.config.Seed,
		maxTreasureValue: ei.config.MaxTreasureValue,
		defaultEnd:       ei.config.EndReason,
		stateMachine:     states.NewStateMachine(gameContext, eventBus),
		monsterAI:        ai.NewMonsterAI(ei.config.Rng, ei.logger),
		movement:         rules.NewMovementChecker(),
		outcomes:         rules.NewOutcomeEvaluator(ei.logger),
	}
	engine.turnProcessor = NewTurnProcessor(engine)

	return engine
}
