package game

import (
	"fmt"
	"math/rand"

	"github.com/mitchelldurbincs/TreasureHunter/internal/game/mapgen"
)

// layoutSeedMask derives the board generator's seed from the game seed so the
// monster RNG stream is untouched by board generation
const layoutSeedMask = 0x5eed

// PlaceLayout places generated pieces in order, stopping at the first failure
func (e *Engine) PlaceLayout(placements []mapgen.Placement) error {
	for _, p := range placements {
		kind, _, err := ParseEntityKind(p.Kind)
		if err != nil {
			return err
		}
		if err := e.PlaceEntity(kind, p.Pos, p.Value); err != nil {
			return err
		}
	}
	e.logger.Debug().Int("placements", len(placements)).Msg("Layout placed")
	return nil
}

// PlaceRandomBoard generates a board for this game's seed and places it.
// cfg.Size is forced to the engine's grid size.
func (e *Engine) PlaceRandomBoard(cfg mapgen.MapConfig) error {
	cfg.Size = e.registry.Grid().Size
	if cfg.MaxTreasureValue <= 0 || cfg.MaxTreasureValue > e.maxTreasureValue {
		cfg.MaxTreasureValue = e.maxTreasureValue
	}

	rng := rand.New(rand.NewSource(e.seed ^ layoutSeedMask))
	placements, err := mapgen.NewGenerator(cfg, rng).GenerateMap()
	if err != nil {
		return fmt.Errorf("failed to generate board: %w", err)
	}
	return e.PlaceLayout(placements)
}
