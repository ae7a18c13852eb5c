package mapgen

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/mitchelldurbincs/TreasureHunter/internal/common"
	"github.com/mitchelldurbincs/TreasureHunter/internal/game/core"
)

// ErrBoardFull is returned when the requested pieces do not fit on the grid
var ErrBoardFull = errors.New("not enough free cells for the requested pieces")

// Placement kinds, matching the engine's entity kind names
const (
	KindHunter   = "hunter"
	KindMonster  = "monster"
	KindObstacle = "obstacle"
	KindTreasure = "treasure"
)

// MapConfig holds configuration for random board generation
type MapConfig struct {
	Size             int
	Monsters         int
	Treasures        int
	Obstacles        int
	MaxTreasureValue int
	// MinMonsterDistance is the smallest Chebyshev distance between the hunter and any monster
	MinMonsterDistance int
}

// DefaultMapConfig returns a sensible default configuration
func DefaultMapConfig(size int) MapConfig {
	return MapConfig{
		Size:               size,
		Monsters:           3,
		Treasures:          5,
		Obstacles:          size * size / 12,
		MaxTreasureValue:   9,
		MinMonsterDistance: 2,
	}
}

// Placement is one setup placement produced by the generator
type Placement struct {
	Kind  string
	Pos   core.Position
	Value int
}

// Generator handles board generation with deterministic RNG
type Generator struct {
	config MapConfig
	rng    *rand.Rand
}

// NewGenerator creates a new board generator
func NewGenerator(config MapConfig, rng *rand.Rand) *Generator {
	return &Generator{
		config: config,
		rng:    rng,
	}
}

// GenerateMap returns placements for a random board: the hunter first, then
// monsters, treasures and obstacles. The same seed gives the same board.
func (g *Generator) GenerateMap() ([]Placement, error) {
	size := g.config.Size
	want := 1 + g.config.Monsters + g.config.Treasures + g.config.Obstacles
	if size <= 0 || want > size*size {
		return nil, fmt.Errorf("%d pieces on a %dx%d grid: %w", want, size, size, ErrBoardFull)
	}

	used := make(map[core.Position]bool, want)
	placements := make([]Placement, 0, want)

	hunter, err := g.findLocation(used, nil)
	if err != nil {
		return nil, err
	}
	used[hunter] = true
	placements = append(placements, Placement{Kind: KindHunter, Pos: hunter})

	awayFromHunter := func(p core.Position) bool {
		return chebyshev(p, hunter) >= g.config.MinMonsterDistance
	}
	for i := 0; i < g.config.Monsters; i++ {
		p, err := g.findLocation(used, awayFromHunter)
		if err != nil {
			return nil, err
		}
		used[p] = true
		placements = append(placements, Placement{Kind: KindMonster, Pos: p})
	}

	maxValue := g.config.MaxTreasureValue
	if maxValue <= 0 {
		maxValue = 9
	}
	for i := 0; i < g.config.Treasures; i++ {
		p, err := g.findLocation(used, nil)
		if err != nil {
			return nil, err
		}
		used[p] = true
		placements = append(placements, Placement{Kind: KindTreasure, Pos: p, Value: 1 + g.rng.Intn(maxValue)})
	}

	for i := 0; i < g.config.Obstacles; i++ {
		p, err := g.findLocation(used, nil)
		if err != nil {
			return nil, err
		}
		used[p] = true
		placements = append(placements, Placement{Kind: KindObstacle, Pos: p})
	}

	return placements, nil
}

// findLocation picks a random free cell accepted by ok, falling back to a
// row-major scan when random attempts run out.
func (g *Generator) findLocation(used map[core.Position]bool, ok func(core.Position) bool) (core.Position, error) {
	size := g.config.Size
	accept := func(p core.Position) bool {
		return !used[p] && (ok == nil || ok(p))
	}

	maxAttempts := size * size
	for attempts := 0; attempts < maxAttempts; attempts++ {
		p := core.Position{Row: g.rng.Intn(size), Col: g.rng.Intn(size)}
		if accept(p) {
			return p, nil
		}
	}

	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			if p := (core.Position{Row: r, Col: c}); accept(p) {
				return p, nil
			}
		}
	}
	return core.Position{}, ErrBoardFull
}

func chebyshev(a, b core.Position) int {
	return common.ChebyshevDistance(a.Row, a.Col, b.Row, b.Col)
}
