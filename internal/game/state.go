package game

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mitchelldurbincs/TreasureHunter/internal/game/core"
	"github.com/mitchelldurbincs/TreasureHunter/internal/game/entities"
	"github.com/mitchelldurbincs/TreasureHunter/internal/game/states"
)

// End reasons reported by the engine
const (
	ReasonHunterDied  = "Hunter died"
	ReasonNoTreasures = "No treasures left"
	ReasonNoMovement  = "No movement possible"
	ReasonPlayerEnded = "Player ended the game"
	ReasonSetupDone   = "Setup complete"
)

// DefaultMaxTreasureValue is the highest treasure value accepted during setup
const DefaultMaxTreasureValue = 9

// EntityKind is a piece type that can be placed during setup
type EntityKind int

const (
	KindHunter EntityKind = iota
	KindMonster
	KindObstacle
	KindTreasure
)

func (k EntityKind) String() string {
	switch k {
	case KindHunter:
		return "hunter"
	case KindMonster:
		return "monster"
	case KindObstacle:
		return "obstacle"
	case KindTreasure:
		return "treasure"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// ParseEntityKind accepts a kind name or its first letter.
// A single digit 1-9 is read as a treasure of that value.
func ParseEntityKind(s string) (EntityKind, int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "h", "hunter":
		return KindHunter, 0, nil
	case "m", "monster":
		return KindMonster, 0, nil
	case "o", "obstacle":
		return KindObstacle, 0, nil
	case "t", "treasure":
		return KindTreasure, 0, nil
	}
	if len(s) == 1 {
		if v, err := strconv.Atoi(s); err == nil && v >= 1 {
			return KindTreasure, v, nil
		}
	}
	return 0, 0, fmt.Errorf("%q: %w", s, core.ErrInvalidKind)
}

// MoveResult reports what a SubmitMove call did
type MoveResult struct {
	// Applied is false when the move was rejected and the turn not consumed
	Applied bool
	// GameEnded is true when this move finished the game
	GameEnded bool
	// Reason is the end reason when GameEnded is set
	Reason string
}

// Snapshot is an immutable copy of the whole session
type Snapshot struct {
	GameID    string
	GridSize  int
	Stage     states.Stage
	Round     int
	HasHunter bool
	Hunter    entities.Hunter
	Monsters  []entities.Monster
	Treasures []entities.Treasure
	Obstacles []core.Position
	Scores    entities.Scores
	EndReason string
}

// MonsterAt returns the id of the monster at p, or -1
func (s Snapshot) MonsterAt(p core.Position) int {
	for _, m := range s.Monsters {
		if m.Pos == p {
			return m.ID
		}
	}
	return -1
}

// TreasureAt returns the treasure at p if there is one
func (s Snapshot) TreasureAt(p core.Position) (entities.Treasure, bool) {
	for _, t := range s.Treasures {
		if t.Pos == p {
			return t, true
		}
	}
	return entities.Treasure{}, false
}

// IsObstacle reports whether p is an obstacle cell
func (s Snapshot) IsObstacle(p core.Position) bool {
	for _, o := range s.Obstacles {
		if o == p {
			return true
		}
	}
	return false
}
