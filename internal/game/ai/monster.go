package ai

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/mitchelldurbincs/TreasureHunter/internal/game/core"
	"github.com/mitchelldurbincs/TreasureHunter/internal/game/entities"
	"github.com/rs/zerolog"
)

// DecisionKind is the rule that produced a monster's decision
type DecisionKind int

const (
	DecisionStay DecisionKind = iota
	DecisionCapture
	DecisionCollect
	DecisionWander
)

func (k DecisionKind) String() string {
	switch k {
	case DecisionStay:
		return "stay"
	case DecisionCapture:
		return "capture"
	case DecisionCollect:
		return "collect"
	case DecisionWander:
		return "wander"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Decision is what a single monster does on its turn
type Decision struct {
	MonsterID int
	Kind      DecisionKind
	From      core.Position
	To        core.Position
	// Value of the treasure picked up, only for DecisionCollect
	Value int
}

// MonsterAI picks an action for one monster at a time.
// Rules in priority order: capture the hunter, collect a treasure,
// wander to a random free cell, stay.
type MonsterAI struct {
	logger zerolog.Logger
	rng    *rand.Rand
}

// NewMonsterAI creates a new monster AI. A nil rng gets a time-seeded source.
func NewMonsterAI(rng *rand.Rand, logger zerolog.Logger) *MonsterAI {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &MonsterAI{
		logger: logger.With().Str("component", "MonsterAI").Logger(),
		rng:    rng,
	}
}

// Decide evaluates the rules for monster m against the current registry.
// It does not mutate the registry.
func (ai *MonsterAI) Decide(r *entities.Registry, m entities.Monster) Decision {
	neighbors := r.Grid().Neighbors8(m.Pos)
	d := Decision{MonsterID: m.ID, Kind: DecisionStay, From: m.Pos, To: m.Pos}

	if hunter, ok := r.Hunter(); ok && hunter.Alive && m.Pos.IsMooreAdjacentTo(hunter.Pos) {
		d.Kind = DecisionCapture
		d.To = hunter.Pos
		ai.log(d)
		return d
	}

	for _, p := range neighbors {
		if t, ok := r.TreasureAt(p); ok {
			d.Kind = DecisionCollect
			d.To = p
			d.Value = t.Value
			ai.log(d)
			return d
		}
	}

	free := make([]core.Position, 0, len(neighbors))
	for _, p := range neighbors {
		if !r.OtherMonsterAt(p, m.ID) {
			free = append(free, p)
		}
	}
	if len(free) > 0 {
		d.Kind = DecisionWander
		d.To = free[ai.rng.Intn(len(free))]
	}

	ai.log(d)
	return d
}

func (ai *MonsterAI) log(d Decision) {
	ai.logger.Debug().
		Int("monster_id", d.MonsterID).
		Str("decision", d.Kind.String()).
		Stringer("from", d.From).
		Stringer("to", d.To).
		Msg("Monster decided")
}
