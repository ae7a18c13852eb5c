package rules

import (
	"github.com/mitchelldurbincs/TreasureHunter/internal/game/entities"
)

// MovementChecker decides whether either side can still move.
// The hunter is checked on its four orthogonal cells while monsters are
// checked on their Moore neighbourhood; the two checks are intentionally different.
type MovementChecker struct{}

// NewMovementChecker creates a new movement checker
func NewMovementChecker() *MovementChecker {
	return &MovementChecker{}
}

// HunterCanMove reports whether some orthogonal neighbour is enterable and monster-free
func (mc *MovementChecker) HunterCanMove(r *entities.Registry) bool {
	hunter, ok := r.Hunter()
	if !ok {
		return false
	}
	grid := r.Grid()
	for _, p := range grid.Orthogonal(hunter.Pos) {
		if grid.CanEnter(p) && r.MonsterAt(p) < 0 {
			return true
		}
	}
	return false
}

// MonsterCanMove reports whether the given monster has a cell to go to.
// The hunter's cell always counts even though it is occupied.
func (mc *MovementChecker) MonsterCanMove(r *entities.Registry, m entities.Monster) bool {
	hunter, hasHunter := r.Hunter()
	for _, p := range r.Grid().Neighbors8(m.Pos) {
		if !r.OtherMonsterAt(p, m.ID) {
			return true
		}
		if hasHunter && p == hunter.Pos {
			return true
		}
	}
	return false
}

// MonstersCanMove reports whether at least one monster can move
func (mc *MovementChecker) MonstersCanMove(r *entities.Registry) bool {
	for _, m := range r.Monsters() {
		if mc.MonsterCanMove(r, m) {
			return true
		}
	}
	return false
}

// MovementPossible is true if either side can move
func (mc *MovementChecker) MovementPossible(r *entities.Registry) bool {
	return mc.HunterCanMove(r) || mc.MonstersCanMove(r)
}
