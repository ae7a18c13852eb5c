package entities

import (
	"github.com/mitchelldurbincs/TreasureHunter/internal/game/core"
)

// Hunter is the player-controlled piece
type Hunter struct {
	Pos   core.Position
	Alive bool
}

// Monster is an autonomous piece. ID is its registration index.
type Monster struct {
	ID  int
	Pos core.Position
}

// Treasure is a collectible worth Value points
type Treasure struct {
	Pos   core.Position
	Value int
}

// Scores holds the two running totals
type Scores struct {
	Player   int
	Computer int
}

// Registry is the authoritative store of piece positions and scores.
// It enforces occupancy during placement; movement rules live with the callers.
type Registry struct {
	grid      *core.Grid
	hunter    *Hunter
	monsters  []Monster
	treasures []Treasure
	scores    Scores
}

// NewRegistry creates an empty registry over the given grid
func NewRegistry(grid *core.Grid) *Registry {
	return &Registry{
		grid:      grid,
		monsters:  make([]Monster, 0, 8),
		treasures: make([]Treasure, 0, 16),
	}
}

// Grid returns the grid the registry places pieces on
func (r *Registry) Grid() *core.Grid { return r.grid }

// IsOccupied reports whether any piece, treasure or obstacle sits on p
func (r *Registry) IsOccupied(p core.Position) bool {
	if r.grid.IsObstacle(p) {
		return true
	}
	if r.hunter != nil && r.hunter.Pos == p {
		return true
	}
	if r.MonsterAt(p) >= 0 {
		return true
	}
	_, ok := r.TreasureAt(p)
	return ok
}

func (r *Registry) checkFree(p core.Position) error {
	if !r.grid.InBounds(p) {
		return core.ErrOutOfBounds
	}
	if r.IsOccupied(p) {
		return core.ErrCellOccupied
	}
	return nil
}

// PlaceHunter places the single hunter
func (r *Registry) PlaceHunter(p core.Position) error {
	if r.hunter != nil {
		return core.ErrDuplicateHunter
	}
	if err := r.checkFree(p); err != nil {
		return err
	}
	r.hunter = &Hunter{Pos: p, Alive: true}
	return nil
}

// AddMonster registers a monster; registration order is the monster phase order
func (r *Registry) AddMonster(p core.Position) (int, error) {
	if err := r.checkFree(p); err != nil {
		return -1, err
	}
	id := len(r.monsters)
	r.monsters = append(r.monsters, Monster{ID: id, Pos: p})
	return id, nil
}

// AddTreasure places a treasure; value range is checked by the caller
func (r *Registry) AddTreasure(p core.Position, value int) error {
	if value <= 0 {
		return core.ErrInvalidTreasureValue
	}
	if err := r.checkFree(p); err != nil {
		return err
	}
	r.treasures = append(r.treasures, Treasure{Pos: p, Value: value})
	return nil
}

// AddObstacle places an obstacle on the grid
func (r *Registry) AddObstacle(p core.Position) error {
	if err := r.checkFree(p); err != nil {
		return err
	}
	return r.grid.AddObstacle(p)
}

// HasHunter reports whether the hunter has been placed
func (r *Registry) HasHunter() bool { return r.hunter != nil }

// Hunter returns a copy of the hunter and whether it exists
func (r *Registry) Hunter() (Hunter, bool) {
	if r.hunter == nil {
		return Hunter{}, false
	}
	return *r.hunter, true
}

// MoveHunter sets the hunter's position
func (r *Registry) MoveHunter(p core.Position) {
	if r.hunter != nil {
		r.hunter.Pos = p
	}
}

// KillHunter marks the hunter as destroyed
func (r *Registry) KillHunter() {
	if r.hunter != nil {
		r.hunter.Alive = false
	}
}

// Monsters returns a copy of the monsters in registration order
func (r *Registry) Monsters() []Monster {
	out := make([]Monster, len(r.monsters))
	copy(out, r.monsters)
	return out
}

// MonsterCount returns the number of monsters
func (r *Registry) MonsterCount() int { return len(r.monsters) }

// Monster returns the monster with the given ID
func (r *Registry) Monster(id int) (Monster, bool) {
	if id < 0 || id >= len(r.monsters) {
		return Monster{}, false
	}
	return r.monsters[id], true
}

// MonsterAt returns the ID of the monster on p, or -1
func (r *Registry) MonsterAt(p core.Position) int {
	for _, m := range r.monsters {
		if m.Pos == p {
			return m.ID
		}
	}
	return -1
}

// OtherMonsterAt reports whether a monster other than self occupies p
func (r *Registry) OtherMonsterAt(p core.Position, self int) bool {
	for _, m := range r.monsters {
		if m.ID != self && m.Pos == p {
			return true
		}
	}
	return false
}

// MoveMonster sets a monster's position
func (r *Registry) MoveMonster(id int, p core.Position) {
	if id >= 0 && id < len(r.monsters) {
		r.monsters[id].Pos = p
	}
}

// TreasureAt returns the treasure on p, if any
func (r *Registry) TreasureAt(p core.Position) (Treasure, bool) {
	for _, t := range r.treasures {
		if t.Pos == p {
			return t, true
		}
	}
	return Treasure{}, false
}

// RemoveTreasure deletes the treasure on p and returns its value
func (r *Registry) RemoveTreasure(p core.Position) (int, bool) {
	for i, t := range r.treasures {
		if t.Pos == p {
			r.treasures = append(r.treasures[:i], r.treasures[i+1:]...)
			return t.Value, true
		}
	}
	return 0, false
}

// Treasures returns a copy of the remaining treasures in placement order
func (r *Registry) Treasures() []Treasure {
	out := make([]Treasure, len(r.treasures))
	copy(out, r.treasures)
	return out
}

// TreasureCount returns the number of treasures left on the board
func (r *Registry) TreasureCount() int { return len(r.treasures) }

// AddPlayerScore credits the hunter side
func (r *Registry) AddPlayerScore(v int) { r.scores.Player += v }

// AddComputerScore credits the monster side
func (r *Registry) AddComputerScore(v int) { r.scores.Computer += v }

// Scores returns the current scores
func (r *Registry) Scores() Scores { return r.scores }
