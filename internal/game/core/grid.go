package core

// DefaultGridSize is the board edge length used when none is configured
const DefaultGridSize = 10

// Grid holds the static board geometry: its size and the obstacle cells.
// Obstacles are only added during setup and never removed.
type Grid struct {
	Size      int
	obstacles map[Position]struct{}
}

// NewGrid creates an empty square grid
func NewGrid(size int) *Grid {
	if size <= 0 {
		size = DefaultGridSize
	}
	return &Grid{
		Size:      size,
		obstacles: make(map[Position]struct{}),
	}
}

// InBounds checks if the position lies inside the grid
func (g *Grid) InBounds(p Position) bool {
	return p.IsValid(g.Size)
}

// IsObstacle checks if the position holds an obstacle
func (g *Grid) IsObstacle(p Position) bool {
	_, ok := g.obstacles[p]
	return ok
}

// AddObstacle marks a cell as permanently impassable
func (g *Grid) AddObstacle(p Position) error {
	if !g.InBounds(p) {
		return ErrOutOfBounds
	}
	g.obstacles[p] = struct{}{}
	return nil
}

// Obstacles returns the obstacle positions in row-major order
func (g *Grid) Obstacles() []Position {
	out := make([]Position, 0, len(g.obstacles))
	for row := 0; row < g.Size; row++ {
		for col := 0; col < g.Size; col++ {
			p := Position{Row: row, Col: col}
			if g.IsObstacle(p) {
				out = append(out, p)
			}
		}
	}
	return out
}

// CanEnter is the movement predicate shared by the hunter and the monsters.
// It does not consider other pieces; callers apply occupancy rules themselves.
func (g *Grid) CanEnter(p Position) bool {
	return g.InBounds(p) && !g.IsObstacle(p)
}

// Neighbors8 returns the enterable Moore neighbours of p.
// Scan order is row offset -1..1, then col offset -1..1; the order is
// relied on by the monster treasure rule.
func (g *Grid) Neighbors8(p Position) []Position {
	out := make([]Position, 0, 8)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			n := Position{Row: p.Row + dr, Col: p.Col + dc}
			if g.CanEnter(n) {
				out = append(out, n)
			}
		}
	}
	return out
}

// Orthogonal returns the four up/down/left/right cells of p, unfiltered
func (g *Grid) Orthogonal(p Position) []Position {
	out := make([]Position, 0, len(AllDirections))
	for _, d := range AllDirections {
		out = append(out, p.Move(d))
	}
	return out
}
