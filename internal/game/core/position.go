package core

import (
	"fmt"
	"strings"

	"github.com/mitchelldurbincs/TreasureHunter/internal/common"
)

// Position represents a cell on the game grid
type Position struct {
	Row, Col int
}

// NewPosition creates a new position with the given row and column
func NewPosition(row, col int) Position {
	return Position{Row: row, Col: col}
}

// IsValid checks if the position is within a square grid of the given size
func (p Position) IsValid(size int) bool {
	return p.Row >= 0 && p.Row < size && p.Col >= 0 && p.Col < size
}

// Add returns a new position that is the sum of this position and an offset
func (p Position) Add(offset Position) Position {
	return Position{
		Row: p.Row + offset.Row,
		Col: p.Col + offset.Col,
	}
}

// IsMooreAdjacentTo checks if other is one of the up to 8 cells surrounding p
func (p Position) IsMooreAdjacentTo(other Position) bool {
	dr := common.Abs(p.Row - other.Row)
	dc := common.Abs(p.Col - other.Col)
	return dr <= 1 && dc <= 1 && (dr != 0 || dc != 0)
}

// String returns a string representation of the position
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Direction is one of the four hunter moves
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// DirectionVectors provides position offsets for each direction
var DirectionVectors = map[Direction]Position{
	Up:    {Row: -1, Col: 0},
	Down:  {Row: 1, Col: 0},
	Left:  {Row: 0, Col: -1},
	Right: {Row: 0, Col: 1},
}

// AllDirections lists the directions in hunter-check order
var AllDirections = []Direction{Up, Down, Left, Right}

// IsValid reports whether d is one of the four known directions
func (d Direction) IsValid() bool {
	_, ok := DirectionVectors[d]
	return ok
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("Unknown(%d)", int(d))
	}
}

// ParseDirection converts keyboard or word input to a Direction.
// Accepts w/a/s/d and up/down/left/right, case-insensitive.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "w", "up":
		return Up, nil
	case "s", "down":
		return Down, nil
	case "a", "left":
		return Left, nil
	case "d", "right":
		return Right, nil
	default:
		return 0, fmt.Errorf("%q: %w", s, ErrInvalidDirection)
	}
}

// Move returns a new position moved one step in the given direction
func (p Position) Move(direction Direction) Position {
	if offset, ok := DirectionVectors[direction]; ok {
		return p.Add(offset)
	}
	return p
}
