package game

import (
	"fmt"
	"strings"

	"github.com/mitchelldurbincs/TreasureHunter/internal/game/core"
	"github.com/mitchelldurbincs/TreasureHunter/internal/game/rules"
)

// Board symbols
const (
	EmptySymbol      = "."
	HunterSymbol     = "H"
	DeadHunterSymbol = "X"
	MonsterSymbol    = "M"
	ObstacleSymbol   = "#"
)

// RenderBoard returns a text picture of the snapshot with row and column headers
// when withCoords is set.
func RenderBoard(s Snapshot, withCoords bool) string {
	size := s.GridSize

	var sb strings.Builder
	sb.Grow((size*2 + 4) * (size + 4))

	if withCoords {
		sb.WriteString("   ")
		for c := 0; c < size; c++ {
			fmt.Fprintf(&sb, "%2d", c)
		}
		sb.WriteString("\n")
	}

	for r := 0; r < size; r++ {
		if withCoords {
			fmt.Fprintf(&sb, "%2d ", r)
		}
		for c := 0; c < size; c++ {
			sb.WriteString(" ")
			sb.WriteString(cellSymbol(s, core.Position{Row: r, Col: c}))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString("H=hunter M=monster #=obstacle 1-9=treasure\n")
	fmt.Fprintf(&sb, "Round %d  Player %d  Computer %d  Treasures left %d\n",
		s.Round, s.Scores.Player, s.Scores.Computer, len(s.Treasures))

	return sb.String()
}

// cellSymbol picks what to draw for p. A monster hides a dead hunter under it.
func cellSymbol(s Snapshot, p core.Position) string {
	if s.MonsterAt(p) >= 0 {
		return MonsterSymbol
	}
	if s.HasHunter && s.Hunter.Pos == p {
		if !s.Hunter.Alive {
			return DeadHunterSymbol
		}
		return HunterSymbol
	}
	if s.IsObstacle(p) {
		return ObstacleSymbol
	}
	if t, ok := s.TreasureAt(p); ok {
		if t.Value > 9 {
			return "+"
		}
		return fmt.Sprintf("%d", t.Value)
	}
	return EmptySymbol
}

// ResultMessage builds the end-of-game line shown to the player
func ResultMessage(reason string, outcome rules.Outcome) string {
	var msg string
	switch reason {
	case ReasonHunterDied:
		msg = "Game Over! The hunter died."
	case ReasonNoTreasures:
		msg = "Game Over! All treasures have been collected."
	case ReasonNoMovement:
		msg = "Game Over! No movement is possible."
	default:
		msg = "Game ended."
	}

	switch outcome {
	case rules.OutcomePlayer:
		msg += " You win!"
	case rules.OutcomeComputer:
		msg += " Computer wins!"
	case rules.OutcomeDraw:
		msg += " It's a draw!"
	}
	return msg
}
