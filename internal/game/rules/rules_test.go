package rules

import (
	"testing"

	"github.com/mitchelldurbincs/TreasureHunter/internal/game/core"
	"github.com/mitchelldurbincs/TreasureHunter/internal/game/entities"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pos(row, col int) core.Position { return core.Position{Row: row, Col: col} }

func mustMonster(t *testing.T, r *entities.Registry, p core.Position) {
	t.Helper()
	_, err := r.AddMonster(p)
	require.NoError(t, err)
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "none", OutcomeNone.String())
	assert.Equal(t, "player", OutcomePlayer.String())
	assert.Equal(t, "computer", OutcomeComputer.String())
	assert.Equal(t, "draw", OutcomeDraw.String())
}

func TestOutcomeEvaluator(t *testing.T) {
	tests := []struct {
		name     string
		player   int
		computer int
		kill     bool
		expected Outcome
	}{
		{"player ahead", 5, 3, false, OutcomePlayer},
		{"computer ahead", 2, 4, false, OutcomeComputer},
		{"equal scores", 4, 4, false, OutcomeDraw},
		{"zero scores draw", 0, 0, false, OutcomeDraw},
		{"dead hunter loses regardless of score", 9, 0, true, OutcomeComputer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := entities.NewRegistry(core.NewGrid(10))
			require.NoError(t, r.PlaceHunter(pos(5, 5)))
			r.AddPlayerScore(tt.player)
			r.AddComputerScore(tt.computer)
			if tt.kill {
				r.KillHunter()
			}
			oe := NewOutcomeEvaluator(zerolog.Nop())
			assert.Equal(t, tt.expected, oe.Evaluate(r))
		})
	}
}

func TestOutcomeEvaluator_HunterSharingMonsterCell(t *testing.T) {
	r := entities.NewRegistry(core.NewGrid(10))
	require.NoError(t, r.PlaceHunter(pos(5, 5)))
	mustMonster(t, r, pos(5, 6))
	r.AddPlayerScore(10)
	r.MoveMonster(0, pos(5, 5))

	oe := NewOutcomeEvaluator(zerolog.Nop())
	assert.Equal(t, OutcomeComputer, oe.Evaluate(r))
}

func TestMovementChecker_Hunter(t *testing.T) {
	mc := NewMovementChecker()

	t.Run("open board", func(t *testing.T) {
		r := entities.NewRegistry(core.NewGrid(10))
		require.NoError(t, r.PlaceHunter(pos(5, 5)))
		assert.True(t, mc.HunterCanMove(r))
	})

	t.Run("boxed by bounds and obstacles", func(t *testing.T) {
		r := entities.NewRegistry(core.NewGrid(10))
		require.NoError(t, r.PlaceHunter(pos(0, 0)))
		require.NoError(t, r.AddObstacle(pos(0, 1)))
		require.NoError(t, r.AddObstacle(pos(1, 0)))
		assert.False(t, mc.HunterCanMove(r))
	})

	t.Run("monster on the only exit blocks the hunter", func(t *testing.T) {
		r := entities.NewRegistry(core.NewGrid(10))
		require.NoError(t, r.PlaceHunter(pos(0, 0)))
		require.NoError(t, r.AddObstacle(pos(0, 1)))
		mustMonster(t, r, pos(1, 0))
		assert.False(t, mc.HunterCanMove(r))
	})

	t.Run("diagonal cells do not count for the hunter", func(t *testing.T) {
		r := entities.NewRegistry(core.NewGrid(10))
		require.NoError(t, r.PlaceHunter(pos(0, 0)))
		require.NoError(t, r.AddObstacle(pos(0, 1)))
		require.NoError(t, r.AddObstacle(pos(1, 0)))
		// (1,1) stays open
		assert.False(t, mc.HunterCanMove(r))
	})

	t.Run("no hunter", func(t *testing.T) {
		r := entities.NewRegistry(core.NewGrid(10))
		assert.False(t, mc.HunterCanMove(r))
	})
}

func TestMovementChecker_Monsters(t *testing.T) {
	mc := NewMovementChecker()

	t.Run("no monsters", func(t *testing.T) {
		r := entities.NewRegistry(core.NewGrid(10))
		assert.False(t, mc.MonstersCanMove(r))
	})

	t.Run("monsters packed into a full 2x2 board", func(t *testing.T) {
		r := entities.NewRegistry(core.NewGrid(2))
		mustMonster(t, r, pos(0, 0))
		mustMonster(t, r, pos(0, 1))
		mustMonster(t, r, pos(1, 0))
		mustMonster(t, r, pos(1, 1))
		assert.False(t, mc.MonstersCanMove(r))
	})

	t.Run("hunter cell counts as reachable", func(t *testing.T) {
		r := entities.NewRegistry(core.NewGrid(2))
		require.NoError(t, r.PlaceHunter(pos(0, 0)))
		mustMonster(t, r, pos(0, 1))
		mustMonster(t, r, pos(1, 0))
		mustMonster(t, r, pos(1, 1))

		assert.False(t, mc.HunterCanMove(r), "hunter is surrounded by monsters")
		assert.True(t, mc.MonstersCanMove(r))
		assert.True(t, mc.MovementPossible(r))
	})

	t.Run("monster walled in by obstacles", func(t *testing.T) {
		r := entities.NewRegistry(core.NewGrid(2))
		require.NoError(t, r.AddObstacle(pos(0, 1)))
		require.NoError(t, r.AddObstacle(pos(1, 0)))
		require.NoError(t, r.AddObstacle(pos(1, 1)))
		mustMonster(t, r, pos(0, 0))
		assert.False(t, mc.MonstersCanMove(r))
	})
}

func TestMovementChecker_MovementPossible(t *testing.T) {
	mc := NewMovementChecker()

	r := entities.NewRegistry(core.NewGrid(3))
	require.NoError(t, r.PlaceHunter(pos(0, 0)))
	require.NoError(t, r.AddObstacle(pos(0, 1)))
	require.NoError(t, r.AddObstacle(pos(1, 0)))
	assert.False(t, mc.MovementPossible(r), "hunter stuck and no monsters")

	mustMonster(t, r, pos(2, 2))
	assert.True(t, mc.MovementPossible(r), "a free monster keeps the game going")
}
