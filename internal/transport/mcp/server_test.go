package mcp

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/TreasureHunter/internal/game"
	"github.com/mitchelldurbincs/TreasureHunter/internal/game/mapgen"
	"github.com/mitchelldurbincs/TreasureHunter/internal/game/states"
	"github.com/mitchelldurbincs/TreasureHunter/internal/testutil"
)

func newTestServer() *Server {
	return NewServer(Options{
		GridSize:         5,
		MaxTreasureValue: 9,
		Board:            mapgen.DefaultMapConfig(5),
		Logger:           testutil.NopLogger(),
	})
}

func call(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

func TestNewServer(t *testing.T) {
	s := newTestServer()
	assert.NotNil(t, s.MCPServer())
	assert.Nil(t, s.Engine())
}

func TestTools_RequireGame(t *testing.T) {
	s := newTestServer()
	ctx := context.Background()

	result, err := s.handleGameState(ctx, call("game_state", nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "new_game")

	result, err = s.handleMove(ctx, call("move", map[string]interface{}{"direction": "up"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestTools_RandomGame(t *testing.T) {
	s := newTestServer()
	ctx := context.Background()

	result, err := s.handleNewGame(ctx, call("new_game", map[string]interface{}{"seed": float64(7)}))
	require.NoError(t, err)
	require.False(t, result.IsError, resultText(t, result))
	assert.Contains(t, resultText(t, result), "seed 7")

	e := s.Engine()
	require.NotNil(t, e)
	assert.Equal(t, states.StagePlay, e.Stage())
	assert.Len(t, e.Snapshot().Monsters, 3)

	result, err = s.handleEndGame(ctx, call("end_game", map[string]interface{}{"reason": "agent gave up"}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Equal(t, "agent gave up", e.EndReason())

	// Same seed, same board
	first := e.Snapshot()
	_, err = s.handleNewGame(ctx, call("new_game", map[string]interface{}{"seed": float64(7)}))
	require.NoError(t, err)
	second := s.Engine().Snapshot()
	assert.Equal(t, first.Hunter.Pos, second.Hunter.Pos)
	assert.Equal(t, first.Treasures, second.Treasures)
}

func TestTools_ManualSetupAndPlay(t *testing.T) {
	s := newTestServer()
	ctx := context.Background()

	result, err := s.handleNewGame(ctx, call("new_game", map[string]interface{}{"seed": float64(3), "empty_board": true}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Equal(t, states.StageSetup, s.Engine().Stage())

	result, err = s.handleStartGame(ctx, call("start_game", nil))
	require.NoError(t, err)
	assert.True(t, result.IsError, "start without a hunter")

	place := func(kind string, row, col, value int) *mcp.CallToolResult {
		args := map[string]interface{}{"kind": kind, "row": float64(row), "col": float64(col)}
		if value > 0 {
			args["value"] = float64(value)
		}
		r, err := s.handlePlace(ctx, call("place", args))
		require.NoError(t, err)
		return r
	}

	assert.False(t, place("hunter", 0, 0, 0).IsError)
	assert.False(t, place("treasure", 0, 1, 6).IsError)
	assert.True(t, place("treasure", 1, 1, 0).IsError, "treasure needs a value")
	assert.True(t, place("monster", 0, 0, 0).IsError, "cell occupied")
	assert.True(t, place("dragon", 2, 2, 0).IsError)

	missing, err := s.handlePlace(ctx, call("place", map[string]interface{}{"kind": "monster"}))
	require.NoError(t, err)
	assert.True(t, missing.IsError)

	result, err = s.handleStartGame(ctx, call("start_game", nil))
	require.NoError(t, err)
	require.False(t, result.IsError)

	result, err = s.handleMove(ctx, call("move", map[string]interface{}{"direction": "up"}))
	require.NoError(t, err)
	assert.True(t, result.IsError, "off the board")

	result, err = s.handleMove(ctx, call("move", map[string]interface{}{"direction": "sideways"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	result, err = s.handleMove(ctx, call("move", map[string]interface{}{"direction": "right"}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	text := resultText(t, result)
	assert.Contains(t, text, game.ReasonNoTreasures)
	assert.Contains(t, text, "You win!")

	state, err := s.handleGameState(ctx, call("game_state", nil))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, state), "Stage: end")
}
