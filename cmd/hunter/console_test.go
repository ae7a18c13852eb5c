package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/TreasureHunter/internal/game"
	"github.com/mitchelldurbincs/TreasureHunter/internal/game/rules"
	"github.com/mitchelldurbincs/TreasureHunter/internal/game/states"
	"github.com/mitchelldurbincs/TreasureHunter/internal/testutil"
)

func newTestConsole(t *testing.T, size int, input string) (*console, *bytes.Buffer) {
	t.Helper()
	e, err := game.NewEngine(context.Background(), game.GameConfig{
		GridSize: size,
		GameID:   "console-test",
		Rng:      testutil.NewTestRNG(1),
		Logger:   testutil.NopLogger(),
	})
	require.NoError(t, err)

	out := &bytes.Buffer{}
	c := newConsole(strings.NewReader(input), out, e, testutil.NopLogger())
	c.delay = func() time.Duration { return 0 }
	c.showCoords = func() bool { return false }
	return c, out
}

func TestConsole_FullGame(t *testing.T) {
	input := strings.Join([]string{
		"done",
		"h 0 0",
		"t 0 1",
		"x 1 1",
		"t 0 1 5",
		"done",
		"jump",
		"d",
	}, "\n") + "\n"
	c, out := newTestConsole(t, 3, input)
	ctx := context.Background()

	require.NoError(t, c.runSetup(ctx))
	assert.Equal(t, states.StagePlay, c.engine.Stage())

	require.NoError(t, c.runPlay(ctx))
	assert.Equal(t, states.StageEnd, c.engine.Stage())

	outcome, err := c.engine.Outcome()
	require.NoError(t, err)
	assert.Equal(t, rules.OutcomePlayer, outcome)

	text := out.String()
	assert.Contains(t, text, "Place the hunter before starting.")
	assert.Equal(t, 2, strings.Count(text, "Cannot place"))
	assert.Contains(t, text, playHelp)
	assert.Contains(t, text, "Game Over! All treasures have been collected. You win!")
}

func TestConsole_BlockedMoveAndEnd(t *testing.T) {
	c, out := newTestConsole(t, 3, "h 0 0\n3 2 2\ndone\nw\nend\n")
	ctx := context.Background()

	require.NoError(t, c.runSetup(ctx))
	require.NoError(t, c.runPlay(ctx))

	assert.Contains(t, out.String(), "That way is blocked.")
	assert.Contains(t, out.String(), "Game ended. It's a draw!")
	assert.Equal(t, game.ReasonPlayerEnded, c.engine.EndReason())
	assert.Equal(t, 1, c.engine.Round())
}

func TestConsole_UnexpectedEOF(t *testing.T) {
	c, _ := newTestConsole(t, 3, "h 0 0\n")
	assert.ErrorIs(t, c.runSetup(context.Background()), io.ErrUnexpectedEOF)
}

func TestConsole_CancelledContext(t *testing.T) {
	c, _ := newTestConsole(t, 3, "h 0 0\ndone\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, c.runSetup(ctx), context.Canceled)
}

func TestConsole_Place(t *testing.T) {
	c, _ := newTestConsole(t, 4, "")

	tests := []struct {
		line    string
		wantErr bool
	}{
		{"h 1 1", false},
		{"7 0 3", false},
		{"t 2 2 4", false},
		{"m 3 3", false},
		{"o 0 0", false},
		{"h", true},
		{"m 1 2 3 4", true},
		{"m one 2", true},
		{"m 1 two", true},
		{"m 2 1 3", true},
		{"5 2 1 3", true},
		{"t 2 1 x", true},
		{"z 2 1", true},
		{"m 9 9", true},
		{"o 1 1", true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			err := c.place(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	snap := c.engine.Snapshot()
	assert.True(t, snap.HasHunter)
	assert.Len(t, snap.Treasures, 2)
	assert.Len(t, snap.Monsters, 1)
	assert.Len(t, snap.Obstacles, 1)
}
