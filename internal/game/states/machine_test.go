package states

import (
	"errors"
	"testing"
	"time"

	"github.com/mitchelldurbincs/TreasureHunter/internal/game/core"
	"github.com/mitchelldurbincs/TreasureHunter/internal/game/events"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStage_String(t *testing.T) {
	tests := []struct {
		stage    Stage
		expected string
	}{
		{StageSetup, "setup"},
		{StagePlay, "play"},
		{StageEnd, "end"},
		{Stage(999), "Unknown(999)"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.stage.String())
		})
	}
}

func TestStage_Properties(t *testing.T) {
	t.Run("IsTerminal", func(t *testing.T) {
		assert.True(t, StageEnd.IsTerminal())
		assert.False(t, StagePlay.IsTerminal())
		assert.False(t, StageSetup.IsTerminal())
	})

	t.Run("CanReceiveMoves", func(t *testing.T) {
		assert.True(t, StagePlay.CanReceiveMoves())
		assert.False(t, StageSetup.CanReceiveMoves())
		assert.False(t, StageEnd.CanReceiveMoves())
	})

	t.Run("CanPlaceEntities", func(t *testing.T) {
		assert.True(t, StageSetup.CanPlaceEntities())
		assert.False(t, StagePlay.CanPlaceEntities())
		assert.False(t, StageEnd.CanPlaceEntities())
	})
}

func TestStage_Transitions(t *testing.T) {
	tests := []struct {
		from    Stage
		allowed []Stage
	}{
		{StageSetup, []Stage{StagePlay}},
		{StagePlay, []Stage{StageEnd}},
		{StageEnd, []Stage{}},
	}

	all := []Stage{StageSetup, StagePlay, StageEnd}
	for _, tt := range tests {
		t.Run(tt.from.String(), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.AllowedTransitions())

			for _, target := range all {
				shouldAllow := false
				for _, allowed := range tt.allowed {
					if target == allowed {
						shouldAllow = true
						break
					}
				}
				assert.Equal(t, shouldAllow, tt.from.CanTransitionTo(target))
			}
		})
	}
}

func TestGameContext(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("NewGameContext", func(t *testing.T) {
		ctx := NewGameContext("test-game", logger)
		assert.Equal(t, "test-game", ctx.GameID)
		assert.Zero(t, ctx.Round)
		assert.False(t, ctx.HunterPlaced)
	})

	t.Run("GetElapsedTime", func(t *testing.T) {
		ctx := NewGameContext("test-game", logger)

		assert.Equal(t, time.Duration(0), ctx.GetElapsedTime())

		ctx.StartTime = time.Now().Add(-10 * time.Second)
		elapsed := ctx.GetElapsedTime()
		assert.Greater(t, elapsed, 9*time.Second)
		assert.Less(t, elapsed, 11*time.Second)

		// Frozen once ended
		ctx.EndTime = ctx.StartTime.Add(3 * time.Second)
		assert.Equal(t, 3*time.Second, ctx.GetElapsedTime())
	})
}

func TestStateMachine(t *testing.T) {
	logger := zerolog.Nop()

	setup := func() (*StateMachine, *GameContext, *events.EventBus) {
		ctx := NewGameContext("test-game", logger)
		eventBus := events.NewEventBus(logger)
		sm := NewStateMachine(ctx, eventBus)
		return sm, ctx, eventBus
	}

	t.Run("NewStateMachine", func(t *testing.T) {
		sm, _, _ := setup()
		assert.Equal(t, StageSetup, sm.CurrentStage())
		assert.Len(t, sm.states, 3)
		assert.Empty(t, sm.GetHistory())
	})

	t.Run("Valid Transitions", func(t *testing.T) {
		sm, ctx, _ := setup()

		ctx.HunterPlaced = true
		err := sm.TransitionTo(StagePlay, "Setup complete")
		assert.NoError(t, err)
		assert.Equal(t, StagePlay, sm.CurrentStage())
		assert.Equal(t, 1, ctx.Round)

		ctx.EndReason = "All treasures have been collected"
		err = sm.TransitionTo(StageEnd, ctx.EndReason)
		assert.NoError(t, err)
		assert.Equal(t, StageEnd, sm.CurrentStage())
	})

	t.Run("Setup Without Hunter", func(t *testing.T) {
		sm, _, _ := setup()

		err := sm.TransitionTo(StagePlay, "Setup complete")
		require.Error(t, err)
		assert.True(t, errors.Is(err, core.ErrSetupIncomplete))
		assert.Equal(t, StageSetup, sm.CurrentStage())
		assert.Empty(t, sm.GetHistory())
	})

	t.Run("Invalid Transitions", func(t *testing.T) {
		sm, ctx, _ := setup()

		ctx.EndReason = "skip"
		err := sm.TransitionTo(StageEnd, "skip play")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid transition")
		assert.Equal(t, StageSetup, sm.CurrentStage())

		ctx.HunterPlaced = true
		require.NoError(t, sm.TransitionTo(StagePlay, "Setup complete"))
		require.NoError(t, sm.TransitionTo(StageEnd, "done"))

		// End is terminal
		assert.Error(t, sm.TransitionTo(StagePlay, "again"))
		assert.Error(t, sm.TransitionTo(StageSetup, "again"))
		assert.Equal(t, StageEnd, sm.CurrentStage())
	})

	t.Run("History Tracking", func(t *testing.T) {
		sm, ctx, _ := setup()

		ctx.HunterPlaced = true
		_ = sm.TransitionTo(StagePlay, "reason1")
		ctx.EndReason = "reason2"
		_ = sm.TransitionTo(StageEnd, "reason2")

		history := sm.GetHistory()
		require.Len(t, history, 2)

		assert.Equal(t, StageSetup, history[0].From)
		assert.Equal(t, StagePlay, history[0].To)
		assert.Equal(t, "reason1", history[0].Reason)

		assert.Equal(t, StagePlay, history[1].From)
		assert.Equal(t, StageEnd, history[1].To)
		assert.Equal(t, "reason2", history[1].Reason)
	})

	t.Run("Publishes Transition Events", func(t *testing.T) {
		sm, ctx, bus := setup()

		var received []*events.StateTransitionEvent
		bus.SubscribeFunc(events.TypeStateTransition, func(e events.Event) {
			received = append(received, e.(*events.StateTransitionEvent))
		})

		ctx.HunterPlaced = true
		require.NoError(t, sm.TransitionTo(StagePlay, "Setup complete"))

		require.Len(t, received, 1)
		assert.Equal(t, "setup", received[0].FromStage)
		assert.Equal(t, "play", received[0].ToStage)
		assert.Equal(t, "Setup complete", received[0].Reason)
		assert.Equal(t, "test-game", received[0].GameID())
	})

	t.Run("CanTransitionTo", func(t *testing.T) {
		sm, _, _ := setup()

		assert.True(t, sm.CanTransitionTo(StagePlay))
		assert.False(t, sm.CanTransitionTo(StageEnd))
		assert.False(t, sm.CanTransitionTo(StageSetup))
	})
}

// MockState for testing custom state implementations
type MockState struct {
	stage       Stage
	enterCalled bool
	exitCalled  bool
	enterError  error
}

func (m *MockState) Stage() Stage                { return m.stage }
func (m *MockState) Enter(*GameContext) error    { m.enterCalled = true; return m.enterError }
func (m *MockState) Exit(*GameContext) error     { m.exitCalled = true; return nil }
func (m *MockState) Validate(*GameContext) error { return nil }

func TestStateMachine_CustomStates(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("StateCallbacks", func(t *testing.T) {
		sm := NewStateMachine(NewGameContext("test-game", logger), events.NewEventBus(logger))
		setupMock := &MockState{stage: StageSetup}
		playMock := &MockState{stage: StagePlay}
		sm.RegisterState(setupMock)
		sm.RegisterState(playMock)

		require.NoError(t, sm.TransitionTo(StagePlay, "test"))
		assert.True(t, setupMock.exitCalled)
		assert.True(t, playMock.enterCalled)
	})

	t.Run("EnterFailureRollsBack", func(t *testing.T) {
		sm := NewStateMachine(NewGameContext("test-game", logger), nil)
		sm.RegisterState(&MockState{stage: StagePlay, enterError: errors.New("boom")})

		err := sm.TransitionTo(StagePlay, "test")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to enter state play")
		assert.Equal(t, StageSetup, sm.CurrentStage())
		assert.Empty(t, sm.GetHistory())
	})
}
