package states

import (
	"fmt"
	"sync"
	"time"

	"github.com/mitchelldurbincs/TreasureHunter/internal/game/events"
)

// State represents a game stage with lifecycle callbacks
type State interface {
	// Stage returns the Stage this state represents
	Stage() Stage

	// Enter is called when transitioning into this state
	Enter(ctx *GameContext) error

	// Exit is called when transitioning out of this state
	Exit(ctx *GameContext) error

	// Validate checks if the state can be entered given the context
	Validate(ctx *GameContext) error
}

// Transition represents a state transition in the history
type Transition struct {
	From      Stage
	To        Stage
	Timestamp time.Time
	Reason    string
}

// StateMachine manages stage transitions and history
type StateMachine struct {
	mu           sync.RWMutex
	currentStage Stage
	states       map[Stage]State
	context      *GameContext
	history      []Transition
	eventBus     *events.EventBus
}

// NewStateMachine creates a new state machine starting in the setup stage
func NewStateMachine(ctx *GameContext, eventBus *events.EventBus) *StateMachine {
	sm := &StateMachine{
		currentStage: StageSetup,
		states:       make(map[Stage]State),
		context:      ctx,
		history:      make([]Transition, 0, 2),
		eventBus:     eventBus,
	}

	sm.RegisterState(NewSetupState())
	sm.RegisterState(NewPlayState())
	sm.RegisterState(NewEndState())

	return sm
}

// RegisterState registers a state implementation
func (sm *StateMachine) RegisterState(state State) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.states[state.Stage()] = state
}

// CurrentStage returns the current stage
func (sm *StateMachine) CurrentStage() Stage {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.currentStage
}

// TransitionTo attempts to transition to the specified stage
func (sm *StateMachine) TransitionTo(target Stage, reason string) error {
	sm.mu.Lock()

	if !sm.currentStage.CanTransitionTo(target) {
		from := sm.currentStage
		sm.mu.Unlock()
		return fmt.Errorf("invalid transition from %s to %s", from, target)
	}

	currentState, hasCurrentState := sm.states[sm.currentStage]
	targetState, hasTargetState := sm.states[target]

	if !hasTargetState {
		sm.mu.Unlock()
		return fmt.Errorf("no state implementation for stage %s", target)
	}

	if err := targetState.Validate(sm.context); err != nil {
		sm.mu.Unlock()
		return fmt.Errorf("target state validation failed: %w", err)
	}

	if hasCurrentState {
		if err := currentState.Exit(sm.context); err != nil {
			sm.context.Logger.Error().
				Err(err).
				Str("from_stage", sm.currentStage.String()).
				Str("to_stage", target.String()).
				Msg("Error exiting state")
			// Continue with transition despite exit error
		}
	}

	previous := sm.currentStage
	sm.currentStage = target

	if err := targetState.Enter(sm.context); err != nil {
		sm.currentStage = previous
		sm.mu.Unlock()
		return fmt.Errorf("failed to enter state %s: %w", target, err)
	}

	sm.history = append(sm.history, Transition{
		From:      previous,
		To:        target,
		Timestamp: time.Now(),
		Reason:    reason,
	})
	sm.mu.Unlock()

	// Published outside the lock so subscribers may query the machine
	if sm.eventBus != nil {
		sm.eventBus.Publish(events.NewStateTransitionEvent(
			sm.context.GameID,
			previous.String(),
			target.String(),
			reason,
		))
	}

	sm.context.Logger.Info().
		Str("from_stage", previous.String()).
		Str("to_stage", target.String()).
		Str("reason", reason).
		Msg("State transition completed")

	return nil
}

// GetHistory returns a copy of the transition history
func (sm *StateMachine) GetHistory() []Transition {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	history := make([]Transition, len(sm.history))
	copy(history, sm.history)
	return history
}

// GetContext returns the game context
func (sm *StateMachine) GetContext() *GameContext {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.context
}

// CanTransitionTo checks if a transition to the target stage is allowed
func (sm *StateMachine) CanTransitionTo(target Stage) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.currentStage.CanTransitionTo(target)
}
