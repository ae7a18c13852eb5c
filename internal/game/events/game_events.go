package events

import (
	"time"

	"github.com/mitchelldurbincs/TreasureHunter/internal/game/core"
)

// Event type constants
const (
	TypeEntityPlaced      = "entity.placed"
	TypeGameStarted       = "game.started"
	TypeGameEnded         = "game.ended"
	TypeHunterMoved       = "hunter.moved"
	TypeMoveRejected      = "move.rejected"
	TypeTreasureCollected = "treasure.collected"
	TypeMonsterMoved      = "monster.moved"
	TypeHunterDied        = "hunter.died"
	TypeRoundCompleted    = "round.completed"
	TypeStateTransition   = "state.transition"
)

// Collector names used by TreasureCollectedEvent
const (
	CollectorHunter  = "hunter"
	CollectorMonster = "monster"
)

func newBase(eventType, gameID string) BaseEvent {
	return BaseEvent{
		EventType: eventType,
		Time:      time.Now(),
		Game:      gameID,
	}
}

// EntityPlacedEvent is published for every successful setup placement
type EntityPlacedEvent struct {
	BaseEvent
	Kind     string
	Position core.Position
	Value    int
}

// NewEntityPlacedEvent creates a new EntityPlacedEvent
func NewEntityPlacedEvent(gameID, kind string, pos core.Position, value int) *EntityPlacedEvent {
	return &EntityPlacedEvent{
		BaseEvent: newBase(TypeEntityPlaced, gameID),
		Kind:      kind,
		Position:  pos,
		Value:     value,
	}
}

// GameStartedEvent is published when setup completes and play begins
type GameStartedEvent struct {
	BaseEvent
	Metadata  EventMetadata
	GridSize  int
	Monsters  int
	Treasures int
	Obstacles int
}

// NewGameStartedEvent creates a new GameStartedEvent
func NewGameStartedEvent(gameID string, gridSize, monsters, treasures, obstacles int) *GameStartedEvent {
	return &GameStartedEvent{
		BaseEvent: newBase(TypeGameStarted, gameID),
		Metadata:  EventMetadata{Round: 1},
		GridSize:  gridSize,
		Monsters:  monsters,
		Treasures: treasures,
		Obstacles: obstacles,
	}
}

// GameEndedEvent is published when the game reaches the end stage
type GameEndedEvent struct {
	BaseEvent
	Metadata      EventMetadata
	Reason        string
	Outcome       string
	PlayerScore   int
	ComputerScore int
	Duration      time.Duration
}

// NewGameEndedEvent creates a new GameEndedEvent
func NewGameEndedEvent(gameID string, round int, reason, outcome string, playerScore, computerScore int, duration time.Duration) *GameEndedEvent {
	return &GameEndedEvent{
		BaseEvent:     newBase(TypeGameEnded, gameID),
		Metadata:      EventMetadata{Round: round},
		Reason:        reason,
		Outcome:       outcome,
		PlayerScore:   playerScore,
		ComputerScore: computerScore,
		Duration:      duration,
	}
}

// HunterMovedEvent is published after an accepted hunter move
type HunterMovedEvent struct {
	BaseEvent
	Metadata  EventMetadata
	Direction core.Direction
	From      core.Position
	To        core.Position
}

// NewHunterMovedEvent creates a new HunterMovedEvent
func NewHunterMovedEvent(gameID string, round int, dir core.Direction, from, to core.Position) *HunterMovedEvent {
	return &HunterMovedEvent{
		BaseEvent: newBase(TypeHunterMoved, gameID),
		Metadata:  EventMetadata{Round: round},
		Direction: dir,
		From:      from,
		To:        to,
	}
}

// MoveRejectedEvent is published when a hunter move is refused without consuming the turn
type MoveRejectedEvent struct {
	BaseEvent
	Metadata EventMetadata
	Input    string
	From     core.Position
	Target   core.Position
	Reason   string
}

// NewMoveRejectedEvent creates a new MoveRejectedEvent
func NewMoveRejectedEvent(gameID string, round int, input string, from, target core.Position, reason string) *MoveRejectedEvent {
	return &MoveRejectedEvent{
		BaseEvent: newBase(TypeMoveRejected, gameID),
		Metadata:  EventMetadata{Round: round},
		Input:     input,
		From:      from,
		Target:    target,
		Reason:    reason,
	}
}

// TreasureCollectedEvent is published when the hunter or a monster picks up a treasure
type TreasureCollectedEvent struct {
	BaseEvent
	Metadata      EventMetadata
	Collector     string
	MonsterID     int // -1 when collected by the hunter
	Position      core.Position
	Value         int
	PlayerScore   int
	ComputerScore int
	Remaining     int
}

// NewTreasureCollectedEvent creates a new TreasureCollectedEvent
func NewTreasureCollectedEvent(gameID string, round int, collector string, monsterID int, pos core.Position, value, playerScore, computerScore, remaining int) *TreasureCollectedEvent {
	return &TreasureCollectedEvent{
		BaseEvent:     newBase(TypeTreasureCollected, gameID),
		Metadata:      EventMetadata{Round: round},
		Collector:     collector,
		MonsterID:     monsterID,
		Position:      pos,
		Value:         value,
		PlayerScore:   playerScore,
		ComputerScore: computerScore,
		Remaining:     remaining,
	}
}

// MonsterMovedEvent is published for each monster decision in the monster phase
type MonsterMovedEvent struct {
	BaseEvent
	Metadata  EventMetadata
	MonsterID int
	Decision  string
	From      core.Position
	To        core.Position
}

// NewMonsterMovedEvent creates a new MonsterMovedEvent
func NewMonsterMovedEvent(gameID string, round, monsterID int, decision string, from, to core.Position) *MonsterMovedEvent {
	return &MonsterMovedEvent{
		BaseEvent: newBase(TypeMonsterMoved, gameID),
		Metadata:  EventMetadata{Round: round},
		MonsterID: monsterID,
		Decision:  decision,
		From:      from,
		To:        to,
	}
}

// HunterDiedEvent is published when the hunter and a monster end up on the same cell
type HunterDiedEvent struct {
	BaseEvent
	Metadata EventMetadata
	Position core.Position
	// MonsterID is the monster involved
	MonsterID int
	// WalkedIn is true when the hunter stepped onto the monster
	WalkedIn bool
}

// NewHunterDiedEvent creates a new HunterDiedEvent
func NewHunterDiedEvent(gameID string, round int, pos core.Position, monsterID int, walkedIn bool) *HunterDiedEvent {
	return &HunterDiedEvent{
		BaseEvent: newBase(TypeHunterDied, gameID),
		Metadata:  EventMetadata{Round: round},
		Position:  pos,
		MonsterID: monsterID,
		WalkedIn:  walkedIn,
	}
}

// RoundCompletedEvent is published after a full player move plus monster phase
type RoundCompletedEvent struct {
	BaseEvent
	Metadata       EventMetadata
	CompletedRound int
	Treasures      int
	PlayerScore    int
	ComputerScore  int
	ProcessedTime  time.Duration
}

// NewRoundCompletedEvent creates a new RoundCompletedEvent
func NewRoundCompletedEvent(gameID string, round, treasures, playerScore, computerScore int, processed time.Duration) *RoundCompletedEvent {
	return &RoundCompletedEvent{
		BaseEvent:      newBase(TypeRoundCompleted, gameID),
		Metadata:       EventMetadata{Round: round},
		CompletedRound: round,
		Treasures:      treasures,
		PlayerScore:    playerScore,
		ComputerScore:  computerScore,
		ProcessedTime:  processed,
	}
}

// StateTransitionEvent is published when the game state machine transitions between stages
type StateTransitionEvent struct {
	BaseEvent
	FromStage string
	ToStage   string
	Reason    string
}

// NewStateTransitionEvent creates a new StateTransitionEvent
func NewStateTransitionEvent(gameID, fromStage, toStage, reason string) *StateTransitionEvent {
	return &StateTransitionEvent{
		BaseEvent: newBase(TypeStateTransition, gameID),
		FromStage: fromStage,
		ToStage:   toStage,
		Reason:    reason,
	}
}
