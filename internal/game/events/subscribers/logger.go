package subscribers

import (
	"encoding/json"

	"github.com/mitchelldurbincs/TreasureHunter/internal/game/events"
	"github.com/rs/zerolog"
)

// LoggerSubscriber logs events to structured logs
type LoggerSubscriber struct {
	id              string
	logger          zerolog.Logger
	logLevel        zerolog.Level
	eventTypeFilter map[string]bool // If non-nil, only log these event types
	devMode         bool            // If true, log full event details
}

// NewLoggerSubscriber creates a new logger subscriber
func NewLoggerSubscriber(id string, logger zerolog.Logger, logLevel zerolog.Level) *LoggerSubscriber {
	return &LoggerSubscriber{
		id:       id,
		logger:   logger.With().Str("subscriber", "event_logger").Logger(),
		logLevel: logLevel,
	}
}

// ID returns the subscriber's unique identifier
func (ls *LoggerSubscriber) ID() string {
	return ls.id
}

// SetEventFilter sets which event types to log (nil means log all)
func (ls *LoggerSubscriber) SetEventFilter(eventTypes []string) {
	if len(eventTypes) == 0 {
		ls.eventTypeFilter = nil
		return
	}

	ls.eventTypeFilter = make(map[string]bool)
	for _, eventType := range eventTypes {
		ls.eventTypeFilter[eventType] = true
	}
}

// SetDevMode enables or disables development mode logging
func (ls *LoggerSubscriber) SetDevMode(enabled bool) {
	ls.devMode = enabled
}

// InterestedIn returns true if the subscriber wants to receive this event type
func (ls *LoggerSubscriber) InterestedIn(eventType string) bool {
	// If no filter is set, interested in all events
	if ls.eventTypeFilter == nil {
		return true
	}
	return ls.eventTypeFilter[eventType]
}

// HandleEvent processes an event by logging it
func (ls *LoggerSubscriber) HandleEvent(event events.Event) {
	eventLogger := ls.logger.With().
		Str("event_type", event.Type()).
		Str("game_id", event.GameID()).
		Time("timestamp", event.Timestamp()).
		Logger()

	// Create the base event log
	var logEvent *zerolog.Event
	switch ls.logLevel {
	case zerolog.DebugLevel:
		logEvent = eventLogger.Debug()
	case zerolog.InfoLevel:
		logEvent = eventLogger.Info()
	case zerolog.WarnLevel:
		logEvent = eventLogger.Warn()
	case zerolog.ErrorLevel:
		logEvent = eventLogger.Error()
	default:
		logEvent = eventLogger.Info()
	}

	// Add event-specific fields based on type
	switch e := event.(type) {
	case *events.EntityPlacedEvent:
		logEvent.
			Str("kind", e.Kind).
			Int("row", e.Position.Row).
			Int("col", e.Position.Col).
			Int("value", e.Value)

	case *events.GameStartedEvent:
		logEvent.
			Int("grid_size", e.GridSize).
			Int("monsters", e.Monsters).
			Int("treasures", e.Treasures).
			Int("obstacles", e.Obstacles)

	case *events.GameEndedEvent:
		logEvent.
			Int("round", e.Metadata.Round).
			Str("reason", e.Reason).
			Str("outcome", e.Outcome).
			Int("player_score", e.PlayerScore).
			Int("computer_score", e.ComputerScore).
			Dur("duration", e.Duration)

	case *events.HunterMovedEvent:
		logEvent.
			Int("round", e.Metadata.Round).
			Str("direction", e.Direction.String()).
			Int("from_row", e.From.Row).
			Int("from_col", e.From.Col).
			Int("to_row", e.To.Row).
			Int("to_col", e.To.Col)

	case *events.MoveRejectedEvent:
		logEvent.
			Int("round", e.Metadata.Round).
			Str("input", e.Input).
			Str("reason", e.Reason)

	case *events.TreasureCollectedEvent:
		logEvent.
			Int("round", e.Metadata.Round).
			Str("collector", e.Collector).
			Int("monster_id", e.MonsterID).
			Int("value", e.Value).
			Int("player_score", e.PlayerScore).
			Int("computer_score", e.ComputerScore).
			Int("remaining", e.Remaining)

	case *events.MonsterMovedEvent:
		logEvent.
			Int("round", e.Metadata.Round).
			Int("monster_id", e.MonsterID).
			Str("decision", e.Decision).
			Int("to_row", e.To.Row).
			Int("to_col", e.To.Col)

	case *events.HunterDiedEvent:
		logEvent.
			Int("round", e.Metadata.Round).
			Int("monster_id", e.MonsterID).
			Bool("walked_in", e.WalkedIn)

	case *events.RoundCompletedEvent:
		logEvent.
			Int("round", e.CompletedRound).
			Int("treasures", e.Treasures).
			Int("player_score", e.PlayerScore).
			Int("computer_score", e.ComputerScore).
			Dur("process_time", e.ProcessedTime)

	case *events.StateTransitionEvent:
		logEvent.
			Str("from_stage", e.FromStage).
			Str("to_stage", e.ToStage).
			Str("reason", e.Reason)
	}

	// In dev mode, also log the full event as JSON
	if ls.devMode {
		if jsonData, err := json.Marshal(event); err == nil {
			logEvent.RawJSON("event_data", jsonData)
		}
	}

	// Send the log
	logEvent.Msg("Game event")
}
