package replay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mitchelldurbincs/TreasureHunter/internal/game"
	"github.com/mitchelldurbincs/TreasureHunter/internal/game/core"
	"github.com/mitchelldurbincs/TreasureHunter/internal/game/events"
	"github.com/mitchelldurbincs/TreasureHunter/internal/game/states"
	"github.com/rs/zerolog"
)

// FormatVersion is written into every replay file
const FormatVersion = 1

var (
	// ErrNoSeed is returned when recording an engine whose rng seed is unknown
	ErrNoSeed = errors.New("engine has no recorded seed; replay would not be reproducible")
	// ErrUnsupportedVersion is returned when decoding a replay from another format version
	ErrUnsupportedVersion = errors.New("unsupported replay version")
	// ErrDiverged is returned when a replayed game does not match its recording
	ErrDiverged = errors.New("replay diverged from recording")
)

// Placement is one recorded setup placement
type Placement struct {
	Kind  string `json:"kind"`
	Row   int    `json:"row"`
	Col   int    `json:"col"`
	Value int    `json:"value,omitempty"`
}

// Replay is everything needed to reproduce a game: the seed, the board and the
// accepted moves. Rejected inputs change nothing and are not stored.
type Replay struct {
	Version          int         `json:"version"`
	GameID           string      `json:"game_id"`
	Seed             int64       `json:"seed"`
	GridSize         int         `json:"grid_size"`
	MaxTreasureValue int         `json:"max_treasure_value"`
	Placements       []Placement `json:"placements"`
	Moves            []string    `json:"moves"`
	EndReason        string      `json:"end_reason,omitempty"`
	// RequestedEnd is set when the game was ended by the player rather than by a move
	RequestedEnd     bool        `json:"requested_end,omitempty"`
	Outcome          string      `json:"outcome,omitempty"`
	PlayerScore      int         `json:"player_score"`
	ComputerScore    int         `json:"computer_score"`
	RecordedAt       time.Time   `json:"recorded_at"`
}

// Recorder is an event bus subscriber that builds a Replay as a game is played
type Recorder struct {
	mu            sync.Mutex
	replay        Replay
	lastMoveRound int
}

// NewRecorder creates a recorder for a game with the given parameters
func NewRecorder(gameID string, seed int64, gridSize, maxTreasureValue int) *Recorder {
	return &Recorder{
		replay: Replay{
			Version:          FormatVersion,
			GameID:           gameID,
			Seed:             seed,
			GridSize:         gridSize,
			MaxTreasureValue: maxTreasureValue,
			Placements:       make([]Placement, 0, 16),
			Moves:            make([]string, 0, 64),
		},
	}
}

// Attach creates a recorder for e and subscribes it to the engine's event bus.
// It must be called before the first placement.
func Attach(e *game.Engine, maxTreasureValue int) (*Recorder, error) {
	if e.Seed() == 0 {
		return nil, ErrNoSeed
	}
	r := NewRecorder(e.GameID(), e.Seed(), e.Snapshot().GridSize, maxTreasureValue)
	e.EventBus().Subscribe(r)
	return r, nil
}

// ID implements events.Subscriber
func (r *Recorder) ID() string {
	return "replay-recorder-" + r.replay.GameID
}

// InterestedIn implements events.Subscriber
func (r *Recorder) InterestedIn(eventType string) bool {
	switch eventType {
	case events.TypeEntityPlaced, events.TypeHunterMoved, events.TypeGameEnded:
		return true
	}
	return false
}

// HandleEvent implements events.Subscriber
func (r *Recorder) HandleEvent(event events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch e := event.(type) {
	case *events.EntityPlacedEvent:
		r.replay.Placements = append(r.replay.Placements, Placement{
			Kind:  e.Kind,
			Row:   e.Position.Row,
			Col:   e.Position.Col,
			Value: e.Value,
		})
	case *events.HunterMovedEvent:
		r.replay.Moves = append(r.replay.Moves, e.Direction.String())
		r.lastMoveRound = e.Metadata.Round
	case *events.GameEndedEvent:
		r.replay.EndReason = e.Reason
		r.replay.RequestedEnd = len(r.replay.Moves) == 0 || r.lastMoveRound != e.Metadata.Round
		r.replay.Outcome = e.Outcome
		r.replay.PlayerScore = e.PlayerScore
		r.replay.ComputerScore = e.ComputerScore
		r.replay.RecordedAt = e.Timestamp()
	}
}

// Replay returns a copy of what has been recorded so far
func (r *Recorder) Replay() *Replay {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := r.replay
	out.Placements = append([]Placement(nil), r.replay.Placements...)
	out.Moves = append([]string(nil), r.replay.Moves...)
	return &out
}

// Encode writes rep as indented JSON
func Encode(w io.Writer, rep *Replay) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("failed to encode replay: %w", err)
	}
	return nil
}

// Decode reads a replay written by Encode
func Decode(r io.Reader) (*Replay, error) {
	var rep Replay
	if err := json.NewDecoder(r).Decode(&rep); err != nil {
		return nil, fmt.Errorf("failed to decode replay: %w", err)
	}
	if rep.Version != FormatVersion {
		return nil, fmt.Errorf("version %d: %w", rep.Version, ErrUnsupportedVersion)
	}
	if rep.GridSize <= 0 {
		return nil, fmt.Errorf("invalid grid size %d in replay", rep.GridSize)
	}
	return &rep, nil
}

// Save writes rep to path
func Save(path string, rep *Replay) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create replay file: %w", err)
	}
	if err := Encode(f, rep); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Load reads a replay from path
func Load(path string) (*Replay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open replay file: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Run plays rep on a fresh engine and returns the final snapshot. It fails with
// ErrDiverged if a recorded move is rejected or the result differs.
func Run(ctx context.Context, rep *Replay, logger zerolog.Logger) (game.Snapshot, error) {
	logger = logger.With().Str("component", "Replay").Str("game_id", rep.GameID).Logger()

	e, err := game.NewEngine(ctx, game.GameConfig{
		GridSize:         rep.GridSize,
		MaxTreasureValue: rep.MaxTreasureValue,
		GameID:           rep.GameID,
		Seed:             rep.Seed,
		Logger:           logger,
	})
	if err != nil {
		return game.Snapshot{}, err
	}

	for _, p := range rep.Placements {
		kind, _, err := game.ParseEntityKind(p.Kind)
		if err != nil {
			return game.Snapshot{}, err
		}
		if err := e.PlaceEntity(kind, core.Position{Row: p.Row, Col: p.Col}, p.Value); err != nil {
			return game.Snapshot{}, fmt.Errorf("replay placement: %w", err)
		}
	}
	if err := e.CompleteSetup(); err != nil {
		return game.Snapshot{}, err
	}

	for i, move := range rep.Moves {
		if err := ctx.Err(); err != nil {
			return e.Snapshot(), err
		}
		if _, err := e.SubmitMoveInput(move); err != nil {
			logger.Warn().Err(err).Int("move", i).Msg("Recorded move failed")
			return e.Snapshot(), fmt.Errorf("move %d %q: %v: %w", i, move, err, ErrDiverged)
		}
	}

	if e.Stage() == states.StagePlay && rep.RequestedEnd {
		if err := e.RequestEnd(rep.EndReason); err != nil {
			return e.Snapshot(), err
		}
	}

	snap := e.Snapshot()
	if rep.EndReason != "" && snap.EndReason != rep.EndReason {
		return snap, fmt.Errorf("end reason %q, recorded %q: %w", snap.EndReason, rep.EndReason, ErrDiverged)
	}
	if rep.Outcome != "" {
		outcome, err := e.Outcome()
		if err != nil {
			return snap, err
		}
		if outcome.String() != rep.Outcome {
			return snap, fmt.Errorf("outcome %s, recorded %s: %w", outcome, rep.Outcome, ErrDiverged)
		}
	}

	logger.Info().
		Int("moves", len(rep.Moves)).
		Str("end_reason", snap.EndReason).
		Msg("Replay finished")
	return snap, nil
}
