// Package mcp exposes a single Treasure Hunter game as MCP tools so an agent
// can play the hunter over stdio.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/TreasureHunter/internal/game"
	"github.com/mitchelldurbincs/TreasureHunter/internal/game/core"
	"github.com/mitchelldurbincs/TreasureHunter/internal/game/mapgen"
)

const (
	serverName    = "Treasure Hunter"
	serverVersion = "1.0.0"
)

// ErrNoGame is returned by tools that need a game before new_game was called
var ErrNoGame = errors.New("no game in progress; call new_game first")

// Options configures games created through the new_game tool
type Options struct {
	GridSize         int
	MaxTreasureValue int
	EndReason        string
	Board            mapgen.MapConfig
	Logger           zerolog.Logger
}

// Server holds the current game and the MCP tool registry
type Server struct {
	opts   Options
	logger zerolog.Logger

	mu     sync.Mutex
	engine *game.Engine

	mcpServer *server.MCPServer
}

// NewServer creates the MCP server with all tools registered
func NewServer(opts Options) *Server {
	s := &Server{
		opts:   opts,
		logger: opts.Logger.With().Str("component", "MCPServer").Logger(),
	}

	s.mcpServer = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(true),
		server.WithInstructions(`Treasure Hunter - MCP Interface

You control the hunter (H) on a square grid. Monsters (M) move after every hunter
move: they capture the hunter when adjacent (including diagonals), otherwise grab a
neighbouring treasure, otherwise wander. Obstacles (#) block everyone.

Treasures (1-9) add their value to whoever collects them. The game ends when the
hunter dies, no treasures are left, or you call end_game. Higher score wins, but a
dead hunter always loses.

TOOLS:
- new_game: start a game (random board by default, or an empty board to set up)
- place: put a piece on the board during setup
- start_game: finish setup and begin play
- move: move the hunter one cell (up/down/left/right)
- end_game: stop the game
- game_state: show the board and scores`),
	)

	s.registerTools()
	return s
}

// MCPServer returns the underlying server for custom transports
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves the tools on stdin and stdout until the client disconnects
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// Engine returns the current game, or nil before new_game
func (s *Server) Engine() *game.Engine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "new_game",
		Description: "Start a new game, replacing any current one",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"seed": map[string]interface{}{
					"type":        "integer",
					"description": "RNG seed for the board and monster moves (0 or omitted for a random seed)",
				},
				"empty_board": map[string]interface{}{
					"type":        "boolean",
					"description": "Start with an empty board in setup instead of a random board in play",
				},
			},
		},
	}, s.handleNewGame)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "place",
		Description: "Place a piece during setup",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"kind": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"hunter", "monster", "obstacle", "treasure"},
					"description": "Piece to place",
				},
				"row": map[string]interface{}{
					"type":        "integer",
					"description": "Row, 0 at the top",
				},
				"col": map[string]interface{}{
					"type":        "integer",
					"description": "Column, 0 at the left",
				},
				"value": map[string]interface{}{
					"type":        "integer",
					"description": "Treasure value (treasure only)",
				},
			},
			Required: []string{"kind", "row", "col"},
		},
	}, s.handlePlace)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "start_game",
		Description: "Finish setup and start play. Requires a hunter on the board.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleStartGame)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Move the hunter one cell. Monsters move afterwards.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"up", "down", "left", "right"},
					"description": "Direction to move",
				},
			},
			Required: []string{"direction"},
		},
	}, s.handleMove)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "end_game",
		Description: "End the game in progress",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"reason": map[string]interface{}{
					"type":        "string",
					"description": "Why the game is ending (optional)",
				},
			},
		},
	}, s.handleEndGame)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Show the board, scores and game stage",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleGameState)
}

func (s *Server) handleNewGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	seed, _ := intArg(args, "seed")
	emptyBoard, _ := args["empty_board"].(bool)

	e, err := game.NewEngine(ctx, game.GameConfig{
		GridSize:         s.opts.GridSize,
		MaxTreasureValue: s.opts.MaxTreasureValue,
		EndReason:        s.opts.EndReason,
		Seed:             int64(seed),
		Logger:           s.opts.Logger,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if !emptyBoard {
		if err := e.PlaceRandomBoard(s.opts.Board); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := e.CompleteSetup(); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	s.mu.Lock()
	s.engine = e
	s.mu.Unlock()

	s.logger.Info().
		Str("game_id", e.GameID()).
		Int64("seed", e.Seed()).
		Bool("empty_board", emptyBoard).
		Msg("New game via MCP")

	return mcp.NewToolResultText(fmt.Sprintf("Game %s created (seed %d).\n\n%s", e.GameID(), e.Seed(), formatState(e))), nil
}

func (s *Server) handlePlace(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	kindName, _ := args["kind"].(string)
	row, okRow := intArg(args, "row")
	col, okCol := intArg(args, "col")
	value, _ := intArg(args, "value")
	if !okRow || !okCol {
		return mcp.NewToolResultError("row and col are required integers"), nil
	}

	kind, _, err := game.ParseEntityKind(kindName)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return s.withEngine(func(e *game.Engine) (string, error) {
		if err := e.PlaceEntity(kind, core.NewPosition(row, col), value); err != nil {
			return "", err
		}
		return fmt.Sprintf("Placed %s at %s.\n\n%s", kind, core.NewPosition(row, col), formatState(e)), nil
	})
}

func (s *Server) handleStartGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.withEngine(func(e *game.Engine) (string, error) {
		if err := e.CompleteSetup(); err != nil {
			return "", err
		}
		return "Game started.\n\n" + formatState(e), nil
	})
}

func (s *Server) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	direction, _ := arguments(request)["direction"].(string)

	return s.withEngine(func(e *game.Engine) (string, error) {
		result, err := e.SubmitMoveInput(direction)
		if err != nil {
			return "", err
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "Moved %s.", strings.ToLower(direction))
		if result.GameEnded {
			fmt.Fprintf(&sb, " The game has ended: %s.", result.Reason)
		}
		sb.WriteString("\n\n")
		sb.WriteString(formatState(e))
		return sb.String(), nil
	})
}

func (s *Server) handleEndGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reason, _ := arguments(request)["reason"].(string)

	return s.withEngine(func(e *game.Engine) (string, error) {
		if err := e.RequestEnd(reason); err != nil {
			return "", err
		}
		return formatState(e), nil
	})
}

func (s *Server) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.withEngine(func(e *game.Engine) (string, error) {
		return formatState(e), nil
	})
}

// withEngine runs fn on the current game under the server lock. Engine errors
// become tool errors so the agent sees them.
func (s *Server) withEngine(fn func(e *game.Engine) (string, error)) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.engine == nil {
		return mcp.NewToolResultError(ErrNoGame.Error()), nil
	}
	text, err := fn(s.engine)
	if err != nil {
		s.logger.Debug().Err(err).Msg("Tool call rejected")
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func formatState(e *game.Engine) string {
	snap := e.Snapshot()

	var sb strings.Builder
	fmt.Fprintf(&sb, "Stage: %s\n", snap.Stage)
	if snap.HasHunter {
		fmt.Fprintf(&sb, "Hunter: %s\n", snap.Hunter.Pos)
	}
	sb.WriteString(game.RenderBoard(snap, true))

	if snap.Stage.IsTerminal() {
		outcome, _ := e.Outcome()
		sb.WriteString(game.ResultMessage(snap.EndReason, outcome))
		sb.WriteString("\n")
	}
	return sb.String()
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	if args, ok := request.Params.Arguments.(map[string]interface{}); ok {
		return args
	}
	return map[string]interface{}{}
}

// intArg reads an integer argument. JSON numbers arrive as float64.
func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case int64:
		return int(v), true
	default:
		return 0, false
	}
}
