package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/mitchelldurbincs/TreasureHunter/internal/config"
	"github.com/mitchelldurbincs/TreasureHunter/internal/game"
	"github.com/mitchelldurbincs/TreasureHunter/internal/game/events/subscribers"
	"github.com/mitchelldurbincs/TreasureHunter/internal/game/mapgen"
	"github.com/mitchelldurbincs/TreasureHunter/internal/game/states"
	"github.com/mitchelldurbincs/TreasureHunter/internal/replay"
	"github.com/mitchelldurbincs/TreasureHunter/internal/transport/mcp"
	"github.com/mitchelldurbincs/TreasureHunter/internal/transport/websocket"
	"github.com/mitchelldurbincs/TreasureHunter/internal/tui"
)

func playCommand() *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "play a game",
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:  "seed",
				Usage: "RNG seed for the board and monster moves (0 for time-based); unset uses the config",
			},
			&cli.BoolFlag{
				Name:  "random",
				Usage: "generate a random board instead of manual setup",
			},
			&cli.StringFlag{
				Name:  "layout",
				Usage: "load the board from an HCL layout file",
			},
			&cli.BoolFlag{
				Name:  "tui",
				Usage: "full-screen terminal interface",
			},
			&cli.StringFlag{
				Name:  "replay-out",
				Usage: "write a replay file here when the game ends; empty uses the config",
			},
			&cli.StringFlag{
				Name:  "spectate",
				Usage: "serve a websocket event feed for spectators on this address, e.g. :8081",
			},
		},
		Action: runPlay,
	}
}

func replayCommand() *cli.Command {
	return &cli.Command{
		Name:      "replay",
		Usage:     "re-run a replay file and print the final board",
		ArgsUsage: "<file>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if path == "" {
				return fmt.Errorf("replay needs a file argument")
			}
			return playReplay(ctx, path)
		},
	}
}

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "serve the game as MCP tools on stdio",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := config.Get()
			s := mcp.NewServer(mcp.Options{
				GridSize:         cfg.Game.GridSize,
				MaxTreasureValue: cfg.Game.MaxTreasureValue,
				EndReason:        cfg.Game.EndReasonPlayer,
				Board:            mapConfig(cfg),
				Logger:           log.Logger,
			})
			log.Info().Msg("Serving MCP tools on stdio")
			return s.ServeStdio()
		},
	}
}

func mapConfig(cfg *config.Config) mapgen.MapConfig {
	return mapgen.MapConfig{
		Size:               cfg.Game.GridSize,
		Monsters:           cfg.Board.Monsters,
		Treasures:          cfg.Board.Treasures,
		Obstacles:          cfg.Board.Obstacles,
		MaxTreasureValue:   cfg.Game.MaxTreasureValue,
		MinMonsterDistance: cfg.Board.MinMonsterDistance,
	}
}

func runPlay(ctx context.Context, cmd *cli.Command) error {
	cfg := config.Get()

	seed := cfg.Game.Seed
	if cmd.IsSet("seed") {
		seed = cmd.Int64("seed")
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	replayOut := cmd.String("replay-out")
	if replayOut == "" && cfg.Replay.Enabled {
		replayOut = cfg.Replay.Path
	}

	engine, err := game.NewEngine(ctx, game.GameConfig{
		GridSize:         cfg.Game.GridSize,
		MaxTreasureValue: cfg.Game.MaxTreasureValue,
		EndReason:        cfg.Game.EndReasonPlayer,
		Seed:             seed,
		Logger:           log.Logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	log.Info().
		Str("game_id", engine.GameID()).
		Int64("seed", engine.Seed()).
		Int("grid_size", cfg.Game.GridSize).
		Msg("Starting Treasure Hunter")

	eventLogger := subscribers.NewLoggerSubscriber("event-logger", log.Logger, zerolog.DebugLevel)
	engine.EventBus().Subscribe(eventLogger)

	var recorder *replay.Recorder
	if replayOut != "" {
		if recorder, err = replay.Attach(engine, cfg.Game.MaxTreasureValue); err != nil {
			return err
		}
	}

	if addr := cmd.String("spectate"); addr != "" {
		stop := startSpectatorFeed(ctx, engine, addr)
		defer stop()
	}

	switch {
	case cmd.String("layout") != "":
		placements, err := mapgen.LoadLayout(cmd.String("layout"), cfg.Game.GridSize)
		if err != nil {
			return err
		}
		if err := engine.PlaceLayout(placements); err != nil {
			return err
		}
		if err := engine.CompleteSetup(); err != nil {
			return err
		}
	case cmd.Bool("random") || cfg.Board.Random:
		if err := engine.PlaceRandomBoard(mapConfig(cfg)); err != nil {
			return err
		}
		if err := engine.CompleteSetup(); err != nil {
			return err
		}
	}

	if cmd.Bool("tui") {
		err = runTUI(ctx, engine, cfg)
	} else {
		err = runConsole(ctx, engine)
	}
	if err != nil {
		return err
	}

	if recorder != nil && engine.EndReason() != "" {
		if err := replay.Save(replayOut, recorder.Replay()); err != nil {
			return err
		}
		log.Info().Str("path", replayOut).Msg("Replay saved")
	}
	return nil
}

func runConsole(ctx context.Context, engine *game.Engine) error {
	con := newConsole(os.Stdin, os.Stdout, engine, log.Logger)
	if engine.Stage() == states.StageSetup {
		if err := con.runSetup(ctx); err != nil {
			return err
		}
	}
	return con.runPlay(ctx)
}

func runTUI(ctx context.Context, engine *game.Engine, cfg *config.Config) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	return tui.New(screen, engine, cfg.UI.MonsterPhaseDelay(), log.Logger).Run(ctx)
}

// startSpectatorFeed serves the engine's events on addr/ws until stop is called
func startSpectatorFeed(ctx context.Context, engine *game.Engine, addr string) func() {
	hubCtx, cancel := context.WithCancel(ctx)
	hub := websocket.NewHub(log.Logger)
	go hub.Run(hubCtx)
	engine.EventBus().Subscribe(hub)

	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("address", addr).Msg("Spectator feed listening on /ws")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Spectator feed failed")
		}
	}()

	return func() {
		engine.EventBus().Unsubscribe(hub.ID())
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("Spectator feed shutdown")
		}
		cancel()
	}
}

func playReplay(ctx context.Context, path string) error {
	rep, err := replay.Load(path)
	if err != nil {
		return err
	}
	snap, err := replay.Run(ctx, rep, log.Logger)
	if err != nil {
		return err
	}

	fmt.Print(game.RenderBoard(snap, config.Get().UI.ShowCoordinates))
	fmt.Printf("Replayed %d moves. End reason: %s (outcome %s)\n", len(rep.Moves), snap.EndReason, rep.Outcome)
	return nil
}
