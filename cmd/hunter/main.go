// Command hunter plays Treasure Hunter in the terminal.
//
// It supports three modes:
//  1. "play" (default) - a game on the console or, with --tui, full screen
//  2. "replay" - re-runs a saved replay file and checks it reproduces
//  3. "mcp" - serves the game as MCP tools on stdio for an agent to play
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/mitchelldurbincs/TreasureHunter/internal/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newApp().Run(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("hunter failed")
	}
}

func newApp() *cli.Command {
	play := playCommand()

	return &cli.Command{
		Name:  "hunter",
		Usage: "collect treasures before the monsters do",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to config file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level (debug, info, warn, error); empty uses the config",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			play,
			replayCommand(),
			mcpCommand(),
		},
		// Bare "hunter" plays a game with play's defaults
		Action: play.Action,
	}
}

// setup loads config and configures logging before any subcommand runs
func setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if err := config.Init(cmd.String("config")); err != nil {
		return ctx, err
	}
	if err := config.LoadEnvironmentConfig(os.Getenv("APP_ENV")); err != nil {
		return ctx, err
	}

	cfg := config.Get()
	level := cmd.String("log-level")
	if level == "" {
		level = cfg.Server.LogLevel
	}
	setupLogging(level, cfg.Server.LogFormat)

	if config.ConfigFilePath() != "" {
		config.WatchConfig(func(c *config.Config, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("Config reload rejected, keeping previous settings")
				return
			}
			zerolog.SetGlobalLevel(parseLevel(c.Server.LogLevel))
			log.Info().
				Str("log_level", c.Server.LogLevel).
				Int("monster_phase_delay_ms", c.UI.MonsterPhaseDelayMs).
				Msg("Config reloaded")
		})
	}
	return ctx, nil
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func setupLogging(level, format string) {
	zerolog.SetGlobalLevel(parseLevel(level))

	// Logs go to stderr so they never interleave with the board or the MCP stream on stdout
	if os.Getenv("APP_ENV") == "production" || format == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}
}
