package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/TreasureHunter/internal/config"
	"github.com/mitchelldurbincs/TreasureHunter/internal/game"
	"github.com/mitchelldurbincs/TreasureHunter/internal/game/core"
	"github.com/mitchelldurbincs/TreasureHunter/internal/game/states"
)

const setupHelp = `Place pieces with: <kind> <row> <col> [value]
  kind: h (hunter), m (monster), o (obstacle), t (treasure, needs a value)
  a single digit 1-9 places a treasure of that value, e.g. "5 2 3"
Type "done" to start playing.`

const playHelp = `Move with w/a/s/d (or up/left/down/right). Type "end" to stop the game.`

// console drives one game from a line-oriented reader
type console struct {
	in     *bufio.Scanner
	out    io.Writer
	engine *game.Engine
	logger zerolog.Logger

	// Read on every round so a config reload takes effect mid-game
	delay      func() time.Duration
	showCoords func() bool
}

func newConsole(in io.Reader, out io.Writer, engine *game.Engine, logger zerolog.Logger) *console {
	return &console{
		in:     bufio.NewScanner(in),
		out:    out,
		engine: engine,
		logger: logger.With().Str("component", "Console").Logger(),
		delay: func() time.Duration {
			return config.Get().UI.MonsterPhaseDelay()
		},
		showCoords: func() bool {
			return config.Get().UI.ShowCoordinates
		},
	}
}

func (c *console) readLine(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(c.out, prompt)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}

func (c *console) render() {
	fmt.Fprint(c.out, game.RenderBoard(c.engine.Snapshot(), c.showCoords()))
}

// runSetup reads placements until the player types done with a hunter on the board
func (c *console) runSetup(ctx context.Context) error {
	fmt.Fprintln(c.out, setupHelp)
	c.render()

	for {
		line, err := c.readLine(ctx, "setup> ")
		if err != nil {
			return err
		}

		switch strings.ToLower(line) {
		case "":
			continue
		case "help", "?":
			fmt.Fprintln(c.out, setupHelp)
			continue
		case "done":
			err := c.engine.CompleteSetup()
			if errors.Is(err, core.ErrSetupIncomplete) {
				fmt.Fprintln(c.out, "Place the hunter before starting.")
				continue
			}
			return err
		}

		if err := c.place(line); err != nil {
			fmt.Fprintf(c.out, "Cannot place: %v\n", err)
			continue
		}
		c.render()
	}
}

func (c *console) place(line string) error {
	fields := strings.Fields(line)
	if len(fields) < 3 || len(fields) > 4 {
		return fmt.Errorf("expected <kind> <row> <col> [value]")
	}

	kind, value, err := game.ParseEntityKind(fields[0])
	if err != nil {
		return err
	}
	row, err := strconv.Atoi(fields[1])
	if err != nil {
		return fmt.Errorf("row %q is not a number", fields[1])
	}
	col, err := strconv.Atoi(fields[2])
	if err != nil {
		return fmt.Errorf("column %q is not a number", fields[2])
	}
	if len(fields) == 4 {
		if kind != game.KindTreasure || value != 0 {
			return fmt.Errorf("only \"t\" takes a value")
		}
		if value, err = strconv.Atoi(fields[3]); err != nil {
			return fmt.Errorf("value %q is not a number", fields[3])
		}
	}

	return c.engine.PlaceEntity(kind, core.NewPosition(row, col), value)
}

// runPlay reads moves until the game reaches the end stage
func (c *console) runPlay(ctx context.Context) error {
	fmt.Fprintln(c.out, playHelp)
	c.render()

	for c.engine.Stage() == states.StagePlay {
		line, err := c.readLine(ctx, "move> ")
		if err != nil {
			return err
		}

		switch strings.ToLower(line) {
		case "":
			continue
		case "help", "?":
			fmt.Fprintln(c.out, playHelp)
			continue
		case "end", "quit", "q":
			if err := c.engine.RequestEnd(""); err != nil {
				return err
			}
			continue
		}

		result, err := c.engine.SubmitMoveInput(line)
		switch {
		case errors.Is(err, core.ErrMoveRejected):
			fmt.Fprintln(c.out, "That way is blocked.")
			continue
		case errors.Is(err, core.ErrInvalidDirection):
			fmt.Fprintln(c.out, playHelp)
			continue
		case err != nil:
			return err
		}

		if result.GameEnded {
			break
		}
		if d := c.delay(); d > 0 {
			fmt.Fprintln(c.out, "Monsters are moving...")
			select {
			case <-time.After(d):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		c.render()
	}

	outcome, err := c.engine.Outcome()
	if err != nil {
		return err
	}
	c.render()
	fmt.Fprintln(c.out, game.ResultMessage(c.engine.EndReason(), outcome))
	c.logger.Info().
		Str("reason", c.engine.EndReason()).
		Str("outcome", outcome.String()).
		Int("rounds", c.engine.Round()).
		Dur("elapsed", c.engine.Elapsed()).
		Msg("Game over")
	return nil
}
