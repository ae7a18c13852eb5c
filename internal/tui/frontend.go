// Package tui is a full-screen terminal frontend for the engine. During setup a
// cursor picks the cell and a key picks the piece; during play the arrow keys
// or w/a/s/d move the hunter.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/TreasureHunter/internal/game"
	"github.com/mitchelldurbincs/TreasureHunter/internal/game/core"
	"github.com/mitchelldurbincs/TreasureHunter/internal/game/states"
)

// Screen layout
const (
	boardLeft = 4
	boardTop  = 2
	cellWidth = 2
)

var (
	styleDefault  = tcell.StyleDefault
	styleHunter   = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleMonster  = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleObstacle = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleTreasure = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleCursor   = tcell.StyleDefault.Reverse(true)
	styleStatus   = tcell.StyleDefault.Foreground(tcell.ColorBlue)
)

// Frontend draws snapshots on a tcell screen and turns key events into engine calls
type Frontend struct {
	screen tcell.Screen
	engine *game.Engine
	logger zerolog.Logger

	cursor  core.Position
	message string
	delay   time.Duration
}

// New creates a frontend. The screen must already be initialized.
func New(screen tcell.Screen, engine *game.Engine, delay time.Duration, logger zerolog.Logger) *Frontend {
	return &Frontend{
		screen: screen,
		engine: engine,
		delay:  delay,
		logger: logger.With().Str("component", "TUI").Logger(),
	}
}

// Cursor returns the setup cursor position
func (f *Frontend) Cursor() core.Position {
	return f.cursor
}

// Message returns the status line under the board
func (f *Frontend) Message() string {
	return f.message
}

// pollEvents forwards screen events until the screen is finalized or done is
// closed. events is closed when the screen stops delivering.
func (f *Frontend) pollEvents(done <-chan struct{}, events chan<- tcell.Event) {
	for {
		ev := f.screen.PollEvent()
		if ev == nil {
			close(events)
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

// Run polls the screen until the player quits. Once the game has ended any key exits.
func (f *Frontend) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 16)
	done := make(chan struct{})
	defer close(done)
	go f.pollEvents(done, events)

	f.Draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				quit, err := f.HandleKey(ev)
				if err != nil {
					return err
				}
				if quit {
					return nil
				}
			case *tcell.EventResize:
				f.screen.Sync()
			}
			f.Draw()
		}
	}
}

// HandleKey applies one key press. It reports quit once the player leaves the
// finished game. Engine rejections become status messages rather than errors.
func (f *Frontend) HandleKey(ev *tcell.EventKey) (bool, error) {
	if ev.Key() == tcell.KeyCtrlC {
		return true, nil
	}

	switch f.engine.Stage() {
	case states.StageSetup:
		return false, f.handleSetupKey(ev)
	case states.StagePlay:
		return false, f.handlePlayKey(ev)
	default:
		return true, nil
	}
}

func (f *Frontend) handleSetupKey(ev *tcell.EventKey) error {
	size := f.engine.Snapshot().GridSize

	if dir, ok := keyDirection(ev); ok && ev.Key() != tcell.KeyRune {
		if next := f.cursor.Move(dir); next.IsValid(size) {
			f.cursor = next
		}
		return nil
	}

	switch ev.Key() {
	case tcell.KeyEnter:
		err := f.engine.CompleteSetup()
		switch {
		case err == nil:
			f.message = "Game started. Move with the arrow keys or w/a/s/d, q to end."
		case f.engine.Stage() == states.StageSetup:
			f.message = "Place the hunter before starting."
		default:
			return err
		}
		return nil
	case tcell.KeyRune:
	default:
		return nil
	}

	kind, value, err := game.ParseEntityKind(string(ev.Rune()))
	if err != nil || (kind == game.KindTreasure && value == 0) {
		f.message = "Keys: h hunter, m monster, o obstacle, 1-9 treasure, Enter to start"
		return nil
	}
	if err := f.engine.PlaceEntity(kind, f.cursor, value); err != nil {
		f.message = fmt.Sprintf("Cannot place %s: %v", kind, err)
		return nil
	}
	f.message = fmt.Sprintf("Placed %s at %s", kind, f.cursor)
	return nil
}

func (f *Frontend) handlePlayKey(ev *tcell.EventKey) error {
	if ev.Key() == tcell.KeyEscape || (ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
		return f.engine.RequestEnd("")
	}

	dir, ok := keyDirection(ev)
	if !ok {
		return nil
	}

	result, err := f.engine.SubmitMove(dir)
	if err != nil {
		f.message = "That way is blocked."
		return nil
	}
	f.message = ""
	if !result.GameEnded && f.delay > 0 {
		f.Draw()
		time.Sleep(f.delay)
	}
	return nil
}

func keyDirection(ev *tcell.EventKey) (core.Direction, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return core.Up, true
	case tcell.KeyDown:
		return core.Down, true
	case tcell.KeyLeft:
		return core.Left, true
	case tcell.KeyRight:
		return core.Right, true
	case tcell.KeyRune:
		if dir, err := core.ParseDirection(string(ev.Rune())); err == nil {
			return dir, true
		}
	}
	return 0, false
}

// Draw renders the current snapshot
func (f *Frontend) Draw() {
	s := f.engine.Snapshot()
	f.screen.Clear()

	drawText(f.screen, 0, 0, styleStatus, fmt.Sprintf("Treasure Hunter  [%s]", s.Stage))

	for c := 0; c < s.GridSize; c++ {
		drawText(f.screen, boardLeft+c*cellWidth, boardTop-1, styleDefault, fmt.Sprintf("%d", c%10))
	}
	for r := 0; r < s.GridSize; r++ {
		drawText(f.screen, 0, boardTop+r, styleDefault, fmt.Sprintf("%2d", r))
		for c := 0; c < s.GridSize; c++ {
			p := core.NewPosition(r, c)
			ch, style := cellRune(s, p)
			if s.Stage == states.StageSetup && p == f.cursor {
				style = styleCursor
			}
			f.screen.SetContent(boardLeft+c*cellWidth, boardTop+r, ch, nil, style)
		}
	}

	y := boardTop + s.GridSize + 1
	drawText(f.screen, 0, y, styleStatus, fmt.Sprintf("Round %d  Player %d  Computer %d  Treasures left %d",
		s.Round, s.Scores.Player, s.Scores.Computer, len(s.Treasures)))

	msg := f.message
	if s.Stage.IsTerminal() {
		outcome, _ := f.engine.Outcome()
		msg = game.ResultMessage(s.EndReason, outcome) + "  Press any key to exit."
	}
	drawText(f.screen, 0, y+1, styleDefault, msg)

	f.screen.Show()
}

func cellRune(s game.Snapshot, p core.Position) (rune, tcell.Style) {
	if s.MonsterAt(p) >= 0 {
		return 'M', styleMonster
	}
	if s.HasHunter && s.Hunter.Pos == p {
		if !s.Hunter.Alive {
			return 'X', styleMonster
		}
		return 'H', styleHunter
	}
	if s.IsObstacle(p) {
		return '#', styleObstacle
	}
	if t, ok := s.TreasureAt(p); ok {
		return rune('0' + t.Value), styleTreasure
	}
	return '.', styleDefault
}

func drawText(screen tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range text {
		screen.SetContent(x+i, y, r, nil, style)
	}
}
