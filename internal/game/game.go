package game

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"github.com/samdwyer/delver/internal/gamedata"
	"github.com/samdwyer/delver/internal/geom"
	"github.com/samdwyer/delver/internal/logger"
	"github.com/samdwyer/delver/internal/ui"
)

// Game connects a Session to a terminal.
type Game struct {
	cfg      Config
	registry *gamedata.SpawnRegistry
	screen   *ui.Screen
	renderer *ui.Renderer
	session  *Session
	running  bool
}

// New creates a new game instance on the real terminal.
func New(cfg Config, registry *gamedata.SpawnRegistry) (*Game, error) {
	screen, err := ui.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewWithScreen(cfg, registry, screen), nil
}

// NewWithScreen creates a game drawing to an already initialized screen.
func NewWithScreen(cfg Config, registry *gamedata.SpawnRegistry, screen *ui.Screen) *Game {
	return &Game{
		cfg:      cfg,
		registry: registry,
		screen:   screen,
		renderer: ui.NewRenderer(screen),
		running:  true,
	}
}

// Session returns the running session, or nil before Run.
func (g *Game) Session() *Session { return g.session }

// Run executes the main game loop until the player quits or ctx is done.
// While a level generates it is redrawn every FrameInterval.
func (g *Game) Run(ctx context.Context) error {
	defer g.screen.Close()

	session, err := NewSession(ctx, g.cfg, g.registry)
	if err != nil {
		return err
	}
	g.session = session
	logger.Log.WithFields(logrus.Fields{
		"seed":      session.Seed(),
		"generator": g.cfg.Generator,
	}).Info("game started")

	pollCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	events := make(chan tcell.Event)
	go g.pollEvents(pollCtx, events)

	interval := g.cfg.FrameInterval
	if interval <= 0 {
		interval = 33 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	g.render()
	for g.running {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			g.handleEvent(ctx, ev)
		case <-ticker.C:
			if g.session.State() != StateGenerating {
				continue
			}
			g.session.Tick(ctx)
		}
		g.render()
	}

	logger.Log.WithFields(logrus.Fields{
		"depth": session.Depth(),
		"turns": session.Turn(),
	}).Info("game ended")
	return nil
}

// pollEvents forwards terminal events until the screen is closed.
func (g *Game) pollEvents(ctx context.Context, events chan<- tcell.Event) {
	defer close(events)
	for {
		ev := g.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-ctx.Done():
			return
		}
	}
}

func (g *Game) handleEvent(ctx context.Context, ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		g.handleKeyEvent(ctx, ev)
	case *tcell.EventResize:
		g.screen.Sync()
	}
}

var runeMoves = map[rune]geom.Point{
	'h': {X: -1}, 'l': {X: 1}, 'k': {Y: -1}, 'j': {Y: 1},
	'y': {X: -1, Y: -1}, 'u': {X: 1, Y: -1},
	'b': {X: -1, Y: 1}, 'n': {X: 1, Y: 1},
}

var keyMoves = map[tcell.Key]geom.Point{
	tcell.KeyUp:    {Y: -1},
	tcell.KeyDown:  {Y: 1},
	tcell.KeyLeft:  {X: -1},
	tcell.KeyRight: {X: 1},
}

// handleKeyEvent processes keyboard input.
func (g *Game) handleKeyEvent(ctx context.Context, ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		g.running = false
		return
	case tcell.KeyRune:
		switch r := ev.Rune(); r {
		case 'q', 'Q':
			g.running = false
		case ' ':
			g.session.Finish(ctx)
		case '.':
			g.session.Wait()
		default:
			if d, ok := runeMoves[r]; ok {
				g.session.TryMove(d)
			}
		}
		return
	}
	if d, ok := keyMoves[ev.Key()]; ok {
		g.session.TryMove(d)
	}
}

func (g *Game) render() {
	s := g.session
	frame := ui.Frame{View: s.View()}
	if s.State() == StateGenerating {
		frame.Status = fmt.Sprintf("Generating depth %d... (space to skip)", s.Depth())
	} else {
		frame.Player = s.Player()
		frame.Monsters = s.Monsters()
		frame.Status = fmt.Sprintf("Depth %d  Turn %d  Seed %d", s.Depth(), s.Turn(), s.Seed())
	}
	if msgs := s.Messages(); len(msgs) > 0 {
		frame.Message = msgs[len(msgs)-1]
	}
	g.renderer.Render(frame)
}
