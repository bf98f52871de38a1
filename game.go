package sprig

import (
	"errors"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// ErrQuit can be returned from a process listener to end Run cleanly.
var ErrQuit = errors.New("sprig: quit")

// Game adapts a Runtime to ebiten.Game. Each Update is one frame with a
// fixed dt of one tick; each Draw fires the render channel.
type Game struct {
	rt       *Runtime
	viewport *Viewport
	w, h     int
	dt       time.Duration
	shots    []string
	drawErr  error // reported by the next Update
}

// NewGame creates a Game for rt using the window size and tick rate in its
// config.
func NewGame(rt *Runtime) *Game {
	cfg := rt.Config()
	return &Game{
		rt:       rt,
		viewport: NewViewport(nil),
		w:        cfg.Window.Width,
		h:        cfg.Window.Height,
		dt:       time.Second / time.Duration(cfg.Loop.TPS),
	}
}

// Viewport returns the render target passed to Render hooks.
func (g *Game) Viewport() *Viewport {
	return g.viewport
}

// Update implements ebiten.Game. A render failure from the previous Draw is
// returned here, ending the game loop.
func (g *Game) Update() error {
	if err := g.drawErr; err != nil {
		return fmt.Errorf("draw: %w", err)
	}
	return g.rt.Frame(g.dt)
}

// Draw implements ebiten.Game. ebiten's Draw has no error return, so a
// render failure is kept for the next Update. Nothing is drawn after one.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.drawErr != nil {
		return
	}
	g.viewport.Reset(screen)
	if err := g.rt.Draw(g.viewport); err != nil {
		g.drawErr = err
		return
	}
	g.flushScreenshots(screen)
}

// Layout implements ebiten.Game with a fixed logical size.
func (g *Game) Layout(_, _ int) (int, int) {
	return g.w, g.h
}

// Run opens a window and drives rt until the window closes, a listener
// returns ErrQuit, or a frame fails. ErrQuit is not reported as an error.
func Run(rt *Runtime) error {
	cfg := rt.Config()
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetTPS(cfg.Loop.TPS)
	if cfg.Window.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}

	rt.Logger().Info("window opening",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
		zap.Int("tps", cfg.Loop.TPS))

	err := ebiten.RunGame(NewGame(rt))
	rt.Close()
	if err != nil && !errors.Is(err, ErrQuit) {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}
