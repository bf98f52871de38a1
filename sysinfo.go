package sprig

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// SystemInfo is a behavior that shows the current FPS and TPS in a corner
// of the render target. The text is refreshed every Interval.
type SystemInfo struct {
	Interval time.Duration // 500ms if zero
	Pos      Vec2

	img   *ebiten.Image
	since time.Duration
	text  string
}

// Init creates the backing image. 100x32 fits "FPS: 60.0\nTPS: 60.0".
func (s *SystemInfo) Init(_ context.Context, _ *Node) error {
	if s.Interval <= 0 {
		s.Interval = 500 * time.Millisecond
	}
	s.img = ebiten.NewImage(100, 32)
	s.since = s.Interval // draw on the first frame
	return nil
}

func (s *SystemInfo) Process(dt time.Duration) error {
	s.since += dt
	if s.since < s.Interval {
		return nil
	}
	s.since = 0
	s.text = fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS())
	return nil
}

func (s *SystemInfo) Render(target RenderTarget) error {
	screen := target.Screen()
	if screen == nil || s.text == "" {
		return nil
	}
	s.img.Clear()
	s.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(s.img, s.text)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(s.Pos.X, s.Pos.Y)
	screen.DrawImage(s.img, op)
	return nil
}

// Text returns the last refreshed text, empty before the first frame.
func (s *SystemInfo) Text() string {
	return s.text
}

func (s *SystemInfo) Dispose() {
	if s.img != nil {
		s.img.Deallocate()
		s.img = nil
	}
}
