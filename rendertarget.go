package sprig

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// RenderTarget is what Renderer hooks draw into. The core only passes it
// along; it never draws itself.
type RenderTarget interface {
	// Screen returns the image to draw into.
	Screen() *ebiten.Image
	// Size returns the logical size of the target in pixels.
	Size() Vec2
}

// Viewport is a RenderTarget over an ebiten image with an optional logical
// offset, used by scenes that scroll.
type Viewport struct {
	image  *ebiten.Image
	Offset Vec2
}

// NewViewport wraps img.
func NewViewport(img *ebiten.Image) *Viewport {
	return &Viewport{image: img}
}

// Reset points the viewport at a new frame image. Ebiten hands Draw a
// different screen after a resize, so Game calls this every frame.
func (v *Viewport) Reset(img *ebiten.Image) {
	v.image = img
}

func (v *Viewport) Screen() *ebiten.Image {
	return v.image
}

func (v *Viewport) Size() Vec2 {
	if v.image == nil {
		return Vec2{}
	}
	b := v.image.Bounds()
	return Vec2{float64(b.Dx()), float64(b.Dy())}
}

// DrawOptions returns image options that translate a world position by the
// viewport offset.
func (v *Viewport) DrawOptions(pos Vec2) *ebiten.DrawImageOptions {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(pos.X-v.Offset.X, pos.Y-v.Offset.Y)
	return op
}
