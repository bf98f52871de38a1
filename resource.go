package sprig

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// Resources loads named assets. It is handed to Prepare hooks and is
// available to Init hooks through the Runtime. Implementations must be safe
// for concurrent use: kinds are prepared in parallel.
type Resources interface {
	Load(ctx context.Context, name string) ([]byte, error)
	LoadImage(ctx context.Context, name string) (*ebiten.Image, error)
}

// FSResources loads assets from a file system and caches decoded images.
type FSResources struct {
	fsys fs.FS

	mu     sync.Mutex
	images map[string]*ebiten.Image
}

// NewFSResources creates a loader reading from fsys.
func NewFSResources(fsys fs.FS) *FSResources {
	return &FSResources{fsys: fsys, images: make(map[string]*ebiten.Image)}
}

// Load returns the raw bytes of name.
func (r *FSResources) Load(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(r.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return data, nil
}

// LoadImage decodes name as an image. Repeated loads return the cached image.
func (r *FSResources) LoadImage(ctx context.Context, name string) (*ebiten.Image, error) {
	r.mu.Lock()
	img, ok := r.images[name]
	r.mu.Unlock()
	if ok {
		return img, nil
	}

	data, err := r.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	img, _, err = ebitenutil.NewImageFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", name, err)
	}

	r.mu.Lock()
	r.images[name] = img
	r.mu.Unlock()
	return img, nil
}
