package sprig

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

// AudioController loads and plays named clips. Scenes use it from their
// Init hooks; the core never calls it.
type AudioController interface {
	Load(ctx context.Context, name, path string) error
	Play(name string) error
}

const defaultSampleRate = 44100

// EbitenAudio plays WAV clips through ebiten's audio context.
type EbitenAudio struct {
	res     Resources
	ctx     *audio.Context
	players map[string]*audio.Player
}

// NewEbitenAudio creates an audio controller loading clips through res. The
// process-wide ebiten audio context is reused if one exists.
func NewEbitenAudio(res Resources) *EbitenAudio {
	ctx := audio.CurrentContext()
	if ctx == nil {
		ctx = audio.NewContext(defaultSampleRate)
	}
	return &EbitenAudio{res: res, ctx: ctx, players: make(map[string]*audio.Player)}
}

// Load decodes the WAV file at path and registers it as name.
func (a *EbitenAudio) Load(ctx context.Context, name, path string) error {
	data, err := a.res.Load(ctx, path)
	if err != nil {
		return err
	}
	stream, err := wav.DecodeWithSampleRate(a.ctx.SampleRate(), bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode clip %s: %w", path, err)
	}
	pcm, err := io.ReadAll(stream)
	if err != nil {
		return fmt.Errorf("read clip %s: %w", path, err)
	}
	a.players[name] = a.ctx.NewPlayerFromBytes(pcm)
	return nil
}

// Play restarts the clip registered as name.
func (a *EbitenAudio) Play(name string) error {
	p, ok := a.players[name]
	if !ok {
		return fmt.Errorf("play %s: clip not loaded", name)
	}
	if err := p.Rewind(); err != nil {
		return fmt.Errorf("play %s: %w", name, err)
	}
	p.Play()
	return nil
}
