package audio

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// oto allows a single context per process.
var (
	otoOnce sync.Once
	otoCtx  *oto.Context
	otoErr  error
	otoRate int
	otoCh   int
)

func sharedContext(sampleRate, channels int) (*oto.Context, error) {
	otoOnce.Do(func() {
		c, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channels,
			Format:       oto.FormatSignedInt16LE,
		})
		if err != nil {
			otoErr = fmt.Errorf("audio: open device: %w", err)
			return
		}
		<-ready
		otoCtx, otoRate, otoCh = c, sampleRate, channels
	})
	if otoErr != nil {
		return nil, otoErr
	}
	if sampleRate != otoRate || channels != otoCh {
		return nil, fmt.Errorf("audio: device opened at %d Hz/%d ch, clip is %d Hz/%d ch", otoRate, otoCh, sampleRate, channels)
	}
	return otoCtx, nil
}

// Speaker plays PCM on the default output device and blocks until the clip ends.
type Speaker struct {
	poll time.Duration
}

func NewSpeaker() *Speaker { return &Speaker{poll: 20 * time.Millisecond} }

func (s *Speaker) Play(ctx context.Context, p PCM) error {
	if p.Empty() {
		return nil
	}
	c, err := sharedContext(p.SampleRate, p.Channels)
	if err != nil {
		return err
	}
	player := c.NewPlayer(bytes.NewReader(p.Data))
	defer player.Close()
	player.Play()

	t := time.NewTicker(s.poll)
	defer t.Stop()
	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			player.Pause()
			return ctx.Err()
		case <-t.C:
		}
	}
	return player.Err()
}

// Discard stands in for a device in headless runs: it waits out the clip duration.
type Discard struct{}

func (Discard) Play(ctx context.Context, p PCM) error {
	d := p.Duration()
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
