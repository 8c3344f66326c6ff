package speech

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"math-teacher/api/internal/solver/types"
	"math-teacher/api/internal/speech/audio"
)

type fakeSynth struct {
	mu    sync.Mutex
	texts []string
	pcm   audio.PCM
	err   error
}

func (f *fakeSynth) Synthesize(ctx context.Context, text string, lang types.Language) (audio.PCM, error) {
	f.mu.Lock()
	f.texts = append(f.texts, text)
	f.mu.Unlock()
	return f.pcm, f.err
}

type recordingPlayer struct {
	mu     sync.Mutex
	played int
	active int
	maxAct int
	delay  time.Duration
	err    error
}

func (p *recordingPlayer) Play(ctx context.Context, pcm audio.PCM) error {
	p.mu.Lock()
	p.active++
	if p.active > p.maxAct {
		p.maxAct = p.active
	}
	p.mu.Unlock()

	time.Sleep(p.delay)

	p.mu.Lock()
	p.active--
	p.played++
	p.mu.Unlock()
	return p.err
}

func clip() audio.PCM {
	return audio.PCM{Data: make([]byte, 480), SampleRate: 24000, Channels: 1}
}

func TestNarrator_Narrate(t *testing.T) {
	ctx := context.Background()

	t.Run("synthesizes and plays the script", func(t *testing.T) {
		s := &fakeSynth{pcm: clip()}
		p := &recordingPlayer{}
		NewNarrator(s, p).Narrate(ctx, "هيا نحل", types.LangArabic)

		if len(s.texts) != 1 || s.texts[0] != "هيا نحل" {
			t.Errorf("unexpected synth calls %v", s.texts)
		}
		if p.played != 1 {
			t.Errorf("expected 1 playback, got %d", p.played)
		}
	})

	t.Run("empty script is a no-op", func(t *testing.T) {
		s := &fakeSynth{pcm: clip()}
		NewNarrator(s, &recordingPlayer{}).Narrate(ctx, "  ", types.LangEnglish)
		if len(s.texts) != 0 {
			t.Error("empty script must not call the synthesizer")
		}
	})

	t.Run("synth failure is swallowed", func(t *testing.T) {
		s := &fakeSynth{err: errors.New("quota")}
		p := &recordingPlayer{}
		NewNarrator(s, p).Narrate(ctx, "x", types.LangEnglish)
		if p.played != 0 {
			t.Error("nothing must be played after a synth failure")
		}
	})

	t.Run("no audio is treated as finished", func(t *testing.T) {
		p := &recordingPlayer{}
		NewNarrator(&fakeSynth{}, p).Narrate(ctx, "x", types.LangEnglish)
		if p.played != 0 {
			t.Error("nothing must be played without audio")
		}
	})

	t.Run("playback failure is swallowed", func(t *testing.T) {
		p := &recordingPlayer{err: errors.New("device busy")}
		NewNarrator(&fakeSynth{pcm: clip()}, p).Narrate(ctx, "x", types.LangEnglish)
		if p.played != 1 {
			t.Errorf("expected playback attempt, got %d", p.played)
		}
	})

	t.Run("cancelled context skips synthesis", func(t *testing.T) {
		s := &fakeSynth{pcm: clip()}
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		NewNarrator(s, &recordingPlayer{}).Narrate(cctx, "x", types.LangEnglish)
		if len(s.texts) != 0 {
			t.Error("cancelled narration must not synthesize")
		}
	})
}

func TestNarrator_Serializes(t *testing.T) {
	p := &recordingPlayer{delay: 20 * time.Millisecond}
	n := NewNarrator(&fakeSynth{pcm: clip()}, p)

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n.Narrate(context.Background(), "x", types.LangArabic)
		}()
	}
	wg.Wait()

	if p.played != 3 {
		t.Errorf("expected 3 playbacks, got %d", p.played)
	}
	if p.maxAct != 1 {
		t.Errorf("expected serialized playback, saw %d concurrent", p.maxAct)
	}
}

func TestPlayerFunc(t *testing.T) {
	called := false
	var pl Player = PlayerFunc(func(ctx context.Context, p audio.PCM) error {
		called = true
		return nil
	})
	_ = pl.Play(context.Background(), clip())
	if !called {
		t.Error("expected func to be called")
	}
}
