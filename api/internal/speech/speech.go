// Package speech narrates explanation scripts: synthesize with a TTS model, then play to the end.
package speech

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"math-teacher/api/internal/solver/types"
	"math-teacher/api/internal/speech/audio"
)

var ErrNoAudio = errors.New("tts returned no audio")

// Synthesizer converts a script into PCM audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, lang types.Language) (audio.PCM, error)
}

// Player outputs audio and returns when playback has ended or ctx is done.
type Player interface {
	Play(ctx context.Context, p audio.PCM) error
}

type PlayerFunc func(ctx context.Context, p audio.PCM) error

func (f PlayerFunc) Play(ctx context.Context, p audio.PCM) error { return f(ctx, p) }

// Narrator runs one narration at a time. Failures never reach the caller: a narration that
// could not be produced counts as a finished, empty one.
type Narrator struct {
	synth  Synthesizer
	player Player
	mu     sync.Mutex
}

func NewNarrator(synth Synthesizer, player Player) *Narrator {
	return &Narrator{synth: synth, player: player}
}

// Narrate blocks until the script has been spoken, skipped or ctx is cancelled.
func (n *Narrator) Narrate(ctx context.Context, script string, lang types.Language) {
	if strings.TrimSpace(script) == "" {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	if ctx.Err() != nil {
		return
	}
	pcm, err := n.synth.Synthesize(ctx, script, lang)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			log.Printf("speech: synthesize failed: %v", err)
		}
		return
	}
	if pcm.Empty() {
		log.Printf("speech: %v", ErrNoAudio)
		return
	}
	if err := n.player.Play(ctx, pcm); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("speech: playback failed: %v", err)
	}
}
