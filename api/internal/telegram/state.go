package telegram

import (
	"context"
	"sync"
	"time"

	"math-teacher/api/internal/input"
	"math-teacher/api/internal/lesson"
	"math-teacher/api/internal/solver/types"
	"math-teacher/api/internal/speech"
)

const (
	debounce  = 1200 * time.Millisecond
	maxPixels = 18_000_000
)

// session is one chat's lesson. prev and boardMsgID are touched only by observe, which the
// runner calls from its own goroutine.
type session struct {
	chatID int64
	runner *lesson.Runner
	cancel context.CancelFunc

	mu   sync.Mutex
	lang types.Language

	prev       lesson.Snapshot
	boardMsgID int
}

func (s *session) Lang() types.Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lang
}

func (s *session) setLang(l types.Language) {
	s.mu.Lock()
	s.lang = l
	s.mu.Unlock()
}

func (r *Router) session(chatID int64) *session {
	if v, ok := r.sessions.Load(chatID); ok {
		return v.(*session)
	}

	lang := r.DefaultLang
	if !lang.Valid() {
		lang = types.LangArabic
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &session{chatID: chatID, cancel: cancel, lang: lang}

	m := lesson.NewMachine(lang, r.Interval)
	s.prev = m.Snapshot()
	s.runner = lesson.NewRunner(m, r.Engine.Solve, r.narrateFunc(chatID), func(ev lesson.Event, snap lesson.Snapshot) {
		r.observe(s, ev, snap)
	}).WithSolveTimeout(r.SolveTimeout)

	v, loaded := r.sessions.LoadOrStore(chatID, s)
	if loaded {
		cancel()
		return v.(*session)
	}
	go func() { _ = s.runner.Run(ctx) }()
	return s
}

func (r *Router) narrateFunc(chatID int64) lesson.NarrateFunc {
	if r.Synth == nil {
		return func(ctx context.Context, script string, lang types.Language) {
			if ctx.Err() == nil && script != "" {
				r.send(chatID, "🗣 "+script)
			}
		}
	}
	n := speech.NewNarrator(r.Synth, &chatPlayer{bot: r.Bot, chatID: chatID})
	return n.Narrate
}

func (r *Router) transcriber() input.Transcriber {
	if r.Transcriber == nil {
		return input.StubTranscriber{}
	}
	return r.Transcriber
}

type photoBatch struct {
	ChatID       int64
	Key          string // "grp:<mediaGroupID>" | "chat:<chatID>"
	MediaGroupID string
	Caption      string

	mu     sync.Mutex
	images [][]byte
	timer  *time.Timer
}
