// Package lesson sequences the presentation of a solution: solve, narrate, whiteboard, narrate again.
package lesson

import (
	"errors"
	"strings"
	"time"

	"math-teacher/api/internal/input"
	"math-teacher/api/internal/solver"
	"math-teacher/api/internal/solver/types"
	"math-teacher/api/internal/whiteboard"
)

type Status string

const (
	StatusReady           Status = "ready"
	StatusThinking        Status = "thinking"
	StatusExplainingText  Status = "explaining_text"
	StatusExplainingBoard Status = "explaining_board"
)

var (
	ErrNoSolution = errors.New("there is no solution to present yet")
	ErrBusy       = errors.New("the whiteboard is already being explained")
)

// Machine is the presentation state of one session. Handle is the only mutator and it performs
// no I/O; it is meant to be driven from a single goroutine.
type Machine struct {
	lang     types.Language
	status   Status
	solution *types.Solution
	errMsg   string
	board    *whiteboard.Animator
	token    Token
	interval time.Duration
}

func NewMachine(lang types.Language, interval time.Duration) *Machine {
	if !lang.Valid() {
		lang = types.LangArabic
	}
	if interval <= 0 {
		interval = whiteboard.DefaultInterval
	}
	return &Machine{
		lang:     lang,
		status:   StatusReady,
		board:    whiteboard.New(nil),
		interval: interval,
	}
}

func (m *Machine) Status() Status       { return m.status }
func (m *Machine) Lang() types.Language { return m.lang }
func (m *Machine) Err() string          { return m.errMsg }
func (m *Machine) Token() Token         { return m.token }

func (m *Machine) Solution() (types.Solution, bool) {
	if m.solution == nil {
		return types.Solution{}, false
	}
	return *m.solution, true
}

// Handle applies ev and returns the effects to run, in order.
func (m *Machine) Handle(ev Event) []Effect {
	switch e := ev.(type) {
	case Submit:
		return m.submit(e)
	case SolveFailed:
		return m.solveFailed(e)
	case SolutionReady:
		return m.solutionReady(e)
	case NarrationDone:
		return m.narrationDone(e)
	case StartBoard:
		return m.startBoard()
	case BoardTick:
		return m.boardTick(e)
	case SetLanguage:
		return m.setLanguage(e.Lang)
	case ToggleLanguage:
		return m.setLanguage(m.lang.Toggle())
	}
	return nil
}

func (m *Machine) submit(e Submit) []Effect {
	p := input.Problem{Text: strings.TrimSpace(e.Text), Image: strings.TrimSpace(e.Image), Lang: m.lang}
	if p.Empty() {
		m.errMsg = Text(m.lang).ErrorInput
		return nil
	}

	m.token.Generation++
	m.token.Narration++
	m.solution = nil
	m.errMsg = ""
	m.board.Reset(nil)
	m.status = StatusThinking
	return []Effect{
		CancelAll,
		Solve{Token: m.token, Request: solver.Request{Text: p.Text, Image: p.Image, Lang: p.Lang}},
	}
}

func (m *Machine) solveFailed(e SolveFailed) []Effect {
	if e.Token.Generation != m.token.Generation || m.status != StatusThinking {
		return nil
	}
	m.errMsg = FailureMessage(m.lang, e.Err)
	m.status = StatusReady
	return nil
}

// solutionReady is consumed once per generation.
func (m *Machine) solutionReady(e SolutionReady) []Effect {
	if e.Token.Generation != m.token.Generation || m.status != StatusThinking || m.solution != nil {
		return nil
	}
	sol := e.Solution
	m.solution = &sol
	m.board.Reset(sol.WhiteboardSteps)
	return m.narrate()
}

func (m *Machine) narrationDone(e NarrationDone) []Effect {
	if e.Token != m.token || m.status != StatusExplainingText {
		return nil
	}
	m.status = StatusReady
	return nil
}

// CanStartBoard reports why StartBoard would be ignored, or nil.
func (m *Machine) CanStartBoard() error {
	switch {
	case m.solution == nil:
		return ErrNoSolution
	case m.status == StatusExplainingBoard:
		return ErrBusy
	case !m.board.Idle():
		return whiteboard.ErrAlreadyStarted
	case m.board.Len() == 0:
		return whiteboard.ErrEmptyBoard
	}
	return nil
}

// startBoard replaces a running narration; its NarrationDone turns stale.
func (m *Machine) startBoard() []Effect {
	if m.CanStartBoard() != nil {
		return nil
	}
	if err := m.board.Start(); err != nil {
		return nil
	}
	var effs []Effect
	if m.status == StatusExplainingText {
		effs = append(effs, Cancel{Narration: true})
	}
	m.token.Narration++
	m.status = StatusExplainingBoard
	return append(effs, ScheduleReveal{Token: m.token, After: m.interval})
}

func (m *Machine) boardTick(e BoardTick) []Effect {
	if e.Token != m.token || m.status != StatusExplainingBoard || !m.board.Running() {
		return nil
	}
	r, ok := m.board.Reveal()
	if !ok {
		return nil
	}
	if r.Last {
		return m.narrate()
	}
	return []Effect{ScheduleReveal{Token: m.token, After: m.interval}}
}

func (m *Machine) setLanguage(lang types.Language) []Effect {
	if !lang.Valid() {
		return nil
	}
	m.lang = lang
	m.token.Generation++
	m.token.Narration++
	m.solution = nil
	m.errMsg = ""
	m.board.Reset(nil)
	m.status = StatusReady
	return []Effect{CancelAll}
}

func (m *Machine) narrate() []Effect {
	m.token.Narration++
	m.status = StatusExplainingText
	return []Effect{Narrate{Token: m.token, Script: m.solution.AudioScript, Lang: m.lang}}
}
