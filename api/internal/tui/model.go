// Package tui is the terminal front-end: one lesson session driven by bubbletea.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"math-teacher/api/internal/input"
	"math-teacher/api/internal/lesson"
	"math-teacher/api/internal/solver/types"
)

// Deps are the side effects the model triggers. Transcriber defaults to the stub; a nil Recorder
// becomes input.RecorderFor(Transcriber).
type Deps struct {
	Solve        lesson.SolveFunc
	Narrate      lesson.NarrateFunc
	Recorder     input.Recorder
	Transcriber  input.Transcriber
	SolveTimeout time.Duration
}

// inflight holds the cancel funcs of running commands. Model is copied on every Update, so
// it keeps a pointer.
type inflight struct {
	solve     context.CancelFunc
	narration context.CancelFunc
}

type Model struct {
	deps    Deps
	machine *lesson.Machine
	capture *input.Capture
	running *inflight

	editor   textarea.Model
	path     textinput.Model
	askPath  bool
	spinner  spinner.Model
	viewport viewport.Model
	help     help.Model

	notice   string
	width    int
	height   int
	quitting bool
}

type transcriptMsg struct {
	transcript input.Transcript
	err        error
}

func New(lang types.Language, interval time.Duration, deps Deps) Model {
	if deps.Transcriber == nil {
		deps.Transcriber = input.StubTranscriber{}
	}
	if deps.Recorder == nil {
		deps.Recorder = input.RecorderFor(deps.Transcriber)
	}
	if deps.Narrate == nil {
		deps.Narrate = func(context.Context, string, types.Language) {}
	}

	machine := lesson.NewMachine(lang, interval)
	lang = machine.Lang()

	ed := textarea.New()
	ed.Placeholder = lesson.Text(lang).Placeholder
	ed.ShowLineNumbers = false
	ed.CharLimit = 4000
	ed.SetHeight(4)
	ed.Focus()

	p := textinput.New()
	p.Placeholder = "~/Pictures/problem.png"
	p.CharLimit = 512

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(mauve))

	return Model{
		deps:     deps,
		machine:  machine,
		capture:  input.NewCapture(lang),
		running:  &inflight{},
		editor:   ed,
		path:     p,
		spinner:  s,
		viewport: viewport.New(80, 20),
		help:     help.New(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick)
}

// Snapshot exposes the lesson state, mainly for tests and the one-shot CLI.
func (m Model) Snapshot() lesson.Snapshot { return m.machine.Snapshot() }
