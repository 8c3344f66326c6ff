package tui

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"math-teacher/api/internal/input"
	"math-teacher/api/internal/lesson"
	"math-teacher/api/internal/whiteboard"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.editor.SetWidth(msg.Width - 4)
		m.viewport.Width = msg.Width - 2
		m.viewport.Height = msg.Height - 16
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case lesson.Event:
		cmd := m.handle(msg)
		return m, cmd

	case transcriptMsg:
		if msg.err != nil {
			log.Printf("tui: transcribe: %v", msg.err)
			m.notice = lesson.Text(m.machine.Lang()).VoiceFailed
			return m, nil
		}
		m.capture.ApplyTranscript(msg.transcript)
		m.editor.SetValue(msg.transcript.Text)
		m.notice = ""
		if msg.transcript.Stub {
			m.notice = lesson.Text(m.machine.Lang()).VoiceStub
		}
		return m, nil

	case tea.KeyMsg:
		if m.askPath {
			return m.updatePath(msg)
		}
		return m.updateKey(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Paste {
		if m.capture.Paste(string(msg.Runes)) {
			m.notice = ""
			return m, nil
		}
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}

	t := lesson.Text(m.machine.Lang())
	switch {
	case key.Matches(msg, Keys.Quit):
		m.quitting = true
		m.cancel(lesson.CancelAll)
		return m, tea.Quit

	case key.Matches(msg, Keys.Solve):
		m.capture.SetText(m.editor.Value())
		cmd := m.handle(lesson.Submit{Text: m.capture.Text(), Image: m.capture.Image()})
		return m, cmd

	case key.Matches(msg, Keys.Mode):
		m.capture.SetMode(m.capture.Mode().Next())
		return m, nil

	case key.Matches(msg, Keys.Image):
		m.askPath = true
		m.path.SetValue("")
		cmd := m.path.Focus()
		return m, cmd

	case key.Matches(msg, Keys.Clipboard):
		image, err := m.capture.PasteClipboard()
		if err != nil {
			log.Printf("tui: %v", err)
			m.notice = t.ErrorInput
			return m, nil
		}
		if !image {
			m.editor.SetValue(m.capture.Text())
		}
		m.notice = ""
		return m, nil

	case key.Matches(msg, Keys.Record):
		cmd := m.toggleRecording()
		return m, cmd

	case key.Matches(msg, Keys.Board):
		if err := m.machine.CanStartBoard(); err != nil {
			if !errors.Is(err, lesson.ErrBusy) && !errors.Is(err, whiteboard.ErrAlreadyStarted) {
				m.notice = t.BoardUnavailable
			}
			return m, nil
		}
		cmd := m.handle(lesson.StartBoard{})
		return m, cmd

	case key.Matches(msg, Keys.Lang):
		cmd := m.handle(lesson.ToggleLanguage{})
		return m, cmd

	case key.Matches(msg, Keys.Clear):
		m.capture.Reset()
		m.editor.Reset()
		m.notice = ""
		return m, nil

	case msg.Type == tea.KeyPgUp || msg.Type == tea.KeyPgDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m Model) updatePath(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.askPath = false
		m.path.Blur()
		return m, nil
	case tea.KeyEnter:
		m.askPath = false
		m.path.Blur()
		// пустой путь снимает прикреплённое изображение
		if strings.TrimSpace(m.path.Value()) == "" {
			m.capture.ClearImage()
			m.notice = ""
			return m, nil
		}
		if err := m.capture.AttachImageFile(m.path.Value()); err != nil {
			log.Printf("tui: %v", err)
			m.notice = lesson.Text(m.machine.Lang()).ErrorInput
			return m, nil
		}
		m.notice = ""
		return m, nil
	}
	var cmd tea.Cmd
	m.path, cmd = m.path.Update(msg)
	return m, cmd
}

func (m *Model) toggleRecording() tea.Cmd {
	rec := m.deps.Recorder
	if !rec.Recording() {
		if err := rec.Start(context.Background()); err != nil {
			log.Printf("tui: record: %v", err)
			t := lesson.Text(m.machine.Lang())
			m.notice = t.VoiceFailed
			if errors.Is(err, input.ErrMicrophoneUnavailable) {
				m.notice = t.MicUnavailable
			}
			return nil
		}
		m.capture.SetMode(input.ModeVoice)
		return nil
	}

	recording, err := rec.Stop()
	if err != nil {
		return func() tea.Msg { return transcriptMsg{err: err} }
	}
	tr, lang := m.deps.Transcriber, m.machine.Lang()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		t, err := tr.Transcribe(ctx, recording, lang)
		return transcriptMsg{transcript: t, err: err}
	}
}

// handle feeds ev to the machine and turns the effects into commands. Results carry the
// token they were started with, so commands that cannot be cancelled (ticks) are simply
// ignored by the machine once stale.
func (m *Model) handle(ev lesson.Event) tea.Cmd {
	effs := m.machine.Handle(ev)
	switch ev.(type) {
	case lesson.Submit, lesson.StartBoard:
		m.notice = ""
	case lesson.SetLanguage, lesson.ToggleLanguage:
		lang := m.machine.Lang()
		m.capture.Lang = lang
		m.editor.Placeholder = lesson.Text(lang).Placeholder
		m.notice = ""
	}

	var cmds []tea.Cmd
	for _, eff := range effs {
		switch e := eff.(type) {
		case lesson.Cancel:
			m.cancel(e)

		case lesson.Solve:
			solve := m.deps.Solve
			ctx, cancel := m.solveContext()
			m.running.solve = cancel
			cmds = append(cmds, func() tea.Msg {
				defer cancel()
				sol, err := solve(ctx, e.Request)
				if err != nil {
					return lesson.SolveFailed{Token: e.Token, Err: err}
				}
				return lesson.SolutionReady{Token: e.Token, Solution: sol}
			})

		case lesson.Narrate:
			narrate := m.deps.Narrate
			ctx, cancel := context.WithCancel(context.Background())
			m.running.narration = cancel
			cmds = append(cmds, func() tea.Msg {
				defer cancel()
				narrate(ctx, e.Script, e.Lang)
				return lesson.NarrationDone{Token: e.Token}
			})

		case lesson.ScheduleReveal:
			tok := e.Token
			cmds = append(cmds, tea.Tick(e.After, func(time.Time) tea.Msg {
				return lesson.BoardTick{Token: tok}
			}))
		}
	}
	m.refresh()
	return tea.Batch(cmds...)
}

func (m *Model) solveContext() (context.Context, context.CancelFunc) {
	if m.deps.SolveTimeout > 0 {
		return context.WithTimeout(context.Background(), m.deps.SolveTimeout)
	}
	return context.WithCancel(context.Background())
}

func (m *Model) cancel(c lesson.Cancel) {
	if c.Solve && m.running.solve != nil {
		m.running.solve()
		m.running.solve = nil
	}
	if c.Narration && m.running.narration != nil {
		m.running.narration()
		m.running.narration = nil
	}
}
