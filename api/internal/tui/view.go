package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"math-teacher/api/internal/input"
	"math-teacher/api/internal/lesson"
	"math-teacher/api/internal/solver/types"
)

const (
	crust    = "#11111b"
	surface2 = "#585b70"
	overlay0 = "#6c7086"
	text     = "#cdd6f4"

	mauve    = "#cba6f7"
	red      = "#f38ba8"
	green    = "#a6e3a1"
	yellow   = "#f9e2af"
	blue     = "#89b4fa"
	lavender = "#b4befe"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(crust)).
			Background(lipgloss.Color(mauve)).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(surface2)).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(lavender))

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(crust)).
			Background(lipgloss.Color(lavender)).
			Padding(0, 1)

	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(overlay0)).
			Padding(0, 1)

	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(overlay0))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(red)).Bold(true)
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(yellow))
	resultStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(green)).Bold(true)
	badgeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(crust)).Background(lipgloss.Color(yellow)).Padding(0, 1)

	boardColors = map[types.Color]lipgloss.Style{
		types.ColorBlue:  lipgloss.NewStyle().Foreground(lipgloss.Color(blue)),
		types.ColorBlack: lipgloss.NewStyle().Foreground(lipgloss.Color(text)),
		types.ColorGreen: lipgloss.NewStyle().Foreground(lipgloss.Color(green)).Bold(true),
	}
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	snap := m.machine.Snapshot()
	t := lesson.Text(snap.Lang)

	var b strings.Builder
	b.WriteString(titleStyle.Render(t.Title))
	b.WriteString(" ")
	b.WriteString(dimStyle.Render(t.Subtitle))
	b.WriteString("\n")
	b.WriteString(m.statusLine(snap))
	b.WriteString("\n\n")
	b.WriteString(m.tabs(t))
	b.WriteString("\n")
	b.WriteString(panelStyle.Render(m.inputView(t)))
	b.WriteString("\n")

	switch {
	case snap.Error != "":
		b.WriteString(errorStyle.Render(snap.Error))
		b.WriteString("\n")
	case m.notice != "":
		b.WriteString(noticeStyle.Render(m.notice))
		b.WriteString("\n")
	}

	if snap.Solution != nil {
		b.WriteString(m.viewport.View())
		b.WriteString("\n")
	}
	b.WriteString(m.help.ShortHelpView(Keys.ShortHelp()))
	return b.String()
}

func (m Model) statusLine(snap lesson.Snapshot) string {
	label := snap.Status.Label(snap.Lang)
	if snap.Status == lesson.StatusReady {
		return dimStyle.Render("● " + label)
	}
	return m.spinner.View() + " " + label
}

func (m Model) tabs(t lesson.Messages) string {
	labels := map[input.Mode]string{
		input.ModeText:  t.ModeText,
		input.ModeVoice: t.ModeVoice,
		input.ModeImage: t.ModeImage,
	}
	var parts []string
	for _, mode := range input.Modes {
		st := tabStyle
		if mode == m.capture.Mode() {
			st = activeTabStyle
		}
		parts = append(parts, st.Render(labels[mode]))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) inputView(t lesson.Messages) string {
	if m.askPath {
		v := "🖼  " + m.path.View()
		if m.capture.HasImage() {
			v += "\n" + dimStyle.Render("enter ∅ = remove image")
		}
		return v
	}
	var b strings.Builder
	switch m.capture.Mode() {
	case input.ModeVoice:
		if m.deps.Recorder.Recording() {
			b.WriteString(errorStyle.Render("● REC"))
			b.WriteString(dimStyle.Render("  ctrl+r ■"))
		} else {
			b.WriteString(dimStyle.Render("ctrl+r ●"))
		}
		b.WriteString("\n")
	case input.ModeImage:
		b.WriteString(dimStyle.Render("ctrl+o 🖼  · ctrl+p 📋"))
		b.WriteString("\n")
	}
	if m.capture.HasImage() {
		b.WriteString(resultStyle.Render("🖼  ✓"))
		b.WriteString(dimStyle.Render("  ctrl+x ✗"))
		b.WriteString("\n")
	}
	b.WriteString(m.editor.View())
	if m.machine.Status() == lesson.StatusThinking {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(t.Solving))
	}
	return b.String()
}

// refresh re-renders the solution into the viewport.
func (m *Model) refresh() {
	snap := m.machine.Snapshot()
	if snap.Solution == nil {
		m.viewport.SetContent("")
		return
	}
	m.viewport.SetContent(renderSolution(snap))
}

func renderSolution(snap lesson.Snapshot) string {
	t := lesson.Text(snap.Lang)
	sol := snap.Solution

	var b strings.Builder
	b.WriteString(headerStyle.Render(t.UnderstandingHeader))
	b.WriteString("\n")
	b.WriteString(sol.Understanding)
	b.WriteString("\n\n")

	b.WriteString(headerStyle.Render(t.StepsHeader))
	b.WriteString("\n")
	for i, st := range sol.TextSteps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, st)
	}
	b.WriteString("\n")

	b.WriteString(headerStyle.Render(t.WhiteboardHeader))
	b.WriteString("\n")
	b.WriteString(renderBoard(snap, t))
	b.WriteString("\n\n")

	b.WriteString(headerStyle.Render(t.FinalHeader))
	b.WriteString("\n")
	b.WriteString(resultStyle.Render(snap.Headline))
	if snap.Badge != "" {
		b.WriteString("  ")
		b.WriteString(badgeStyle.Render(snap.Badge))
	}
	return b.String()
}

func renderBoard(snap lesson.Snapshot, t lesson.Messages) string {
	if snap.BoardTotal == 0 {
		return dimStyle.Render("—")
	}
	if !snap.BoardStarted {
		return dimStyle.Render(t.WhiteboardSub) + "\n" + noticeStyle.Render("ctrl+b  "+t.WhiteboardStart)
	}
	var lines []string
	for _, st := range snap.Board {
		style, ok := boardColors[st.Color]
		if !ok {
			style = boardColors[types.ColorBlack]
		}
		lines = append(lines, style.Render(st.Content))
	}
	footer := t.WhiteboardWriting
	if snap.BoardDone {
		footer = t.WhiteboardExplaining
	}
	lines = append(lines, dimStyle.Render(fmt.Sprintf("%s (%d/%d)", footer, len(snap.Board), snap.BoardTotal)))
	return panelStyle.Render(strings.Join(lines, "\n"))
}
