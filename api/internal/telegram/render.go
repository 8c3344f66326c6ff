package telegram

import (
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"math-teacher/api/internal/lesson"
	"math-teacher/api/internal/solver/types"
	"math-teacher/api/internal/util"
)

const maxMessageRunes = 3900

// observe turns state transitions into chat messages. The machine ignores stale or invalid
// events, so every case compares with the previous snapshot before sending anything.
func (r *Router) observe(s *session, ev lesson.Event, snap lesson.Snapshot) {
	prev := s.prev
	s.prev = snap
	s.setLang(snap.Lang)
	t := lesson.Text(snap.Lang)
	cid := s.chatID

	switch ev.(type) {
	case lesson.Submit:
		switch {
		case snap.Status == lesson.StatusThinking:
			s.boardMsgID = 0
			r.send(cid, "⏳ "+t.Solving)
		case snap.Error != "":
			r.send(cid, snap.Error)
		}

	case lesson.SolveFailed:
		if prev.Status == lesson.StatusThinking && snap.Status == lesson.StatusReady {
			r.send(cid, "❌ "+snap.Error)
		}

	case lesson.SolutionReady:
		if prev.Solution != nil || snap.Solution == nil {
			return
		}
		msg := tgbotapi.NewMessage(cid, formatSolution(snap))
		msg.ReplyMarkup = makeLessonKeyboard(snap.Lang, snap.BoardTotal > 0)
		if _, err := r.Bot.Send(msg); err != nil {
			log.Printf("telegram: send solution to %d: %v", cid, err)
		}

	case lesson.StartBoard:
		if prev.Status != lesson.StatusExplainingBoard && snap.Status == lesson.StatusExplainingBoard {
			s.boardMsgID = r.send(cid, formatBoard(snap)).MessageID
			return
		}
		if snap.Solution == nil || snap.BoardTotal == 0 {
			r.send(cid, t.BoardUnavailable)
		}

	case lesson.BoardTick:
		if len(snap.Board) == len(prev.Board) {
			return
		}
		text := formatBoard(snap)
		if s.boardMsgID == 0 {
			s.boardMsgID = r.send(cid, text).MessageID
			return
		}
		if _, err := r.Bot.Send(tgbotapi.NewEditMessageText(cid, s.boardMsgID, text)); err != nil {
			log.Printf("telegram: edit board in %d: %v", cid, err)
		}

	case lesson.SetLanguage, lesson.ToggleLanguage:
		s.boardMsgID = 0
		r.send(cid, t.LangSwitched)
	}
}

func formatSolution(snap lesson.Snapshot) string {
	t := lesson.Text(snap.Lang)
	sol := snap.Solution

	var b strings.Builder
	b.WriteString(t.UnderstandingHeader)
	b.WriteString("\n")
	b.WriteString(strings.TrimSpace(sol.Understanding))
	b.WriteString("\n\n")

	b.WriteString(t.StepsHeader)
	b.WriteString("\n")
	for i, st := range sol.TextSteps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, strings.TrimSpace(st))
	}

	if len(sol.WhiteboardSteps) > 0 {
		b.WriteString("\n")
		b.WriteString(t.WhiteboardHeader)
		b.WriteString("\n")
		b.WriteString(t.WhiteboardSub)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(t.FinalHeader)
	b.WriteString("\n✅ ")
	b.WriteString(snap.Headline)
	if snap.Badge != "" {
		b.WriteString("\n⭐ ")
		b.WriteString(snap.Badge)
	}
	return util.Truncate(b.String(), maxMessageRunes)
}

var colorMarks = map[types.Color]string{
	types.ColorBlue:  "🔵",
	types.ColorBlack: "⚫",
	types.ColorGreen: "🟢",
}

func formatBoard(snap lesson.Snapshot) string {
	t := lesson.Text(snap.Lang)

	var b strings.Builder
	b.WriteString(t.WhiteboardHeader)
	b.WriteString("\n\n")
	for _, st := range snap.Board {
		mark, ok := colorMarks[st.Color]
		if !ok {
			mark = "⚪"
		}
		b.WriteString(mark)
		b.WriteString(" ")
		b.WriteString(st.Content)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if snap.BoardDone {
		b.WriteString("👩‍🏫 " + t.WhiteboardExplaining)
	} else {
		fmt.Fprintf(&b, "✍️ %s (%d/%d)", t.WhiteboardWriting, len(snap.Board), snap.BoardTotal)
	}
	return util.Truncate(b.String(), maxMessageRunes)
}
