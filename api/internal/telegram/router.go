package telegram

import (
	"log"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"math-teacher/api/internal/input"
	"math-teacher/api/internal/lesson"
	"math-teacher/api/internal/solver"
	"math-teacher/api/internal/solver/types"
	"math-teacher/api/internal/speech"
)

// BotClient is the part of *tgbotapi.BotAPI the router uses.
type BotClient interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

type Router struct {
	Bot         BotClient
	Engine      solver.Engine
	Synth       speech.Synthesizer // nil: the audio script is sent as text
	Transcriber input.Transcriber  // nil: input.StubTranscriber

	DefaultLang   types.Language
	Interval      time.Duration // whiteboard reveal cadence
	SolveTimeout  time.Duration
	PhotoDebounce time.Duration

	sessions sync.Map // chatID -> *session
	batches  sync.Map // key -> *photoBatch
}

func (r *Router) HandleCommand(upd tgbotapi.Update) {
	cid := upd.Message.Chat.ID
	s := r.session(cid)
	switch upd.Message.Command() {
	case "start":
		r.send(cid, lesson.Text(s.Lang()).Welcome)
	case "health":
		r.send(cid, "✅ OK")
	case "board":
		s.runner.Send(lesson.StartBoard{})
	case "lang":
		arg := strings.TrimSpace(upd.Message.CommandArguments())
		if arg == "" {
			s.runner.Send(lesson.ToggleLanguage{})
			return
		}
		lang, err := types.ParseLanguage(arg)
		if err != nil {
			r.send(cid, "/lang ar | /lang en")
			return
		}
		s.runner.Send(lesson.SetLanguage{Lang: lang})
	default:
		r.send(cid, lesson.Text(s.Lang()).Welcome)
	}
}

func (r *Router) HandleUpdate(upd tgbotapi.Update) {
	// callback-кнопки
	if upd.CallbackQuery != nil {
		r.handleCallback(*upd.CallbackQuery)
		return
	}
	if upd.Message == nil {
		return
	}
	msg := upd.Message
	cid := msg.Chat.ID

	switch {
	case msg.IsCommand():
		r.HandleCommand(upd)
	case len(msg.Photo) > 0:
		r.acceptPhoto(*msg)
	case msg.Voice != nil:
		go r.acceptVoice(*msg)
	case strings.TrimSpace(msg.Text) != "":
		r.session(cid).runner.Send(lesson.Submit{Text: msg.Text})
	}
}

func (r *Router) handleCallback(cb tgbotapi.CallbackQuery) {
	if _, err := r.Bot.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		log.Printf("telegram: answer callback: %v", err)
	}
	if cb.Message == nil {
		return
	}
	s := r.session(cb.Message.Chat.ID)
	switch cb.Data {
	case cbBoardStart:
		s.runner.Send(lesson.StartBoard{})
	case cbLangToggle:
		s.runner.Send(lesson.ToggleLanguage{})
	}
}

// Close stops every chat session.
func (r *Router) Close() {
	r.sessions.Range(func(k, v any) bool {
		v.(*session).cancel()
		r.sessions.Delete(k)
		return true
	})
}

func (r *Router) send(chatID int64, text string) tgbotapi.Message {
	msg := tgbotapi.NewMessage(chatID, text)
	sent, err := r.Bot.Send(msg)
	if err != nil {
		log.Printf("telegram: send to %d: %v", chatID, err)
	}
	return sent
}

func (r *Router) sendError(chatID int64, lang types.Language, err error) {
	log.Printf("telegram: chat %d: %v", chatID, err)
	r.send(chatID, lesson.Text(lang).ErrorGeneral)
}
