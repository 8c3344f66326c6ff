package telegram

import (
	"context"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"math-teacher/api/internal/input"
	"math-teacher/api/internal/lesson"
)

const transcribeTimeout = 60 * time.Second

// acceptVoice transcribes a voice note. A real transcript is echoed and submitted; a stub
// transcript is only shown together with the notice that recognition is off.
func (r *Router) acceptVoice(msg tgbotapi.Message) {
	cid := msg.Chat.ID
	s := r.session(cid)
	lang := s.Lang()

	b, err := r.downloadFile(msg.Voice.FileID)
	if err != nil {
		r.sendError(cid, lang, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), transcribeTimeout)
	defer cancel()
	tr, err := r.transcriber().Transcribe(ctx, input.Recording{Audio: b, MIME: msg.Voice.MimeType}, lang)
	if err != nil {
		log.Printf("telegram: chat %d: transcribe: %v", cid, err)
		r.send(cid, lesson.Text(lang).VoiceFailed)
		return
	}

	capture := input.NewCapture(lang)
	capture.SetMode(input.ModeVoice)
	capture.ApplyTranscript(tr)
	if tr.Stub {
		r.send(cid, lesson.Text(lang).VoiceStub+"\n\n🎙 "+capture.Text())
		return
	}

	p, err := capture.Problem()
	if err != nil {
		r.send(cid, lesson.Text(lang).ErrorInput)
		return
	}
	r.send(cid, "🎙 "+p.Text)
	s.runner.Send(lesson.Submit{Text: p.Text})
}
