package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"math-teacher/api/internal/speech/audio"
)

// chatPlayer uploads the narration as a WAV file and then waits out its duration, so the
// lesson moves on roughly when the student has finished listening.
type chatPlayer struct {
	bot    BotClient
	chatID int64
	wait   func(ctx context.Context, p audio.PCM) error
}

func (p *chatPlayer) Play(ctx context.Context, pcm audio.PCM) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a := tgbotapi.NewAudio(p.chatID, tgbotapi.FileBytes{Name: "explanation.wav", Bytes: audio.EncodeWAV(pcm)})
	a.Duration = int(pcm.Duration().Seconds())
	if _, err := p.bot.Send(a); err != nil {
		return fmt.Errorf("send audio: %w", err)
	}
	if p.wait != nil {
		return p.wait(ctx, pcm)
	}
	return audio.Discard{}.Play(ctx, pcm)
}
