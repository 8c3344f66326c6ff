package gemini

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/genai"

	"math-teacher/api/internal/solver/types"
	"math-teacher/api/internal/speech"
	"math-teacher/api/internal/speech/audio"
)

const (
	DefaultModel = "gemini-2.5-flash-preview-tts"
	DefaultVoice = "Puck"
)

// Synthesizer narrates scripts with the Gemini TTS model.
type Synthesizer struct {
	APIKey string
	Model  string
	Voice  string
	// SampleRate is used when the returned MIME type carries no rate.
	SampleRate int
	Channels   int

	newClient func(ctx context.Context, cc *genai.ClientConfig) (*genai.Client, error)
}

func New(apiKey, model, voice string) *Synthesizer {
	if model == "" {
		model = DefaultModel
	}
	if voice == "" {
		voice = DefaultVoice
	}
	return &Synthesizer{
		APIKey:     apiKey,
		Model:      model,
		Voice:      voice,
		SampleRate: audio.DefaultSampleRate,
		Channels:   audio.DefaultChannels,
		newClient:  genai.NewClient,
	}
}

func (s *Synthesizer) Synthesize(ctx context.Context, text string, lang types.Language) (audio.PCM, error) {
	if s.APIKey == "" {
		return audio.PCM{}, errors.New("GEMINI_API_KEY is empty")
	}
	cl, err := s.newClient(ctx, &genai.ClientConfig{APIKey: s.APIKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return audio.PCM{}, fmt.Errorf("gemini tts client: %w", err)
	}

	resp, err := cl.Models.GenerateContent(ctx, s.Model,
		[]*genai.Content{genai.NewContentFromText(SpeechPrompt(text, lang), genai.RoleUser)},
		speechConfig(s.Voice),
	)
	if err != nil {
		return audio.PCM{}, fmt.Errorf("gemini tts: %w", err)
	}
	blob := firstAudio(resp)
	if blob == nil || len(blob.Data) == 0 {
		return audio.PCM{}, speech.ErrNoAudio
	}
	return audio.DecodePCM16(blob.Data, rateFromMIME(blob.MIMEType, s.SampleRate), s.Channels)
}

// SpeechPrompt prefixes the script with a speaking-style instruction in the lesson language.
func SpeechPrompt(text string, lang types.Language) string {
	text = strings.TrimSpace(text)
	if lang == types.LangEnglish {
		return "As a friendly female math teacher, explain clearly in English: " + text
	}
	return "بصوت أستاذة ومعلمة رياضيات مصرية ودودة جداً، اشرحي بصوت أنثوي واضح: " + text
}

func speechConfig(voice string) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: voice},
			},
		},
	}
}

func firstAudio(resp *genai.GenerateContentResponse) *genai.Blob {
	if resp == nil {
		return nil
	}
	for _, c := range resp.Candidates {
		if c == nil || c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if p != nil && p.InlineData != nil && len(p.InlineData.Data) > 0 {
				return p.InlineData
			}
		}
	}
	return nil
}

// rateFromMIME reads "rate=" from types like "audio/L16;codec=pcm;rate=24000".
func rateFromMIME(mime string, fallback int) int {
	for _, part := range strings.Split(mime, ";") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok || !strings.EqualFold(k, "rate") {
			continue
		}
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
