package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"math-teacher/api/internal/input"
	"math-teacher/api/internal/solver/types"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Transcriber turns a recorded voice question into text with the same model family.
type Transcriber struct {
	APIKey string
	Model  string
}

func NewTranscriber(apiKey, model string) *Transcriber {
	return &Transcriber{APIKey: strings.TrimSpace(apiKey), Model: strings.TrimSpace(model)}
}

func (t *Transcriber) Transcribe(ctx context.Context, rec input.Recording, lang types.Language) (input.Transcript, error) {
	if t.APIKey == "" {
		return input.Transcript{}, errors.New("GEMINI_API_KEY is empty")
	}
	if len(rec.Audio) == 0 {
		return input.Transcript{}, input.ErrEmptyRecording
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(t.APIKey))
	if err != nil {
		return input.Transcript{}, err
	}
	defer cl.Close()

	m := cl.GenerativeModel(t.Model)
	m.GenerationConfig = genai.GenerationConfig{Temperature: ptrFloat32(0)}

	resp, err := m.GenerateContent(ctx,
		genai.Text(transcribePrompt(lang)),
		&genai.Blob{MIMEType: rec.MIMEOrDefault(), Data: rec.Audio},
	)
	if err != nil {
		return input.Transcript{}, fmt.Errorf("gemini transcribe: %w", err)
	}
	txt := strings.TrimSpace(firstText(resp))
	if txt == "" {
		return input.Transcript{}, fmt.Errorf("gemini transcribe: %w", types.ErrNoResponse)
	}
	return input.Transcript{Text: txt}, nil
}

func transcribePrompt(lang types.Language) string {
	if lang == types.LangEnglish {
		return "Transcribe the student's spoken math problem word for word. Return only the transcript."
	}
	return "اكتبي نص المسألة الرياضية التي قالها الطالب كما هي حرفياً. أعيدي النص فقط."
}
