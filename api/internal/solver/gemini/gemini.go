package gemini

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"math-teacher/api/internal/solver"
	"math-teacher/api/internal/solver/types"
	"math-teacher/api/internal/util"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type Engine struct {
	APIKey string
	Model  string
}

func New(apiKey, model string) *Engine {
	return &Engine{
		APIKey: strings.TrimSpace(apiKey),
		Model:  strings.TrimSpace(model),
	}
}

func (e *Engine) Name() string     { return "gemini" }
func (e *Engine) GetModel() string { return e.Model }

// Solve makes exactly one call; a failure surfaces immediately.
func (e *Engine) Solve(ctx context.Context, in solver.Request) (types.Solution, error) {
	if e.APIKey == "" {
		return types.Solution{}, errors.New("GEMINI_API_KEY is empty")
	}
	parts, err := userParts(in)
	if err != nil {
		return types.Solution{}, err
	}

	cl, err := genai.NewClient(ctx, option.WithAPIKey(e.APIKey))
	if err != nil {
		return types.Solution{}, err
	}
	defer cl.Close()

	m := cl.GenerativeModel(e.Model)
	if m == nil {
		return types.Solution{}, fmt.Errorf("gemini: model is nil")
	}
	m.GenerationConfig = generationConfig()
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(SystemInstruction(in.Lang))},
	}

	resp, err := m.GenerateContent(ctx, parts...)
	if err != nil {
		return types.Solution{}, fmt.Errorf("gemini solve: %w", err)
	}
	txt := firstText(resp)
	if strings.TrimSpace(txt) == "" {
		return types.Solution{}, fmt.Errorf("gemini solve: %w", types.ErrNoResponse)
	}

	sol, err := types.ParseSolution(txt)
	if err != nil {
		log.Printf("gemini solve: rejected payload (%d bytes): %v", len(txt), err)
		return types.Solution{}, fmt.Errorf("gemini solve: %w", err)
	}
	return sol, nil
}

// userParts: текст задачи (или заглушка) и, если есть, картинка без data:-префикса.
func userParts(in solver.Request) ([]genai.Part, error) {
	parts := []genai.Part{genai.Text(problemText(in.Text, in.Lang))}
	if strings.TrimSpace(in.Image) == "" {
		return parts, nil
	}
	imgBytes, mimeFromDataURL, err := util.DecodeBase64MaybeDataURL(in.Image)
	if err != nil {
		return nil, fmt.Errorf("gemini solve: bad image base64: %w", err)
	}
	parts = append(parts, &genai.Blob{
		MIMEType: util.PickMIME("", mimeFromDataURL, imgBytes),
		Data:     imgBytes,
	})
	return parts, nil
}

func generationConfig() genai.GenerationConfig {
	return genai.GenerationConfig{
		Temperature:      ptrFloat32(0.4),
		ResponseMIMEType: "application/json",
		ResponseSchema:   SolutionSchema(),
	}
}

// SolutionSchema mirrors types.ResponseSchema in the SDK's schema dialect.
func SolutionSchema() *genai.Schema {
	colors := make([]string, 0, len(types.Colors))
	for _, c := range types.Colors {
		colors = append(colors, string(c))
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"understanding": {Type: genai.TypeString},
			"textSteps": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
			"audioScript": {Type: genai.TypeString},
			"whiteboardSteps": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"content": {Type: genai.TypeString},
						"color":   {Type: genai.TypeString, Format: "enum", Enum: colors},
					},
					Required: []string{"content", "color"},
				},
			},
			"finalResult": {Type: genai.TypeString},
		},
		Required: []string{"understanding", "textSteps", "audioScript", "whiteboardSteps", "finalResult"},
	}
}

// --------------------------- helpers ---------------------------

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

func ptrFloat32(v float32) *float32 { return &v }
