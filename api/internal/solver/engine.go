package solver

import (
	"context"
	"errors"
	"strings"

	"math-teacher/api/internal/solver/types"
)

// Request — одна попытка решения: текст и/или изображение (data URL или base64).
type Request struct {
	Text  string         `json:"text"`
	Image string         `json:"image,omitempty"`
	Lang  types.Language `json:"lang"`
}

type Engine interface {
	Name() string
	GetModel() string
	Solve(ctx context.Context, in Request) (types.Solution, error)
}

type Engines struct {
	Gemini Engine
}

func (e *Engines) GetEngine(llmName string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(llmName)) {
	case "", "gemini":
		if e.Gemini == nil {
			return nil, errors.New("gemini engine is not configured")
		}
		return e.Gemini, nil
	default:
		return nil, errors.New("unknown llm_name; use 'gemini'")
	}
}
