package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"math-teacher/api/internal/util"
)

// wire-форма: указатели, чтобы отличить отсутствующее поле от пустого.
type wireStep struct {
	Content *string `json:"content"`
	Color   *string `json:"color"`
}

type wireSolution struct {
	Understanding   *string     `json:"understanding"`
	TextSteps       *[]string   `json:"textSteps"`
	AudioScript     *string     `json:"audioScript"`
	WhiteboardSteps *[]wireStep `json:"whiteboardSteps"`
	FinalResult     *string     `json:"finalResult"`
}

// ParseSolution validates and decodes the model's text payload.
//
// Errors: ErrNoResponse for an empty payload, ErrBadJSON (wrapped) for a syntax error,
// *SchemaError for a missing required field, a wrong field type or an unknown color.
func ParseSolution(raw string) (Solution, error) {
	txt := util.StripCodeFences(raw)
	if txt == "" {
		return Solution{}, ErrNoResponse
	}

	var w wireSolution
	if err := json.Unmarshal([]byte(txt), &w); err != nil {
		var te *json.UnmarshalTypeError
		if errors.As(err, &te) {
			return Solution{}, &SchemaError{Field: te.Field, Reason: "expected " + te.Type.String() + ", got " + te.Value}
		}
		return Solution{}, fmt.Errorf("%w: %v", ErrBadJSON, err)
	}

	switch {
	case w.Understanding == nil:
		return Solution{}, &SchemaError{Field: "understanding", Reason: "required"}
	case w.TextSteps == nil:
		return Solution{}, &SchemaError{Field: "textSteps", Reason: "required"}
	case w.AudioScript == nil:
		return Solution{}, &SchemaError{Field: "audioScript", Reason: "required"}
	case w.WhiteboardSteps == nil:
		return Solution{}, &SchemaError{Field: "whiteboardSteps", Reason: "required"}
	case w.FinalResult == nil:
		return Solution{}, &SchemaError{Field: "finalResult", Reason: "required"}
	}

	steps := make([]WhiteboardStep, 0, len(*w.WhiteboardSteps))
	for i, ws := range *w.WhiteboardSteps {
		if ws.Content == nil {
			return Solution{}, &SchemaError{Field: fmt.Sprintf("whiteboardSteps[%d].content", i), Reason: "required"}
		}
		if ws.Color == nil {
			return Solution{}, &SchemaError{Field: fmt.Sprintf("whiteboardSteps[%d].color", i), Reason: "required"}
		}
		c := Color(strings.ToLower(strings.TrimSpace(*ws.Color)))
		if !c.Valid() {
			return Solution{}, &SchemaError{
				Field:  fmt.Sprintf("whiteboardSteps[%d].color", i),
				Reason: fmt.Sprintf("%q is not one of blue|black|green", *ws.Color),
			}
		}
		steps = append(steps, WhiteboardStep{Content: *ws.Content, Color: c})
	}

	textSteps := *w.TextSteps
	if textSteps == nil {
		textSteps = []string{}
	}
	return Solution{
		Understanding:   *w.Understanding,
		TextSteps:       textSteps,
		AudioScript:     *w.AudioScript,
		WhiteboardSteps: steps,
		FinalResult:     *w.FinalResult,
	}, nil
}

// ResponseSchema is the JSON-schema form of the Solution contract.
func ResponseSchema() map[string]any {
	colors := make([]any, 0, len(Colors))
	for _, c := range Colors {
		colors = append(colors, string(c))
	}
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"understanding": map[string]any{"type": "string"},
			"textSteps": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"audioScript": map[string]any{"type": "string"},
			"whiteboardSteps": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"content": map[string]any{"type": "string"},
						"color":   map[string]any{"type": "string", "enum": colors},
					},
				},
			},
			"finalResult": map[string]any{"type": "string"},
		},
	}
	util.FixJSONSchemaStrict(schema)
	return schema
}
