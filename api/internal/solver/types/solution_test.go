package types

import (
	"errors"
	"testing"
)

const wellFormed = `{
  "understanding": "نريد إيجاد قيمة x",
  "textSteps": ["نطرح 3 من الطرفين", "نقسم على 2"],
  "audioScript": "هيا نحل المعادلة سوا",
  "whiteboardSteps": [
    {"content": "2x+3=7", "color": "blue"},
    {"content": "x=2", "color": "black"}
  ],
  "finalResult": "x = 2. أحسنت!"
}`

func TestParseSolution(t *testing.T) {
	t.Run("parses a well-formed solution", func(t *testing.T) {
		sol, err := ParseSolution(wellFormed)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(sol.TextSteps) != 2 {
			t.Errorf("expected 2 text steps, got %d", len(sol.TextSteps))
		}
		if len(sol.WhiteboardSteps) != 2 || sol.WhiteboardSteps[0].Color != ColorBlue {
			t.Errorf("unexpected whiteboard steps: %+v", sol.WhiteboardSteps)
		}
		if sol.AudioScript != "هيا نحل المعادلة سوا" {
			t.Errorf("unexpected audio script %q", sol.AudioScript)
		}
	})

	t.Run("accepts code fenced payload", func(t *testing.T) {
		if _, err := ParseSolution("```json\n" + wellFormed + "\n```"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("empty payload is no response", func(t *testing.T) {
		if _, err := ParseSolution("  \n"); !errors.Is(err, ErrNoResponse) {
			t.Errorf("expected ErrNoResponse, got %v", err)
		}
	})

	t.Run("syntax error is bad json", func(t *testing.T) {
		if _, err := ParseSolution(`{"understanding": `); !errors.Is(err, ErrBadJSON) {
			t.Errorf("expected ErrBadJSON, got %v", err)
		}
	})

	missing := map[string]string{
		"understanding":   `{"textSteps":[],"audioScript":"","whiteboardSteps":[],"finalResult":""}`,
		"textSteps":       `{"understanding":"","audioScript":"","whiteboardSteps":[],"finalResult":""}`,
		"audioScript":     `{"understanding":"","textSteps":[],"whiteboardSteps":[],"finalResult":""}`,
		"whiteboardSteps": `{"understanding":"","textSteps":[],"audioScript":"","finalResult":""}`,
		"finalResult":     `{"understanding":"","textSteps":[],"audioScript":"","whiteboardSteps":[]}`,
	}
	for field, payload := range missing {
		t.Run("missing "+field, func(t *testing.T) {
			_, err := ParseSolution(payload)
			var se *SchemaError
			if !errors.As(err, &se) {
				t.Fatalf("expected SchemaError, got %v", err)
			}
			if se.Field != field {
				t.Errorf("expected field %q, got %q", field, se.Field)
			}
		})
	}

	t.Run("null counts as missing", func(t *testing.T) {
		_, err := ParseSolution(`{"understanding":null,"textSteps":[],"audioScript":"","whiteboardSteps":[],"finalResult":""}`)
		var se *SchemaError
		if !errors.As(err, &se) || se.Field != "understanding" {
			t.Errorf("expected understanding SchemaError, got %v", err)
		}
	})

	t.Run("rejects color outside enum", func(t *testing.T) {
		_, err := ParseSolution(`{"understanding":"","textSteps":[],"audioScript":"","whiteboardSteps":[{"content":"x","color":"red"}],"finalResult":""}`)
		var se *SchemaError
		if !errors.As(err, &se) || se.Field != "whiteboardSteps[0].color" {
			t.Errorf("expected color SchemaError, got %v", err)
		}
	})

	t.Run("rejects step without content", func(t *testing.T) {
		_, err := ParseSolution(`{"understanding":"","textSteps":[],"audioScript":"","whiteboardSteps":[{"color":"green"}],"finalResult":""}`)
		var se *SchemaError
		if !errors.As(err, &se) || se.Field != "whiteboardSteps[0].content" {
			t.Errorf("expected content SchemaError, got %v", err)
		}
	})

	t.Run("wrong field type is a schema error", func(t *testing.T) {
		_, err := ParseSolution(`{"understanding":"","textSteps":"one","audioScript":"","whiteboardSteps":[],"finalResult":""}`)
		var se *SchemaError
		if !errors.As(err, &se) {
			t.Errorf("expected SchemaError, got %v", err)
		}
	})

	t.Run("normalizes color case", func(t *testing.T) {
		sol, err := ParseSolution(`{"understanding":"","textSteps":[],"audioScript":"","whiteboardSteps":[{"content":"x=2","color":"Green"}],"finalResult":""}`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sol.WhiteboardSteps[0].Color != ColorGreen {
			t.Errorf("expected green, got %q", sol.WhiteboardSteps[0].Color)
		}
	})
}

func TestValidate(t *testing.T) {
	sol, err := ParseSolution(wellFormed)
	if err != nil {
		t.Fatal(err)
	}
	if err := sol.Validate(); err != nil {
		t.Errorf("expected valid, got %v", err)
	}

	sol.WhiteboardSteps[1].Color = "purple"
	if err := sol.Validate(); err == nil {
		t.Error("expected invalid color error")
	}

	if err := (Solution{WhiteboardSteps: []WhiteboardStep{}}).Validate(); err == nil {
		t.Error("expected missing textSteps error")
	}
}

func TestSplitFinalResult(t *testing.T) {
	tests := []struct {
		in, headline, badge string
	}{
		{"x = 2. أحسنت!", "x = 2", "أحسنت!"},
		{"x = 2", "x = 2", ""},
		{"Area = 12 cm². Great job. Keep going!", "Area = 12 cm²", "Great job. Keep going!"},
	}
	for _, tt := range tests {
		h, b := SplitFinalResult(tt.in)
		if h != tt.headline || b != tt.badge {
			t.Errorf("SplitFinalResult(%q) = %q, %q; want %q, %q", tt.in, h, b, tt.headline, tt.badge)
		}
	}
}

func TestLanguage(t *testing.T) {
	if LangArabic.Toggle() != LangEnglish || LangEnglish.Toggle() != LangArabic {
		t.Error("toggle must flip between ar and en")
	}
	if l, err := ParseLanguage(" EN "); err != nil || l != LangEnglish {
		t.Errorf("got %q, %v", l, err)
	}
	if _, err := ParseLanguage("fr"); err == nil {
		t.Error("expected error for fr")
	}
}

func TestResponseSchema(t *testing.T) {
	s := ResponseSchema()
	req, ok := s["required"].([]any)
	if !ok || len(req) != 5 {
		t.Fatalf("expected 5 required fields, got %v", s["required"])
	}
	items := s["properties"].(map[string]any)["whiteboardSteps"].(map[string]any)["items"].(map[string]any)
	color := items["properties"].(map[string]any)["color"].(map[string]any)
	if enum := color["enum"].([]any); len(enum) != 3 {
		t.Errorf("expected 3 colors, got %v", enum)
	}
}
