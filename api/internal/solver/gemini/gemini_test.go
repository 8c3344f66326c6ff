package gemini

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"math-teacher/api/internal/input"
	"math-teacher/api/internal/solver"
	"math-teacher/api/internal/solver/types"
	"math-teacher/api/internal/util"

	"github.com/google/generative-ai-go/genai"
)

func TestNew(t *testing.T) {
	e := New("  key ", " gemini-3-flash-preview ")
	if e.APIKey != "key" || e.Model != "gemini-3-flash-preview" {
		t.Errorf("expected trimmed values, got %q %q", e.APIKey, e.Model)
	}
	if e.Name() != "gemini" || e.GetModel() != "gemini-3-flash-preview" {
		t.Errorf("unexpected identity %s/%s", e.Name(), e.GetModel())
	}
}

func TestSolve_RequiresAPIKey(t *testing.T) {
	_, err := New("", "m").Solve(context.Background(), solver.Request{Text: "1+1", Lang: types.LangEnglish})
	if err == nil || err.Error() != "GEMINI_API_KEY is empty" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestUserParts(t *testing.T) {
	t.Run("text only", func(t *testing.T) {
		parts, err := userParts(solver.Request{Text: "2x + 3 = 7", Lang: types.LangArabic})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(parts) != 1 || parts[0] != genai.Text("2x + 3 = 7") {
			t.Errorf("unexpected parts %#v", parts)
		}
	})

	t.Run("image only gets placeholder text and stripped prefix", func(t *testing.T) {
		raw := []byte{0xFF, 0xD8, 0xFF, 0xE0}
		img := util.MakeDataURL("image/jpeg", base64.StdEncoding.EncodeToString(raw))
		parts, err := userParts(solver.Request{Image: img, Lang: types.LangEnglish})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(parts) != 2 {
			t.Fatalf("expected 2 parts, got %d", len(parts))
		}
		if parts[0] != genai.Text("Solve this problem") {
			t.Errorf("expected english placeholder, got %#v", parts[0])
		}
		blob, ok := parts[1].(*genai.Blob)
		if !ok {
			t.Fatalf("expected blob, got %T", parts[1])
		}
		if blob.MIMEType != "image/jpeg" || len(blob.Data) != len(raw) {
			t.Errorf("unexpected blob %s %d", blob.MIMEType, len(blob.Data))
		}
	})

	t.Run("arabic placeholder", func(t *testing.T) {
		parts, _ := userParts(solver.Request{Image: base64.StdEncoding.EncodeToString([]byte{1, 2}), Lang: types.LangArabic})
		if parts[0] != genai.Text("حل هذه المسألة") {
			t.Errorf("expected arabic placeholder, got %#v", parts[0])
		}
	})

	t.Run("bad image", func(t *testing.T) {
		if _, err := userParts(solver.Request{Image: "data:image/png;base64,@@@"}); err == nil {
			t.Error("expected error")
		}
	})
}

func TestGenerationConfig(t *testing.T) {
	cfg := generationConfig()
	if cfg.ResponseMIMEType != "application/json" {
		t.Errorf("expected json mime, got %q", cfg.ResponseMIMEType)
	}
	s := cfg.ResponseSchema
	if s == nil || s.Type != genai.TypeObject {
		t.Fatal("expected object schema")
	}
	if len(s.Required) != 5 {
		t.Errorf("expected 5 required fields, got %v", s.Required)
	}
	color := s.Properties["whiteboardSteps"].Items.Properties["color"]
	if strings.Join(color.Enum, ",") != "blue,black,green" {
		t.Errorf("unexpected color enum %v", color.Enum)
	}
}

func TestSystemInstruction(t *testing.T) {
	t.Setenv("PROMPT_DIR", "")
	en := SystemInstruction(types.LangEnglish)
	ar := SystemInstruction(types.LangArabic)
	if !strings.Contains(en, "Explain in English") {
		t.Error("english instruction must ask for English")
	}
	if !strings.Contains(ar, "العربية") {
		t.Error("arabic instruction must ask for Arabic")
	}
	if !strings.Contains(ar, "whiteboardSteps") {
		t.Error("instruction must describe the output fields")
	}
}

func TestFirstText(t *testing.T) {
	if firstText(nil) != "" {
		t.Error("nil response must give empty text")
	}
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: nil},
			{Content: &genai.Content{Parts: []genai.Part{genai.Text(`{"a":1}`)}}},
		},
	}
	if got := firstText(resp); got != `{"a":1}` {
		t.Errorf("got %q", got)
	}
}

func TestTranscriber_Validation(t *testing.T) {
	if _, err := NewTranscriber("", "m").Transcribe(context.Background(), input.Recording{Audio: []byte{1}}, types.LangArabic); err == nil {
		t.Error("expected missing key error")
	}
	if _, err := NewTranscriber("k", "m").Transcribe(context.Background(), input.Recording{}, types.LangArabic); err != input.ErrEmptyRecording {
		t.Errorf("expected ErrEmptyRecording, got %v", err)
	}
}
