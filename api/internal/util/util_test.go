package util

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
)

var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}

func TestDecodeBase64MaybeDataURL(t *testing.T) {
	t.Run("strips data URL prefix and reports mime", func(t *testing.T) {
		in := MakeDataURL("image/png", base64.StdEncoding.EncodeToString(pngHeader))
		b, mime, err := DecodeBase64MaybeDataURL(in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if mime != "image/png" {
			t.Errorf("expected image/png, got %q", mime)
		}
		if len(b) != len(pngHeader) {
			t.Errorf("expected %d bytes, got %d", len(pngHeader), len(b))
		}
	})

	t.Run("accepts raw base64", func(t *testing.T) {
		b, mime, err := DecodeBase64MaybeDataURL(base64.StdEncoding.EncodeToString([]byte("hi")))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if mime != "" || string(b) != "hi" {
			t.Errorf("got %q %q", b, mime)
		}
	})

	t.Run("rejects empty payload", func(t *testing.T) {
		if _, _, err := DecodeBase64MaybeDataURL("data:image/png;base64,"); err != ErrEmptyPayload {
			t.Errorf("expected ErrEmptyPayload, got %v", err)
		}
	})

	t.Run("rejects garbage", func(t *testing.T) {
		if _, _, err := DecodeBase64MaybeDataURL("!!!not base64!!!"); err == nil {
			t.Error("expected error")
		}
	})
}

func TestPickMIME(t *testing.T) {
	if got := PickMIME("image/gif", "image/png", pngHeader); got != "image/gif" {
		t.Errorf("explicit should win, got %q", got)
	}
	if got := PickMIME("", "image/webp", pngHeader); got != "image/webp" {
		t.Errorf("hint should win over sniffing, got %q", got)
	}
	if got := PickMIME("", "", pngHeader); got != "image/png" {
		t.Errorf("expected sniffed png, got %q", got)
	}
	if got := PickMIME("", "", []byte{0xFF, 0xD8, 0xFF}); got != "image/jpeg" {
		t.Errorf("expected sniffed jpeg, got %q", got)
	}
}

func TestIsDataURL(t *testing.T) {
	if !IsDataURL(EncodeDataURL(pngHeader)) {
		t.Error("expected encoded image to be a data URL")
	}
	if IsDataURL("2x + 3 = 7") {
		t.Error("plain text is not a data URL")
	}
}

func TestStripCodeFences(t *testing.T) {
	if got := StripCodeFences("```json\n{\"a\":1}\n```"); got != `{"a":1}` {
		t.Errorf("got %q", got)
	}
}

func TestProblemHash(t *testing.T) {
	a := ProblemHash("ar", "2x + 3 = 7", nil)
	b := ProblemHash("ar", " 2x + 3 = 7 ", nil)
	c := ProblemHash("en", "2x + 3 = 7", nil)
	if a != b {
		t.Error("surrounding whitespace must not change the key")
	}
	if a == c {
		t.Error("language must be part of the key")
	}
	if len(a) != 64 {
		t.Errorf("expected hex sha256, got %d chars", len(a))
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("أحسنت جدا", 5); got != "أحسنت…" {
		t.Errorf("got %q", got)
	}
	if got := Truncate("ok", 5); got != "ok" {
		t.Errorf("got %q", got)
	}
}

func TestLoadPromptOverride(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "solve.en.txt"), []byte("  be kind  \n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PROMPT_DIR", dir)

	s, err := LoadPromptOverride("solve", "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != "be kind" {
		t.Errorf("got %q", s)
	}
	if _, err := LoadPromptOverride("solve", "ar"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFixJSONSchemaStrict(t *testing.T) {
	schema := map[string]any{
		"properties": map[string]any{
			"a": map[string]any{"type": "string"},
			"b": map[string]any{
				"type":  "array",
				"items": map[string]any{"properties": map[string]any{"c": map[string]any{"type": "string"}}},
			},
		},
	}
	FixJSONSchemaStrict(schema)
	if schema["type"] != "object" {
		t.Errorf("expected object type, got %v", schema["type"])
	}
	if req := schema["required"].([]any); len(req) != 2 {
		t.Errorf("expected 2 required, got %v", req)
	}
	items := schema["properties"].(map[string]any)["b"].(map[string]any)["items"].(map[string]any)
	if req := items["required"].([]any); len(req) != 1 || req[0] != "c" {
		t.Errorf("expected nested required [c], got %v", req)
	}
}
