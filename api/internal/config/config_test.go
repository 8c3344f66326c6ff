package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"math-teacher/api/internal/solver/types"
)

var envKeys = []string{
	"PORT", "GEMINI_API_KEY", "SOLVE_MODEL", "SPEECH_MODEL", "SPEECH_VOICE", "SPEECH_SAMPLE_RATE",
	"SPEECH_CHANNELS", "BOARD_INTERVAL", "DEFAULT_LANG", "VOICE_TRANSCRIBER", "TRANSCRIBE_MODEL",
	"TELEGRAM_BOT_TOKEN", "WEBHOOK_URL", "DATABASE_URL", "CACHE_MAX_AGE", "SOLVE_TIMEOUT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoadFile_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadFile("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "8000" || cfg.BoardInterval != 2500*time.Millisecond || cfg.SpeechSampleRate != 24000 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.DefaultLang != types.LangArabic || cfg.VoiceTranscriber != "stub" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Require("GEMINI_API_KEY"); err == nil {
		t.Error("expected missing key error")
	}
}

func TestLoadFile_YAMLThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "tutor.yaml")
	yml := `
port: "9000"
gemini_api_key: from-file
speech_voice: Kore
board_interval: 1s
default_lang: en
cache_max_age: 2h
`
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PORT", "9100")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "9100" {
		t.Errorf("env must win over file, got %s", cfg.Port)
	}
	if cfg.GeminiAPIKey != "from-file" || cfg.SpeechVoice != "Kore" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.BoardInterval != time.Second || cfg.CacheMaxAge != 2*time.Hour {
		t.Errorf("durations not parsed: %v %v", cfg.BoardInterval, cfg.CacheMaxAge)
	}
	if cfg.DefaultLang != types.LangEnglish {
		t.Errorf("expected en, got %s", cfg.DefaultLang)
	}
	if err := cfg.Require("GEMINI_API_KEY"); err != nil {
		t.Errorf("unexpected require error: %v", err)
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad lang", map[string]string{"DEFAULT_LANG": "fr"}},
		{"bad transcriber", map[string]string{"VOICE_TRANSCRIBER": "whisper"}},
		{"bad duration", map[string]string{"BOARD_INTERVAL": "soon"}},
		{"bad int", map[string]string{"SPEECH_SAMPLE_RATE": "fast"}},
		{"zero channels", map[string]string{"SPEECH_CHANNELS": "0"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := LoadFile(""); err == nil {
				t.Error("expected error")
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		clearEnv(t)
		if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Error("expected error")
		}
	})
}

func TestRequire(t *testing.T) {
	cfg := Defaults()
	cfg.TelegramBotToken = "t"
	if err := cfg.Require("TELEGRAM_BOT_TOKEN"); err != nil {
		t.Error(err)
	}
	if err := cfg.Require("DATABASE_URL"); err == nil {
		t.Error("expected missing DATABASE_URL")
	}
	if err := cfg.Require("NOPE"); err == nil {
		t.Error("expected unknown key error")
	}
}
