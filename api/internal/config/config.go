package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"math-teacher/api/internal/solver/types"
)

type Config struct {
	Port string `yaml:"port"`

	GeminiAPIKey string        `yaml:"gemini_api_key"`
	SolveModel   string        `yaml:"solve_model"`
	SolveTimeout time.Duration `yaml:"solve_timeout"`

	SpeechModel      string `yaml:"speech_model"`
	SpeechVoice      string `yaml:"speech_voice"`
	SpeechSampleRate int    `yaml:"speech_sample_rate"`
	SpeechChannels   int    `yaml:"speech_channels"`

	BoardInterval time.Duration  `yaml:"board_interval"`
	DefaultLang   types.Language `yaml:"default_lang"`

	// VoiceTranscriber is "stub" (placeholder transcript) or "gemini".
	VoiceTranscriber string `yaml:"voice_transcriber"`
	TranscribeModel  string `yaml:"transcribe_model"`

	TelegramBotToken string `yaml:"telegram_bot_token"`
	WebhookURL       string `yaml:"webhook_url"`

	DatabaseURL string        `yaml:"database_url"`
	CacheMaxAge time.Duration `yaml:"cache_max_age"`
}

func Defaults() *Config {
	return &Config{
		Port:             "8000",
		SolveModel:       "gemini-3-flash-preview",
		SolveTimeout:     180 * time.Second,
		SpeechModel:      "gemini-2.5-flash-preview-tts",
		SpeechVoice:      "Puck",
		SpeechSampleRate: 24000,
		SpeechChannels:   1,
		BoardInterval:    2500 * time.Millisecond,
		DefaultLang:      types.LangArabic,
		VoiceTranscriber: "stub",
		TranscribeModel:  "gemini-2.5-flash",
		CacheMaxAge:      720 * time.Hour,
	}
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getDuration(k string, def time.Duration) (time.Duration, error) {
	v := getEnv(k, "")
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("env %s: %w", k, err)
	}
	return d, nil
}

func getInt(k string, def int) (int, error) {
	v := getEnv(k, "")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("env %s: %w", k, err)
	}
	return n, nil
}

// LoadFile reads defaults, then the YAML file at path (if any), then the environment.
// Environment values win.
func LoadFile(path string) (*Config, error) {
	cfg := Defaults()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Port = getEnv("PORT", c.Port)
	c.GeminiAPIKey = getEnv("GEMINI_API_KEY", c.GeminiAPIKey)
	c.SolveModel = getEnv("SOLVE_MODEL", c.SolveModel)
	c.SpeechModel = getEnv("SPEECH_MODEL", c.SpeechModel)
	c.SpeechVoice = getEnv("SPEECH_VOICE", c.SpeechVoice)
	c.DefaultLang = types.Language(strings.ToLower(getEnv("DEFAULT_LANG", string(c.DefaultLang))))
	c.VoiceTranscriber = strings.ToLower(getEnv("VOICE_TRANSCRIBER", c.VoiceTranscriber))
	c.TranscribeModel = getEnv("TRANSCRIBE_MODEL", c.TranscribeModel)
	c.TelegramBotToken = getEnv("TELEGRAM_BOT_TOKEN", c.TelegramBotToken)
	c.WebhookURL = getEnv("WEBHOOK_URL", c.WebhookURL)
	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)

	var err error
	if c.SpeechSampleRate, err = getInt("SPEECH_SAMPLE_RATE", c.SpeechSampleRate); err != nil {
		return err
	}
	if c.SpeechChannels, err = getInt("SPEECH_CHANNELS", c.SpeechChannels); err != nil {
		return err
	}
	if c.BoardInterval, err = getDuration("BOARD_INTERVAL", c.BoardInterval); err != nil {
		return err
	}
	if c.CacheMaxAge, err = getDuration("CACHE_MAX_AGE", c.CacheMaxAge); err != nil {
		return err
	}
	if c.SolveTimeout, err = getDuration("SOLVE_TIMEOUT", c.SolveTimeout); err != nil {
		return err
	}
	return nil
}

func (c *Config) validate() error {
	var errs []error
	if !c.DefaultLang.Valid() {
		errs = append(errs, fmt.Errorf("default_lang %q: use 'ar' or 'en'", c.DefaultLang))
	}
	if c.VoiceTranscriber != "stub" && c.VoiceTranscriber != "gemini" {
		errs = append(errs, fmt.Errorf("voice_transcriber %q: use 'stub' or 'gemini'", c.VoiceTranscriber))
	}
	if c.SpeechSampleRate <= 0 || c.SpeechChannels <= 0 {
		errs = append(errs, errors.New("speech sample rate and channels must be positive"))
	}
	if c.BoardInterval <= 0 {
		errs = append(errs, errors.New("board_interval must be positive"))
	}
	return errors.Join(errs...)
}

// Require reports the first empty value among the named settings.
func (c *Config) Require(keys ...string) error {
	for _, k := range keys {
		var v string
		switch k {
		case "GEMINI_API_KEY":
			v = c.GeminiAPIKey
		case "TELEGRAM_BOT_TOKEN":
			v = c.TelegramBotToken
		case "DATABASE_URL":
			v = c.DatabaseURL
		default:
			return fmt.Errorf("unknown config key %s", k)
		}
		if v == "" {
			return fmt.Errorf("missing required env %s", k)
		}
	}
	return nil
}

// Load is LoadFile($CONFIG_FILE) for binaries: any problem, including a missing API key, is fatal.
func Load() *Config {
	cfg, err := LoadFile(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.Require("GEMINI_API_KEY"); err != nil {
		log.Fatal(err)
	}
	return cfg
}
