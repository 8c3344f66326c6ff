package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"math-teacher/api/internal/config"
	"math-teacher/api/internal/input"
	"math-teacher/api/internal/solver"
	"math-teacher/api/internal/solver/gemini"
	"math-teacher/api/internal/solver/types"
	"math-teacher/api/internal/speech"
	"math-teacher/api/internal/speech/audio"
	tts "math-teacher/api/internal/speech/gemini"
	"math-teacher/api/internal/store"
	"math-teacher/api/internal/tui"
)

var (
	configPath string
	langFlag   string
	noAudio    bool
	noCache    bool
)

var rootCmd = &cobra.Command{
	Use:   "tutor",
	Short: "Interactive math teacher in the terminal",
	Long: `tutor solves middle-school math problems step by step and explains them
aloud, then writes the solution on a whiteboard line by line.

Type the problem, paste or open an image of it, or record it by voice.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, lang, err := loadConfig()
		if err != nil {
			return err
		}
		engine, closeCache := newEngine(cmd.Context(), cfg)
		defer closeCache()

		if f, err := openLog(); err == nil {
			defer f.Close()
		} else {
			log.SetOutput(io.Discard)
		}

		deps := tui.Deps{
			Solve:        engine.Solve,
			Transcriber:  newTranscriber(cfg),
			SolveTimeout: cfg.SolveTimeout,
		}
		if !noAudio {
			deps.Narrate = newNarrator(cfg, audio.NewSpeaker()).Narrate
		}

		p := tea.NewProgram(tui.New(lang, cfg.BoardInterval, deps), tea.WithAltScreen())
		_, err = p.Run()
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("CONFIG_FILE"), "YAML config file")
	rootCmd.PersistentFlags().StringVarP(&langFlag, "lang", "l", "", "explanation language: ar | en")
	rootCmd.PersistentFlags().BoolVar(&noAudio, "no-audio", false, "do not narrate")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "do not use the local solution cache")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, types.Language, error) {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return nil, "", err
	}
	if err := cfg.Require("GEMINI_API_KEY"); err != nil {
		return nil, "", err
	}
	lang := cfg.DefaultLang
	if langFlag != "" {
		if lang, err = types.ParseLanguage(langFlag); err != nil {
			return nil, "", err
		}
	}
	return cfg, lang, nil
}

// newEngine wraps the model with the SQLite cache unless it is disabled or cannot be opened.
func newEngine(ctx context.Context, cfg *config.Config) (solver.Engine, func()) {
	var engine solver.Engine = gemini.New(cfg.GeminiAPIKey, cfg.SolveModel)
	if noCache {
		return engine, func() {}
	}
	path, err := store.DefaultSQLitePath()
	if err != nil {
		log.Printf("cache disabled: %v", err)
		return engine, func() {}
	}
	db, err := store.OpenSQLite(path)
	if err != nil {
		log.Printf("cache disabled: %v", err)
		return engine, func() {}
	}
	repo := store.NewSolutionRepo(db, store.DialectSQLite)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Printf("cache disabled: %v", err)
		db.Close()
		return engine, func() {}
	}
	return solver.NewCached(engine, repo, cfg.CacheMaxAge), func() { db.Close() }
}

func newNarrator(cfg *config.Config, player speech.Player) *speech.Narrator {
	synth := tts.New(cfg.GeminiAPIKey, cfg.SpeechModel, cfg.SpeechVoice)
	synth.SampleRate = cfg.SpeechSampleRate
	synth.Channels = cfg.SpeechChannels
	return speech.NewNarrator(synth, player)
}

func newTranscriber(cfg *config.Config) input.Transcriber {
	if cfg.VoiceTranscriber == "gemini" {
		return gemini.NewTranscriber(cfg.GeminiAPIKey, cfg.TranscribeModel)
	}
	return input.StubTranscriber{}
}

// openLog redirects log output to tutor.log next to the cache; the alt screen owns stderr.
func openLog() (*os.File, error) {
	p, err := store.DefaultSQLitePath()
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return tea.LogToFile(filepath.Join(dir, "tutor.log"), "tutor")
}
