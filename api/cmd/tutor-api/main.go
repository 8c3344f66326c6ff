package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"math-teacher/api/internal/config"
	handle "math-teacher/api/internal/handle"
	"math-teacher/api/internal/httpserver"
	"math-teacher/api/internal/solver"
	"math-teacher/api/internal/solver/gemini"
	"math-teacher/api/internal/speech"
	tts "math-teacher/api/internal/speech/gemini"
	"math-teacher/api/internal/store"
)

func main() {
	cfg := config.Load()

	if strings.TrimSpace(cfg.Port) == "" {
		cfg.Port = "8000"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var engine solver.Engine = gemini.New(cfg.GeminiAPIKey, cfg.SolveModel)

	// кэш решений опционален: без DATABASE_URL каждый запрос идёт в модель
	var db *sql.DB
	if dsn := strings.TrimSpace(cfg.DatabaseURL); dsn != "" {
		var err error
		db, err = store.OpenPostgres(ctx, dsn)
		if err != nil {
			log.Fatal(err)
		}
		defer db.Close()
		repo := store.NewSolutionRepo(db, store.DialectPostgres)
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Fatal(err)
		}
		engine = solver.NewCached(engine, repo, cfg.CacheMaxAge)
		log.Printf("solution cache enabled (max age %s)", cfg.CacheMaxAge)
	}

	synth := tts.New(cfg.GeminiAPIKey, cfg.SpeechModel, cfg.SpeechVoice)
	synth.SampleRate = cfg.SpeechSampleRate
	synth.Channels = cfg.SpeechChannels

	h := handle.New(&solver.Engines{Gemini: engine}, speech.Synthesizer(synth), cfg.DefaultLang, cfg.SolveTimeout)
	if db != nil {
		h.WithHealthCheck(db.PingContext)
	}

	mux := http.NewServeMux()
	h.Routes(mux)

	addr := ":" + cfg.Port
	if err := httpserver.Run(ctx, addr, handle.WithRequestID(mux)); err != nil {
		log.Fatal(err)
	}
	log.Printf("tutor-api stopped")
}
