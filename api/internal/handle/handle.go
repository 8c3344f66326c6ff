package handle

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"math-teacher/api/internal/httpserver"
	"math-teacher/api/internal/solver"
	"math-teacher/api/internal/solver/types"
	"math-teacher/api/internal/speech"
)

const maxBodyBytes = 30 << 20

type Handle struct {
	engs     *solver.Engines
	synth    speech.Synthesizer
	lang     types.Language
	deadline time.Duration
	health   func(ctx context.Context) error
}

func New(engs *solver.Engines, synth speech.Synthesizer, lang types.Language, deadline time.Duration) *Handle {
	if !lang.Valid() {
		lang = types.LangArabic
	}
	if deadline <= 0 {
		deadline = 180 * time.Second
	}
	return &Handle{
		engs:     engs,
		synth:    synth,
		lang:     lang,
		deadline: deadline,
	}
}

// WithHealthCheck makes /healthz report check failures as 503.
func (h *Handle) WithHealthCheck(check func(ctx context.Context) error) *Handle {
	h.health = check
	return h
}

// Routes registers the API on mux.
func (h *Handle) Routes(mux *http.ServeMux) {
	mux.Handle("/healthz", httpserver.Health(h.health))
	mux.HandleFunc("/v1/solve", h.Solve)
	mux.HandleFunc("/v1/speech", h.Speech)
	mux.HandleFunc("/v1/schema", h.Schema)
}

// Schema отдаёт JSON-схему ответа /v1/solve.
func (h *Handle) Schema(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET only")
		return
	}
	writeJSON(w, http.StatusOK, types.ResponseSchema())
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// withDeadline honours X-Request-Timeout (seconds) or ?timeoutSec=.
func (h *Handle) withDeadline(r *http.Request) (context.Context, context.CancelFunc) {
	deadline := h.deadline
	if ts := r.Header.Get("X-Request-Timeout"); ts != "" {
		if v, _ := strconv.Atoi(ts); v > 0 {
			deadline = time.Duration(v) * time.Second
		}
	} else if ts := r.URL.Query().Get("timeoutSec"); ts != "" {
		if v, _ := strconv.Atoi(ts); v > 0 {
			deadline = time.Duration(v) * time.Second
		}
	}
	return context.WithTimeout(r.Context(), deadline)
}

func (h *Handle) language(s string) (types.Language, error) {
	if s == "" {
		return h.lang, nil
	}
	return types.ParseLanguage(s)
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

// WithRequestID tags every request with X-Request-ID (kept if the client sent one) and logs it.
func WithRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(sw, r)
		if r.URL.Path != "/healthz" {
			log.Printf("http: %s %s %d %s id=%s", r.Method, r.URL.Path, sw.code, time.Since(start).Round(time.Millisecond), id)
		}
	})
}
