package handle

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"math-teacher/api/internal/lesson"
	"math-teacher/api/internal/solver"
	"math-teacher/api/internal/solver/types"
	"math-teacher/api/internal/speech"
	"math-teacher/api/internal/speech/audio"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}

type fakeEngine struct {
	got      solver.Request
	calls    int
	sol      types.Solution
	err      error
	deadline time.Duration
}

func (e *fakeEngine) Name() string     { return "gemini" }
func (e *fakeEngine) GetModel() string { return "fake" }
func (e *fakeEngine) Solve(ctx context.Context, in solver.Request) (types.Solution, error) {
	e.calls++
	e.got = in
	if dl, ok := ctx.Deadline(); ok {
		e.deadline = time.Until(dl)
	}
	return e.sol, e.err
}

type fakeSynth struct {
	pcm audio.PCM
	err error
}

func (s fakeSynth) Synthesize(ctx context.Context, text string, lang types.Language) (audio.PCM, error) {
	return s.pcm, s.err
}

func sample() types.Solution {
	return types.Solution{
		Understanding:   "find x",
		TextSteps:       []string{"a", "b"},
		AudioScript:     "script",
		WhiteboardSteps: []types.WhiteboardStep{{Content: "2x+3=7", Color: types.ColorBlue}},
		FinalResult:     "x = 2. أحسنت!",
	}
}

func newServer(eng *fakeEngine, synth speech.Synthesizer) http.Handler {
	mux := http.NewServeMux()
	New(&solver.Engines{Gemini: eng}, synth, types.LangArabic, time.Minute).Routes(mux)
	return WithRequestID(mux)
}

func post(t *testing.T, h http.Handler, path string, body any, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSolve_OK(t *testing.T) {
	eng := &fakeEngine{sol: sample()}
	rec := post(t, newServer(eng, nil), "/v1/solve", SolveRequest{Text: "2x + 3 = 7"}, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var out SolveResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Headline != "x = 2" || out.Badge != "أحسنت!" {
		t.Errorf("unexpected headline/badge %q / %q", out.Headline, out.Badge)
	}
	if out.AudioScript != "script" || len(out.WhiteboardSteps) != 1 {
		t.Errorf("solution fields missing: %+v", out)
	}
	if eng.got.Lang != types.LangArabic || eng.got.Text != "2x + 3 = 7" {
		t.Errorf("unexpected engine request %+v", eng.got)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID")
	}
}

func TestSolve_Image(t *testing.T) {
	eng := &fakeEngine{sol: sample()}
	img := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)
	rec := post(t, newServer(eng, nil), "/v1/solve", SolveRequest{Image: img, Lang: "en"}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.HasPrefix(eng.got.Image, "data:image/png;base64,") || eng.got.Lang != types.LangEnglish {
		t.Errorf("unexpected engine request %+v", eng.got)
	}
}

func TestSolve_EmptyProblem(t *testing.T) {
	eng := &fakeEngine{sol: sample()}
	rec := post(t, newServer(eng, nil), "/v1/solve", SolveRequest{Text: "  ", Lang: "en"}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), lesson.Text(types.LangEnglish).ErrorInput) {
		t.Errorf("expected localized input error, got %s", rec.Body.String())
	}
	if eng.calls != 0 {
		t.Error("engine must not be called for an empty problem")
	}
}

func TestSolve_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body any
		code int
	}{
		{"bad lang", SolveRequest{Text: "x", Lang: "fr"}, http.StatusBadRequest},
		{"bad image", SolveRequest{Image: "data:image/png;base64,!!!"}, http.StatusBadRequest},
		{"not an image", SolveRequest{Image: base64.StdEncoding.EncodeToString([]byte("hello"))}, http.StatusBadRequest},
		{"unknown engine", SolveRequest{Text: "x", LLMName: "gpt"}, http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := post(t, newServer(&fakeEngine{}, nil), "/v1/solve", tc.body, nil)
			if rec.Code != tc.code {
				t.Errorf("expected %d, got %d: %s", tc.code, rec.Code, rec.Body.String())
			}
		})
	}

	t.Run("get", func(t *testing.T) {
		rec := httptest.NewRecorder()
		newServer(&fakeEngine{}, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/solve", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})
}

func TestSolve_EngineError(t *testing.T) {
	eng := &fakeEngine{err: types.ErrNoResponse}
	rec := post(t, newServer(eng, nil), "/v1/solve", SolveRequest{Text: "x"}, nil)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	var out map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	if out["error"] != lesson.Text(types.LangArabic).ErrorNoAnswer {
		t.Errorf("expected localized no-response message, got %q", out["error"])
	}
}

func TestSolve_RequestTimeoutHeader(t *testing.T) {
	eng := &fakeEngine{sol: sample()}
	post(t, newServer(eng, nil), "/v1/solve", SolveRequest{Text: "x"}, map[string]string{"X-Request-Timeout": "5"})
	if eng.deadline <= 0 || eng.deadline > 5*time.Second {
		t.Errorf("expected deadline within 5s, got %v", eng.deadline)
	}
}

func TestSpeech(t *testing.T) {
	pcm := audio.PCM{Data: make([]byte, 4800), SampleRate: 24000, Channels: 1}

	t.Run("wav", func(t *testing.T) {
		rec := post(t, newServer(&fakeEngine{}, fakeSynth{pcm: pcm}), "/v1/speech", SpeechRequest{Text: "hello", Lang: "en"}, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if rec.Header().Get("Content-Type") != "audio/wav" {
			t.Errorf("unexpected content type %q", rec.Header().Get("Content-Type"))
		}
		if rec.Body.Len() != 44+4800 || !bytes.HasPrefix(rec.Body.Bytes(), []byte("RIFF")) {
			t.Errorf("unexpected wav body of %d bytes", rec.Body.Len())
		}
		if rec.Header().Get("X-Audio-Duration-Ms") != "100" {
			t.Errorf("expected 100ms, got %s", rec.Header().Get("X-Audio-Duration-Ms"))
		}
	})

	t.Run("no audio", func(t *testing.T) {
		rec := post(t, newServer(&fakeEngine{}, fakeSynth{err: speech.ErrNoAudio}), "/v1/speech", SpeechRequest{Text: "hello"}, nil)
		if rec.Code != http.StatusNoContent {
			t.Errorf("expected 204, got %d", rec.Code)
		}
	})

	t.Run("upstream error", func(t *testing.T) {
		rec := post(t, newServer(&fakeEngine{}, fakeSynth{err: errors.New("quota")}), "/v1/speech", SpeechRequest{Text: "hello"}, nil)
		if rec.Code != http.StatusBadGateway {
			t.Errorf("expected 502, got %d", rec.Code)
		}
	})

	t.Run("empty text", func(t *testing.T) {
		rec := post(t, newServer(&fakeEngine{}, fakeSynth{pcm: pcm}), "/v1/speech", SpeechRequest{Text: " "}, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("not configured", func(t *testing.T) {
		rec := post(t, newServer(&fakeEngine{}, nil), "/v1/speech", SpeechRequest{Text: "hello"}, nil)
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("expected 503, got %d", rec.Code)
		}
	})
}

func TestRequestIDPreserved(t *testing.T) {
	srv := httptest.NewServer(newServer(&fakeEngine{}, nil))
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-ID") != "abc-123" {
		t.Errorf("expected request id to be echoed, got %q", resp.Header.Get("X-Request-ID"))
	}
}

func TestSchema(t *testing.T) {
	h := newServer(&fakeEngine{}, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/schema", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	var schema struct {
		Type       string         `json:"type"`
		Required   []string       `json:"required"`
		Properties map[string]any `json:"properties"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &schema); err != nil {
		t.Fatal(err)
	}
	if schema.Type != "object" || len(schema.Required) != 5 || schema.Properties["whiteboardSteps"] == nil {
		t.Errorf("unexpected schema %+v", schema)
	}

	rec = post(t, h, "/v1/schema", map[string]string{}, nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405 for POST, got %d", rec.Code)
	}
}
