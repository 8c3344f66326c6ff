package handle

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"math-teacher/api/internal/speech"
	"math-teacher/api/internal/speech/audio"
)

type SpeechRequest struct {
	Text string `json:"text"`
	Lang string `json:"lang,omitempty"`
}

// Speech returns the narration of text as audio/wav, or 204 when the model produced no audio.
func (h *Handle) Speech(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	if h.synth == nil {
		writeError(w, http.StatusServiceUnavailable, "speech is not configured")
		return
	}
	var req SpeechRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is empty")
		return
	}
	lang, err := h.language(req.Lang)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := h.withDeadline(r)
	defer cancel()

	pcm, err := h.synth.Synthesize(ctx, req.Text, lang)
	if errors.Is(err, speech.ErrNoAudio) || (err == nil && pcm.Empty()) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		log.Printf("speech error: %v", err)
		writeError(w, http.StatusBadGateway, "speech error: "+err.Error())
		return
	}

	wav := audio.EncodeWAV(pcm)
	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Length", strconv.Itoa(len(wav)))
	w.Header().Set("X-Audio-Duration-Ms", strconv.FormatInt(pcm.Duration().Milliseconds(), 10))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(wav)
}
