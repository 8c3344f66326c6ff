package handle

import (
	"encoding/json"
	"log"
	"net/http"

	"math-teacher/api/internal/input"
	"math-teacher/api/internal/lesson"
	"math-teacher/api/internal/solver"
	"math-teacher/api/internal/solver/types"
)

type SolveRequest struct {
	LLMName string `json:"llm_name"`
	Text    string `json:"text"`
	Image   string `json:"image,omitempty"`
	Lang    string `json:"lang,omitempty"`
}

type SolveResponse struct {
	types.Solution
	Headline string `json:"headline"`
	Badge    string `json:"badge"`
}

func (h *Handle) Solve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	var req SolveRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json: "+err.Error())
		return
	}
	lang, err := h.language(req.Lang)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	in := input.NewCapture(lang)
	in.SetText(req.Text)
	if req.Image != "" {
		if err := in.AttachDataURL(req.Image); err != nil {
			writeError(w, http.StatusBadRequest, "bad image: "+err.Error())
			return
		}
	}
	p, err := in.Problem()
	if err != nil {
		writeError(w, http.StatusBadRequest, lesson.Text(lang).ErrorInput)
		return
	}

	engine, err := h.engs.GetEngine(req.LLMName)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := h.withDeadline(r)
	defer cancel()

	sol, err := engine.Solve(ctx, solver.Request{Text: p.Text, Image: p.Image, Lang: p.Lang})
	if err != nil {
		log.Printf("solve error (%s/%s): %v", engine.Name(), engine.GetModel(), err)
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"error":  lesson.FailureMessage(lang, err),
			"detail": err.Error(),
		})
		return
	}

	headline, badge := types.SplitFinalResult(sol.FinalResult)
	writeJSON(w, http.StatusOK, SolveResponse{Solution: sol, Headline: headline, Badge: badge})
}
