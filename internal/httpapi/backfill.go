package httpapi

import (
	"net/http"

	"github.com/roach88/beeline/internal/engine"
)

type advanceRequest struct {
	Action engine.Action `json:"action"`
}

func (s *Server) handleBackfillState(w http.ResponseWriter, r *http.Request) {
	state, err := s.engine.State(r.Context(), r.PathValue("date"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleBackfillAdvance(w http.ResponseWriter, r *http.Request) {
	var req advanceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	result, err := s.engine.Advance(r.Context(), r.PathValue("date"), req.Action)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleBackfillComplete(w http.ResponseWriter, r *http.Request) {
	day, err := s.engine.Complete(r.Context(), r.PathValue("date"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, day)
}
