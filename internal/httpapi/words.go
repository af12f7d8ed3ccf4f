package httpapi

import (
	"net/http"
	"strconv"

	"github.com/roach88/beeline/internal/puzzle"
)

func wordIDFromPath(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, puzzle.Validationf("invalid word id: %s", r.PathValue("id"))
	}
	return id, nil
}

func (s *Server) handleListWords(w http.ResponseWriter, r *http.Request) {
	words, err := s.store.ListWords(r.Context(), r.PathValue("date"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, words)
}

func (s *Server) handleSubmitWord(w http.ResponseWriter, r *http.Request) {
	var req puzzle.SubmitWordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	word, err := s.store.SubmitWord(r.Context(), r.PathValue("date"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	status := http.StatusCreated
	if word.IsReattempt {
		status = http.StatusOK
	}
	writeJSON(w, status, word)
}

func (s *Server) handlePatchWord(w http.ResponseWriter, r *http.Request) {
	id, err := wordIDFromPath(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var patch puzzle.WordPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, err)
		return
	}
	word, err := s.store.PatchWord(r.Context(), r.PathValue("date"), id, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, word)
}

func (s *Server) handleInspireWord(w http.ResponseWriter, r *http.Request) {
	id, err := wordIDFromPath(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req puzzle.InspireWordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	word, err := s.store.InspireWord(r.Context(), r.PathValue("date"), id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	status := http.StatusCreated
	if word.IsReattempt {
		status = http.StatusOK
	}
	writeJSON(w, status, word)
}

func (s *Server) handleWordAttempts(w http.ResponseWriter, r *http.Request) {
	id, err := wordIDFromPath(r)
	if err != nil {
		writeError(w, err)
		return
	}
	attempts, err := s.store.AttemptsForWord(r.Context(), r.PathValue("date"), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, attempts)
}
