package httpapi

import (
	"net/http"

	"github.com/roach88/beeline/internal/puzzle"
)

type createDayRequest struct {
	Date    string   `json:"date"`
	Letters []string `json:"letters"`
}

func (s *Server) handleListDays(w http.ResponseWriter, r *http.Request) {
	days, err := s.store.ListDays(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, days)
}

func (s *Server) handleCreateDay(w http.ResponseWriter, r *http.Request) {
	var req createDayRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	day, err := s.store.CreateDay(r.Context(), req.Date, req.Letters)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, day)
}

func (s *Server) handleGetDay(w http.ResponseWriter, r *http.Request) {
	day, err := s.store.GetDay(r.Context(), r.PathValue("date"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, day)
}

func (s *Server) handlePatchDay(w http.ResponseWriter, r *http.Request) {
	var patch puzzle.DayPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, err)
		return
	}
	day, err := s.store.PatchDay(r.Context(), r.PathValue("date"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, day)
}

func (s *Server) handleDeleteDay(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteDay(r.Context(), r.PathValue("date")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExportDay(w http.ResponseWriter, r *http.Request) {
	export, err := s.store.ExportDay(r.Context(), r.PathValue("date"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, export)
}

func (s *Server) handleAttractors(w http.ResponseWriter, r *http.Request) {
	words, err := s.store.Attractors(r.Context(), r.PathValue("date"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, words)
}
