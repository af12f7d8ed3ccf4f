package httpapi

import (
	"net/http"

	"github.com/roach88/beeline/internal/engine"
	"github.com/roach88/beeline/internal/store"
)

// Server holds the handler dependencies. It is stateless beyond them;
// construct once and serve.
type Server struct {
	store  *store.Store
	engine *engine.Engine
}

// New creates a server over the given store.
func New(s *store.Store) *Server {
	return &Server{store: s, engine: engine.New(s)}
}

// Handler builds the route table. Method-qualified patterns keep the
// dispatch in the mux; handlers only parse, call, and respond.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("GET /api/days", s.handleListDays)
	mux.HandleFunc("POST /api/days", s.handleCreateDay)
	mux.HandleFunc("GET /api/days/{date}", s.handleGetDay)
	mux.HandleFunc("PATCH /api/days/{date}", s.handlePatchDay)
	mux.HandleFunc("DELETE /api/days/{date}", s.handleDeleteDay)
	mux.HandleFunc("GET /api/days/{date}/export", s.handleExportDay)
	mux.HandleFunc("GET /api/days/{date}/attractors", s.handleAttractors)
	mux.HandleFunc("GET /api/days/{date}/stats", s.handleNotImplemented)
	mux.HandleFunc("GET /api/days/{date}/graph", s.handleNotImplemented)

	mux.HandleFunc("GET /api/days/{date}/words", s.handleListWords)
	mux.HandleFunc("POST /api/days/{date}/words", s.handleSubmitWord)
	mux.HandleFunc("PATCH /api/days/{date}/words/{id}", s.handlePatchWord)
	mux.HandleFunc("POST /api/days/{date}/words/{id}/inspire", s.handleInspireWord)
	mux.HandleFunc("GET /api/days/{date}/words/{id}/attempts", s.handleWordAttempts)

	mux.HandleFunc("GET /api/days/{date}/backfill", s.handleBackfillState)
	mux.HandleFunc("POST /api/days/{date}/backfill/advance", s.handleBackfillAdvance)
	mux.HandleFunc("POST /api/days/{date}/backfill/complete", s.handleBackfillComplete)

	return withRequestLog(mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleNotImplemented(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotImplemented, errorBody{Error: "not implemented"})
}
