package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/roach88/beeline/internal/puzzle"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// writeError maps an error to a status code via its puzzle error code.
// Errors outside the taxonomy are a 500 and logged; their text is not
// echoed to the client.
func writeError(w http.ResponseWriter, err error) {
	var perr *puzzle.Error
	if !errors.As(err, &perr) {
		slog.Error("internal error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
		return
	}

	status := http.StatusInternalServerError
	switch perr.Code {
	case puzzle.CodeNotFound:
		status = http.StatusNotFound
	case puzzle.CodeConflict:
		status = http.StatusConflict
	case puzzle.CodeValidation, puzzle.CodeInvalidState, puzzle.CodeInvalidTransition:
		status = http.StatusBadRequest
	}
	writeJSON(w, status, errorBody{Error: perr.Message})
}

// decodeJSON reads the request body into v, rejecting unknown fields so
// client typos surface as 400s instead of silent no-ops.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return puzzle.Validationf("invalid request body: %v", err)
	}
	return nil
}
