package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/beeline/internal/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	fixed := time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)
	st, err := store.Open(path, store.WithNow(func() time.Time { return fixed }))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	srv := httptest.NewServer(New(st).Handler())
	t.Cleanup(srv.Close)
	return srv
}

// doJSON sends a request with an optional JSON body and decodes the JSON
// response into a generic map.
func doJSON(t *testing.T, srv *httptest.Server, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

// doJSONList is doJSON for endpoints that return a JSON array.
func doJSONList(t *testing.T, srv *httptest.Server, method, path string) (int, []map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, nil)
	require.NoError(t, err)

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

func createDayRequestBody() map[string]any {
	return map[string]any{
		"date":    "2026-01-15",
		"letters": []string{"T", "I", "A", "O", "L", "K", "C"},
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	code, body := doJSON(t, srv, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}

func TestSolvingSessionEndToEnd(t *testing.T) {
	srv := newTestServer(t)

	// Create the day.
	code, day := doJSON(t, srv, http.MethodPost, "/api/days", createDayRequestBody())
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "T", day["center_letter"])
	assert.Equal(t, "pre-pangram", day["current_stage"])

	// Brainstorm a few words.
	code, tick := doJSON(t, srv, http.MethodPost, "/api/days/2026-01-15/words",
		map[string]any{"word": "tick"})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "TICK", tick["word"])
	assert.Equal(t, false, tick["is_reattempt"])
	tickID := int64(tick["id"].(float64))

	code, _ = doJSON(t, srv, http.MethodPost, "/api/days/2026-01-15/words",
		map[string]any{"word": "coat"})
	require.Equal(t, http.StatusCreated, code)

	// Resubmitting TICK is a reattempt: 200, same row, attempt count up.
	code, again := doJSON(t, srv, http.MethodPost, "/api/days/2026-01-15/words",
		map[string]any{"word": "  TICK "})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, again["is_reattempt"])
	assert.Equal(t, float64(tickID), again["id"])
	assert.Equal(t, float64(2), again["attempt_count"])

	// TOCK branched from TICK.
	code, tock := doJSON(t, srv, http.MethodPost,
		fmt.Sprintf("/api/days/2026-01-15/words/%d/inspire", tickID),
		map[string]any{"word": "tock"})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, float64(1), tock["chain_depth"])
	assert.Equal(t, []any{float64(tickID)}, tock["inspired_by_ids"])

	// The pangram lands; the day moves to backfill.
	code, pangram := doJSON(t, srv, http.MethodPost, "/api/days/2026-01-15/words",
		map[string]any{"word": "cocktail", "is_pangram": true})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, true, pangram["is_pangram"])

	code, day = doJSON(t, srv, http.MethodPatch, "/api/days/2026-01-15",
		map[string]any{"current_stage": "backfill"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "backfill", day["current_stage"])

	// Walk the backfill review.
	code, state := doJSON(t, srv, http.MethodGet, "/api/days/2026-01-15/backfill", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(4), state["total_pre_pangram"])
	assert.Equal(t, float64(0), state["cursor_index"])
	current := state["current_word"].(map[string]any)
	assert.Equal(t, "TICK", current["word"])

	code, adv := doJSON(t, srv, http.MethodPost, "/api/days/2026-01-15/backfill/advance",
		map[string]any{"action": "accept"})
	require.Equal(t, http.StatusOK, code)
	processed := adv["processed_word"].(map[string]any)
	assert.Equal(t, "TICK", processed["word"])
	assert.Equal(t, "accepted", processed["status"])
	assert.Equal(t, false, adv["is_complete"])

	code, adv = doJSON(t, srv, http.MethodPost, "/api/days/2026-01-15/backfill/advance",
		map[string]any{"action": "skip"})
	require.Equal(t, http.StatusOK, code)
	processed = adv["processed_word"].(map[string]any)
	assert.Equal(t, "pending", processed["status"])

	// End the review and move on.
	code, day = doJSON(t, srv, http.MethodPost, "/api/days/2026-01-15/backfill/complete", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "new-discovery", day["current_stage"])
	assert.Nil(t, day["backfill_cursor_word_id"])

	// Words keep flowing in the new stage.
	code, late := doJSON(t, srv, http.MethodPost, "/api/days/2026-01-15/words",
		map[string]any{"word": "atoll"})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "new-discovery", late["stage"])

	// The export snapshot has everything.
	code, export := doJSON(t, srv, http.MethodGet, "/api/days/2026-01-15/export", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, export["words"], 5)
	assert.Len(t, export["attempts"], 6)

	// Attractors: only TICK has more than one attempt.
	code, attractors := doJSONList(t, srv, http.MethodGet, "/api/days/2026-01-15/attractors")
	require.Equal(t, http.StatusOK, code)
	require.Len(t, attractors, 1)
	assert.Equal(t, "TICK", attractors[0]["word"])

	// Attempt log for TICK: ledger entry plus the reattempt.
	code, attempts := doJSONList(t, srv, http.MethodGet,
		fmt.Sprintf("/api/days/2026-01-15/words/%d/attempts", tickID))
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, attempts, 2)
}

func TestErrorStatusMapping(t *testing.T) {
	srv := newTestServer(t)

	// Missing resources: 404.
	code, body := doJSON(t, srv, http.MethodGet, "/api/days/1999-01-01", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.NotEmpty(t, body["error"])

	code, _ = doJSON(t, srv, http.MethodPost, "/api/days", createDayRequestBody())
	require.Equal(t, http.StatusCreated, code)

	// Duplicate day: 409.
	code, _ = doJSON(t, srv, http.MethodPost, "/api/days", createDayRequestBody())
	assert.Equal(t, http.StatusConflict, code)

	// Bad letters: 400.
	code, _ = doJSON(t, srv, http.MethodPost, "/api/days",
		map[string]any{"date": "2026-01-16", "letters": []string{"A", "B"}})
	assert.Equal(t, http.StatusBadRequest, code)

	// Word too short: 400.
	code, _ = doJSON(t, srv, http.MethodPost, "/api/days/2026-01-15/words",
		map[string]any{"word": "cat"})
	assert.Equal(t, http.StatusBadRequest, code)

	// Invalid stage transition: 400.
	code, _ = doJSON(t, srv, http.MethodPatch, "/api/days/2026-01-15",
		map[string]any{"current_stage": "new-discovery"})
	assert.Equal(t, http.StatusBadRequest, code)

	// Backfill outside the backfill stage: 400.
	code, _ = doJSON(t, srv, http.MethodGet, "/api/days/2026-01-15/backfill", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	// Unknown body fields: 400.
	code, _ = doJSON(t, srv, http.MethodPost, "/api/days/2026-01-15/words",
		map[string]any{"word": "tick", "bogus": 1})
	assert.Equal(t, http.StatusBadRequest, code)

	// Non-numeric word id: 400.
	code, _ = doJSON(t, srv, http.MethodPatch, "/api/days/2026-01-15/words/abc",
		map[string]any{"status": "accepted"})
	assert.Equal(t, http.StatusBadRequest, code)

	// Unimplemented analytics endpoints: 501.
	code, _ = doJSON(t, srv, http.MethodGet, "/api/days/2026-01-15/stats", nil)
	assert.Equal(t, http.StatusNotImplemented, code)
	code, _ = doJSON(t, srv, http.MethodGet, "/api/days/2026-01-15/graph", nil)
	assert.Equal(t, http.StatusNotImplemented, code)
}

func TestDeleteDay(t *testing.T) {
	srv := newTestServer(t)

	code, _ := doJSON(t, srv, http.MethodPost, "/api/days", createDayRequestBody())
	require.Equal(t, http.StatusCreated, code)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/days/2026-01-15", nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	code, _ = doJSON(t, srv, http.MethodDelete, "/api/days/2026-01-15", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestListDaysSummaries(t *testing.T) {
	srv := newTestServer(t)

	code, _ := doJSON(t, srv, http.MethodPost, "/api/days", createDayRequestBody())
	require.Equal(t, http.StatusCreated, code)
	code, _ = doJSON(t, srv, http.MethodPost, "/api/days/2026-01-15/words",
		map[string]any{"word": "cocktail", "is_pangram": true})
	require.Equal(t, http.StatusCreated, code)

	code, days := doJSONList(t, srv, http.MethodGet, "/api/days")
	require.Equal(t, http.StatusOK, code)
	require.Len(t, days, 1)
	assert.Equal(t, float64(1), days[0]["word_count"])
	assert.Equal(t, float64(1), days[0]["pangram_count"])
}
