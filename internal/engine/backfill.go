package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/beeline/internal/puzzle"
	"github.com/roach88/beeline/internal/store"
)

// Action is a backfill advance judgment.
type Action string

const (
	// ActionAccept marks the current word accepted and moves on.
	ActionAccept Action = "accept"

	// ActionReject marks the current word rejected and moves on.
	ActionReject Action = "reject"

	// ActionSkip moves on without judging: the word stays pending and a
	// later pass (or direct patch) can still decide it.
	ActionSkip Action = "skip"
)

// Valid reports whether a is one of the three known actions.
func (a Action) Valid() bool {
	return a == ActionAccept || a == ActionReject || a == ActionSkip
}

// Engine drives the sequential re-review of pre-pangram words while a day
// is in the backfill stage. Each operation is one store transaction.
type Engine struct {
	store *store.Store
}

// New creates a backfill engine over the given store.
func New(s *store.Store) *Engine {
	return &Engine{store: s}
}

// State derives the current backfill view for a day: the word under
// review, its index in the review list, progress counts, and the words
// created during backfill itself (via inspiration branching).
//
// If the day has no persisted cursor - or the persisted cursor no longer
// points into the review list - the first pending word is discovered and
// persisted immediately, so repeated reads are idempotent and a concurrent
// reader sees the same cursor.
func (e *Engine) State(ctx context.Context, date string) (puzzle.BackfillState, error) {
	tx, err := e.store.BeginTx(ctx)
	if err != nil {
		return puzzle.BackfillState{}, fmt.Errorf("backfill state: begin tx: %w", err)
	}
	defer tx.Rollback()

	day, err := store.DayByDate(ctx, tx, date)
	if err != nil {
		return puzzle.BackfillState{}, err
	}
	if err := requireBackfillStage(day); err != nil {
		return puzzle.BackfillState{}, err
	}

	review, err := store.WordsByStage(ctx, tx, day, puzzle.StagePrePangram)
	if err != nil {
		return puzzle.BackfillState{}, err
	}

	cursorIdx, discovered := resolveCursor(review, day.BackfillCursorWordID)
	if discovered && cursorIdx >= 0 {
		if err := persistCursor(ctx, tx, day.ID, &review[cursorIdx].ID); err != nil {
			return puzzle.BackfillState{}, err
		}
	}

	state := puzzle.BackfillState{
		CursorIndex:     cursorIdx,
		TotalPrePangram: len(review),
		ProcessedCount:  countProcessed(review),
	}
	if cursorIdx >= 0 {
		state.CurrentWord = &review[cursorIdx]
	}
	state.IsComplete = state.CurrentWord == nil || state.ProcessedCount >= state.TotalPrePangram

	state.BackfillWords, err = store.WordsByStage(ctx, tx, day, puzzle.StageBackfill)
	if err != nil {
		return puzzle.BackfillState{}, err
	}

	if err := tx.Commit(); err != nil {
		return puzzle.BackfillState{}, fmt.Errorf("backfill state: commit: %w", err)
	}
	return state, nil
}

// Advance judges the word currently under review and moves the cursor to
// the next pending word.
//
// The cursor word is re-derived from persisted data, never taken from the
// caller, so the operation is safe to retry. Accept and reject set the
// word's status; skip leaves it untouched. In every case the persisted
// cursor becomes the next pending word after the current one (or null).
func (e *Engine) Advance(ctx context.Context, date string, action Action) (puzzle.AdvanceResult, error) {
	if !action.Valid() {
		return puzzle.AdvanceResult{}, puzzle.Validationf("action must be accept, reject, or skip")
	}

	tx, err := e.store.BeginTx(ctx)
	if err != nil {
		return puzzle.AdvanceResult{}, fmt.Errorf("backfill advance: begin tx: %w", err)
	}
	defer tx.Rollback()

	day, err := store.DayByDate(ctx, tx, date)
	if err != nil {
		return puzzle.AdvanceResult{}, err
	}
	if err := requireBackfillStage(day); err != nil {
		return puzzle.AdvanceResult{}, err
	}

	review, err := store.WordsByStage(ctx, tx, day, puzzle.StagePrePangram)
	if err != nil {
		return puzzle.AdvanceResult{}, err
	}

	cursorIdx, _ := resolveCursor(review, day.BackfillCursorWordID)
	if cursorIdx < 0 {
		return puzzle.AdvanceResult{}, puzzle.InvalidStatef("no more words to process")
	}
	current := review[cursorIdx]

	if action != ActionSkip {
		status := puzzle.StatusAccepted
		if action == ActionReject {
			status = puzzle.StatusRejected
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE words SET status = ? WHERE id = ?`, string(status), current.ID,
		); err != nil {
			return puzzle.AdvanceResult{}, fmt.Errorf("backfill advance: set status: %w", err)
		}
		current.Status = status
	}

	var next *puzzle.Word
	for i := cursorIdx + 1; i < len(review); i++ {
		if review[i].Status == puzzle.StatusPending {
			next = &review[i]
			break
		}
	}

	var nextID *int64
	if next != nil {
		nextID = &next.ID
	}
	if err := persistCursor(ctx, tx, day.ID, nextID); err != nil {
		return puzzle.AdvanceResult{}, err
	}

	if err := tx.Commit(); err != nil {
		return puzzle.AdvanceResult{}, fmt.Errorf("backfill advance: commit: %w", err)
	}

	slog.Debug("backfill advanced",
		"date", date,
		"action", string(action),
		"processed_word", current.Word,
		"complete", next == nil,
	)

	return puzzle.AdvanceResult{
		ProcessedWord: current,
		NextWord:      next,
		IsComplete:    next == nil,
	}, nil
}

// Complete ends the backfill stage: transitions the day to new-discovery
// and clears the cursor. Valid with any number of words still pending -
// it is an explicit escape hatch, not gated on completeness.
func (e *Engine) Complete(ctx context.Context, date string) (puzzle.Day, error) {
	tx, err := e.store.BeginTx(ctx)
	if err != nil {
		return puzzle.Day{}, fmt.Errorf("backfill complete: begin tx: %w", err)
	}
	defer tx.Rollback()

	day, err := store.DayByDate(ctx, tx, date)
	if err != nil {
		return puzzle.Day{}, err
	}
	if err := requireBackfillStage(day); err != nil {
		return puzzle.Day{}, err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE days
		SET current_stage = ?, backfill_cursor_word_id = NULL, updated_at = ?
		WHERE id = ?
	`, string(puzzle.StageNewDiscovery), e.store.Timestamp(), day.ID); err != nil {
		return puzzle.Day{}, fmt.Errorf("backfill complete: %w", err)
	}

	updated, err := store.DayByDate(ctx, tx, date)
	if err != nil {
		return puzzle.Day{}, err
	}
	if err := tx.Commit(); err != nil {
		return puzzle.Day{}, fmt.Errorf("backfill complete: commit: %w", err)
	}

	slog.Info("backfill completed", "date", date, "stage", string(updated.CurrentStage))
	return updated, nil
}

// requireBackfillStage guards every engine operation: outside the
// backfill stage the cursor has no meaning.
func requireBackfillStage(day puzzle.Day) error {
	if day.CurrentStage != puzzle.StageBackfill {
		return puzzle.InvalidStatef("day is in %s stage, not backfill", day.CurrentStage)
	}
	return nil
}

// resolveCursor finds the index of the word under review: the persisted
// cursor if it still points into the review list, otherwise the first
// pending word. discovered is true when the persisted pointer was unset
// or stale and the fallback was used.
func resolveCursor(review []puzzle.Word, persisted *int64) (idx int, discovered bool) {
	if persisted != nil {
		for i := range review {
			if review[i].ID == *persisted {
				return i, false
			}
		}
	}
	for i := range review {
		if review[i].Status == puzzle.StatusPending {
			return i, true
		}
	}
	return -1, true
}

func countProcessed(review []puzzle.Word) int {
	n := 0
	for i := range review {
		if review[i].Status != puzzle.StatusPending {
			n++
		}
	}
	return n
}

func persistCursor(ctx context.Context, q store.Querier, dayID int64, wordID *int64) error {
	var value any
	if wordID != nil {
		value = *wordID
	}
	if _, err := q.ExecContext(ctx,
		`UPDATE days SET backfill_cursor_word_id = ? WHERE id = ?`, value, dayID,
	); err != nil {
		return fmt.Errorf("persist backfill cursor: %w", err)
	}
	return nil
}
