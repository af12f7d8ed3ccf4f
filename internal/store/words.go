package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/beeline/internal/puzzle"
)

// wordColumns is the column list scanned by scanWord. The two subselects
// denormalize the inspiration edge list and the attempt count into every
// word row, matching the wire shape.
const wordColumns = `w.id, w.day_id, w.word, w.position, w.stage, w.status, w.is_pangram,
	w.inspiration_confidence, w.chain_depth, w.notes, w.created_at,
	(SELECT COALESCE(json_group_array(wi.inspired_by_word_id), '[]')
		FROM word_inspirations wi WHERE wi.word_id = w.id) AS inspired_by_ids,
	(SELECT COUNT(*) FROM word_attempts wa WHERE wa.word_id = w.id) AS attempt_count`

// SubmitWord records one submission of a word for a day, in one transaction.
//
// If the normalized text already exists for the day, the submission is a
// reattempt: an attempt row is logged and the existing word is returned
// unchanged with IsReattempt=true. Otherwise a new word is inserted at an
// allocated position, the creation attempt is logged, and any inspiration
// edges are created. Either way the attempt log grows by exactly one row.
func (s *Store) SubmitWord(ctx context.Context, date string, req puzzle.SubmitWordRequest) (puzzle.SubmittedWord, error) {
	if req.Stage != "" && !req.Stage.Valid() {
		return puzzle.SubmittedWord{}, puzzle.Validationf("invalid stage: %s", req.Stage)
	}
	if req.Status != "" && !req.Status.Valid() {
		return puzzle.SubmittedWord{}, puzzle.Validationf("invalid status: %s", req.Status)
	}
	if req.InspirationConfidence != nil && !req.InspirationConfidence.Valid() {
		return puzzle.SubmittedWord{}, puzzle.Validationf("invalid inspiration_confidence: %s", *req.InspirationConfidence)
	}
	if req.ChainDepth != nil && *req.ChainDepth < 0 {
		return puzzle.SubmittedWord{}, puzzle.Validationf("chain_depth must be non-negative")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return puzzle.SubmittedWord{}, fmt.Errorf("submit word: begin tx: %w", err)
	}
	defer tx.Rollback()

	day, err := DayByDate(ctx, tx, date)
	if err != nil {
		return puzzle.SubmittedWord{}, err
	}

	normalized := puzzle.NormalizeWord(req.Word)
	if err := puzzle.ValidateWordText(normalized); err != nil {
		return puzzle.SubmittedWord{}, err
	}
	if req.IsPangram {
		if missing := puzzle.MissingPangramLetters(normalized, day.Letters); len(missing) > 0 {
			return puzzle.SubmittedWord{}, puzzle.Validationf(
				"%s is not a pangram: missing letters %s", normalized, strings.Join(missing, ", "))
		}
	}

	stage := day.CurrentStage
	if req.Stage != "" {
		stage = req.Stage
	}

	existing, found, err := wordByText(ctx, tx, day, normalized)
	if err != nil {
		return puzzle.SubmittedWord{}, err
	}
	if found {
		if err := s.logAttempt(ctx, tx, existing.ID, stage, req.Context); err != nil {
			return puzzle.SubmittedWord{}, err
		}
		word, err := WordByID(ctx, tx, day, existing.ID)
		if err != nil {
			return puzzle.SubmittedWord{}, err
		}
		if err := tx.Commit(); err != nil {
			return puzzle.SubmittedWord{}, fmt.Errorf("submit word: commit: %w", err)
		}
		return puzzle.SubmittedWord{Word: word, IsReattempt: true}, nil
	}

	var position float64
	if req.AfterWordID != nil {
		position, err = positionAfter(ctx, tx, day.ID, *req.AfterWordID)
	} else {
		position, err = nextPosition(ctx, tx, day.ID)
	}
	if err != nil {
		return puzzle.SubmittedWord{}, err
	}

	status := puzzle.StatusPending
	if req.Status != "" {
		status = req.Status
	}
	chainDepth := 0
	if req.ChainDepth != nil {
		chainDepth = *req.ChainDepth
	}

	wordID, err := s.insertWord(ctx, tx, insertWordParams{
		dayID:      day.ID,
		word:       normalized,
		position:   position,
		stage:      stage,
		status:     status,
		isPangram:  req.IsPangram,
		confidence: req.InspirationConfidence,
		chainDepth: chainDepth,
		notes:      req.Notes,
	})
	if err != nil {
		return puzzle.SubmittedWord{}, err
	}
	if err := s.logAttempt(ctx, tx, wordID, stage, req.Context); err != nil {
		return puzzle.SubmittedWord{}, err
	}
	if err := insertEdges(ctx, tx, wordID, req.InspiredBy); err != nil {
		return puzzle.SubmittedWord{}, err
	}

	word, err := WordByID(ctx, tx, day, wordID)
	if err != nil {
		return puzzle.SubmittedWord{}, err
	}
	if err := tx.Commit(); err != nil {
		return puzzle.SubmittedWord{}, fmt.Errorf("submit word: commit: %w", err)
	}
	return puzzle.SubmittedWord{Word: word, IsReattempt: false}, nil
}

// InspireWord records a word branched from a source word: positioned
// immediately after it, linked to it, one hop deeper in the chain.
// Reattempts behave exactly as in SubmitWord, with the attempt context
// recording the source word.
func (s *Store) InspireWord(ctx context.Context, date string, sourceWordID int64, req puzzle.InspireWordRequest) (puzzle.SubmittedWord, error) {
	if req.Status != "" && !req.Status.Valid() {
		return puzzle.SubmittedWord{}, puzzle.Validationf("invalid status: %s", req.Status)
	}
	if req.InspirationConfidence != nil && !req.InspirationConfidence.Valid() {
		return puzzle.SubmittedWord{}, puzzle.Validationf("invalid inspiration_confidence: %s", *req.InspirationConfidence)
	}
	if req.ChainDepth != nil && *req.ChainDepth < 0 {
		return puzzle.SubmittedWord{}, puzzle.Validationf("chain_depth must be non-negative")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return puzzle.SubmittedWord{}, fmt.Errorf("inspire word: begin tx: %w", err)
	}
	defer tx.Rollback()

	day, err := DayByDate(ctx, tx, date)
	if err != nil {
		return puzzle.SubmittedWord{}, err
	}
	source, err := WordByID(ctx, tx, day, sourceWordID)
	if err != nil {
		if puzzle.IsNotFound(err) {
			return puzzle.SubmittedWord{}, puzzle.NotFoundf("source word not found: %d", sourceWordID)
		}
		return puzzle.SubmittedWord{}, err
	}

	normalized := puzzle.NormalizeWord(req.Word)
	if err := puzzle.ValidateWordText(normalized); err != nil {
		return puzzle.SubmittedWord{}, err
	}

	contextLabel := fmt.Sprintf("inspired by %s", source.Word)

	existing, found, err := wordByText(ctx, tx, day, normalized)
	if err != nil {
		return puzzle.SubmittedWord{}, err
	}
	if found {
		if err := s.logAttempt(ctx, tx, existing.ID, day.CurrentStage, &contextLabel); err != nil {
			return puzzle.SubmittedWord{}, err
		}
		word, err := WordByID(ctx, tx, day, existing.ID)
		if err != nil {
			return puzzle.SubmittedWord{}, err
		}
		if err := tx.Commit(); err != nil {
			return puzzle.SubmittedWord{}, fmt.Errorf("inspire word: commit: %w", err)
		}
		return puzzle.SubmittedWord{Word: word, IsReattempt: true}, nil
	}

	position, err := positionAfter(ctx, tx, day.ID, sourceWordID)
	if err != nil {
		return puzzle.SubmittedWord{}, err
	}

	status := puzzle.StatusPending
	if req.Status != "" {
		status = req.Status
	}
	confidence := puzzle.ConfidenceCertain
	if req.InspirationConfidence != nil {
		confidence = *req.InspirationConfidence
	}
	chainDepth := source.ChainDepth + 1
	if req.ChainDepth != nil {
		chainDepth = *req.ChainDepth
	}

	wordID, err := s.insertWord(ctx, tx, insertWordParams{
		dayID:      day.ID,
		word:       normalized,
		position:   position,
		stage:      day.CurrentStage,
		status:     status,
		confidence: &confidence,
		chainDepth: chainDepth,
	})
	if err != nil {
		return puzzle.SubmittedWord{}, err
	}
	if err := insertEdges(ctx, tx, wordID, []int64{sourceWordID}); err != nil {
		return puzzle.SubmittedWord{}, err
	}
	if err := s.logAttempt(ctx, tx, wordID, day.CurrentStage, &contextLabel); err != nil {
		return puzzle.SubmittedWord{}, err
	}

	word, err := WordByID(ctx, tx, day, wordID)
	if err != nil {
		return puzzle.SubmittedWord{}, err
	}
	if err := tx.Commit(); err != nil {
		return puzzle.SubmittedWord{}, fmt.Errorf("inspire word: commit: %w", err)
	}
	return puzzle.SubmittedWord{Word: word, IsReattempt: false}, nil
}

// PatchWord applies a partial update to a word in one transaction.
// Setting is_pangram true revalidates the word against the day's letters.
// InspiredBy replaces the word's whole edge set and rejects sets that
// would make the word its own transitive ancestor.
func (s *Store) PatchWord(ctx context.Context, date string, wordID int64, patch puzzle.WordPatch) (puzzle.Word, error) {
	if patch.Status.Set && !patch.Status.Value.Valid() {
		return puzzle.Word{}, puzzle.Validationf("invalid status: %s", patch.Status.Value)
	}
	if patch.InspirationConfidence.Set && patch.InspirationConfidence.Value != nil && !patch.InspirationConfidence.Value.Valid() {
		return puzzle.Word{}, puzzle.Validationf("invalid inspiration_confidence: %s", *patch.InspirationConfidence.Value)
	}
	if patch.ChainDepth.Set && patch.ChainDepth.Value < 0 {
		return puzzle.Word{}, puzzle.Validationf("chain_depth must be non-negative")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return puzzle.Word{}, fmt.Errorf("patch word: begin tx: %w", err)
	}
	defer tx.Rollback()

	day, err := DayByDate(ctx, tx, date)
	if err != nil {
		return puzzle.Word{}, err
	}
	word, err := WordByID(ctx, tx, day, wordID)
	if err != nil {
		return puzzle.Word{}, err
	}

	var updates []string
	var values []any

	if patch.Status.Set {
		updates = append(updates, "status = ?")
		values = append(values, string(patch.Status.Value))
	}
	if patch.IsPangram.Set {
		if patch.IsPangram.Value {
			if missing := puzzle.MissingPangramLetters(word.Word, day.Letters); len(missing) > 0 {
				return puzzle.Word{}, puzzle.Validationf(
					"%s is not a pangram: missing letters %s", word.Word, strings.Join(missing, ", "))
			}
		}
		updates = append(updates, "is_pangram = ?")
		values = append(values, boolToInt(patch.IsPangram.Value))
	}
	if patch.Notes.Set {
		updates = append(updates, "notes = ?")
		values = append(values, nullableString(patch.Notes.Value))
	}
	if patch.InspirationConfidence.Set {
		updates = append(updates, "inspiration_confidence = ?")
		values = append(values, nullableConfidence(patch.InspirationConfidence.Value))
	}
	if patch.ChainDepth.Set {
		updates = append(updates, "chain_depth = ?")
		values = append(values, patch.ChainDepth.Value)
	}

	if len(updates) > 0 {
		values = append(values, wordID)
		query := "UPDATE words SET " + strings.Join(updates, ", ") + " WHERE id = ?"
		if _, err := tx.ExecContext(ctx, query, values...); err != nil {
			return puzzle.Word{}, fmt.Errorf("patch word %d: %w", wordID, err)
		}
	}

	if patch.InspiredBy.Set {
		if err := setSources(ctx, tx, wordID, patch.InspiredBy.Value); err != nil {
			return puzzle.Word{}, err
		}
	}

	updated, err := WordByID(ctx, tx, day, wordID)
	if err != nil {
		return puzzle.Word{}, err
	}
	if err := tx.Commit(); err != nil {
		return puzzle.Word{}, fmt.Errorf("patch word: commit: %w", err)
	}
	return updated, nil
}

// ListWords returns all of a day's words in position order.
func (s *Store) ListWords(ctx context.Context, date string) ([]puzzle.Word, error) {
	day, err := DayByDate(ctx, s.db, date)
	if err != nil {
		return nil, err
	}
	return wordsForDay(ctx, s.db, day)
}

// GetWord returns one of a day's words by id.
func (s *Store) GetWord(ctx context.Context, date string, wordID int64) (puzzle.Word, error) {
	day, err := DayByDate(ctx, s.db, date)
	if err != nil {
		return puzzle.Word{}, err
	}
	return WordByID(ctx, s.db, day, wordID)
}

// AttemptsForWord returns a word's attempt log in chronological order.
func (s *Store) AttemptsForWord(ctx context.Context, date string, wordID int64) ([]puzzle.Attempt, error) {
	day, err := DayByDate(ctx, s.db, date)
	if err != nil {
		return nil, err
	}
	if _, err := WordByID(ctx, s.db, day, wordID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, word_id, attempted_at, stage, context
		FROM word_attempts
		WHERE word_id = ?
		ORDER BY attempted_at, id
	`, wordID)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()
	return collectAttempts(rows)
}

// Attractors returns the day's words with more than one attempt, most
// attempted first.
func (s *Store) Attractors(ctx context.Context, date string) ([]puzzle.Word, error) {
	day, err := DayByDate(ctx, s.db, date)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+wordColumns+`
		FROM words w
		WHERE w.day_id = ?
			AND (SELECT COUNT(*) FROM word_attempts wa WHERE wa.word_id = w.id) > 1
		ORDER BY attempt_count DESC, w.position
	`, day.ID)
	if err != nil {
		return nil, fmt.Errorf("query attractors: %w", err)
	}
	defer rows.Close()
	return collectWords(rows, day.Letters)
}

// ExportDay returns the full denormalized snapshot of a day: the day row,
// every word in position order, and every attempt in chronological order.
func (s *Store) ExportDay(ctx context.Context, date string) (puzzle.Export, error) {
	day, err := DayByDate(ctx, s.db, date)
	if err != nil {
		return puzzle.Export{}, err
	}

	words, err := wordsForDay(ctx, s.db, day)
	if err != nil {
		return puzzle.Export{}, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT wa.id, wa.word_id, wa.attempted_at, wa.stage, wa.context
		FROM word_attempts wa
		JOIN words w ON wa.word_id = w.id
		WHERE w.day_id = ?
		ORDER BY wa.attempted_at, wa.id
	`, day.ID)
	if err != nil {
		return puzzle.Export{}, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	attempts, err := collectAttempts(rows)
	if err != nil {
		return puzzle.Export{}, err
	}

	return puzzle.Export{Day: day, Words: words, Attempts: attempts}, nil
}

// WordsByStage returns a day's words entered in the given stage, in
// position order. Exported for the backfill engine, which derives the
// review list inside its own transactions.
func WordsByStage(ctx context.Context, q Querier, day puzzle.Day, stage puzzle.Stage) ([]puzzle.Word, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+wordColumns+`
		FROM words w
		WHERE w.day_id = ? AND w.stage = ?
		ORDER BY w.position
	`, day.ID, string(stage))
	if err != nil {
		return nil, fmt.Errorf("query %s words: %w", stage, err)
	}
	defer rows.Close()
	return collectWords(rows, day.Letters)
}

// WordByID loads one of a day's words. Exported for the backfill engine.
func WordByID(ctx context.Context, q Querier, day puzzle.Day, wordID int64) (puzzle.Word, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+wordColumns+`
		FROM words w
		WHERE w.id = ? AND w.day_id = ?
	`, wordID, day.ID)
	word, err := scanWord(row, day.Letters)
	if errors.Is(err, sql.ErrNoRows) {
		return puzzle.Word{}, puzzle.NotFoundf("word not found: %d", wordID)
	}
	if err != nil {
		return puzzle.Word{}, fmt.Errorf("load word %d: %w", wordID, err)
	}
	return word, nil
}

func wordsForDay(ctx context.Context, q Querier, day puzzle.Day) ([]puzzle.Word, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+wordColumns+`
		FROM words w
		WHERE w.day_id = ?
		ORDER BY w.position
	`, day.ID)
	if err != nil {
		return nil, fmt.Errorf("query words: %w", err)
	}
	defer rows.Close()
	return collectWords(rows, day.Letters)
}

func wordByText(ctx context.Context, q Querier, day puzzle.Day, normalized string) (puzzle.Word, bool, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+wordColumns+`
		FROM words w
		WHERE w.day_id = ? AND w.word = ?
	`, day.ID, normalized)
	word, err := scanWord(row, day.Letters)
	if errors.Is(err, sql.ErrNoRows) {
		return puzzle.Word{}, false, nil
	}
	if err != nil {
		return puzzle.Word{}, false, fmt.Errorf("lookup word %q: %w", normalized, err)
	}
	return word, true, nil
}

type insertWordParams struct {
	dayID      int64
	word       string
	position   float64
	stage      puzzle.Stage
	status     puzzle.Status
	isPangram  bool
	confidence *puzzle.Confidence
	chainDepth int
	notes      *string
}

func (s *Store) insertWord(ctx context.Context, q Querier, p insertWordParams) (int64, error) {
	res, err := q.ExecContext(ctx, `
		INSERT INTO words (day_id, word, position, stage, status, is_pangram,
			inspiration_confidence, chain_depth, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		p.dayID, p.word, p.position, string(p.stage), string(p.status),
		boolToInt(p.isPangram), nullableConfidence(p.confidence), p.chainDepth,
		nullableString(p.notes), s.Timestamp(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert word %q: %w", p.word, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert word %q: last insert id: %w", p.word, err)
	}
	return id, nil
}

func (s *Store) logAttempt(ctx context.Context, q Querier, wordID int64, stage puzzle.Stage, attemptContext *string) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO word_attempts (word_id, attempted_at, stage, context)
		VALUES (?, ?, ?, ?)
	`, wordID, s.Timestamp(), string(stage), nullableString(attemptContext))
	if err != nil {
		return fmt.Errorf("log attempt for word %d: %w", wordID, err)
	}
	return nil
}

func scanWord(row scanner, letters []string) (puzzle.Word, error) {
	var (
		w            puzzle.Word
		confidence   sql.NullString
		notes        sql.NullString
		inspiredJSON string
	)
	err := row.Scan(
		&w.ID, &w.DayID, &w.Word, &w.Position, &w.Stage, &w.Status, &w.IsPangram,
		&confidence, &w.ChainDepth, &notes, &w.CreatedAt,
		&inspiredJSON, &w.AttemptCount,
	)
	if err != nil {
		return puzzle.Word{}, err
	}
	if confidence.Valid {
		c := puzzle.Confidence(confidence.String)
		w.InspirationConfidence = &c
	}
	if notes.Valid {
		w.Notes = &notes.String
	}
	if err := json.Unmarshal([]byte(inspiredJSON), &w.InspiredByIDs); err != nil {
		return puzzle.Word{}, fmt.Errorf("decode inspired_by_ids: %w", err)
	}
	if w.InspiredByIDs == nil {
		w.InspiredByIDs = []int64{}
	}
	w.Valid = puzzle.IsValidWord(w.Word, letters)
	return w, nil
}

func collectWords(rows *sql.Rows, letters []string) ([]puzzle.Word, error) {
	words := []puzzle.Word{}
	for rows.Next() {
		w, err := scanWord(rows, letters)
		if err != nil {
			return nil, fmt.Errorf("scan word: %w", err)
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate words: %w", err)
	}
	return words, nil
}

func collectAttempts(rows *sql.Rows) ([]puzzle.Attempt, error) {
	attempts := []puzzle.Attempt{}
	for rows.Next() {
		var (
			a          puzzle.Attempt
			attemptCtx sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.WordID, &a.AttemptedAt, &a.Stage, &attemptCtx); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		if attemptCtx.Valid {
			a.Context = &attemptCtx.String
		}
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attempts: %w", err)
	}
	return attempts, nil
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullableConfidence(c *puzzle.Confidence) any {
	if c == nil {
		return nil
	}
	return string(*c)
}
