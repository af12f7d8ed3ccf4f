package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/roach88/beeline/internal/puzzle"
)

// dayColumns is the column list scanned by scanDay.
const dayColumns = `id, date, letters, center_letter, genius_achieved, current_stage,
	backfill_cursor_word_id, created_at, updated_at`

// CreateDay inserts a new day with a validated, normalized letter set.
// The first letter is the center letter. Fails CONFLICT if the date
// already has a day.
func (s *Store) CreateDay(ctx context.Context, date string, letters []string) (puzzle.Day, error) {
	if strings.TrimSpace(date) == "" {
		return puzzle.Day{}, puzzle.Validationf("date is required")
	}
	normalized, err := puzzle.NormalizeLetters(letters)
	if err != nil {
		return puzzle.Day{}, err
	}

	lettersJSON, err := json.Marshal(normalized)
	if err != nil {
		return puzzle.Day{}, fmt.Errorf("marshal letters: %w", err)
	}

	now := s.Timestamp()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO days (date, letters, center_letter, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, date, string(lettersJSON), normalized[0], now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return puzzle.Day{}, puzzle.Conflictf("day already exists for date %s", date)
		}
		return puzzle.Day{}, fmt.Errorf("create day: %w", err)
	}

	return DayByDate(ctx, s.db, date)
}

// DayByDate loads a day by its date key.
// Exported as a package-level helper so the backfill engine can load days
// inside its own transactions.
func DayByDate(ctx context.Context, q Querier, date string) (puzzle.Day, error) {
	row := q.QueryRowContext(ctx, `SELECT `+dayColumns+` FROM days WHERE date = ?`, date)
	day, err := scanDay(row)
	if errors.Is(err, sql.ErrNoRows) {
		return puzzle.Day{}, puzzle.NotFoundf("day not found: %s", date)
	}
	if err != nil {
		return puzzle.Day{}, fmt.Errorf("load day %s: %w", date, err)
	}
	return day, nil
}

// GetDay loads a single day by date.
func (s *Store) GetDay(ctx context.Context, date string) (puzzle.Day, error) {
	return DayByDate(ctx, s.db, date)
}

// ListDays returns all days, newest date first, with word and pangram counts.
func (s *Store) ListDays(ctx context.Context) ([]puzzle.DaySummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+dayColumns+`,
			(SELECT COUNT(*) FROM words w WHERE w.day_id = days.id) AS word_count,
			(SELECT COUNT(*) FROM words w WHERE w.day_id = days.id AND w.is_pangram = 1) AS pangram_count
		FROM days
		ORDER BY date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query days: %w", err)
	}
	defer rows.Close()

	days := []puzzle.DaySummary{}
	for rows.Next() {
		var (
			d           puzzle.Day
			lettersJSON string
			cursor      sql.NullInt64
			summary     puzzle.DaySummary
		)
		err := rows.Scan(
			&d.ID, &d.Date, &lettersJSON, &d.CenterLetter, &d.GeniusAchieved,
			&d.CurrentStage, &cursor, &d.CreatedAt, &d.UpdatedAt,
			&summary.WordCount, &summary.PangramCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan day: %w", err)
		}
		if err := json.Unmarshal([]byte(lettersJSON), &d.Letters); err != nil {
			return nil, fmt.Errorf("decode letters for day %s: %w", d.Date, err)
		}
		if cursor.Valid {
			d.BackfillCursorWordID = &cursor.Int64
		}
		summary.Day = d
		days = append(days, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate days: %w", err)
	}
	return days, nil
}

// PatchDay applies a partial update to a day in one transaction.
//
// Stage changes are checked against the forward-only rule; a transition
// into new-discovery clears the backfill cursor (an explicit cursor value
// in the same patch wins). A patch with no recognized fields is a no-op
// that returns the day unchanged.
func (s *Store) PatchDay(ctx context.Context, date string, patch puzzle.DayPatch) (puzzle.Day, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return puzzle.Day{}, fmt.Errorf("patch day: begin tx: %w", err)
	}
	defer tx.Rollback()

	day, err := DayByDate(ctx, tx, date)
	if err != nil {
		return puzzle.Day{}, err
	}

	var updates []string
	var values []any

	if patch.CurrentStage.Set {
		target := patch.CurrentStage.Value
		if err := puzzle.ValidateTransition(day.CurrentStage, target); err != nil {
			return puzzle.Day{}, err
		}
		updates = append(updates, "current_stage = ?")
		values = append(values, string(target))
		if target == puzzle.StageNewDiscovery && day.CurrentStage != puzzle.StageNewDiscovery && !patch.BackfillCursorWordID.Set {
			updates = append(updates, "backfill_cursor_word_id = NULL")
		}
	}
	if patch.GeniusAchieved.Set {
		updates = append(updates, "genius_achieved = ?")
		values = append(values, boolToInt(patch.GeniusAchieved.Value))
	}
	if patch.BackfillCursorWordID.Set {
		updates = append(updates, "backfill_cursor_word_id = ?")
		values = append(values, nullableID(patch.BackfillCursorWordID.Value))
	}

	if len(updates) == 0 {
		return day, nil
	}

	updates = append(updates, "updated_at = ?")
	values = append(values, s.Timestamp(), day.ID)

	query := "UPDATE days SET " + strings.Join(updates, ", ") + " WHERE id = ?"
	if _, err := tx.ExecContext(ctx, query, values...); err != nil {
		return puzzle.Day{}, fmt.Errorf("patch day %s: %w", date, err)
	}

	updated, err := DayByDate(ctx, tx, date)
	if err != nil {
		return puzzle.Day{}, err
	}
	if err := tx.Commit(); err != nil {
		return puzzle.Day{}, fmt.Errorf("patch day: commit: %w", err)
	}
	return updated, nil
}

// DeleteDay removes a day and, via foreign-key cascade, all of its words,
// attempts, and inspiration edges. The date becomes reusable.
func (s *Store) DeleteDay(ctx context.Context, date string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM days WHERE date = ?`, date)
	if err != nil {
		return fmt.Errorf("delete day %s: %w", date, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete day %s: rows affected: %w", date, err)
	}
	if n == 0 {
		return puzzle.NotFoundf("day not found: %s", date)
	}
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDay(row scanner) (puzzle.Day, error) {
	var (
		d           puzzle.Day
		lettersJSON string
		cursor      sql.NullInt64
	)
	err := row.Scan(
		&d.ID, &d.Date, &lettersJSON, &d.CenterLetter, &d.GeniusAchieved,
		&d.CurrentStage, &cursor, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return puzzle.Day{}, err
	}
	if err := json.Unmarshal([]byte(lettersJSON), &d.Letters); err != nil {
		return puzzle.Day{}, fmt.Errorf("decode letters: %w", err)
	}
	if cursor.Valid {
		d.BackfillCursorWordID = &cursor.Int64
	}
	return d, nil
}

func isUniqueViolation(err error) bool {
	var sqlErr sqlite3.Error
	if errors.As(err, &sqlErr) {
		return sqlErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqlErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}
