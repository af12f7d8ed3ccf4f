package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// minPositionGap is the smallest anchor/successor gap the allocator will
// split. Below this, repeated midpoint insertion is approaching float64
// precision loss, so the day is renumbered to consecutive integers first.
const minPositionGap = 1e-9

// nextPosition returns the append position for a day: max(position) + 1,
// or 1 for an empty day. Must run inside the caller's insert transaction
// so concurrent allocations cannot collide.
func nextPosition(ctx context.Context, q Querier, dayID int64) (float64, error) {
	var maxPos sql.NullFloat64
	err := q.QueryRowContext(ctx,
		`SELECT MAX(position) FROM words WHERE day_id = ?`, dayID,
	).Scan(&maxPos)
	if err != nil {
		return 0, fmt.Errorf("next position: %w", err)
	}
	if !maxPos.Valid {
		return 1.0, nil
	}
	return maxPos.Float64 + 1.0, nil
}

// positionAfter returns a position strictly between the anchor word and
// whatever currently follows it. If the anchor does not exist in the day,
// falls back to appending. If nothing follows the anchor, anchor + 1.
// Otherwise the arithmetic midpoint of anchor and successor - renumbering
// the day first if the gap has collapsed below minPositionGap.
func positionAfter(ctx context.Context, q Querier, dayID, afterWordID int64) (float64, error) {
	anchor, successor, err := neighborPositions(ctx, q, dayID, afterWordID)
	if err != nil {
		return 0, err
	}
	if anchor == nil {
		return nextPosition(ctx, q, dayID)
	}
	if successor == nil {
		return *anchor + 1.0, nil
	}

	if *successor-*anchor <= minPositionGap {
		if err := renumberPositions(ctx, q, dayID); err != nil {
			return 0, err
		}
		anchor, successor, err = neighborPositions(ctx, q, dayID, afterWordID)
		if err != nil {
			return 0, err
		}
		if anchor == nil || successor == nil {
			return 0, fmt.Errorf("position after word %d: anchor vanished during renumber", afterWordID)
		}
	}

	return (*anchor + *successor) / 2.0, nil
}

// neighborPositions returns the anchor word's position and the position of
// the word immediately following it, either of which may be absent.
func neighborPositions(ctx context.Context, q Querier, dayID, afterWordID int64) (anchor, successor *float64, err error) {
	var anchorPos float64
	err = q.QueryRowContext(ctx,
		`SELECT position FROM words WHERE id = ? AND day_id = ?`, afterWordID, dayID,
	).Scan(&anchorPos)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("anchor position: %w", err)
	}

	var nextPos float64
	err = q.QueryRowContext(ctx, `
		SELECT position FROM words
		WHERE day_id = ? AND position > ?
		ORDER BY position LIMIT 1
	`, dayID, anchorPos).Scan(&nextPos)
	if errors.Is(err, sql.ErrNoRows) {
		return &anchorPos, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("successor position: %w", err)
	}
	return &anchorPos, &nextPos, nil
}

// renumberPositions rewrites every position in the day to consecutive
// integers (1, 2, 3, ...) preserving the existing order. Restores full
// midpoint headroom after deep insert-between chains.
func renumberPositions(ctx context.Context, q Querier, dayID int64) error {
	rows, err := q.QueryContext(ctx,
		`SELECT id FROM words WHERE day_id = ? ORDER BY position`, dayID,
	)
	if err != nil {
		return fmt.Errorf("renumber: query order: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("renumber: scan id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("renumber: iterate: %w", err)
	}

	for i, id := range ids {
		if _, err := q.ExecContext(ctx,
			`UPDATE words SET position = ? WHERE id = ?`, float64(i+1), id,
		); err != nil {
			return fmt.Errorf("renumber word %d: %w", id, err)
		}
	}
	return nil
}
