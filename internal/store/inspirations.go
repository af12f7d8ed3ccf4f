package store

import (
	"context"
	"fmt"

	"github.com/roach88/beeline/internal/puzzle"
)

// setSources replaces a word's entire inspiration edge set: all existing
// edges for the word are deleted, then one edge per distinct source id is
// inserted. Rejects a set that would make the word its own transitive
// ancestor.
func setSources(ctx context.Context, q Querier, wordID int64, sourceIDs []int64) error {
	cyclic, err := wouldCreateCycle(ctx, q, wordID, sourceIDs)
	if err != nil {
		return err
	}
	if cyclic {
		return puzzle.Validationf("inspired_by would create a cycle through word %d", wordID)
	}

	if _, err := q.ExecContext(ctx,
		`DELETE FROM word_inspirations WHERE word_id = ?`, wordID,
	); err != nil {
		return fmt.Errorf("clear inspirations for word %d: %w", wordID, err)
	}
	return insertEdges(ctx, q, wordID, sourceIDs)
}

// insertEdges inserts one inspiration edge per source id. Duplicate ids in
// the input and already-present edges are no-ops, not errors.
func insertEdges(ctx context.Context, q Querier, wordID int64, sourceIDs []int64) error {
	for _, sourceID := range sourceIDs {
		if _, err := q.ExecContext(ctx, `
			INSERT OR IGNORE INTO word_inspirations (word_id, inspired_by_word_id)
			VALUES (?, ?)
		`, wordID, sourceID); err != nil {
			return fmt.Errorf("insert inspiration edge %d -> %d: %w", wordID, sourceID, err)
		}
	}
	return nil
}

// wouldCreateCycle reports whether linking wordID to the given sources
// would make wordID a transitive ancestor of itself. Walks the existing
// edges upward from each candidate source; the walk is bounded by the
// number of words in the day.
func wouldCreateCycle(ctx context.Context, q Querier, wordID int64, sourceIDs []int64) (bool, error) {
	visited := map[int64]bool{}
	frontier := make([]int64, 0, len(sourceIDs))
	for _, id := range sourceIDs {
		if id == wordID {
			return true, nil
		}
		if !visited[id] {
			visited[id] = true
			frontier = append(frontier, id)
		}
	}

	for len(frontier) > 0 {
		node := frontier[0]
		frontier = frontier[1:]

		parents, err := sourcesOf(ctx, q, node)
		if err != nil {
			return false, err
		}
		for _, parent := range parents {
			if parent == wordID {
				return true, nil
			}
			if !visited[parent] {
				visited[parent] = true
				frontier = append(frontier, parent)
			}
		}
	}
	return false, nil
}

// sourcesOf returns the ids of the words that inspired the given word.
// Order matches insertion order (rowid) for stable display.
func sourcesOf(ctx context.Context, q Querier, wordID int64) ([]int64, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT inspired_by_word_id FROM word_inspirations
		WHERE word_id = ?
		ORDER BY id
	`, wordID)
	if err != nil {
		return nil, fmt.Errorf("query sources of word %d: %w", wordID, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan source id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sources: %w", err)
	}
	return ids, nil
}
