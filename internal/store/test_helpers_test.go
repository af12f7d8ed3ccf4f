package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/beeline/internal/puzzle"
)

// createTestStore creates a store in a temp directory with a fixed clock,
// so timestamps are stable across runs.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	fixed := time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)
	s, err := Open(path, WithNow(func() time.Time { return fixed }))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// testLetters is the standard letter set used across store tests.
// Center letter T; COCKTAIL is the pangram.
var testLetters = []string{"T", "I", "A", "O", "L", "K", "C"}

// createTestDay creates a day with the standard letters.
func createTestDay(t *testing.T, s *Store, date string) puzzle.Day {
	t.Helper()
	day, err := s.CreateDay(context.Background(), date, testLetters)
	if err != nil {
		t.Fatalf("CreateDay(%s) failed: %v", date, err)
	}
	return day
}

// submitTestWord submits a word and fails the test on error.
func submitTestWord(t *testing.T, s *Store, date, word string) puzzle.SubmittedWord {
	t.Helper()
	sw, err := s.SubmitWord(context.Background(), date, puzzle.SubmitWordRequest{Word: word})
	if err != nil {
		t.Fatalf("SubmitWord(%q) failed: %v", word, err)
	}
	return sw
}
