package store

import (
	"context"
	"testing"

	"github.com/roach88/beeline/internal/puzzle"
)

func TestCreateDay_NormalizesLetters(t *testing.T) {
	s := createTestStore(t)

	day, err := s.CreateDay(context.Background(), "2026-01-15", []string{"t", "i", "a", "o", "l", "k", "c"})
	if err != nil {
		t.Fatalf("CreateDay() failed: %v", err)
	}

	want := []string{"T", "I", "A", "O", "L", "K", "C"}
	if len(day.Letters) != len(want) {
		t.Fatalf("letters = %v, want %v", day.Letters, want)
	}
	for i := range want {
		if day.Letters[i] != want[i] {
			t.Errorf("letters[%d] = %q, want %q", i, day.Letters[i], want[i])
		}
	}
	if day.CenterLetter != "T" {
		t.Errorf("center_letter = %q, want T", day.CenterLetter)
	}
	if day.CurrentStage != puzzle.StagePrePangram {
		t.Errorf("current_stage = %q, want pre-pangram", day.CurrentStage)
	}
	if day.GeniusAchieved {
		t.Error("new day should not have genius_achieved")
	}
	if day.BackfillCursorWordID != nil {
		t.Error("new day should have no backfill cursor")
	}
}

func TestCreateDay_DuplicateDateConflicts(t *testing.T) {
	s := createTestStore(t)
	createTestDay(t, s, "2026-01-15")

	_, err := s.CreateDay(context.Background(), "2026-01-15", testLetters)
	if !puzzle.IsConflict(err) {
		t.Errorf("duplicate date: got %v, want CONFLICT", err)
	}
}

func TestCreateDay_RejectsBadLetters(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if _, err := s.CreateDay(ctx, "2026-01-15", []string{"T", "I", "A"}); !puzzle.IsValidation(err) {
		t.Errorf("short letter set: got %v, want VALIDATION", err)
	}
	if _, err := s.CreateDay(ctx, "2026-01-15", []string{"T", "I", "A", "O", "L", "K", "T"}); !puzzle.IsValidation(err) {
		t.Errorf("duplicate letter: got %v, want VALIDATION", err)
	}
	if _, err := s.CreateDay(ctx, "", testLetters); !puzzle.IsValidation(err) {
		t.Errorf("empty date: got %v, want VALIDATION", err)
	}
}

func TestGetDay_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.GetDay(context.Background(), "1999-01-01")
	if !puzzle.IsNotFound(err) {
		t.Errorf("missing day: got %v, want NOT_FOUND", err)
	}
}

func TestListDays_CountsAndOrder(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	createTestDay(t, s, "2026-01-14")
	createTestDay(t, s, "2026-01-15")
	submitTestWord(t, s, "2026-01-15", "tick")
	submitTestWord(t, s, "2026-01-15", "coat")
	if _, err := s.SubmitWord(ctx, "2026-01-15", puzzle.SubmitWordRequest{Word: "cocktail", IsPangram: true}); err != nil {
		t.Fatalf("SubmitWord(cocktail) failed: %v", err)
	}

	days, err := s.ListDays(ctx)
	if err != nil {
		t.Fatalf("ListDays() failed: %v", err)
	}
	if len(days) != 2 {
		t.Fatalf("got %d days, want 2", len(days))
	}
	// Newest first.
	if days[0].Date != "2026-01-15" || days[1].Date != "2026-01-14" {
		t.Errorf("order = [%s, %s], want newest first", days[0].Date, days[1].Date)
	}
	if days[0].WordCount != 3 {
		t.Errorf("word_count = %d, want 3", days[0].WordCount)
	}
	if days[0].PangramCount != 1 {
		t.Errorf("pangram_count = %d, want 1", days[0].PangramCount)
	}
	if days[1].WordCount != 0 {
		t.Errorf("empty day word_count = %d, want 0", days[1].WordCount)
	}
}

func TestPatchDay_StageForwardOnly(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	createTestDay(t, s, "2026-01-15")

	stagePatch := func(stage puzzle.Stage) puzzle.DayPatch {
		return puzzle.DayPatch{CurrentStage: puzzle.Optional[puzzle.Stage]{Set: true, Value: stage}}
	}

	// Skipping a stage is rejected.
	_, err := s.PatchDay(ctx, "2026-01-15", stagePatch(puzzle.StageNewDiscovery))
	if !puzzle.IsInvalidTransition(err) {
		t.Errorf("skip: got %v, want INVALID_TRANSITION", err)
	}

	day, err := s.PatchDay(ctx, "2026-01-15", stagePatch(puzzle.StageBackfill))
	if err != nil {
		t.Fatalf("advance to backfill failed: %v", err)
	}
	if day.CurrentStage != puzzle.StageBackfill {
		t.Errorf("stage = %q, want backfill", day.CurrentStage)
	}

	// Same stage is a permitted no-op.
	if _, err := s.PatchDay(ctx, "2026-01-15", stagePatch(puzzle.StageBackfill)); err != nil {
		t.Errorf("same-stage patch failed: %v", err)
	}

	// Backward is rejected.
	_, err = s.PatchDay(ctx, "2026-01-15", stagePatch(puzzle.StagePrePangram))
	if !puzzle.IsInvalidTransition(err) {
		t.Errorf("backward: got %v, want INVALID_TRANSITION", err)
	}

	// Unknown stage is a validation error.
	_, err = s.PatchDay(ctx, "2026-01-15", stagePatch(puzzle.Stage("bogus")))
	if !puzzle.IsValidation(err) {
		t.Errorf("bogus stage: got %v, want VALIDATION", err)
	}
}

func TestPatchDay_NewDiscoveryClearsCursor(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	createTestDay(t, s, "2026-01-15")
	w := submitTestWord(t, s, "2026-01-15", "tick")

	if _, err := s.PatchDay(ctx, "2026-01-15", puzzle.DayPatch{
		CurrentStage:         puzzle.Optional[puzzle.Stage]{Set: true, Value: puzzle.StageBackfill},
		BackfillCursorWordID: puzzle.Optional[*int64]{Set: true, Value: &w.ID},
	}); err != nil {
		t.Fatalf("enter backfill failed: %v", err)
	}

	day, err := s.PatchDay(ctx, "2026-01-15", puzzle.DayPatch{
		CurrentStage: puzzle.Optional[puzzle.Stage]{Set: true, Value: puzzle.StageNewDiscovery},
	})
	if err != nil {
		t.Fatalf("enter new-discovery failed: %v", err)
	}
	if day.BackfillCursorWordID != nil {
		t.Errorf("cursor = %v, want cleared on entering new-discovery", *day.BackfillCursorWordID)
	}
}

func TestPatchDay_GeniusAndEmptyPatch(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	created := createTestDay(t, s, "2026-01-15")

	day, err := s.PatchDay(ctx, "2026-01-15", puzzle.DayPatch{
		GeniusAchieved: puzzle.Optional[bool]{Set: true, Value: true},
	})
	if err != nil {
		t.Fatalf("genius patch failed: %v", err)
	}
	if !day.GeniusAchieved {
		t.Error("genius_achieved not set")
	}

	// Empty patch returns the day unchanged.
	day, err = s.PatchDay(ctx, "2026-01-15", puzzle.DayPatch{})
	if err != nil {
		t.Fatalf("empty patch failed: %v", err)
	}
	if day.ID != created.ID {
		t.Errorf("day id changed: %d != %d", day.ID, created.ID)
	}
}

func TestDeleteDay_CascadesAndFreesDate(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	createTestDay(t, s, "2026-01-15")
	w := submitTestWord(t, s, "2026-01-15", "tick")
	submitTestWord(t, s, "2026-01-15", "tick") // second attempt

	if err := s.DeleteDay(ctx, "2026-01-15"); err != nil {
		t.Fatalf("DeleteDay() failed: %v", err)
	}

	// Words and attempts are gone via cascade.
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM words").Scan(&count); err != nil || count != 0 {
		t.Errorf("words remaining = %d (err %v), want 0", count, err)
	}
	if err := s.db.QueryRow("SELECT COUNT(*) FROM word_attempts WHERE word_id = ?", w.ID).Scan(&count); err != nil || count != 0 {
		t.Errorf("attempts remaining = %d (err %v), want 0", count, err)
	}

	// Date is reusable, starting fresh.
	day := createTestDay(t, s, "2026-01-15")
	if day.CurrentStage != puzzle.StagePrePangram {
		t.Errorf("recreated day stage = %q, want pre-pangram", day.CurrentStage)
	}

	// Deleting a missing day is NOT_FOUND.
	if err := s.DeleteDay(ctx, "1999-01-01"); !puzzle.IsNotFound(err) {
		t.Errorf("missing day: got %v, want NOT_FOUND", err)
	}
}
