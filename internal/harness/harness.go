package harness

import (
	"context"
	"testing"

	"github.com/roach88/beeline/internal/puzzle"
	"github.com/roach88/beeline/internal/store"
)

// Run executes the scenario against the store and returns the day's final
// export snapshot. Inspire steps resolve their source by normalized word
// text among the words submitted so far.
func Run(t *testing.T, s *store.Store, sc *Scenario) puzzle.Export {
	t.Helper()
	ctx := context.Background()

	if _, err := s.CreateDay(ctx, sc.Date, sc.Letters); err != nil {
		t.Fatalf("scenario %s: create day: %v", sc.Name, err)
	}

	ids := make(map[string]int64)

	for i, step := range sc.Steps {
		switch {
		case step.Submit != nil:
			sw, err := s.SubmitWord(ctx, sc.Date, *step.Submit)
			if err != nil {
				t.Fatalf("scenario %s: step %d: submit %q: %v", sc.Name, i, step.Submit.Word, err)
			}
			ids[sw.Word.Word] = sw.ID

		case step.Inspire != nil:
			sourceID, ok := ids[puzzle.NormalizeWord(step.Inspire.Source)]
			if !ok {
				t.Fatalf("scenario %s: step %d: unknown source word %q", sc.Name, i, step.Inspire.Source)
			}
			sw, err := s.InspireWord(ctx, sc.Date, sourceID, step.Inspire.Req)
			if err != nil {
				t.Fatalf("scenario %s: step %d: inspire %q: %v", sc.Name, i, step.Inspire.Req.Word, err)
			}
			ids[sw.Word.Word] = sw.ID

		case step.PatchDay != nil:
			if _, err := s.PatchDay(ctx, sc.Date, *step.PatchDay); err != nil {
				t.Fatalf("scenario %s: step %d: patch day: %v", sc.Name, i, err)
			}

		default:
			t.Fatalf("scenario %s: step %d is empty", sc.Name, i)
		}
	}

	export, err := s.ExportDay(ctx, sc.Date)
	if err != nil {
		t.Fatalf("scenario %s: export: %v", sc.Name, err)
	}
	return export
}
