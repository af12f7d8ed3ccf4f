package harness

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/beeline/internal/store"
	"github.com/roach88/beeline/internal/testutil"
)

// goldenEpoch is the frozen clock time for golden runs. Every timestamp in
// a golden snapshot is this instant.
var goldenEpoch = time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)

// RunWithGolden runs the scenario on a fresh frozen-clock store and
// compares the export snapshot against testdata/golden/<name>.golden.
// Run tests with -update to regenerate.
func RunWithGolden(t *testing.T, sc *Scenario) {
	t.Helper()

	clock := testutil.NewClock(goldenEpoch, 0)
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"), store.WithNow(clock.Now))
	if err != nil {
		t.Fatalf("scenario %s: open store: %v", sc.Name, err)
	}
	defer s.Close()

	export := Run(t, s, sc)

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		t.Fatalf("scenario %s: marshal export: %v", sc.Name, err)
	}
	data = append(data, '\n')

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, sc.Name, data)
}
