// Package harness runs scripted solving sessions against a store for
// snapshot testing.
//
// A Scenario is a day plus an ordered list of steps (submissions,
// inspiration branches, day patches). Run executes the steps through the
// normal store operations and returns the day's export snapshot;
// RunWithGolden additionally compares that snapshot against a golden file
// under testdata/golden (regenerate with -update).
package harness
