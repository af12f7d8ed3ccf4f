// Package puzzle defines the core domain types for a spelling-bee session:
// days, words, attempts, and the rules that govern them.
//
// The package is pure - no storage, no I/O. It owns:
//   - Word normalization (trim + Unicode upper-case) so that "tick" and
//     "TICK " resolve to the same ledger entry
//   - Letter-set validation (7 distinct letters, first is the center)
//   - Pangram and word validity checks against a day's letter set
//   - The forward-only stage machine (pre-pangram → backfill → new-discovery)
//   - The typed error taxonomy shared by store, engine, and the HTTP layer
//
// All persistence lives in internal/store; the backfill review cursor lives
// in internal/engine.
package puzzle
