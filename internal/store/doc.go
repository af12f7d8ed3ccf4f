// Package store provides SQLite-backed durable storage for puzzle days,
// their ordered word lists, the append-only attempt log, and the directed
// inspiration graph.
//
// Tables:
//   - days: one row per puzzle date, including the current stage and the
//     persisted backfill cursor pointer
//   - words: one row per distinct normalized word per day, ordered by a
//     REAL position; UNIQUE(day_id, word) makes resubmission a reattempt
//   - word_attempts: append-only log, one row per submission of a word
//   - word_inspirations: directed edges word → inspiring word
//
// # Invariants
//
// Every write sequence described by a single operation (reattempt check +
// insert + attempt log + edge creation; position allocation + insert) runs
// in one transaction, so two concurrent submissions of the same text cannot
// both insert and two position allocations cannot collide.
//
// Positions are pairwise distinct within a day. Insert-between takes the
// arithmetic midpoint of the neighbors; when the gap between neighbors
// drops below minPositionGap the whole day is renumbered to consecutive
// integers inside the same transaction (see position.go).
//
// The attempt log grows by exactly one row per submission, whether the
// submission created a word or hit an existing one.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: cascade deletes (day → words → attempts/edges)
package store
