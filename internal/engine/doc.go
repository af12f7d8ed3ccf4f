// Package engine implements the backfill review cursor and the stage
// completion that ends it.
//
// The cursor is not in-memory session state. Every operation re-derives
// "the word under review" from persisted data inside one transaction:
// load the day's pre-pangram words in position order, take the day's
// stored cursor pointer if it still points into that list, otherwise the
// first word whose status is still pending. That makes every operation
// safe to retry, resumable across process restarts, and consistent under
// concurrent readers - the store's single-writer transactions provide the
// only serialization.
//
// Advancing decouples judgment from progress: accept/reject set the
// current word's status, skip leaves it pending, and in all three cases
// the persisted cursor moves to the next pending word.
package engine
