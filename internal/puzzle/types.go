package puzzle

import "encoding/json"

// Status is a word's review judgment.
type Status string

const (
	// StatusPending means the word has not been judged yet.
	StatusPending Status = "pending"

	// StatusAccepted means the word was confirmed valid for the puzzle.
	StatusAccepted Status = "accepted"

	// StatusRejected means the word was judged invalid.
	StatusRejected Status = "rejected"

	// StatusScratch marks a throwaway entry kept for the record.
	StatusScratch Status = "scratch"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected, StatusScratch:
		return true
	}
	return false
}

// Confidence grades how sure the player is that an inspiration link is real.
type Confidence string

const (
	ConfidenceCertain   Confidence = "certain"
	ConfidenceUncertain Confidence = "uncertain"
)

// Valid reports whether c is one of the known confidence grades.
func (c Confidence) Valid() bool {
	return c == ConfidenceCertain || c == ConfidenceUncertain
}

// Day is one puzzle session, keyed by date.
type Day struct {
	ID                   int64    `json:"id"`
	Date                 string   `json:"date"`
	Letters              []string `json:"letters"`
	CenterLetter         string   `json:"center_letter"`
	GeniusAchieved       bool     `json:"genius_achieved"`
	CurrentStage         Stage    `json:"current_stage"`
	BackfillCursorWordID *int64   `json:"backfill_cursor_word_id"`
	CreatedAt            string   `json:"created_at"`
	UpdatedAt            string   `json:"updated_at"`
}

// DaySummary is a Day with aggregate counts, used by the day listing.
type DaySummary struct {
	Day
	WordCount    int `json:"word_count"`
	PangramCount int `json:"pangram_count"`
}

// Word is one distinct word string entered for a day.
//
// Position is a real number that strictly orders words within the day;
// inserting between two words takes the arithmetic midpoint of their
// positions (see the store's position allocator).
type Word struct {
	ID                    int64       `json:"id"`
	DayID                 int64       `json:"day_id"`
	Word                  string      `json:"word"`
	Position              float64     `json:"position"`
	Stage                 Stage       `json:"stage"`
	Status                Status      `json:"status"`
	IsPangram             bool        `json:"is_pangram"`
	InspirationConfidence *Confidence `json:"inspiration_confidence"`
	ChainDepth            int         `json:"chain_depth"`
	Notes                 *string     `json:"notes"`
	CreatedAt             string      `json:"created_at"`
	InspiredByIDs         []int64     `json:"inspired_by_ids"`
	AttemptCount          int         `json:"attempt_count"`
	Valid                 bool        `json:"valid"`
}

// SubmittedWord is the result of a word submission. IsReattempt is true
// when the normalized text already existed for the day and only an attempt
// was logged.
type SubmittedWord struct {
	Word
	IsReattempt bool `json:"is_reattempt"`
}

// Attempt is one append-only log row recording a submission of a word.
type Attempt struct {
	ID          int64   `json:"id"`
	WordID      int64   `json:"word_id"`
	AttemptedAt string  `json:"attempted_at"`
	Stage       Stage   `json:"stage"`
	Context     *string `json:"context"`
}

// Export is the full denormalized snapshot of one day.
type Export struct {
	Day
	Words    []Word    `json:"words"`
	Attempts []Attempt `json:"attempts"`
}

// BackfillState is the derived review-cursor view for a day in the
// backfill stage.
type BackfillState struct {
	CurrentWord     *Word  `json:"current_word"`
	CursorIndex     int    `json:"cursor_index"`
	TotalPrePangram int    `json:"total_pre_pangram"`
	ProcessedCount  int    `json:"processed_count"`
	IsComplete      bool   `json:"is_complete"`
	BackfillWords   []Word `json:"backfill_words"`
}

// AdvanceResult reports the outcome of one backfill cursor advance.
type AdvanceResult struct {
	ProcessedWord Word  `json:"processed_word"`
	NextWord      *Word `json:"next_word"`
	IsComplete    bool  `json:"is_complete"`
}

// Optional is a tri-state patch field: absent, null, or a value.
// Set is true when the field appeared in the request body at all,
// which lets a patch distinguish "leave alone" from "clear".
type Optional[T any] struct {
	Set   bool
	Value T
}

// UnmarshalJSON marks the field as present and decodes into Value.
func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	return json.Unmarshal(b, &o.Value)
}

// DayPatch enumerates the mutable day fields for a partial update.
type DayPatch struct {
	CurrentStage         Optional[Stage]  `json:"current_stage"`
	GeniusAchieved       Optional[bool]   `json:"genius_achieved"`
	BackfillCursorWordID Optional[*int64] `json:"backfill_cursor_word_id"`
}

// WordPatch enumerates the mutable word fields for a partial update.
// InspiredBy has full-replace semantics: the word's existing inspiration
// edges are cleared and the new set inserted.
type WordPatch struct {
	Status                Optional[Status]      `json:"status"`
	IsPangram             Optional[bool]        `json:"is_pangram"`
	Notes                 Optional[*string]     `json:"notes"`
	InspirationConfidence Optional[*Confidence] `json:"inspiration_confidence"`
	ChainDepth            Optional[int]         `json:"chain_depth"`
	InspiredBy            Optional[[]int64]     `json:"inspired_by"`
}

// SubmitWordRequest carries one word submission. Field names match the
// HTTP contract.
type SubmitWordRequest struct {
	Word                  string      `json:"word"`
	Stage                 Stage       `json:"stage,omitempty"`
	Status                Status      `json:"status,omitempty"`
	IsPangram             bool        `json:"is_pangram,omitempty"`
	AfterWordID           *int64      `json:"after_word_id,omitempty"`
	InspiredBy            []int64     `json:"inspired_by,omitempty"`
	InspirationConfidence *Confidence `json:"inspiration_confidence,omitempty"`
	ChainDepth            *int        `json:"chain_depth,omitempty"`
	Notes                 *string     `json:"notes,omitempty"`
	Context               *string     `json:"context,omitempty"`
}

// InspireWordRequest carries a word created by branching from a source word.
type InspireWordRequest struct {
	Word                  string      `json:"word"`
	Status                Status      `json:"status,omitempty"`
	InspirationConfidence *Confidence `json:"inspiration_confidence,omitempty"`
	ChainDepth            *int        `json:"chain_depth,omitempty"`
}
