package puzzle

// Stage identifies which phase of the session a day (or word) belongs to.
//
// Days move strictly forward: pre-pangram → backfill → new-discovery.
// A word's stage records the phase it was first entered in and never changes.
type Stage string

const (
	// StagePrePangram is the free brainstorming phase before the pangram
	// is found. Every day starts here.
	StagePrePangram Stage = "pre-pangram"

	// StageBackfill is the guided re-review of pre-pangram words once the
	// pangram is known.
	StageBackfill Stage = "backfill"

	// StageNewDiscovery is the terminal open-ended discovery phase.
	StageNewDiscovery Stage = "new-discovery"
)

// stageOrder maps stages to their position in the forward-only sequence.
var stageOrder = map[Stage]int{
	StagePrePangram:   0,
	StageBackfill:     1,
	StageNewDiscovery: 2,
}

// Valid reports whether s is one of the three known stages.
func (s Stage) Valid() bool {
	_, ok := stageOrder[s]
	return ok
}

// Order returns the stage's position in the sequence (0, 1, 2).
// Returns -1 for unknown stages.
func (s Stage) Order() int {
	n, ok := stageOrder[s]
	if !ok {
		return -1
	}
	return n
}

// ValidateTransition checks a requested stage change against the
// forward-only, single-step rule:
//
//   - backward (target order < current order): INVALID_TRANSITION
//   - skipping (target order > current order + 1): INVALID_TRANSITION
//   - same stage: allowed, a no-op
//   - next stage: allowed
//
// Unknown target stages fail with VALIDATION.
func ValidateTransition(from, to Stage) error {
	if !to.Valid() {
		return Validationf("invalid stage: %s", to)
	}
	if to.Order() < from.Order() {
		return InvalidTransitionf("cannot transition backward from %s to %s", from, to)
	}
	if to.Order() > from.Order()+1 {
		return InvalidTransitionf("cannot skip stages: %s to %s", from, to)
	}
	return nil
}
