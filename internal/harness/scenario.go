package harness

import "github.com/roach88/beeline/internal/puzzle"

// Scenario is one scripted solving session: a day and the steps taken in it.
// Name doubles as the golden file name for RunWithGolden.
type Scenario struct {
	Name    string
	Date    string
	Letters []string
	Steps   []Step
}

// Step is one scripted action. Exactly one field is non-nil.
type Step struct {
	Submit   *puzzle.SubmitWordRequest
	Inspire  *InspireStep
	PatchDay *puzzle.DayPatch
}

// InspireStep branches a word from a source word identified by its text,
// so scenarios never hard-code row ids.
type InspireStep struct {
	Source string
	Req    puzzle.InspireWordRequest
}

// Submit is a plain word submission step.
func Submit(word string) Step {
	return Step{Submit: &puzzle.SubmitWordRequest{Word: word}}
}

// SubmitPangram submits a word flagged as the pangram.
func SubmitPangram(word string) Step {
	return Step{Submit: &puzzle.SubmitWordRequest{Word: word, IsPangram: true}}
}

// Inspire branches word from the previously submitted source word.
func Inspire(source, word string) Step {
	return Step{Inspire: &InspireStep{
		Source: source,
		Req:    puzzle.InspireWordRequest{Word: word},
	}}
}

// AdvanceStage moves the day to the given stage.
func AdvanceStage(stage puzzle.Stage) Step {
	return Step{PatchDay: &puzzle.DayPatch{
		CurrentStage: puzzle.Optional[puzzle.Stage]{Set: true, Value: stage},
	}}
}
