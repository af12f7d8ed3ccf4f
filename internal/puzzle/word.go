package puzzle

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// MinWordLength is the shortest word the puzzle accepts.
const MinWordLength = 4

// LetterCount is the fixed size of a day's letter set.
const LetterCount = 7

var upper = cases.Upper(language.Und)

// NormalizeWord maps a raw submission to its canonical ledger form:
// NFC-normalized, trimmed, upper-cased. Two submissions with the same
// normalized form are the same word.
func NormalizeWord(s string) string {
	return upper.String(strings.TrimSpace(norm.NFC.String(s)))
}

// ValidateWordText checks a normalized word against the basic entry rules.
func ValidateWordText(normalized string) error {
	if normalized == "" {
		return Validationf("word is required")
	}
	if len([]rune(normalized)) < MinWordLength {
		return Validationf("word must be at least %d letters", MinWordLength)
	}
	return nil
}

// NormalizeLetters validates and canonicalizes a day's letter set: exactly
// seven single-character letters, upper-cased, all distinct. The first
// letter is the center letter.
func NormalizeLetters(letters []string) ([]string, error) {
	if len(letters) != LetterCount {
		return nil, Validationf("letters must be exactly %d entries, got %d", LetterCount, len(letters))
	}
	out := make([]string, LetterCount)
	seen := make(map[string]bool, LetterCount)
	for i, l := range letters {
		n := NormalizeWord(l)
		if len([]rune(n)) != 1 {
			return nil, Validationf("letter %d must be a single character, got %q", i+1, l)
		}
		if seen[n] {
			return nil, Validationf("all %d letters must be unique (duplicate %q)", LetterCount, n)
		}
		seen[n] = true
		out[i] = n
	}
	return out, nil
}

// MissingPangramLetters returns the day letters that do not occur in the
// normalized word, sorted for stable error messages. A word is a pangram
// exactly when the result is empty.
func MissingPangramLetters(normalized string, letters []string) []string {
	var missing []string
	for _, l := range letters {
		if !strings.Contains(normalized, l) {
			missing = append(missing, l)
		}
	}
	sort.Strings(missing)
	return missing
}

// IsValidWord reports whether the normalized word uses only the day's
// letters and includes the center letter (letters[0]). Length is not
// checked here; the ledger enforces it at submission.
func IsValidWord(normalized string, letters []string) bool {
	if len(letters) == 0 {
		return false
	}
	if !strings.Contains(normalized, letters[0]) {
		return false
	}
	allowed := make(map[rune]bool, len(letters))
	for _, l := range letters {
		for _, r := range l {
			allowed[r] = true
		}
	}
	for _, r := range normalized {
		if !allowed[r] {
			return false
		}
	}
	return true
}
