package dialogue

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// OutcomeKind tags the result of a single collaborator call.
type OutcomeKind int

const (
	Success OutcomeKind = iota
	Insufficient
	Unavailable
)

func (k OutcomeKind) String() string {
	switch k {
	case Success:
		return "success"
	case Insufficient:
		return "insufficient"
	default:
		return "unavailable"
	}
}

// Outcome is what the fallback chain sees of a collaborator call.
// Text is only meaningful for Success; Err only for Unavailable.
type Outcome struct {
	Kind   OutcomeKind
	Source string
	Text   string
	Err    error
}

// DefaultMinAnswerLength is the minimum rune count of a usable answer.
const DefaultMinAnswerLength = 5

// DefaultDisqualifyingPhrases are non-answers commonly produced by the
// retrieval chain and the search backends.
var DefaultDisqualifyingPhrases = []string{
	"I don't know",
	"I do not know",
	"I'm not sure",
	"No results found",
	"No information found",
	"no information available",
	"The provided context does not contain",
	"The context does not provide",
	"I cannot find",
	"I could not find",
}

// Judge decides whether a well-formed collaborator answer is usable.
type Judge struct {
	minLength int
	phrases   []string
}

// NewJudge builds a Judge. Phrases are compared case- and
// punctuation-insensitively.
func NewJudge(minLength int, phrases []string) Judge {
	normalized := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if n := fold(p); n != "" {
			normalized = append(normalized, n)
		}
	}
	return Judge{minLength: minLength, phrases: normalized}
}

// Insufficient reports whether text is empty, too short or a known
// "nothing found" boilerplate. Boilerplate matches when the folded answer
// equals a phrase or starts with it.
func (j Judge) Insufficient(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || utf8.RuneCountInString(trimmed) < j.minLength {
		return true
	}
	folded := fold(trimmed)
	for _, p := range j.phrases {
		if folded == p || strings.HasPrefix(folded, p+" ") {
			return true
		}
	}
	return false
}

// fold lowercases s, drops punctuation and collapses whitespace.
func fold(s string) string {
	var b strings.Builder
	space := false
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			space = false
		case unicode.IsSpace(r):
			if !space && b.Len() > 0 {
				b.WriteByte(' ')
				space = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// Normalize trims text and terminates it with a period when it does not
// already end in '.', '!' or '?'.
func Normalize(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return text
	}
	switch text[len(text)-1] {
	case '.', '!', '?':
		return text
	}
	return text + "."
}
