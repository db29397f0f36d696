package dialogue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJudge_Insufficient(t *testing.T) {
	j := NewJudge(DefaultMinAnswerLength, DefaultDisqualifyingPhrases)

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"empty", "", true},
		{"whitespace", " \n\t ", true},
		{"too short", "  ok  ", true},
		{"exactly min length", "Delhi", false},
		{"boilerplate", "I don't know.", true},
		{"boilerplate different case", "NO RESULTS FOUND", true},
		{"boilerplate with tail", "I don't know, the context is silent on that.", true},
		{"curly apostrophe", "I don’t know", true},
		{"phrase inside real answer", "Locals say I don't know a better thali place than this one", false},
		{"real answer", "The Amber Fort is 11 km from Jaipur.", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, j.Insufficient(tt.text))
		})
	}
}

func TestJudge_CustomPhrases(t *testing.T) {
	j := NewJudge(1, []string{"nothing here", "  "})

	assert.True(t, j.Insufficient("Nothing here!"))
	assert.False(t, j.Insufficient("x"))
}

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"  Visit Hampi  ":       "Visit Hampi.",
		"Visit Hampi.":          "Visit Hampi.",
		"Is it open?":           "Is it open?",
		"What a view!":          "What a view!",
		"Ends with ellipsis...": "Ends with ellipsis...",
	}

	for in, want := range tests {
		assert.Equal(t, want, Normalize(in), "input %q", in)
	}
}

func TestOutcomeKind_String(t *testing.T) {
	assert.Equal(t, "success", Success.String())
	assert.Equal(t, "insufficient", Insufficient.String())
	assert.Equal(t, "unavailable", Unavailable.String())
}
