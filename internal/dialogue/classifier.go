package dialogue

import (
	"strings"

	"github.com/elliotchance/pie/v2"
)

// Intent is the travel topic an utterance was classified into.
type Intent string

const (
	IntentNone        Intent = ""
	IntentRealtime    Intent = "realtime"
	IntentDining      Intent = "dining"
	IntentLodging     Intent = "lodging"
	IntentSightseeing Intent = "sightseeing"
	IntentTrip        Intent = "trip"
)

// RealtimeRedirect is returned for weather-like questions the guide cannot answer.
const RealtimeRedirect = "Please check Google Search for the latest temperature information."

// Rule maps a set of keywords to a reply. A ShortCircuit rule answers the
// utterance outright; any other rule asks Reply as a clarifying question.
type Rule struct {
	Intent       Intent
	Keywords     []string
	Reply        string
	ShortCircuit bool
}

// DefaultRules is the rule table in priority order. First match wins.
var DefaultRules = []Rule{
	{
		Intent:       IntentRealtime,
		Keywords:     []string{"temperature", "weather", "climate"},
		Reply:        RealtimeRedirect,
		ShortCircuit: true,
	},
	{
		Intent:   IntentDining,
		Keywords: []string{"eat", "restaurant", "food", "dining"},
		Reply:    "Do you prefer vegetarian or non-vegetarian food?",
	},
	{
		Intent:   IntentLodging,
		Keywords: []string{"hotel", "stay", "accommodation"},
		Reply:    "Are you looking for budget or luxury options?",
	},
	{
		Intent:   IntentSightseeing,
		Keywords: []string{"tourist spot", "places to visit", "sightseeing"},
		Reply:    "Do you prefer historical sites or natural attractions?",
	},
	{
		Intent:   IntentTrip,
		Keywords: []string{"flight", "travel", "trip"},
		Reply:    "Do you need help with flight bookings or itinerary planning?",
	},
}

func (r Rule) matches(lowered string) bool {
	for _, kw := range r.Keywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

// Classify returns the first rule whose keywords occur in utterance.
// Matching is a case-insensitive substring test on the raw text.
func Classify(rules []Rule, utterance string) (Rule, bool) {
	lowered := strings.ToLower(utterance)
	idx := pie.FindFirstUsing(rules, func(r Rule) bool {
		return r.matches(lowered)
	})
	if idx < 0 {
		return Rule{}, false
	}
	return rules[idx], true
}
