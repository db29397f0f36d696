package dialogue

import (
	"fmt"
	"time"

	"github.com/samber/mo"

	"github.com/ahmednasr/namastebot/internal/models"
)

// DefaultMaxFollowUps bounds the clarifying questions asked per session.
const DefaultMaxFollowUps = 2

// State is the conversation state of one session. It is owned by a single
// Controller and must not be shared.
type State struct {
	PendingFollowUp mo.Option[string]
	FollowUpCount   int
	MaxFollowUps    int
	History         []models.Turn

	// utterance and intent that triggered the outstanding follow-up
	pendingUtterance string
	pendingIntent    Intent
}

// NewState returns an empty state that allows up to maxFollowUps
// clarifying questions.
func NewState(maxFollowUps int) *State {
	if maxFollowUps < 0 {
		maxFollowUps = 0
	}
	return &State{
		PendingFollowUp: mo.None[string](),
		MaxFollowUps:    maxFollowUps,
	}
}

// Awaiting reports whether a clarifying question is outstanding.
func (s *State) Awaiting() bool {
	return s.PendingFollowUp.IsPresent()
}

// CanAskFollowUp reports whether another clarifying question is allowed.
func (s *State) CanAskFollowUp() bool {
	return s.FollowUpCount < s.MaxFollowUps
}

func (s *State) validate() error {
	if s.FollowUpCount < 0 || s.FollowUpCount > s.MaxFollowUps {
		return fmt.Errorf("follow-up count %d outside [0, %d]", s.FollowUpCount, s.MaxFollowUps)
	}
	if s.Awaiting() && s.FollowUpCount == 0 {
		return fmt.Errorf("follow-up pending with zero count")
	}
	return nil
}

func (s *State) askFollowUp(rule Rule, utterance string) {
	s.PendingFollowUp = mo.Some(rule.Reply)
	s.pendingUtterance = utterance
	s.pendingIntent = rule.Intent
	s.FollowUpCount++
}

func (s *State) clearPending() {
	s.PendingFollowUp = mo.None[string]()
	s.pendingUtterance = ""
	s.pendingIntent = IntentNone
}

func (s *State) record(now time.Time, utterance, response string) {
	s.History = append(s.History,
		models.Turn{Speaker: models.SpeakerUser, Text: utterance, At: now},
		models.Turn{Speaker: models.SpeakerAssistant, Text: response, At: now},
	)
}

// Snapshot is a read-only copy of State.
type Snapshot struct {
	PendingFollowUp mo.Option[string]
	FollowUpCount   int
	MaxFollowUps    int
	History         []models.Turn
}

func (s *State) snapshot() Snapshot {
	history := make([]models.Turn, len(s.History))
	copy(history, s.History)
	return Snapshot{
		PendingFollowUp: s.PendingFollowUp,
		FollowUpCount:   s.FollowUpCount,
		MaxFollowUps:    s.MaxFollowUps,
		History:         history,
	}
}
