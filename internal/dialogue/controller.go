// Package dialogue implements the follow-up-aware dialogue controller: for
// every user utterance it decides whether to ask a clarifying question,
// redirect to live search, or answer by walking a fixed chain of
// collaborators (retrieval, then search, then general generation).
package dialogue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmednasr/namastebot/internal/models"
)

// DegradedMessage is returned when no collaborator produced a usable answer.
const DegradedMessage = "I'm having trouble finding that information right now."

// ErrNotConfigured marks a collaborator slot that has no binding.
var ErrNotConfigured = errors.New("collaborator not configured")

// ---- Collaborator contracts ------------------------------------------------

// Retriever answers a query from the indexed travel guide. An empty string
// means nothing relevant was found.
type Retriever interface {
	Retrieve(ctx context.Context, query string) (string, error)
}

// Searcher returns a live web search snippet for a query.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// Generator produces a general-purpose answer given the prompt and the
// prior turns of the conversation.
type Generator interface {
	Generate(ctx context.Context, prompt string, history []models.Turn) (string, error)
}

// ---- Controller --------------------------------------------------------------

// Controller drives one conversation. It is not safe for concurrent use;
// callers serialize Handle per session.
type Controller struct {
	retriever Retriever
	searcher  Searcher
	generator Generator

	rules         []Rule
	judge         Judge
	resetOnAnswer bool
	state         *State
	logger        *slog.Logger
	now           func() time.Time
}

// Option customises a Controller.
type Option func(*Controller)

// WithRules replaces the classification table.
func WithRules(rules []Rule) Option {
	return func(c *Controller) { c.rules = rules }
}

// WithMaxFollowUps bounds the number of clarifying questions per session.
func WithMaxFollowUps(n int) Option {
	return func(c *Controller) { c.state = NewState(n) }
}

// WithJudge replaces the insufficient-answer policy.
func WithJudge(j Judge) Option {
	return func(c *Controller) { c.judge = j }
}

// WithFollowUpReset zeroes the follow-up counter after every real answer,
// so each new question may be clarified again.
func WithFollowUpReset() Option {
	return func(c *Controller) { c.resetOnAnswer = true }
}

// WithLogger sets the logger used for decision tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithClock overrides the time source used to stamp turns.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// New returns a Controller with fresh state. Any collaborator may be nil;
// a nil collaborator is skipped as unavailable.
func New(retriever Retriever, searcher Searcher, generator Generator, opts ...Option) *Controller {
	c := &Controller{
		retriever: retriever,
		searcher:  searcher,
		generator: generator,
		rules:     DefaultRules,
		judge:     NewJudge(DefaultMinAnswerLength, DefaultDisqualifyingPhrases),
		state:     NewState(DefaultMaxFollowUps),
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot returns a copy of the current conversation state.
func (c *Controller) Snapshot() Snapshot {
	return c.state.snapshot()
}

// Handle consumes one user utterance and returns the text to show the user:
// a clarifying question, the real-time redirect, or a normalized answer.
// It never fails; collaborator errors degrade to DegradedMessage.
func (c *Controller) Handle(ctx context.Context, text string) (reply string) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.ErrorContext(ctx, "Dialogue controller panicked", "panic", r)
			reply = DegradedMessage
		}
	}()

	if err := c.state.validate(); err != nil {
		c.logger.ErrorContext(ctx, "Conversation state invariant violated", "error", err)
		return DegradedMessage
	}

	rule, matched := Classify(c.rules, text)

	if matched && rule.ShortCircuit {
		// The pending follow-up is consumed even though it goes unanswered.
		if c.state.Awaiting() {
			c.state.clearPending()
		}
		c.logger.InfoContext(ctx, "Short-circuit reply", "stage", "classify", "intent", rule.Intent)
		return rule.Reply
	}

	query, intent := text, IntentNone
	switch {
	case c.state.Awaiting():
		query = combineFollowUp(c.state.pendingUtterance, text)
		intent = c.state.pendingIntent
	case matched && c.state.CanAskFollowUp():
		c.state.askFollowUp(rule, text)
		c.logger.InfoContext(ctx, "Asking follow-up question",
			"stage", "classify",
			"intent", rule.Intent,
			"follow_up_count", c.state.FollowUpCount)
		return rule.Reply
	case matched:
		intent = rule.Intent
	}

	reply = c.answer(ctx, query, intent)

	c.state.clearPending()
	if c.resetOnAnswer {
		c.state.FollowUpCount = 0
	}
	c.state.record(c.now(), text, reply)

	return reply
}

func combineFollowUp(original, answer string) string {
	return fmt.Sprintf("%s\nFollow-up response: %s", strings.TrimSpace(original), strings.TrimSpace(answer))
}

type step struct {
	name string
	call func(ctx context.Context) (string, error)
	// lenient steps only reject empty output
	lenient bool
}

// answer walks retrieval → search → generation and returns the first usable
// result, normalized. The same query is used throughout; dining searches
// are prefixed with "best ".
func (c *Controller) answer(ctx context.Context, query string, intent Intent) string {
	searchQuery := query
	if intent == IntentDining {
		searchQuery = "best " + query
	}
	history := c.state.snapshot().History

	chain := []step{
		{name: "retrieval", call: func(ctx context.Context) (string, error) {
			if c.retriever == nil {
				return "", ErrNotConfigured
			}
			return c.retriever.Retrieve(ctx, query)
		}},
		{name: "search", call: func(ctx context.Context) (string, error) {
			if c.searcher == nil {
				return "", ErrNotConfigured
			}
			return c.searcher.Search(ctx, searchQuery)
		}},
		{name: "generation", lenient: true, call: func(ctx context.Context) (string, error) {
			if c.generator == nil {
				return "", ErrNotConfigured
			}
			return c.generator.Generate(ctx, query, history)
		}},
	}

	for _, st := range chain {
		out := c.run(ctx, st)
		c.logger.InfoContext(ctx, "Collaborator outcome",
			"stage", out.Source,
			"outcome", out.Kind.String(),
			"error", out.Err)
		if out.Kind == Success {
			return Normalize(out.Text)
		}
	}

	c.logger.WarnContext(ctx, "All collaborators failed, returning degraded reply", "stage", "answer")
	return DegradedMessage
}

// run invokes one collaborator and folds its result into an Outcome.
func (c *Controller) run(ctx context.Context, st step) (out Outcome) {
	out.Source = st.name
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{Kind: Unavailable, Source: st.name, Err: fmt.Errorf("%s panicked: %v", st.name, r)}
		}
	}()

	if err := ctx.Err(); err != nil {
		return Outcome{Kind: Unavailable, Source: st.name, Err: err}
	}

	text, err := st.call(ctx)
	switch {
	case err != nil:
		return Outcome{Kind: Unavailable, Source: st.name, Err: err}
	case st.lenient && strings.TrimSpace(text) == "":
		return Outcome{Kind: Insufficient, Source: st.name}
	case !st.lenient && c.judge.Insufficient(text):
		return Outcome{Kind: Insufficient, Source: st.name}
	}
	return Outcome{Kind: Success, Source: st.name, Text: text}
}
