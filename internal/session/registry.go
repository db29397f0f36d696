// Package session owns one dialogue controller per conversation and
// serializes the turns of each conversation.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/samber/oops"

	"github.com/ahmednasr/namastebot/internal/dialogue"
	"github.com/ahmednasr/namastebot/internal/models"
)

// ErrInternal is returned when a session's controller fails unexpectedly.
// Only the current request is affected.
var ErrInternal = errors.New("internal error")

// ErrEmptySessionID is returned for a blank session id.
var ErrEmptySessionID = errors.New("session id is required")

// DefaultIdleTTL is how long an untouched session is kept.
const DefaultIdleTTL = 30 * time.Minute

// Factory builds a fresh controller for a new session.
type Factory func(sessionID string, logger *slog.Logger) *dialogue.Controller

// Archive receives the turns completed by each call. It must not block for
// long; failures are logged and dropped.
type Archive interface {
	Append(ctx context.Context, sessionID string, turns ...models.Turn) error
}

type entry struct {
	mu   sync.Mutex
	ctrl *dialogue.Controller
}

// Registry maps session ids to controllers and evicts idle ones.
type Registry struct {
	sessions *cache.Cache
	factory  Factory
	archive  Archive
	ttl      time.Duration
	logger   *slog.Logger

	createMu sync.Mutex
}

// Option customises a Registry.
type Option func(*Registry)

// WithIdleTTL sets how long an idle session survives.
func WithIdleTTL(ttl time.Duration) Option {
	return func(r *Registry) { r.ttl = ttl }
}

// WithArchive enables transcript archiving.
func WithArchive(a Archive) Option {
	return func(r *Registry) { r.archive = a }
}

// WithLogger sets the registry logger. Controllers get a child of it
// carrying the session id.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// NewRegistry creates an empty registry.
func NewRegistry(factory Factory, opts ...Option) *Registry {
	r := &Registry{
		factory: factory,
		ttl:     DefaultIdleTTL,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}

	cleanup := r.ttl / 2
	if cleanup <= 0 {
		cleanup = time.Minute
	}
	r.sessions = cache.New(r.ttl, cleanup)
	r.sessions.OnEvicted(func(id string, _ interface{}) {
		r.logger.Debug("Session evicted", "session_id", id)
	})
	return r
}

// Handle routes text to the session's controller, creating the session on
// first use. Calls for the same session run one at a time.
func (r *Registry) Handle(ctx context.Context, sessionID, text string) (reply string, err error) {
	if sessionID == "" {
		return "", ErrEmptySessionID
	}

	e := r.acquire(sessionID)
	e.mu.Lock()
	defer e.mu.Unlock()

	defer func() {
		if p := recover(); p != nil {
			r.logger.ErrorContext(ctx, "Session controller panicked", "session_id", sessionID, "panic", p)
			reply = ""
			err = oops.
				In("session").
				With("session_id", sessionID).
				Wrapf(ErrInternal, "controller panicked: %v", p)
		}
	}()

	before := len(e.ctrl.Snapshot().History)
	reply = e.ctrl.Handle(ctx, text)

	if r.archive != nil {
		history := e.ctrl.Snapshot().History
		if len(history) > before {
			r.archiveTurns(ctx, sessionID, history[before:])
		}
	}

	return reply, nil
}

// Snapshot returns the state of a live session.
func (r *Registry) Snapshot(sessionID string) (dialogue.Snapshot, bool) {
	v, ok := r.sessions.Get(sessionID)
	if !ok {
		return dialogue.Snapshot{}, false
	}
	e := v.(*entry)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ctrl.Snapshot(), true
}

// Reset discards a session. The next call with the same id starts fresh.
func (r *Registry) Reset(sessionID string) {
	r.sessions.Delete(sessionID)
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	return r.sessions.ItemCount()
}

// acquire finds or creates the session entry and refreshes its idle timer.
func (r *Registry) acquire(sessionID string) *entry {
	r.createMu.Lock()
	defer r.createMu.Unlock()

	if v, ok := r.sessions.Get(sessionID); ok {
		e := v.(*entry)
		r.sessions.Set(sessionID, e, cache.DefaultExpiration)
		return e
	}

	e := &entry{ctrl: r.factory(sessionID, r.logger.With("session_id", sessionID))}
	r.sessions.Set(sessionID, e, cache.DefaultExpiration)
	r.logger.Debug("Session created", "session_id", sessionID)
	return e
}

func (r *Registry) archiveTurns(ctx context.Context, sessionID string, turns []models.Turn) {
	if err := r.archive.Append(ctx, sessionID, turns...); err != nil {
		r.logger.WarnContext(ctx, "Failed to archive turns",
			"session_id", sessionID,
			"error", fmt.Errorf("archive append: %w", err))
	}
}
