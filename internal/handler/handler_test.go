package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmednasr/namastebot/internal/dialogue"
	"github.com/ahmednasr/namastebot/internal/session"
)

type guideStub struct{}

func (guideStub) Retrieve(_ context.Context, query string) (string, error) {
	return "From the guide: " + query, nil
}

type failingConversations struct{ err error }

func (f failingConversations) Handle(context.Context, string, string) (string, error) {
	return "", f.err
}

func (failingConversations) Reset(string) {}

func newTestApp(conv Conversations, health *HealthHandler) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	if health == nil {
		health = NewHealthHandler(nil, nil)
	}
	RegisterRoutes(app, conv, health)
	return app
}

func newRegistry() *session.Registry {
	return session.NewRegistry(func(_ string, logger *slog.Logger) *dialogue.Controller {
		return dialogue.New(guideStub{}, nil, nil, dialogue.WithLogger(logger))
	})
}

func postChat(t *testing.T, app *fiber.App, body string) (*http.Response, map[string]string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]string{}
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return resp, out
}

func TestChat_FollowUpConversation(t *testing.T) {
	app := newTestApp(newRegistry(), nil)

	resp, out := postChat(t, app, `{"question":"Where can I eat in Rome?","session_id":"trip-1"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Do you prefer vegetarian or non-vegetarian food?", out["response"])
	assert.Equal(t, "trip-1", out["session_id"])

	_, out = postChat(t, app, `{"question":"vegetarian","session_id":"trip-1"}`)
	assert.Equal(t, "From the guide: Where can I eat in Rome?\nFollow-up response: vegetarian.", out["response"])
}

func TestChat_MintsSessionID(t *testing.T) {
	app := newTestApp(newRegistry(), nil)

	resp, out := postChat(t, app, `{"question":"What's the weather in Goa?"}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, dialogue.RealtimeRedirect, out["response"])
	_, err := uuid.Parse(out["session_id"])
	assert.NoError(t, err)
}

func TestChat_BadRequests(t *testing.T) {
	app := newTestApp(newRegistry(), nil)

	tests := map[string]string{
		"invalid json":   `{"question":`,
		"empty question": `{"question":"   "}`,
		"missing field":  `{}`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			resp, out := postChat(t, app, body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.NotEmpty(t, out["error"])
		})
	}
}

func TestChat_InternalError(t *testing.T) {
	app := newTestApp(failingConversations{err: session.ErrInternal}, nil)

	resp, out := postChat(t, app, `{"question":"hi","session_id":"s"}`)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "internal error", out["error"])
}

func TestChat_UnknownErrorIsNotLeaked(t *testing.T) {
	app := newTestApp(failingConversations{err: errors.New("mongo password is hunter2")}, nil)

	_, out := postChat(t, app, `{"question":"hi","session_id":"s"}`)

	assert.NotContains(t, out["error"], "hunter2")
}

func TestResetSession(t *testing.T) {
	reg := newRegistry()
	app := newTestApp(reg, nil)

	postChat(t, app, `{"question":"Any hotel in Goa?","session_id":"s1"}`)
	_, ok := reg.Snapshot("s1")
	require.True(t, ok)

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/v1/sessions/s1", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	_, ok = reg.Snapshot("s1")
	assert.False(t, ok)
}

func TestHealth(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	app := newTestApp(newRegistry(), NewHealthHandler(nil, rdb))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Status string            `json:"status"`
		Stores map[string]string `json:"stores"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, statusNotConfigured, body.Stores["mongo"])
	assert.Equal(t, statusConnected, body.Stores["redis"])
}
