package handler

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ahmednasr/namastebot/internal/models"
	"github.com/ahmednasr/namastebot/internal/session"
)

// Conversations routes utterances to per-session dialogue state.
type Conversations interface {
	Handle(ctx context.Context, sessionID, text string) (string, error)
	Reset(sessionID string)
}

// ChatHandler wires HTTP → session registry.
type ChatHandler struct {
	conv Conversations
}

// NewChatHandler returns a struct pointer so you can call Register on it.
func NewChatHandler(conv Conversations) *ChatHandler {
	return &ChatHandler{conv: conv}
}

// Register mounts the chat endpoints on the supplied router group.
func (h *ChatHandler) Register(r fiber.Router) {
	r.Post("/chat", h.chat)
	r.Delete("/sessions/:id", h.reset)
}

// chat handles POST /chat  { "question": "...", "session_id": "..." }
func (h *ChatHandler) chat(c *fiber.Ctx) error {
	var req models.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
	}
	if strings.TrimSpace(req.Question) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "question is required")
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	answer, err := h.conv.Handle(c.UserContext(), sessionID, req.Question)
	if err != nil {
		slog.ErrorContext(c.UserContext(), "Chat request failed", "session_id", sessionID, "error", err)
		if errors.Is(err, session.ErrEmptySessionID) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}

	return c.JSON(models.ChatResponse{
		Response:  answer,
		SessionID: sessionID,
	})
}

// reset handles DELETE /sessions/:id
func (h *ChatHandler) reset(c *fiber.Ctx) error {
	h.conv.Reset(c.Params("id"))
	return c.SendStatus(fiber.StatusNoContent)
}
