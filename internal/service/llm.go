package service

import (
	"context"

	"cloud.google.com/go/vertexai/genai"
	"github.com/sashabaranov/go-openai"

	"github.com/ahmednasr/namastebot/internal/models"
)

// LLM is a single-shot text model.
type LLM interface {
	GenerateResponse(ctx context.Context, prompt string) (string, error)
}

// ---- History mapping ---------------------------------------------------------

func genaiHistory(turns []models.Turn) []*genai.Content {
	out := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		role := "user"
		if t.Speaker == models.SpeakerAssistant {
			role = "model"
		}
		out = append(out, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(t.Text)}})
	}
	return out
}

func openaiMessages(system string, turns []models.Turn, prompt string) []openai.ChatCompletionMessage {
	msgs := make([]openai.ChatCompletionMessage, 0, len(turns)+2)
	if system != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	}
	for _, t := range turns {
		role := openai.ChatMessageRoleUser
		if t.Speaker == models.SpeakerAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: t.Text})
	}
	return append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: prompt})
}
