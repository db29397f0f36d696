package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/ahmednasr/namastebot/internal/models"
)

// OpenAILLM answers with any OpenAI-compatible chat completion endpoint.
type OpenAILLM struct {
	client *openai.Client
	model  string
}

// NewOpenAILLM builds a client for baseURL. An empty baseURL targets OpenAI.
func NewOpenAILLM(baseURL, token, model string) *OpenAILLM {
	clientConfig := openai.DefaultConfig(token)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	clientConfig.HTTPClient = &http.Client{
		Timeout: 30 * time.Second,
	}

	return &OpenAILLM{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}
}

// GenerateResponse runs a single prompt with no conversation context.
func (l *OpenAILLM) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	return l.complete(ctx, openaiMessages("", nil, prompt))
}

// Generate answers prompt after replaying history.
func (l *OpenAILLM) Generate(ctx context.Context, prompt string, history []models.Turn) (string, error) {
	return l.complete(ctx, openaiMessages(generalSystemPrompt, history, prompt))
}

func (l *OpenAILLM) complete(ctx context.Context, msgs []openai.ChatCompletionMessage) (string, error) {
	resp, err := l.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:               l.model,
		Messages:            msgs,
		MaxCompletionTokens: 800,
		Temperature:         0.7,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no chat completion found")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
