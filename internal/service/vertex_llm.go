package service

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/option"

	"github.com/ahmednasr/namastebot/internal/models"
)

// VertexLLM answers with a Gemini model on Vertex AI.
type VertexLLM struct {
	client *genai.Client
	model  *genai.GenerativeModel
	// chat carries the assistant persona as a system instruction
	chat *genai.GenerativeModel
}

// NewVertexLLM creates a Vertex AI client for the given model.
func NewVertexLLM(ctx context.Context, projectID, location, model, credentialsFile string) (*VertexLLM, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := genai.NewClient(ctx, projectID, location, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vertex AI client: %w", err)
	}

	newModel := func() *genai.GenerativeModel {
		m := client.GenerativeModel(model)
		m.SetTemperature(0.7)
		m.SetTopP(0.8)
		m.SetTopK(40)
		return m
	}

	chat := newModel()
	chat.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(generalSystemPrompt)}}

	return &VertexLLM{
		client: client,
		model:  newModel(),
		chat:   chat,
	}, nil
}

// GenerateResponse runs a single prompt with no conversation context.
func (l *VertexLLM) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	resp, err := l.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate response: %w", err)
	}
	return responseText(resp)
}

// Generate answers prompt as the next message of a chat seeded with history.
func (l *VertexLLM) Generate(ctx context.Context, prompt string, history []models.Turn) (string, error) {
	cs := l.chat.StartChat()
	cs.History = genaiHistory(history)

	resp, err := cs.SendMessage(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to send chat message: %w", err)
	}
	return responseText(resp)
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response generated")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}

// Shutdown closes the Vertex AI client.
func (l *VertexLLM) Shutdown() error {
	return l.client.Close()
}
