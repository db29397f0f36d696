package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"cloud.google.com/go/vertexai/genai"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmednasr/namastebot/internal/models"
)

var sampleHistory = []models.Turn{
	{Speaker: models.SpeakerUser, Text: "Tell me about Jaipur"},
	{Speaker: models.SpeakerAssistant, Text: "Jaipur is the Pink City."},
}

func TestGenaiHistory(t *testing.T) {
	got := genaiHistory(sampleHistory)

	require.Len(t, got, 2)
	assert.Equal(t, "user", got[0].Role)
	assert.Equal(t, "model", got[1].Role)
	assert.Equal(t, []genai.Part{genai.Text("Jaipur is the Pink City.")}, got[1].Parts)
}

func TestResponseText(t *testing.T) {
	_, err := responseText(&genai.GenerateContentResponse{})
	assert.Error(t, err)

	text, err := responseText(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text("Hawa "), genai.Text("Mahal")}},
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hawa Mahal", text)
}

func TestOpenaiMessages(t *testing.T) {
	msgs := openaiMessages("be nice", sampleHistory, "And Udaipur?")

	require.Len(t, msgs, 4)
	assert.Equal(t, openai.ChatMessageRoleSystem, msgs[0].Role)
	assert.Equal(t, openai.ChatMessageRoleUser, msgs[1].Role)
	assert.Equal(t, openai.ChatMessageRoleAssistant, msgs[2].Role)
	assert.Equal(t, "And Udaipur?", msgs[3].Content)

	assert.Len(t, openaiMessages("", nil, "hi"), 1)
}

func TestOpenAILLM_Generate(t *testing.T) {
	var got openai.ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"  Udaipur is the City of Lakes  "},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	llm := NewOpenAILLM(srv.URL, "sk-test", "gpt-4o-mini")
	answer, err := llm.Generate(context.Background(), "And Udaipur?", sampleHistory)

	require.NoError(t, err)
	assert.Equal(t, "Udaipur is the City of Lakes", answer)
	assert.Equal(t, "gpt-4o-mini", got.Model)
	require.Len(t, got.Messages, 4)
	assert.Equal(t, openai.ChatMessageRoleSystem, got.Messages[0].Role)
}

func TestOpenAILLM_Errors(t *testing.T) {
	tests := map[string]func(w http.ResponseWriter){
		"server error": func(w http.ResponseWriter) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
		},
		"no choices": func(w http.ResponseWriter) {
			_, _ = w.Write([]byte(`{"choices":[]}`))
		},
	}

	for name, respond := range tests {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				respond(w)
			}))
			defer srv.Close()

			_, err := NewOpenAILLM(srv.URL, "sk-test", "m").GenerateResponse(context.Background(), "hi")
			assert.Error(t, err)
		})
	}
}
