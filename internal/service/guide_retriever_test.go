package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmednasr/namastebot/internal/models"
)

type stubEmbedder struct {
	err   error
	texts []string
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	s.texts = append(s.texts, text)
	return []float32{0.1, 0.2}, s.err
}

type stubChunks struct {
	chunks []models.GuideChunk
	err    error
	k      int
}

func (s *stubChunks) TopChunks(_ context.Context, _ []float32, k int) ([]models.GuideChunk, error) {
	s.k = k
	return s.chunks, s.err
}

type stubLLM struct {
	reply   string
	err     error
	prompts []string
}

func (s *stubLLM) GenerateResponse(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.reply, s.err
}

func TestGuideRetriever_Retrieve(t *testing.T) {
	chunks := &stubChunks{chunks: []models.GuideChunk{{Text: "The Amber Fort overlooks Maota Lake."}}}
	llm := &stubLLM{reply: " The fort overlooks Maota Lake. "}
	r := NewGuideRetriever(chunks, &stubEmbedder{}, llm)

	answer, err := r.Retrieve(context.Background(), "What does the Amber Fort overlook?")

	require.NoError(t, err)
	assert.Equal(t, "The fort overlooks Maota Lake.", answer)
	assert.Equal(t, DefaultTopK, chunks.k)
	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "Maota Lake")
}

func TestGuideRetriever_NoPassages(t *testing.T) {
	llm := &stubLLM{reply: "unused"}
	r := NewGuideRetriever(&stubChunks{}, &stubEmbedder{}, llm)

	answer, err := r.Retrieve(context.Background(), "Anything about Atlantis?")

	require.NoError(t, err)
	assert.Empty(t, answer)
	assert.Empty(t, llm.prompts)
}

func TestGuideRetriever_BlankQuery(t *testing.T) {
	emb := &stubEmbedder{}
	r := NewGuideRetriever(&stubChunks{}, emb, &stubLLM{})

	answer, err := r.Retrieve(context.Background(), "  ")

	require.NoError(t, err)
	assert.Empty(t, answer)
	assert.Empty(t, emb.texts)
}

func TestGuideRetriever_Errors(t *testing.T) {
	boom := errors.New("boom")
	passages := []models.GuideChunk{{Text: "x"}}

	tests := []struct {
		name   string
		emb    *stubEmbedder
		chunks *stubChunks
		llm    *stubLLM
	}{
		{"embed", &stubEmbedder{err: boom}, &stubChunks{chunks: passages}, &stubLLM{}},
		{"search", &stubEmbedder{}, &stubChunks{err: boom}, &stubLLM{}},
		{"generate", &stubEmbedder{}, &stubChunks{chunks: passages}, &stubLLM{err: boom}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGuideRetriever(tt.chunks, tt.emb, tt.llm).Retrieve(context.Background(), "q")
			assert.ErrorIs(t, err, boom)
		})
	}
}
