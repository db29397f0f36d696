package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahmednasr/namastebot/internal/models"
)

// DefaultTopK is how many guide passages feed one answer.
const DefaultTopK = 3

// ---- Repository contract ---------------------------------------------------

// ChunkSearcher finds the guide passages closest to a query vector.
type ChunkSearcher interface {
	TopChunks(ctx context.Context, queryVec []float32, k int) ([]models.GuideChunk, error)
}

// ---- Retriever -------------------------------------------------------------

// GuideRetriever answers questions from the indexed travel guide: embed the
// question, fetch the nearest passages, then let the LLM answer from them.
type GuideRetriever struct {
	chunks   ChunkSearcher
	embedder Embedder
	llm      LLM
	topK     int
}

// NewGuideRetriever wires the retrieval pipeline.
func NewGuideRetriever(chunks ChunkSearcher, embedder Embedder, llm LLM) *GuideRetriever {
	return &GuideRetriever{
		chunks:   chunks,
		embedder: embedder,
		llm:      llm,
		topK:     DefaultTopK,
	}
}

// Retrieve returns the guide-grounded answer, or "" when no passage matched.
func (r *GuideRetriever) Retrieve(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", nil
	}

	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return "", fmt.Errorf("failed to embed query: %w", err)
	}

	chunks, err := r.chunks.TopChunks(ctx, vec, r.topK)
	if err != nil {
		return "", fmt.Errorf("vector search failed: %w", err)
	}
	if len(chunks) == 0 {
		slog.DebugContext(ctx, "No guide passages matched", "query", query)
		return "", nil
	}

	prompt, err := buildGuidePrompt(query, chunks)
	if err != nil {
		return "", err
	}

	answer, err := r.llm.GenerateResponse(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate answer: %w", err)
	}
	return strings.TrimSpace(answer), nil
}
