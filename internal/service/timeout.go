package service

import (
	"context"
	"time"

	"github.com/ahmednasr/namastebot/internal/dialogue"
	"github.com/ahmednasr/namastebot/internal/models"
)

// DefaultCollaboratorTimeout bounds a single retrieval, search or generation call.
const DefaultCollaboratorTimeout = 20 * time.Second

type timeoutRetriever struct {
	next    dialogue.Retriever
	timeout time.Duration
}

// RetrieverWithTimeout bounds every Retrieve call by timeout.
func RetrieverWithTimeout(next dialogue.Retriever, timeout time.Duration) dialogue.Retriever {
	return &timeoutRetriever{next: next, timeout: timeout}
}

func (t *timeoutRetriever) Retrieve(ctx context.Context, query string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.Retrieve(ctx, query)
}

type timeoutSearcher struct {
	next    dialogue.Searcher
	timeout time.Duration
}

// SearcherWithTimeout bounds every Search call by timeout.
func SearcherWithTimeout(next dialogue.Searcher, timeout time.Duration) dialogue.Searcher {
	return &timeoutSearcher{next: next, timeout: timeout}
}

func (t *timeoutSearcher) Search(ctx context.Context, query string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.Search(ctx, query)
}

type timeoutGenerator struct {
	next    dialogue.Generator
	timeout time.Duration
}

// GeneratorWithTimeout bounds every Generate call by timeout.
func GeneratorWithTimeout(next dialogue.Generator, timeout time.Duration) dialogue.Generator {
	return &timeoutGenerator{next: next, timeout: timeout}
}

func (t *timeoutGenerator) Generate(ctx context.Context, prompt string, history []models.Turn) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.Generate(ctx, prompt, history)
}
