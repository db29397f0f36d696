package service

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// DefaultSearchResults is how many web results are folded into one snippet.
const DefaultSearchResults = 3

// GoogleSearch queries a Programmable Search Engine through the Custom
// Search JSON API.
type GoogleSearch struct {
	svc     *customsearch.Service
	cx      string
	results int64
}

// NewGoogleSearch builds a client for the search engine cx. Extra client
// options are appended after the API key.
func NewGoogleSearch(ctx context.Context, apiKey, cx string, opts ...option.ClientOption) (*GoogleSearch, error) {
	svc, err := customsearch.NewService(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create custom search client: %w", err)
	}

	return &GoogleSearch{svc: svc, cx: cx, results: DefaultSearchResults}, nil
}

// Search returns the snippets of the top results joined by spaces, or ""
// when nothing was found.
func (g *GoogleSearch) Search(ctx context.Context, query string) (string, error) {
	resp, err := g.svc.Cse.List().Cx(g.cx).Q(query).Num(g.results).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("custom search failed: %w", err)
	}

	snippets := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		if s := strings.TrimSpace(item.Snippet); s != "" {
			snippets = append(snippets, s)
		}
	}
	return strings.Join(snippets, " "), nil
}
