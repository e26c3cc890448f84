package generator

import (
	"context"
	"fmt"
	"strings"
)

// Searcher is the web search capability used by section writing.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]SearchResult, error)
}

// SearchResult is one hit returned by a Searcher.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"content"`
}

// SearchText runs a search and renders the outcome as plain text for a prompt.
// Errors never escape: they come back as text so the model can decide how to proceed.
func SearchText(ctx context.Context, s Searcher, query string, limit int) string {
	if strings.TrimSpace(query) == "" {
		return "Error: The search query cannot be empty."
	}
	results, err := s.Search(ctx, query, limit)
	if err != nil {
		return fmt.Sprintf("An error occurred during the search: %v", err)
	}
	return FormatResults(results)
}

func FormatResults(results []SearchResult) string {
	if len(results) == 0 {
		return "No search results found."
	}
	parts := make([]string, 0, len(results))
	for _, r := range results {
		parts = append(parts, fmt.Sprintf("Title: %s\nURL: %s\nSnippet: %s\n---", r.Title, r.URL, r.Snippet))
	}
	return strings.Join(parts, "\n")
}
