package generator

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type searchFunc func(ctx context.Context, query string, limit int) ([]SearchResult, error)

func (f searchFunc) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	return f(ctx, query, limit)
}

func TestSearchText(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		search searchFunc
		want   string
	}{
		{
			name:  "formats results",
			query: "go generics",
			search: func(_ context.Context, _ string, _ int) ([]SearchResult, error) {
				return []SearchResult{
					{Title: "A", URL: "https://a.example", Snippet: "alpha"},
					{Title: "B", URL: "https://b.example", Snippet: "beta"},
				}, nil
			},
			want: "Title: A\nURL: https://a.example\nSnippet: alpha\n---\nTitle: B\nURL: https://b.example\nSnippet: beta\n---",
		},
		{
			name:  "no results",
			query: "nothing",
			search: func(_ context.Context, _ string, _ int) ([]SearchResult, error) {
				return nil, nil
			},
			want: "No search results found.",
		},
		{
			name:  "error becomes text",
			query: "boom",
			search: func(_ context.Context, _ string, _ int) ([]SearchResult, error) {
				return nil, errors.New("quota exceeded")
			},
			want: "An error occurred during the search: quota exceeded",
		},
		{
			name:  "empty query",
			query: "  ",
			search: func(_ context.Context, _ string, _ int) ([]SearchResult, error) {
				t.Fatal("search must not be called for an empty query")
				return nil, nil
			},
			want: "Error: The search query cannot be empty.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SearchText(context.Background(), tt.search, tt.query, 3))
		})
	}
}

func TestTavilySearcher_Search(t *testing.T) {
	var got tavilyRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer key-123", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[
			{"title":"One","url":"https://one.example","content":"first"},
			{"title":"Two","url":"https://two.example","content":"second"},
			{"title":"Three","url":"https://three.example","content":"third"}
		]}`))
	}))
	defer srv.Close()

	s, err := NewTavilySearcher("key-123", TavilyOptions{BaseURL: srv.URL})
	require.NoError(t, err)

	results, err := s.Search(context.Background(), "solar power", 2)
	require.NoError(t, err)
	assert.Equal(t, "solar power", got.Query)
	assert.Equal(t, "basic", got.SearchDepth)
	assert.Equal(t, 2, got.MaxResults)
	require.Len(t, results, 2)
	assert.Equal(t, SearchResult{Title: "One", URL: "https://one.example", Snippet: "first"}, results[0])
}

func TestTavilySearcher_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	s, err := NewTavilySearcher("key", TavilyOptions{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = s.Search(context.Background(), "q", 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=401")

	text := SearchText(context.Background(), s, "q", 3)
	assert.Contains(t, text, "An error occurred during the search")
}

func TestNewTavilySearcher_RequiresKey(t *testing.T) {
	_, err := NewTavilySearcher("", TavilyOptions{})
	assert.Error(t, err)
}
