package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const tavilySearchURL = "https://api.tavily.com/search"

// TavilySearcher calls the Tavily search API.
type TavilySearcher struct {
	apiKey  string
	baseURL string
	depth   string
	client  *http.Client
	limiter *rate.Limiter
}

// TavilyOptions 可选配置，零值使用默认。
type TavilyOptions struct {
	BaseURL string
	Depth   string
	// RatePerMinute caps outgoing searches; 0 disables limiting.
	RatePerMinute int
	Client        *http.Client
}

type tavilyRequest struct {
	Query       string `json:"query"`
	SearchDepth string `json:"search_depth"`
	MaxResults  int    `json:"max_results"`
}

type tavilyResponse struct {
	Results []SearchResult `json:"results"`
}

func NewTavilySearcher(apiKey string, opts TavilyOptions) (*TavilySearcher, error) {
	if apiKey == "" {
		return nil, errors.New("tavily api key missing; provide search.api_key")
	}
	s := &TavilySearcher{
		apiKey:  apiKey,
		baseURL: opts.BaseURL,
		depth:   opts.Depth,
		client:  opts.Client,
	}
	if s.baseURL == "" {
		s.baseURL = tavilySearchURL
	}
	if s.depth == "" {
		s.depth = "basic"
	}
	if s.client == nil {
		s.client = &http.Client{Timeout: 30 * time.Second}
	}
	if opts.RatePerMinute > 0 {
		s.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RatePerMinute)), 1)
	}
	return s, nil
}

func (s *TavilySearcher) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	body, err := json.Marshal(tavilyRequest{Query: query, SearchDepth: s.depth, MaxResults: limit})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("tavily: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	var data tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("tavily: decode response: %w", err)
	}
	if limit > 0 && len(data.Results) > limit {
		data.Results = data.Results[:limit]
	}
	return data.Results, nil
}
