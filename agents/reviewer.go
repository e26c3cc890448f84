package agents

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"auto_article_writer/generator"
)

const stageReview = "review"

// Reviewer polishes the full draft in a single request.
type Reviewer struct {
	llm     generator.LLMClient
	persona string
	logger  *zap.Logger
}

func NewReviewer(llm generator.LLMClient, persona string, logger *zap.Logger) (*Reviewer, error) {
	if llm == nil {
		return nil, errors.New("reviewer: llm client is required")
	}
	if persona == "" {
		persona = ReviewerPersona
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reviewer{llm: llm, persona: persona, logger: logger.With(zap.String("component", "reviewer"))}, nil
}

func (r *Reviewer) Run(ctx context.Context, draft string) (string, error) {
	r.logger.Info("polishing draft", zap.Int("draft_bytes", len(draft)))

	text, err := r.llm.Complete(ctx, generator.BuildReviewPrompt(r.persona, draft))
	if err != nil {
		r.logger.Warn("review request failed", zap.Error(err))
		return "", newFailure(stageReview, KindEmptyResponse, "", err)
	}
	if strings.TrimSpace(text) == "" {
		r.logger.Warn("review came back empty")
		return "", newFailure(stageReview, KindEmptyResponse, "", nil)
	}
	return text, nil
}
