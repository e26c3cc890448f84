package agents

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"auto_article_writer/generator"
)

const stageSection = "section"

// DefaultSearchLimit is the number of search hits fed to each section.
const DefaultSearchLimit = 3

// SectionWriter researches one outline entry and writes its paragraph.
type SectionWriter struct {
	llm         generator.LLMClient
	searcher    generator.Searcher
	persona     string
	searchLimit int
	logger      *zap.Logger
}

// NewSectionWriter builds a writer. searcher may be nil, in which case no research is done.
func NewSectionWriter(llm generator.LLMClient, searcher generator.Searcher, persona string, searchLimit int, logger *zap.Logger) (*SectionWriter, error) {
	if llm == nil {
		return nil, errors.New("section writer: llm client is required")
	}
	if persona == "" {
		persona = WriterPersona
	}
	if searchLimit <= 0 {
		searchLimit = DefaultSearchLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SectionWriter{
		llm:         llm,
		searcher:    searcher,
		persona:     persona,
		searchLimit: searchLimit,
		logger:      logger.With(zap.String("component", "section_writer")),
	}, nil
}

func (w *SectionWriter) Run(ctx context.Context, sectionTopic string) (string, error) {
	w.logger.Info("writing section", zap.String("section", sectionTopic))

	var research string
	if w.searcher != nil {
		research = generator.SearchText(ctx, w.searcher, sectionTopic, w.searchLimit)
	}

	text, err := w.llm.Complete(ctx, generator.BuildSectionPrompt(w.persona, sectionTopic, research))
	if err != nil {
		w.logger.Warn("section request failed", zap.String("section", sectionTopic), zap.Error(err))
		return "", newFailure(stageSection, KindEmptyResponse, "", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		w.logger.Warn("section came back empty", zap.String("section", sectionTopic))
		return "", newFailure(stageSection, KindEmptyResponse, "", nil)
	}
	return text, nil
}
