package agents

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"auto_article_writer/generator"
)

const stageImage = "image"

var parenRe = regexp.MustCompile(`\((.*?)\)`)

// ImageMaker requests a cover image and extracts its URL.
type ImageMaker struct {
	llm     generator.LLMClient
	persona string
	logger  *zap.Logger
}

func NewImageMaker(llm generator.LLMClient, persona string, logger *zap.Logger) (*ImageMaker, error) {
	if llm == nil {
		return nil, errors.New("image maker: image client is required")
	}
	if persona == "" {
		persona = ImagePersona
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImageMaker{llm: llm, persona: persona, logger: logger.With(zap.String("component", "image_maker"))}, nil
}

// Run returns the image URL, or the raw response when no URL can be extracted.
func (m *ImageMaker) Run(ctx context.Context, topic string) (string, error) {
	m.logger.Info("generating cover image", zap.String("topic", topic))

	raw, err := m.llm.Complete(ctx, generator.BuildImagePrompt(m.persona, topic))
	if err != nil {
		m.logger.Warn("image request failed", zap.Error(err))
		return "", newFailure(stageImage, KindNoResponse, "", err)
	}
	if strings.TrimSpace(raw) == "" {
		m.logger.Warn("image backend returned nothing")
		return "", newFailure(stageImage, KindNoResponse, "", nil)
	}
	if ref, ok := ExtractImageURL(raw); ok {
		return ref, nil
	}
	m.logger.Warn("no url in image response, using raw text")
	return raw, nil
}

// ExtractImageURL returns the text inside the first pair of parentheses.
func ExtractImageURL(markdown string) (string, bool) {
	m := parenRe.FindStringSubmatch(markdown)
	if len(m) < 2 {
		return "", false
	}
	return m[1], true
}
