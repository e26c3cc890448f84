package agents

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"go.uber.org/zap"

	"auto_article_writer/generator"
)

const stageOutline = "outline"

// Outliner asks the model for a JSON outline and parses it.
type Outliner struct {
	llm     generator.LLMClient
	persona string
	logger  *zap.Logger
}

func NewOutliner(llm generator.LLMClient, persona string, logger *zap.Logger) (*Outliner, error) {
	if llm == nil {
		return nil, errors.New("outliner: llm client is required")
	}
	if persona == "" {
		persona = OutlinerPersona
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Outliner{llm: llm, persona: persona, logger: logger.With(zap.String("component", "outliner"))}, nil
}

type outlinePayload struct {
	Outline []string `json:"outline"`
}

// Run returns the outline for topic. A missing "outline" key yields an empty outline.
func (o *Outliner) Run(ctx context.Context, topic string) ([]string, error) {
	o.logger.Info("generating outline", zap.String("topic", topic))

	raw, err := o.llm.Complete(ctx, generator.BuildOutlinePrompt(o.persona, topic))
	if err != nil {
		o.logger.Error("outline request failed", zap.Error(err))
		return nil, newFailure(stageOutline, KindMalformedOutline, "", err)
	}

	outline, err := ParseOutline(raw)
	if err != nil {
		o.logger.Error("could not decode outline", zap.Error(err), zap.String("raw", raw))
		return nil, newFailure(stageOutline, KindMalformedOutline, raw, err)
	}
	o.logger.Info("outline parsed", zap.Int("sections", len(outline)))
	return outline, nil
}

// ParseOutline decodes the JSON object between the first '{' and the last '}' of raw.
func ParseOutline(raw string) ([]string, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return nil, errors.New("no json object in response")
	}
	var payload outlinePayload
	if err := json.Unmarshal([]byte(raw[start:end+1]), &payload); err != nil {
		return nil, err
	}
	if payload.Outline == nil {
		return []string{}, nil
	}
	return payload.Outline, nil
}
