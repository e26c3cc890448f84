package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"auto_article_writer/agents"
	"auto_article_writer/config"
	"auto_article_writer/generator"
	"auto_article_writer/pipeline"
)

func TestBuildLLM(t *testing.T) {
	_, err := buildLLM(config.LLMConfig{})
	assert.Error(t, err)

	_, err = buildLLM(config.LLMConfig{Provider: "deepseek", Model: "deepseek-chat", APIKey: "k"})
	assert.ErrorContains(t, err, "base_url")

	_, err = buildLLM(config.LLMConfig{Provider: "claude", Model: "m", APIKey: "k"})
	assert.ErrorContains(t, err, "not supported")

	llm, err := buildLLM(config.LLMConfig{Provider: "openai", Model: "gpt-4o-mini", APIKey: "k"})
	require.NoError(t, err)
	assert.NotNil(t, llm)
}

func TestBuildSearcher(t *testing.T) {
	s, err := buildSearcher(config.SearchConfig{})
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = buildSearcher(config.SearchConfig{Provider: "tavily", APIKey: "tvly"})
	require.NoError(t, err)
	assert.NotNil(t, s)

	_, err = buildSearcher(config.SearchConfig{Provider: "bing", APIKey: "k"})
	assert.Error(t, err)
}

func TestBuildPipeline(t *testing.T) {
	cfg := config.Default()
	cfg.LLM.APIKey = "llm-key"
	cfg.Image.APIKey = "image-key"
	cfg.Output.Dir = t.TempDir()

	orch, err := buildPipeline(cfg, nil, zap.NewNop())
	require.NoError(t, err)
	assert.NotNil(t, orch)

	cfg.Image.APIKey = ""
	orch, err = buildPipeline(cfg, nil, zap.NewNop())
	require.NoError(t, err)
	assert.NotNil(t, orch)
}

func TestPipelineWithoutImageKey(t *testing.T) {
	cfg := config.Default()
	cfg.LLM.APIKey = "ds-key"
	cfg.Image.APIKey = ""
	cfg.Output.Dir = t.TempDir()

	b, err := buildBackends(cfg, zap.NewNop())
	require.NoError(t, err)
	b.llm = generator.LLMFunc(func(_ context.Context, p generator.Prompt) (string, error) {
		switch p.System {
		case agents.OutlinerPersona:
			return `{"outline": ["Intro", "Outro"]}`, nil
		case agents.ReviewerPersona:
			return "Polished text.", nil
		}
		return "Section text.", nil
	})

	orch, err := newPipeline(cfg, b, nil, zap.NewNop())
	require.NoError(t, err)

	rep, err := orch.Run(context.Background(), "ocean tides")
	require.NoError(t, err)
	assert.Equal(t, pipeline.StateAssembled, rep.State)
	assert.Equal(t, []string{"image"}, rep.Degraded)
	assert.Empty(t, rep.ImageRef)
	assert.Equal(t, "# Ocean Tides\n\nPolished text.", rep.Document())
}
