package generator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptMessages(t *testing.T) {
	p := Prompt{
		System: "persona",
		User:   "question",
		History: []Message{
			{Content: "earlier"},
			{Role: "assistant", Content: "answer"},
		},
	}
	assert.Equal(t, []Message{
		{Role: "system", Content: "persona"},
		{Role: "user", Content: "earlier"},
		{Role: "assistant", Content: "answer"},
		{Role: "user", Content: "question"},
	}, p.Messages())
}

func TestBuildSectionPrompt(t *testing.T) {
	p := BuildSectionPrompt("writer", "Intro", "")
	assert.Equal(t, "writer", p.System)
	assert.NotContains(t, p.User, "Search results")

	p = BuildSectionPrompt("writer", "Intro", "Title: A")
	assert.Contains(t, p.User, "'Intro'")
	assert.Contains(t, p.User, "Search results:\nTitle: A")
}

func TestLLMAdapters(t *testing.T) {
	var seen Prompt
	f := LLMFunc(func(_ context.Context, p Prompt) (string, error) {
		seen = p
		return "ok", nil
	})
	out, err := f.Complete(context.Background(), Prompt{User: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, "hi", seen.User)

	out, err = StaticLLM("fixed").Complete(context.Background(), Prompt{})
	require.NoError(t, err)
	assert.Equal(t, "fixed", out)
}

func TestNewOpenAILLMFromConfig_Validation(t *testing.T) {
	_, err := NewOpenAILLMFromConfig(nil)
	assert.Error(t, err)
	_, err = NewOpenAILLMFromConfig(&LLMSettings{Model: "m"})
	assert.Error(t, err)
	_, err = NewOpenAILLMFromConfig(&LLMSettings{APIKey: "k"})
	assert.Error(t, err)

	llm, err := NewOpenAILLMFromConfig(&LLMSettings{APIKey: "k", Model: "m", BaseURL: "https://example.com/v1"})
	require.NoError(t, err)
	assert.Equal(t, "m", llm.Model)
	assert.Len(t, llm.Opts, 2)

	_, err = NewOpenAIImageLLMFromConfig(&LLMSettings{Model: "dall-e-3"})
	assert.EqualError(t, err, "api key missing; provide image.api_key")
	_, err = NewOpenAILLMFromConfig(&LLMSettings{Model: "m"})
	assert.EqualError(t, err, "api key missing; provide llm.api_key")

	img, err := NewOpenAIImageLLMFromConfig(&LLMSettings{APIKey: "k", Model: "dall-e-3"})
	require.NoError(t, err)
	assert.Equal(t, "dall-e-3", img.Model)
}
