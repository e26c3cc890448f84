package generator

import "context"

// LLMClient 抽象生成能力（文本或图片），便于替换/Mock。
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// LLMSettings 提供给具体实现的基础配置。
type LLMSettings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}

// LLMFunc adapts a plain function to LLMClient.
type LLMFunc func(ctx context.Context, prompt Prompt) (string, error)

func (f LLMFunc) Complete(ctx context.Context, prompt Prompt) (string, error) {
	return f(ctx, prompt)
}

// StaticLLM always answers with the same text.
type StaticLLM string

func (s StaticLLM) Complete(_ context.Context, _ Prompt) (string, error) {
	return string(s), nil
}
