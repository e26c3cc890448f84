package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIImageLLM 通过 openai-go 的图片接口生成封面图。
// It speaks the same Prompt/text contract as OpenAILLM and answers with a
// markdown image reference, so callers treat it as just another LLMClient.
type OpenAIImageLLM struct {
	Model string
	Opts  []option.RequestOption
}

func NewOpenAIImageLLMFromConfig(cfg *LLMSettings) (*OpenAIImageLLM, error) {
	if cfg == nil {
		return nil, errors.New("image config is nil")
	}
	opts, err := requestOptions(cfg, "image.api_key")
	if err != nil {
		return nil, err
	}
	return &OpenAIImageLLM{Model: cfg.Model, Opts: opts}, nil
}

func (o *OpenAIImageLLM) Complete(ctx context.Context, prompt Prompt) (string, error) {
	client := openai.NewClient(o.Opts...)

	text := strings.TrimSpace(prompt.User)
	if prompt.System != "" {
		text = prompt.System + "\n\n" + text
	}
	resp, err := client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt: text,
		Model:  openai.ImageModel(o.Model),
		N:      openai.Int(1),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", errors.New("openai: empty image data")
	}
	return fmt.Sprintf("![image](%s)", resp.Data[0].URL), nil
}
