// Package azure adapts the Azure OpenAI chat-completions API to the
// application's LLMPort using the go-openai client.
package azure

import (
	"context"
	"fmt"

	"webagent/internal/application/port/output"
	"webagent/internal/domain/entity"

	"github.com/sashabaranov/go-openai"
)

var _ output.LLMPort = (*Adapter)(nil)

const (
	DefaultAPIVersion = "2024-02-15-preview"

	// Sampling settings the agent was tuned with.
	temperature = 0.7
	maxTokens   = 500
)

type Adapter struct {
	client     *openai.Client
	deployment string
}

type Config struct {
	APIKey     string
	Endpoint   string
	Deployment string
	APIVersion string
}

func NewAdapter(cfg Config) *Adapter {
	clientCfg := openai.DefaultAzureConfig(cfg.APIKey, cfg.Endpoint)
	if cfg.APIVersion != "" {
		clientCfg.APIVersion = cfg.APIVersion
	}
	// Requests address the configured deployment, whatever model name the
	// caller passes.
	deployment := cfg.Deployment
	clientCfg.AzureModelMapperFunc = func(model string) string {
		return deployment
	}

	return &Adapter{
		client:     openai.NewClientWithConfig(clientCfg),
		deployment: deployment,
	}
}

func (a *Adapter) Complete(ctx context.Context, messages []entity.Message) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       a.deployment,
		Messages:    convertMessages(messages),
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return resp.Choices[0].Message.Content, nil
}

func convertMessages(messages []entity.Message) []openai.ChatCompletionMessage {
	result := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		result = append(result, openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}
	return result
}
