package llm

import (
	"context"
	"errors"
	"fmt"
	"forklift-route-agent/internal/platform/obs"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultAnthropicModel = "claude-sonnet-4-5"

// AnthropicModel implements ports.LanguageModel on the Messages API.
type AnthropicModel struct {
	inner     anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

func NewAnthropicModel(apiKey, model string) (*AnthropicModel, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("anthropic: ANTHROPIC_API_KEY not set")
	}
	if model == "" {
		model = defaultAnthropicModel
	}

	return &AnthropicModel{
		inner:     anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:     anthropic.Model(model),
		maxTokens: 2048,
	}, nil
}

func (m *AnthropicModel) Invoke(ctx context.Context, prompt string) (_ string, err error) {
	defer obs.Time(ctx, "llm.anthropic.Invoke")(&err)

	resp, err := m.inner.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     m.model,
		MaxTokens: m.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic: messages call: %w", err)
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return stripFences(b.String()), nil
}
