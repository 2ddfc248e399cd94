// Package writer holds the plain-text backends used to rewrite feedback.
package writer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alkime/englishpro/internal/analysis"
	"github.com/anthropics/anthropic-sdk-go"
	anthropicopt "github.com/anthropics/anthropic-sdk-go/option"
)

// Anthropic generates text with Claude.
type Anthropic struct {
	apiKey string
	model  anthropic.Model
	opts   []anthropicopt.RequestOption
}

// NewAnthropic creates a Claude-backed text generator. Extra options are
// passed to every request.
func NewAnthropic(apiKey string, opts ...anthropicopt.RequestOption) *Anthropic {
	return &Anthropic{
		apiKey: apiKey,
		model:  anthropic.ModelClaudeSonnet4_5_20250929,
		opts:   opts,
	}
}

// GenerateText sends the prompt as a single user message.
func (a *Anthropic) GenerateText(ctx context.Context, prompt string) (string, error) {
	if a.apiKey == "" {
		return "", errors.New("API key required: set ANTHROPIC_API_KEY or run 'coach config set-key anthropic <key>'")
	}

	client := anthropic.NewClient(append([]anthropicopt.RequestOption{anthropicopt.WithAPIKey(a.apiKey)}, a.opts...)...)

	resp, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: 2048,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate text via Anthropic API: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(text.Text)
		}
	}

	if sb.Len() == 0 {
		return "", &analysis.SchemaError{Op: "anthropic", Reason: "empty response", Err: analysis.ErrMissingBody}
	}

	return sb.String(), nil
}
