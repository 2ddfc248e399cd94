package writer

import (
	"context"
	"errors"
	"fmt"

	"github.com/alkime/englishpro/internal/analysis"
	"github.com/openai/openai-go"
	openaiopt "github.com/openai/openai-go/option"
)

// OpenAI generates text with a chat completion model.
type OpenAI struct {
	apiKey string
	model  openai.ChatModel
	opts   []openaiopt.RequestOption
}

// NewOpenAI creates an OpenAI-backed text generator.
func NewOpenAI(apiKey string, opts ...openaiopt.RequestOption) *OpenAI {
	return &OpenAI{
		apiKey: apiKey,
		model:  openai.ChatModelGPT4oMini,
		opts:   opts,
	}
}

// GenerateText sends the prompt as a single user message.
func (o *OpenAI) GenerateText(ctx context.Context, prompt string) (string, error) {
	if o.apiKey == "" {
		return "", errors.New("API key required: set OPENAI_API_KEY or run 'coach config set-key openai <key>'")
	}

	client := openai.NewClient(append([]openaiopt.RequestOption{openaiopt.WithAPIKey(o.apiKey)}, o.opts...)...)

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: o.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate text via OpenAI API: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", &analysis.SchemaError{Op: "openai", Reason: "empty response", Err: analysis.ErrMissingBody}
	}

	return resp.Choices[0].Message.Content, nil
}
