package analysis

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-3-flash-preview"

// contentGenerator is the slice of the genai Models service the client uses.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Client sends recordings to Gemini and decodes the structured assessment.
type Client struct {
	models contentGenerator
	model  string
	logger *slog.Logger
}

// NewClient creates a Gemini-backed analysis client.
func NewClient(ctx context.Context, apiKey, model string, logger *slog.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("API key required: set GEMINI_API_KEY or run 'coach config set-key gemini <key>'")
	}

	cli, err := genai.NewClient(ctx, &genai.ClientConfig{ //nolint:exhaustruct // defaults for the rest
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, &TransportError{Op: "connect", Err: err}
	}

	return newClient(cli.Models, model, logger), nil
}

func newClient(models contentGenerator, model string, logger *slog.Logger) *Client {
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{models: models, model: model, logger: logger}
}

// Name identifies the backend in logs.
func (c *Client) Name() string { return "gemini:" + c.model }

// Analyze scores one or two attempts. Links are passed to the model as text
// and never fetched here. Submission links in the result always come from req.
func (c *Client) Analyze(ctx context.Context, req Request) (*Result, error) {
	if !req.Slot1.Usable() {
		return nil, ErrNoInput
	}

	parts := []*genai.Part{genai.NewPartFromText(buildAnalysisPrompt(req))}
	parts = appendMedia(parts, AttemptLabel1, req.Slot1)
	if second, ok := req.second(); ok {
		parts = appendMedia(parts, AttemptLabel2, second)
	}

	c.logger.Debug("analysis request",
		"model", c.model,
		"parts", len(parts),
		"two_attempts", req.Slot2 != nil && req.Slot2.Usable(),
		"has_intended_text", strings.TrimSpace(req.IntendedText) != "",
	)

	resp, err := c.models.GenerateContent(ctx, c.model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		&genai.GenerateContentConfig{ //nolint:exhaustruct // structured output only
			ResponseMIMEType: "application/json",
			ResponseSchema:   ResponseSchema(),
		},
	)
	if err != nil {
		return nil, c.fail(&TransportError{Op: "analyze", Err: err})
	}

	body := responseText(resp)
	if body == "" {
		return nil, c.fail(&SchemaError{Op: "analyze", Reason: "empty response", Err: ErrMissingBody})
	}

	result, err := decodeResult(body)
	if err != nil {
		return nil, c.fail(&SchemaError{Op: "analyze", Reason: "schema mismatch", Err: err})
	}

	*result = result.WithLinks(req)

	c.logger.Info("analysis complete",
		"overall", result.Scores.Overall,
		"details", len(result.Details),
	)

	return result, nil
}

// GenerateText runs a plain-text completion. It backs feedback regeneration
// when Gemini is the selected provider.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", &TransportError{Op: "generate text", Err: err}
	}

	text := strings.TrimSpace(responseText(resp))
	if text == "" {
		return "", &SchemaError{Op: "generate text", Reason: "empty response", Err: ErrMissingBody}
	}

	return text, nil
}

func (c *Client) fail(err error) error {
	c.logger.Error("analysis failed", "kind", ErrorKind(err), "error", err)
	return err
}

// appendMedia adds the positional label and inline bytes for an uploaded
// attempt. Link-only attempts add nothing here; their link is in the prompt.
func appendMedia(parts []*genai.Part, label string, in Input) []*genai.Part {
	if in.Upload == nil {
		return parts
	}

	return append(parts,
		genai.NewPartFromText(label),
		genai.NewPartFromBytes(in.Upload.Data, in.Upload.MIMEType),
	)
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	return resp.Text()
}
