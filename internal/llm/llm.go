package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"newsblog/internal/logger"
	"newsblog/internal/prompts"
)

const (
	// DefaultModel is the Gemini model used for blog generation.
	DefaultModel = "gemini-2.5-flash"

	sdkName = "google.golang.org/genai"
)

// Generation parameters sent with every request.
const (
	Temperature      float32 = 0.7
	TopK             float32 = 40
	TopP             float32 = 0.9
	MaxOutputTokens  int32   = 4000
	ResponseMIMEType         = "application/json"
)

// Options configure NewClient. Only APIKey is required.
type Options struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// Client generates blog drafts with Gemini.
type Client struct {
	modelName string
	gClient   *genai.Client
}

// NewClient creates a Gemini-backed client.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	modelName := strings.TrimSpace(opts.Model)
	if modelName == "" {
		modelName = DefaultModel
	}

	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
	}
	if opts.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}

	gClient, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{
		modelName: modelName,
		gClient:   gClient,
	}, nil
}

// GenerationConfig returns the request configuration used by Generate.
func GenerationConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(Temperature),
		TopK:             genai.Ptr(TopK),
		TopP:             genai.Ptr(TopP),
		MaxOutputTokens:  MaxOutputTokens,
		ResponseMIMEType: ResponseMIMEType,
		ResponseSchema:   prompts.ResponseSchema(),
	}
}

// Generate sends prompt once and returns the raw model text. There are no
// retries; the caller decides what a failure means.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.Available() {
		return "", ErrModelUnavailable
	}

	contents := []*genai.Content{{
		Parts: []*genai.Part{{Text: prompt}},
		Role:  "user",
	}}

	start := time.Now()
	resp, err := c.gClient.Models.GenerateContent(ctx, c.modelName, contents, GenerationConfig())
	if err != nil {
		return "", &GenerationError{Model: c.modelName, Cause: err}
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", &GenerationError{Model: c.modelName, Cause: ErrEmptyResponse}
	}

	logger.Debug("Gemini generation completed",
		"model", c.modelName,
		"duration_ms", time.Since(start).Milliseconds(),
		"response_chars", len([]rune(text)))
	return text, nil
}

// Available reports whether the client can reach a model. It is safe to
// call on a nil *Client.
func (c *Client) Available() bool {
	return c != nil && c.gClient != nil
}

// ModelName returns the configured model.
func (c *Client) ModelName() string {
	if c == nil {
		return ""
	}
	return c.modelName
}

// Label identifies the generator in produced records.
func (c *Client) Label() string {
	return Label(c.ModelName())
}

// Label formats the generator label for model.
func Label(model string) string {
	if model == "" {
		model = DefaultModel
	}
	return fmt.Sprintf("Gemini %s (%s)", model, sdkName)
}
