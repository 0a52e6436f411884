package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Usage reports the token consumption of one generation call
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Blob is a media attachment (image frame, audio track) for multimodal calls
type Blob struct {
	MIMEType string
	Data     []byte
}

// Client is an abstraction over LLM providers
type Client interface {
	// GenerateJSON generates JSON content from a text-only prompt
	GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, *Usage, error)
	// GenerateWithMedia generates content from a prompt plus media attachments
	GenerateWithMedia(ctx context.Context, prompt string, media []Blob, tier ModelTier) (string, *Usage, error)
	// GetModel returns the underlying provider model for a tier
	GetModel(tier ModelTier) string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	return NewGeminiClient(ctx, config, apiKey)
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

// GenerateJSON generates JSON content from a text-only prompt
func (c *GeminiClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, *Usage, error) {
	return c.generate(ctx, tier, true, genai.Text(prompt))
}

// GenerateWithMedia generates content from a prompt plus media attachments.
// Media parts precede the text prompt, matching Gemini's recommended ordering
// for vision inputs.
func (c *GeminiClient) GenerateWithMedia(ctx context.Context, prompt string, media []Blob, tier ModelTier) (string, *Usage, error) {
	parts := make([]genai.Part, 0, len(media)+1)
	for _, blob := range media {
		parts = append(parts, genai.Blob{MIMEType: blob.MIMEType, Data: blob.Data})
	}
	parts = append(parts, genai.Text(prompt))
	return c.generate(ctx, tier, false, parts...)
}

// generate runs one GenerateContent call and extracts text plus token usage
func (c *GeminiClient) generate(ctx context.Context, tier ModelTier, jsonMIME bool, parts ...genai.Part) (string, *Usage, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", nil, fmt.Errorf("no model configured for tier %s", tier)
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(0.1) // Low temperature for consistent output
	if jsonMIME {
		model.ResponseMIMEType = "application/json"
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate content: %w", err)
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return "", nil, err
	}

	usage := &Usage{}
	if resp.UsageMetadata != nil {
		usage.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
		usage.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}

	return CleanJSONBlock(text), usage, nil
}

// GetModel returns the model name for a tier
func (c *GeminiClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// IsRateLimited reports whether an error is a provider throttle response.
// Surfaced distinctly so pipelines can tell throttling from content failure.
func IsRateLimited(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests
	}
	return false
}

// extractTextFromResponse extracts text from a Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}
