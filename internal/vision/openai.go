package vision

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"go.uber.org/zap"

	"github.com/ironsheep/ui-locator-mcp/internal/logger"
)

// Config configures an OpenAIClient.
type Config struct {
	APIKey  string
	BaseURL string // Optional; any OpenAI-compatible endpoint
	// StrictSchema sends the request schema as a json_schema response format.
	// When false the endpoint is only asked for a JSON object and the schema
	// is enforced locally.
	StrictSchema bool
	Timeout      time.Duration
	MaxRetries   int
	RetryDelay   time.Duration
	HTTPClient   *http.Client // Optional (tests)
}

// OpenAIClient implements Client using the official OpenAI SDK.
type OpenAIClient struct {
	client       openai.Client
	strictSchema bool
	maxRetries   int
	retryDelay   time.Duration
}

// NewOpenAIClient creates a vision client.
func NewOpenAIClient(cfg Config) *OpenAIClient {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	// Retries are handled by retry-go so they can be logged and bounded
	// together with response parsing.
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIClient{
		client:       openai.NewClient(opts...),
		strictSchema: cfg.StrictSchema,
		maxRetries:   cfg.MaxRetries,
		retryDelay:   cfg.RetryDelay,
	}
}

// Query sends the prompt and images as a single user message and parses the
// reply. Transport failures, rate limits and 5xx responses are retried; other
// API errors and malformed replies are returned immediately.
func (c *OpenAIClient) Query(ctx context.Context, req Request) (*Response, error) {
	model := req.Model.WithDefaults()
	params := c.buildParams(req, model)
	log := logger.L(ctx).With(zap.String("model", model.QualifiedName()), zap.Int("images", len(req.Images)))

	var content string
	start := time.Now()
	err := retry.Do(
		func() error {
			completion, err := c.client.Chat.Completions.New(ctx, params)
			if err != nil {
				return mapOpenAIError(err)
			}
			if len(completion.Choices) == 0 {
				return retry.Unrecoverable(ErrEmptyResponse)
			}
			content = completion.Choices[0].Message.Content
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(c.maxRetries)),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryable),
		retry.OnRetry(func(n uint, err error) {
			log.Warn("vision query failed, retrying", zap.Uint("attempt", n+1), zap.Error(err))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("vision query failed: %w", err)
	}

	resp, err := ParseResponse(content, req.Schema)
	if err != nil {
		log.Warn("vision reply rejected", zap.Error(err), zap.String("content", truncate(content, 500)))
		return nil, err
	}

	log.Debug("vision query complete", zap.Duration("elapsed", time.Since(start)))
	return resp, nil
}

func (c *OpenAIClient) buildParams(req Request, model ModelConfig) openai.ChatCompletionNewParams {
	parts := make([]openai.ChatCompletionContentPartUnionParam, 0, len(req.Images)+1)
	parts = append(parts, openai.TextContentPart(req.Prompt))
	for _, img := range req.Images {
		parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL:    dataURL(img),
			Detail: "high",
		}))
	}

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(model.QualifiedName()),
		Messages:    []openai.ChatCompletionMessageParamUnion{openai.UserMessage(parts)},
		Temperature: openai.Float(model.Temperature),
		MaxTokens:   openai.Int(int64(model.MaxTokens)),
	}

	if c.strictSchema && len(req.Schema) > 0 {
		var schema map[string]any
		if err := json.Unmarshal(req.Schema, &schema); err == nil {
			params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
				OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
					JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
						Name:   "locator_response",
						Schema: schema,
						Strict: openai.Bool(false),
					},
				},
			}
			return params
		}
	}

	params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
	}
	return params
}

// dataURL embeds an encoded image in a data URL, sniffing the MIME type.
func dataURL(img []byte) string {
	mime := http.DetectContentType(img)
	if mime != "image/jpeg" && mime != "image/gif" && mime != "image/webp" {
		mime = "image/png"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(img)
}

// APIError is a non-retryable error status from the model endpoint.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("vision API error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("vision API error (status %d)", e.StatusCode)
}

func mapOpenAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &APIError{StatusCode: apiErr.StatusCode, Message: apiErr.Message}
	}
	return err
}

func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= http.StatusInternalServerError
	}
	return true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "...[truncated]"
}

var _ Client = (*OpenAIClient)(nil)
