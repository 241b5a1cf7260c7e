package openai

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docquery/internal/domain"
	"github.com/kailas-cloud/docquery/internal/domain/llm"
	"github.com/kailas-cloud/docquery/internal/metrics"
)

const (
	provider     = string(llm.OpenAI)
	maxErrorBody = 512
)

// Config holds the chat completion provider settings.
type Config struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Completer is a chat-completion provider using the OpenAI API.
type Completer struct {
	client *openai.Client
	apiKey string
	logger *zap.Logger
}

// NewCompleter creates an OpenAI chat completion provider.
func NewCompleter(cfg *Config) *Completer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.HTTPClient != nil {
		clientCfg.HTTPClient = cfg.HTTPClient
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Completer{
		client: openai.NewClientWithConfig(clientCfg),
		apiKey: cfg.APIKey,
		logger: log,
	}
}

// Complete implements llm.Completer: an optional system message plus the user
// message, temperature 0, first choice's content.
func (c *Completer) Complete(ctx context.Context, p llm.Prompt) (string, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, 2)
	if p.System != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: p.System})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: p.User})

	req := openai.ChatCompletionRequest{
		Model:     p.WireModel,
		Messages:  msgs,
		MaxTokens: p.MaxTokens,
		// a zero temperature is dropped by omitempty
		Temperature: math.SmallestNonzeroFloat32,
	}

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(provider, p.WireModel, "error").Inc()
		metrics.LLMErrorsTotal.WithLabelValues(provider, p.WireModel, "api_error").Inc()
		cerr := c.parseAPIError(err)
		c.logger.Warn("OpenAI completion failed",
			zap.String("model", p.WireModel),
			zap.Duration("duration", duration),
			zap.Error(cerr),
		)
		return "", cerr
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		metrics.LLMRequestsTotal.WithLabelValues(provider, p.WireModel, "error").Inc()
		metrics.LLMErrorsTotal.WithLabelValues(provider, p.WireModel, "empty_response").Inc()
		c.logger.Warn("OpenAI returned an empty completion", zap.String("model", p.WireModel))
		return "", &domain.CompletionError{Provider: provider, Status: http.StatusOK, Body: "empty completion"}
	}

	metrics.LLMRequestsTotal.WithLabelValues(provider, p.WireModel, "success").Inc()
	metrics.LLMRequestDuration.WithLabelValues(provider, p.WireModel).Observe(duration.Seconds())
	if resp.Usage.TotalTokens > 0 {
		metrics.LLMTokensTotal.WithLabelValues(provider, p.WireModel, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.LLMTokensTotal.WithLabelValues(provider, p.WireModel, "completion").Add(float64(resp.Usage.CompletionTokens))
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// parseAPIError maps SDK errors to a CompletionError with a truncated, key-free body.
func (c *Completer) parseAPIError(err error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		body := extractMessage(reqErr.Body)
		if body == "" {
			body = string(reqErr.Body)
		}
		return &domain.CompletionError{Provider: provider, Status: reqErr.HTTPStatusCode, Body: c.sanitize(body)}
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &domain.CompletionError{Provider: provider, Status: apiErr.HTTPStatusCode, Body: c.sanitize(apiErr.Message)}
	}

	return &domain.CompletionError{Provider: provider, Body: c.sanitize(err.Error())}
}

// extractMessage reads error.message from an OpenAI-style error body.
func extractMessage(body []byte) string {
	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &parsed) == nil {
		return parsed.Error.Message
	}
	return ""
}

func (c *Completer) sanitize(s string) string {
	if c.apiKey != "" {
		s = strings.ReplaceAll(s, c.apiKey, "[redacted]")
	}
	if len(s) > maxErrorBody {
		s = s[:maxErrorBody] + "..."
	}
	return s
}
