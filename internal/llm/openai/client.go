package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog"

	"tradedocs/internal/config"
	"tradedocs/internal/llm"
	"tradedocs/internal/logger"
	"tradedocs/internal/port"
)

const (
	providerName     = "openai"
	defaultModel     = "gpt-4o"
	defaultMaxTokens = 16384
)

func init() {
	llm.RegisterProvider(providerName, func(cfg *config.LLMConfig) (port.ModelClient, error) {
		return NewClient(cfg)
	})
}

// Client implements port.ModelClient using the OpenAI Chat Completions API.
type Client struct {
	client    openai.Client
	model     string
	maxTokens int64
	log       zerolog.Logger
}

// NewClient creates an OpenAI model client. The SDK's own retry loop is
// disabled; a failed call fails the step.
func NewClient(cfg *config.LLMConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai: api key is required")
	}
	model := cfg.DefaultModel
	if model == "" {
		model = defaultModel
	}
	maxTokens := int64(cfg.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	return &Client{
		client:    openai.NewClient(requestOptions(cfg)...),
		model:     model,
		maxTokens: maxTokens,
		log:       logger.WithComponent("llm.openai"),
	}, nil
}

// requestOptions builds the SDK options. A request timeout is set only when one
// is configured.
func requestOptions(cfg *config.LLMConfig) []option.RequestOption {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if timeout := cfg.Timeout(); timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(timeout))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return opts
}

func (c *Client) Invoke(ctx context.Context, req port.ModelRequest) (*port.ModelResponse, error) {
	parts, err := buildContentParts(req)
	if err != nil {
		return nil, fmt.Errorf("building content parts: %w", err)
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(c.model),
		Messages:            []openai.ChatCompletionMessageParamUnion{openai.UserMessage(parts)},
		MaxCompletionTokens: openai.Int(c.maxTokens),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == 429 {
			retryAfter := 0
			if apiErr.Response != nil {
				retryAfter = llm.ParseRetryAfterHeader(apiErr.Response.Header.Get("Retry-After"))
			}
			return nil, llm.NewRateLimitError(providerName, err, retryAfter)
		}
		return nil, fmt.Errorf("calling openai API: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("empty response from API: no choices")
	}
	choice := resp.Choices[0]
	if choice.FinishReason == "length" {
		c.log.Warn().Int64("output_tokens", resp.Usage.CompletionTokens).Msg("output truncated at max tokens")
	}

	model := resp.Model
	if model == "" {
		model = c.model
	}
	return &port.ModelResponse{
		Text:         choice.Message.Content,
		InputTokens:  int(resp.Usage.PromptTokens),
		OutputTokens: int(resp.Usage.CompletionTokens),
		Model:        model,
	}, nil
}

func buildContentParts(req port.ModelRequest) ([]openai.ChatCompletionContentPartUnionParam, error) {
	var parts []openai.ChatCompletionContentPartUnionParam

	if len(req.Document) > 0 {
		dataURI := fmt.Sprintf("data:%s;base64,%s", req.ContentType, base64.StdEncoding.EncodeToString(req.Document))
		switch req.ContentType {
		case "application/pdf":
			parts = append(parts, openai.FileContentPart(openai.ChatCompletionContentPartFileFileParam{
				Filename: openai.String("document.pdf"),
				FileData: openai.String(dataURI),
			}))
		case "image/jpeg", "image/png":
			parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
				URL: dataURI,
			}))
		default:
			return nil, fmt.Errorf("unsupported content type: %s", req.ContentType)
		}
	}

	parts = append(parts, openai.TextContentPart(req.Prompt))
	return parts, nil
}
