package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"tradedocs/internal/config"
	"tradedocs/internal/llm"
	"tradedocs/internal/logger"
	"tradedocs/internal/port"
)

const (
	providerName     = "gemini"
	apiBaseURL       = "https://generativelanguage.googleapis.com/v1beta/models"
	defaultModel     = "gemini-2.0-flash"
	defaultMaxTokens = 16384
)

func init() {
	llm.RegisterProvider(providerName, func(cfg *config.LLMConfig) (port.ModelClient, error) {
		return NewClient(cfg)
	})
}

// Client implements port.ModelClient using Google's Gemini API.
type Client struct {
	apiKey    string
	model     string
	maxTokens int
	endpoint  string
	client    *http.Client
	log       zerolog.Logger
}

// NewClient creates a Gemini model client. cfg.BaseURL, when set, replaces the
// models base URL.
func NewClient(cfg *config.LLMConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: api key is required")
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = apiBaseURL
	}
	return newClient(cfg, base, ""), nil
}

// NewClientWithEndpoint creates a client pointing at a custom API endpoint (for testing).
func NewClientWithEndpoint(cfg *config.LLMConfig, endpoint string) *Client {
	return newClient(cfg, "", endpoint)
}

func newClient(cfg *config.LLMConfig, base, endpoint string) *Client {
	model := cfg.DefaultModel
	if model == "" {
		model = defaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	if endpoint == "" {
		endpoint = fmt.Sprintf("%s/%s:generateContent", base, model)
	}
	return &Client{
		apiKey:    cfg.APIKey,
		model:     model,
		maxTokens: maxTokens,
		endpoint:  endpoint,
		client:    &http.Client{Timeout: cfg.Timeout()},
		log:       logger.WithComponent("llm.gemini"),
	}
}

func (c *Client) Invoke(ctx context.Context, req port.ModelRequest) (*port.ModelResponse, error) {
	parts, err := buildParts(req)
	if err != nil {
		return nil, err
	}

	// No responseMimeType: some steps answer in prose.
	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"role":  "user",
				"parts": parts,
			},
		},
		"generationConfig": map[string]interface{}{
			"maxOutputTokens": c.maxTokens,
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling gemini API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("gemini API error (status %d): %s", resp.StatusCode, llm.Truncate(string(respBody), 500))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := llm.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return nil, llm.NewRateLimitError(providerName, baseErr, retryAfter)
		}
		return nil, baseErr
	}

	return c.parseResponse(respBody)
}

func buildParts(req port.ModelRequest) ([]map[string]interface{}, error) {
	var parts []map[string]interface{}
	if len(req.Document) > 0 {
		mimeType, err := toGeminiMimeType(req.ContentType)
		if err != nil {
			return nil, err
		}
		parts = append(parts, map[string]interface{}{
			"inline_data": map[string]interface{}{
				"mime_type": mimeType,
				"data":      base64.StdEncoding.EncodeToString(req.Document),
			},
		})
	}
	parts = append(parts, map[string]interface{}{"text": req.Prompt})
	return parts, nil
}

func toGeminiMimeType(contentType string) (string, error) {
	switch contentType {
	case "application/pdf", "image/jpeg", "image/png":
		return contentType, nil
	default:
		return "", fmt.Errorf("unsupported content type: %s", contentType)
	}
}

// geminiResponse models the Gemini API response.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
	} `json:"usageMetadata"`
	ModelVersion string `json:"modelVersion"`
}

func (c *Client) parseResponse(body []byte) (*port.ModelResponse, error) {
	var resp geminiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("empty response from API: no candidates")
	}
	candidate := resp.Candidates[0]
	if len(candidate.Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from API: no parts (finish reason %s)", candidate.FinishReason)
	}

	var text strings.Builder
	for _, p := range candidate.Content.Parts {
		text.WriteString(p.Text)
	}

	if candidate.FinishReason == "MAX_TOKENS" {
		c.log.Warn().Int("output_tokens", resp.UsageMetadata.CandidatesTokenCount).Msg("output truncated at max tokens")
	}

	model := resp.ModelVersion
	if model == "" {
		model = c.model
	}
	return &port.ModelResponse{
		Text:         text.String(),
		InputTokens:  resp.UsageMetadata.PromptTokenCount,
		OutputTokens: resp.UsageMetadata.CandidatesTokenCount,
		Model:        model,
	}, nil
}
