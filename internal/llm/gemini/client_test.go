package gemini_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradedocs/internal/config"
	"tradedocs/internal/llm"
	"tradedocs/internal/llm/gemini"
	"tradedocs/internal/port"
)

func newTestClient(serverURL string) *gemini.Client {
	cfg := &config.LLMConfig{
		Provider:     "gemini",
		APIKey:       "test-gemini-key",
		DefaultModel: "gemini-2.0-flash",
		TimeoutSecs:  30,
		MaxTokens:    4096,
	}
	return gemini.NewClientWithEndpoint(cfg, serverURL)
}

func TestGeminiClient_Invoke_PDF_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-gemini-key", r.Header.Get("x-goog-api-key"))

		var reqBody map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))

		genCfg := reqBody["generationConfig"].(map[string]interface{})
		assert.Equal(t, float64(4096), genCfg["maxOutputTokens"])
		assert.NotContains(t, genCfg, "responseMimeType")

		contents := reqBody["contents"].([]interface{})
		parts := contents[0].(map[string]interface{})["parts"].([]interface{})
		assert.Len(t, parts, 2)
		inline := parts[0].(map[string]interface{})["inline_data"].(map[string]interface{})
		assert.Equal(t, "application/pdf", inline["mime_type"])
		assert.NotEmpty(t, inline["data"])
		assert.Equal(t, "List the additions", parts[1].(map[string]interface{})["text"])

		_, _ = w.Write([]byte(`{
			"candidates": [{"content": {"parts": [{"text": "[{\"ncm\":"}, {"text": "\"1234\"}]"}]}, "finishReason": "STOP"}],
			"usageMetadata": {"promptTokenCount": 900, "candidatesTokenCount": 30},
			"modelVersion": "gemini-2.0-flash-001"
		}`))
	}))
	defer server.Close()

	resp, err := newTestClient(server.URL).Invoke(context.Background(), port.ModelRequest{
		Prompt:      "List the additions",
		Document:    []byte("%PDF-1.7"),
		ContentType: "application/pdf",
	})

	require.NoError(t, err)
	assert.Equal(t, `[{"ncm":"1234"}]`, resp.Text)
	assert.Equal(t, 900, resp.InputTokens)
	assert.Equal(t, 30, resp.OutputTokens)
	assert.Equal(t, "gemini-2.0-flash-001", resp.Model)
}

func TestGeminiClient_Invoke_MaxTokensIsNotFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"[{\"a\":1"}]},"finishReason":"MAX_TOKENS"}]}`))
	}))
	defer server.Close()

	resp, err := newTestClient(server.URL).Invoke(context.Background(), port.ModelRequest{Prompt: "p"})

	require.NoError(t, err)
	assert.Equal(t, `[{"a":1`, resp.Text)
	assert.Equal(t, "gemini-2.0-flash", resp.Model)
}

func TestGeminiClient_Invoke_NoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Invoke(context.Background(), port.ModelRequest{Prompt: "p"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no candidates")
}

func TestGeminiClient_Invoke_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Invoke(context.Background(), port.ModelRequest{Prompt: "p"})

	var rl *llm.RateLimitError
	require.True(t, errors.As(err, &rl))
	assert.Equal(t, "gemini", rl.Provider)
	assert.Equal(t, 60*time.Second, rl.RetryAfter)
}

func TestGeminiClient_Invoke_BadRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"bad"}}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Invoke(context.Background(), port.ModelRequest{Prompt: "p"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestGeminiClient_Invoke_UnsupportedContentType(t *testing.T) {
	_, err := newTestClient("http://unused").Invoke(context.Background(), port.ModelRequest{
		Prompt: "p", Document: []byte("x"), ContentType: "application/zip",
	})

	assert.Error(t, err)
}

func TestGeminiClient_BaseURLBuildsModelEndpoint(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{}"}]}}]}`))
	}))
	defer server.Close()

	c, err := gemini.NewClient(&config.LLMConfig{APIKey: "k", DefaultModel: "gemini-x", BaseURL: server.URL + "/v1beta/models/"})
	require.NoError(t, err)

	_, err = c.Invoke(context.Background(), port.ModelRequest{Prompt: "p"})

	require.NoError(t, err)
	assert.Equal(t, "/v1beta/models/gemini-x:generateContent", gotPath)
}
