package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tradedocs/internal/config"
)

func TestRequestOptions_TimeoutOnlyWhenConfigured(t *testing.T) {
	base := len(requestOptions(&config.LLMConfig{APIKey: "k"}))

	assert.Equal(t, 2, base)
	assert.Len(t, requestOptions(&config.LLMConfig{APIKey: "k", TimeoutSecs: -1}), base)
	assert.Len(t, requestOptions(&config.LLMConfig{APIKey: "k", TimeoutSecs: 30}), base+1)
	assert.Len(t, requestOptions(&config.LLMConfig{APIKey: "k", TimeoutSecs: 30, BaseURL: "http://localhost"}), base+2)
}
