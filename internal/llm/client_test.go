package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go/option"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const answer = `{"하차지명":"현대케미칼","요청톤수":"11톤"}`

func TestOpenAIComplete(t *testing.T) {
	var got openai.ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  got.Model,
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": answer},
				"finish_reason": "stop",
			}},
		})
	}))
	defer srv.Close()

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	c := NewOpenAI(openai.NewClientWithConfig(cfg), "", time.Second)

	out, err := c.Complete(context.Background(), "하차지 : 현대케미칼", "C-1")
	require.NoError(t, err)
	assert.Equal(t, answer, out)
	assert.Equal(t, "openai", c.Name())

	assert.Equal(t, DefaultOpenAIModel, got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, SystemPrompt, got.Messages[0].Content)
	assert.Contains(t, got.Messages[1].Content, "하차지 : 현대케미칼")
	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, got.ResponseFormat.Type)
}

func TestOpenAICompleteNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"chatcmpl-2","object":"chat.completion","choices":[]}`)
	}))
	defer srv.Close()

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	c := NewOpenAI(openai.NewClientWithConfig(cfg), "gpt-test", 0)

	_, err := c.Complete(context.Background(), "x", "C-1")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestAnthropicComplete(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":            "msg_1",
			"type":          "message",
			"role":          "assistant",
			"model":         DefaultAnthropicModel,
			"content":       []map[string]any{{"type": "text", "text": answer}},
			"stop_reason":   "end_turn",
			"stop_sequence": nil,
			"usage":         map[string]any{"input_tokens": 10, "output_tokens": 20},
		})
	}))
	defer srv.Close()

	c := NewAnthropic("test-key", "", time.Second, option.WithBaseURL(srv.URL), option.WithMaxRetries(0))

	out, err := c.Complete(context.Background(), "하차지 : 현대케미칼", "C-1")
	require.NoError(t, err)
	assert.Equal(t, answer, out)
	assert.Equal(t, "anthropic", c.Name())
	assert.Equal(t, DefaultAnthropicModel, got["model"])
	assert.EqualValues(t, 2048, got["max_tokens"])
}

func TestAnthropicCompleteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"type":"error","error":{"type":"invalid_request_error","message":"bad"}}`)
	}))
	defer srv.Close()

	c := NewAnthropic("test-key", "claude-test", 0, option.WithBaseURL(srv.URL), option.WithMaxRetries(0))

	_, err := c.Complete(context.Background(), "x", "C-1")
	assert.Error(t, err)
}
