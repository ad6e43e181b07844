package strategy_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"snsbuilder/internal/domain"
	"snsbuilder/internal/strategy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const citedOpenAIResponse = `{
  "id": "resp_1",
  "object": "response",
  "created_at": 1700000000,
  "status": "completed",
  "model": "gpt-5-mini",
  "output": [
    {"id": "ws_1", "type": "web_search_call", "status": "completed"},
    {
      "id": "msg_1",
      "type": "message",
      "role": "assistant",
      "status": "completed",
      "content": [{
        "type": "output_text",
        "text": "## 전략",
        "annotations": [
          {"type": "url_citation", "title": "B", "url": "http://b", "start_index": 0, "end_index": 1},
          {"type": "url_citation", "title": "", "url": "http://x", "start_index": 1, "end_index": 2},
          {"type": "url_citation", "title": "A", "url": "http://a", "start_index": 2, "end_index": 3}
        ]
      }]
    }
  ]
}`

type openAIRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
	Tools []struct {
		Type string `json:"type"`
	} `json:"tools"`
}

func TestOpenAIGeneratorExtractsCitationsInOrder(t *testing.T) {
	var calls atomic.Int32
	var req openAIRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)

		assert.Equal(t, "/v1/responses", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, citedOpenAIResponse)
	}))
	t.Cleanup(srv.Close)

	gen := strategy.NewOpenAIGenerator(strategy.OpenAIConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL + "/v1/",
	})
	adapter := strategy.NewAdapter(gen, slog.New(slog.NewJSONHandler(io.Discard, nil)))

	result, err := adapter.GenerateStrategy(context.Background(), "무인 카페 창업")
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, strategy.DefaultOpenAIModel, req.Model)
	assert.Contains(t, req.Input, "무인 카페 창업")
	require.Len(t, req.Tools, 1)
	assert.Equal(t, "web_search", req.Tools[0].Type)

	assert.Equal(t, "## 전략", result.Text)
	assert.Equal(t, []domain.SourceRef{
		{Title: "B", URI: "http://b"},
		{Title: "A", URI: "http://a"},
	}, result.Sources)
}

func TestOpenAIGeneratorDoesNotRetry(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error": {"message": "quota exceeded", "type": "insufficient_quota"}}`)
	}))
	t.Cleanup(srv.Close)

	gen := strategy.NewOpenAIGenerator(strategy.OpenAIConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL + "/v1/",
	})
	adapter := strategy.NewAdapter(gen, slog.New(slog.NewJSONHandler(io.Discard, nil)))

	_, err := adapter.GenerateStrategy(context.Background(), "비건 화장품")

	var genErr *strategy.GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.False(t, genErr.IsAuth())
	assert.Equal(t, int32(1), calls.Load())
}

func TestOpenAIGeneratorWithoutAPIKey(t *testing.T) {
	gen := strategy.NewOpenAIGenerator(strategy.OpenAIConfig{})

	_, err := gen.Generate(context.Background(), "prompt")
	require.ErrorIs(t, err, strategy.ErrMissingAPIKey)
}
