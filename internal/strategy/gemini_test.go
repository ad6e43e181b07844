package strategy_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"snsbuilder/internal/domain"
	"snsbuilder/internal/strategy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type geminiRequest struct {
	Contents []struct {
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"contents"`
	Tools []struct {
		GoogleSearch *json.RawMessage `json:"googleSearch"`
	} `json:"tools"`
}

const groundedGeminiResponse = `{
  "candidates": [{
    "content": {"role": "model", "parts": [{"text": "## 고객 고민\n- 가격"}]},
    "groundingMetadata": {
      "webSearchQueries": ["퍼스널 트레이닝 고민"],
      "groundingChunks": [
        {"web": {"title": "A", "uri": "http://a"}},
        {"web": {"title": "", "uri": "http://b"}}
      ]
    }
  }]
}`

func newGeminiServer(t *testing.T, status int, body string, calls *atomic.Int32, lastReq *geminiRequest) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)

		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/models/"+strategy.DefaultGeminiModel+":generateContent"),
			"unexpected path %q", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		if lastReq != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(lastReq))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	return srv
}

func TestGeminiGeneratorSendsGroundedPrompt(t *testing.T) {
	var calls atomic.Int32
	var req geminiRequest
	srv := newGeminiServer(t, http.StatusOK, groundedGeminiResponse, &calls, &req)

	gen, err := strategy.NewGeminiGenerator(context.Background(), strategy.GeminiConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
	})
	require.NoError(t, err)

	adapter := strategy.NewAdapter(gen, slog.New(slog.NewJSONHandler(io.Discard, nil)))

	result, err := adapter.GenerateStrategy(context.Background(), "퍼스널 트레이닝")
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load())
	require.Len(t, req.Contents, 1)
	require.Len(t, req.Contents[0].Parts, 1)
	assert.Contains(t, req.Contents[0].Parts[0].Text, `"퍼스널 트레이닝"`)
	require.Len(t, req.Tools, 1)
	assert.NotNil(t, req.Tools[0].GoogleSearch)

	assert.Equal(t, "## 고객 고민\n- 가격", result.Text)
	assert.Equal(t, []domain.SourceRef{{Title: "A", URI: "http://a"}}, result.Sources)
	assert.Equal(t, []string{"퍼스널 트레이닝 고민"}, result.SearchQueries)
}

func TestGeminiGeneratorEmptyCandidatesFallsBack(t *testing.T) {
	var calls atomic.Int32
	srv := newGeminiServer(t, http.StatusOK, `{"candidates": []}`, &calls, nil)

	gen, err := strategy.NewGeminiGenerator(context.Background(), strategy.GeminiConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
	})
	require.NoError(t, err)

	adapter := strategy.NewAdapter(gen, slog.New(slog.NewJSONHandler(io.Discard, nil)))

	result, err := adapter.GenerateStrategy(context.Background(), "무인 카페 창업")
	require.NoError(t, err)

	assert.Equal(t, strategy.FallbackText, result.Text)
	assert.Empty(t, result.Sources)
}

func TestGeminiGeneratorServiceErrorIsGenerationError(t *testing.T) {
	var calls atomic.Int32
	body := `{"error": {"code": 401, "message": "API key not valid", "status": "UNAUTHENTICATED"}}`
	srv := newGeminiServer(t, http.StatusUnauthorized, body, &calls, nil)

	gen, err := strategy.NewGeminiGenerator(context.Background(), strategy.GeminiConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
	})
	require.NoError(t, err)

	adapter := strategy.NewAdapter(gen, slog.New(slog.NewJSONHandler(io.Discard, nil)))

	_, err = adapter.GenerateStrategy(context.Background(), "비건 화장품")

	var genErr *strategy.GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.True(t, genErr.IsAuth())
	assert.Equal(t, int32(1), calls.Load())
}

func TestGeminiGeneratorWithoutAPIKeyFailsOnFirstCall(t *testing.T) {
	gen, err := strategy.NewGeminiGenerator(context.Background(), strategy.GeminiConfig{APIKey: "  "})
	require.NoError(t, err)

	adapter := strategy.NewAdapter(gen, slog.New(slog.NewJSONHandler(io.Discard, nil)))

	_, err = adapter.GenerateStrategy(context.Background(), "퍼스널 트레이닝")

	var genErr *strategy.GenerationError
	require.ErrorAs(t, err, &genErr)
	require.ErrorIs(t, err, strategy.ErrMissingAPIKey)
	assert.True(t, genErr.IsAuth())
}
