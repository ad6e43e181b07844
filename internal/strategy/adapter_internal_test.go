package strategy

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"snsbuilder/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type stubGenerator struct {
	mu      sync.Mutex
	calls   int
	prompts []string
	resp    *Response
	err     error
}

func (s *stubGenerator) Generate(_ context.Context, prompt string) (*Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.prompts = append(s.prompts, prompt)

	return s.resp, s.err
}

func (s *stubGenerator) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.calls
}

func newTestAdapter(gen Generator) *Adapter {
	return NewAdapter(gen, slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func TestAdapterRejectsBlankTopic(t *testing.T) {
	stub := &stubGenerator{resp: &Response{Text: "unused"}}
	adapter := newTestAdapter(stub)

	for _, topic := range []string{"", "   ", "\t\n"} {
		_, err := adapter.GenerateStrategy(context.Background(), topic)
		require.ErrorIs(t, err, ErrEmptyTopic)
	}

	assert.Equal(t, 0, stub.callCount())
}

func TestAdapterEmbedsTopicVerbatimInSingleCall(t *testing.T) {
	stub := &stubGenerator{resp: &Response{Text: "# 전략"}}
	adapter := newTestAdapter(stub)

	topic := "  퍼스널 트레이닝 \"1:1\"  "
	_, err := adapter.GenerateStrategy(context.Background(), topic)
	require.NoError(t, err)

	require.Equal(t, 1, stub.callCount())
	assert.Contains(t, stub.prompts[0], topic)
	assert.Equal(t, BuildPrompt(topic), stub.prompts[0])
}

func TestAdapterKeepsTextExactly(t *testing.T) {
	text := "  ## 고객 고민\n\n- **가격**이 부담된다\n"
	stub := &stubGenerator{resp: &Response{Text: text}}

	result, err := newTestAdapter(stub).GenerateStrategy(context.Background(), "무인 카페 창업")
	require.NoError(t, err)

	assert.Equal(t, text, result.Text)
}

func TestAdapterUsesFallbackForEmptyText(t *testing.T) {
	cases := map[string]*Response{
		"empty text":   {Text: ""},
		"nil response": nil,
	}

	for name, resp := range cases {
		t.Run(name, func(t *testing.T) {
			stub := &stubGenerator{resp: resp}

			result, err := newTestAdapter(stub).GenerateStrategy(context.Background(), "비건 화장품")
			require.NoError(t, err)

			assert.Equal(t, FallbackText, result.Text)
			assert.NotNil(t, result.Sources)
			assert.Empty(t, result.Sources)
		})
	}
}

func TestAdapterDropsIncompleteSourcesAndKeepsOrder(t *testing.T) {
	stub := &stubGenerator{resp: &Response{
		Text: "ok",
		Chunks: []Chunk{
			{Web: &WebChunk{Title: "A", URI: "http://a"}},
			{Web: &WebChunk{Title: "", URI: "http://b"}},
			{Web: nil},
			{Web: &WebChunk{Title: "C", URI: ""}},
			{Web: &WebChunk{Title: "D", URI: "http://d"}},
			{Web: &WebChunk{Title: "A", URI: "http://a"}},
		},
		SearchQueries: []string{"퍼스널 트레이닝 후기"},
	}}

	result, err := newTestAdapter(stub).GenerateStrategy(context.Background(), "퍼스널 트레이닝")
	require.NoError(t, err)

	assert.Equal(t, []domain.SourceRef{
		{Title: "A", URI: "http://a"},
		{Title: "D", URI: "http://d"},
		{Title: "A", URI: "http://a"},
	}, result.Sources)
	assert.Equal(t, []string{"퍼스널 트레이닝 후기"}, result.SearchQueries)
}

func TestAdapterWrapsGeneratorError(t *testing.T) {
	cause := errors.New("connection reset by peer")
	stub := &stubGenerator{err: cause}

	result, err := newTestAdapter(stub).GenerateStrategy(context.Background(), "퍼스널 트레이닝")
	require.Error(t, err)

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.ErrorIs(t, err, cause)
	assert.False(t, genErr.IsAuth())
	assert.Equal(t, domain.StrategyResult{}, result)
	assert.Equal(t, 1, stub.callCount())
}

func TestGenerationErrorIsAuth(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"missing key", ErrMissingAPIKey, true},
		{"genai unauthorized", genai.APIError{Code: 401}, true},
		{"genai forbidden", genai.APIError{Code: 403}, true},
		{"genai quota", genai.APIError{Code: 429}, false},
		{"plain", errors.New("boom"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			genErr := &GenerationError{Err: tc.err}
			assert.Equal(t, tc.want, genErr.IsAuth())
		})
	}
}
