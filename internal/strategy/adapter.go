package strategy

import (
	"context"
	"log/slog"
	"strings"

	"snsbuilder/internal/domain"
)

// FallbackText replaces an empty model answer so shells never render nothing.
const FallbackText = "결과를 생성할 수 없습니다."

// Adapter turns a topic into a normalized strategy result.
type Adapter struct {
	generator Generator
	log       *slog.Logger
}

func NewAdapter(generator Generator, log *slog.Logger) *Adapter {
	return &Adapter{
		generator: generator,
		log:       log,
	}
}

// GenerateStrategy issues exactly one generator call for a non-blank topic.
// Failures of that call are returned as *GenerationError.
func (a *Adapter) GenerateStrategy(
	ctx context.Context,
	topic string,
) (domain.StrategyResult, error) {
	if strings.TrimSpace(topic) == "" {
		return domain.StrategyResult{}, ErrEmptyTopic
	}

	resp, err := a.generator.Generate(ctx, BuildPrompt(topic))
	if err != nil {
		a.log.ErrorContext(ctx, "Failed to generate strategy",
			"error", err,
			"topicLen", len(topic))

		return domain.StrategyResult{}, &GenerationError{Err: err}
	}

	result := normalize(resp)

	a.log.InfoContext(ctx, "Strategy is generated",
		"textLen", len(result.Text),
		"sourcesCount", len(result.Sources),
		"searchQueriesCount", len(result.SearchQueries))

	return result, nil
}

func normalize(resp *Response) domain.StrategyResult {
	if resp == nil {
		return domain.StrategyResult{
			Text:    FallbackText,
			Sources: []domain.SourceRef{},
		}
	}

	text := resp.Text
	if text == "" {
		text = FallbackText
	}

	return domain.StrategyResult{
		Text:          text,
		Sources:       sourcesFromChunks(resp.Chunks),
		SearchQueries: resp.SearchQueries,
	}
}

func sourcesFromChunks(chunks []Chunk) []domain.SourceRef {
	sources := make([]domain.SourceRef, 0, len(chunks))

	for _, chunk := range chunks {
		if chunk.Web == nil || chunk.Web.Title == "" || chunk.Web.URI == "" {
			continue
		}

		sources = append(sources, domain.SourceRef{
			Title: chunk.Web.Title,
			URI:   chunk.Web.URI,
		})
	}

	return sources
}
