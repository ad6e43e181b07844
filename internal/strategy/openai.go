package strategy

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
)

const (
	DefaultOpenAIModel = openai.ChatModelGPT5Mini

	outputTypeMessage      = "message"
	contentTypeOutputText  = "output_text"
	annotationTypeCitation = "url_citation"
)

type OpenAIConfig struct {
	APIKey string
	Model  string
	// BaseURL overrides the OpenAI API endpoint. Empty means the default.
	BaseURL string
}

// OpenAIGenerator calls OpenAI's Responses API with the web search tool.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

// NewOpenAIGenerator builds a generator. Like the Gemini one, it defers a
// missing API key to the first Generate call.
func NewOpenAIGenerator(cfg OpenAIConfig) *OpenAIGenerator {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultOpenAIModel
	}

	g := &OpenAIGenerator{model: model}

	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return g
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	client := openai.NewClient(opts...)
	g.client = &client

	return g
}

func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (*Response, error) {
	if g.client == nil {
		return nil, fmt.Errorf("openai: %w", ErrMissingAPIKey)
	}

	resp, err := g.client.Responses.New(ctx, responses.ResponseNewParams{
		Model: g.model,
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(prompt),
		},
		Tools: []responses.ToolUnionParam{
			{OfWebSearch: &responses.WebSearchToolParam{
				Type: responses.WebSearchToolTypeWebSearch,
			}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}

	return fromOpenAI(resp), nil
}

func fromOpenAI(resp *responses.Response) *Response {
	if resp == nil {
		return &Response{}
	}

	out := &Response{Text: resp.OutputText()}

	for _, item := range resp.Output {
		if item.Type != outputTypeMessage {
			continue
		}

		for _, content := range item.Content {
			if content.Type != contentTypeOutputText {
				continue
			}

			for _, annotation := range content.Annotations {
				if annotation.Type != annotationTypeCitation {
					continue
				}

				out.Chunks = append(out.Chunks, Chunk{Web: &WebChunk{
					Title: annotation.Title,
					URI:   annotation.URL,
				}})
			}
		}
	}

	return out
}
