package strategy

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-3-flash-preview"

type GeminiConfig struct {
	APIKey string
	Model  string
	// BaseURL overrides the Gemini API endpoint. Empty means the default.
	BaseURL string
}

// GeminiGenerator calls Gemini with Google Search grounding enabled.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator builds a generator. A missing API key is not an error
// here: every Generate call reports ErrMissingAPIKey instead.
func NewGeminiGenerator(ctx context.Context, cfg GeminiConfig) (*GeminiGenerator, error) {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultGeminiModel
	}

	g := &GeminiGenerator{model: model}

	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return g, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: cfg.BaseURL,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	g.client = client

	return g, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (*Response, error) {
	if g.client == nil {
		return nil, fmt.Errorf("gemini: %w", ErrMissingAPIKey)
	}

	resp, err := g.client.Models.GenerateContent(
		ctx,
		g.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	return fromGenAI(resp), nil
}

func fromGenAI(resp *genai.GenerateContentResponse) *Response {
	if resp == nil {
		return &Response{}
	}

	out := &Response{Text: resp.Text()}

	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return out
	}

	metadata := resp.Candidates[0].GroundingMetadata
	if metadata == nil {
		return out
	}

	out.SearchQueries = metadata.WebSearchQueries
	out.Chunks = make([]Chunk, 0, len(metadata.GroundingChunks))

	for _, chunk := range metadata.GroundingChunks {
		if chunk == nil {
			continue
		}

		var web *WebChunk
		if chunk.Web != nil {
			web = &WebChunk{
				Title: chunk.Web.Title,
				URI:   chunk.Web.URI,
			}
		}
		out.Chunks = append(out.Chunks, Chunk{Web: web})
	}

	return out
}
