package strategy

import (
	"context"
)

// WebChunk is the web reference a grounding chunk may carry.
type WebChunk struct {
	Title string
	URI   string
}

// Chunk is one unit of grounding metadata. Web is nil for non-web chunks.
type Chunk struct {
	Web *WebChunk
}

// Response is a provider answer before normalization. Every field may be
// empty; the adapter decides what the shell sees.
type Response struct {
	Text          string
	Chunks        []Chunk
	SearchQueries []string
}

// Generator sends a single grounded prompt to a generative text service.
type Generator interface {
	Generate(ctx context.Context, prompt string) (*Response, error)
}
