package rag

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/firebase/genkit/go/ai"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// Embedder maps text to fixed-dimension vectors. Embed is the batched
// form used during ingestion (one call per document's chunk set);
// EmbedQuery is the single-text convenience form used at query time.
// Both are order-preserving: one vector per input text, same order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// GeminiEmbedder implements Embedder on a Genkit ai.Embedder, pinning
// the output dimensionality to VectorDimension so vectors match the
// documents table schema. An optional rate limiter bounds calls to the
// provider; every call carries EmbedTimeout.
type GeminiEmbedder struct {
	embedder ai.Embedder
	limiter  *rate.Limiter
	logger   *slog.Logger
}

// NewGeminiEmbedder creates a GeminiEmbedder. limiter may be nil to
// disable provider-side rate limiting.
func NewGeminiEmbedder(embedder ai.Embedder, limiter *rate.Limiter, logger *slog.Logger) (*GeminiEmbedder, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GeminiEmbedder{embedder: embedder, limiter: limiter, logger: logger}, nil
}

// Embed embeds all texts in one provider call and returns the vectors
// in input order. The count is verified so a provider that drops an
// entry cannot silently misalign chunk embeddings.
func (e *GeminiEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for embedding rate limiter: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, EmbedTimeout)
	defer cancel()

	docs := make([]*ai.Document, len(texts))
	for i, t := range texts {
		docs[i] = ai.DocumentFromText(t, nil)
	}

	dim := VectorDimension
	resp, err := e.embedder.Embed(ctx, &ai.EmbedRequest{
		Input:   docs,
		Options: &genai.EmbedContentConfig{OutputDimensionality: &dim},
	})
	if err != nil {
		return nil, fmt.Errorf("embedding %d texts: %w", len(texts), err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: got %d vectors for %d texts", len(resp.Embeddings), len(texts))
	}

	vectors := make([][]float32, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		if len(emb.Embedding) == 0 {
			return nil, fmt.Errorf("empty embedding returned for text %d", i)
		}
		vectors[i] = emb.Embedding
	}

	e.logger.Debug("embedded texts", "count", len(texts))
	return vectors, nil
}

// EmbedQuery embeds a single query string.
func (e *GeminiEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}
