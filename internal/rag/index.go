package rag

import "context"

// VectorIndex is the external store of embedded chunks. Defined here,
// by the consumer, so the pipeline depends on the contract rather than
// on a concrete store (the production adapter lives in
// internal/vectorstore; tests use an in-memory fake).
//
// The index is append-only from this pipeline's perspective: chunks are
// written once and never mutated.
type VectorIndex interface {
	// InsertBatch stores the given chunks, each carrying its embedding.
	// Inserts are additive; there are no upsert semantics.
	InsertBatch(ctx context.Context, chunks []Chunk) error

	// Search returns chunks whose cosine similarity to embedding is at
	// least threshold, ordered by similarity descending and capped at
	// maxResults. An empty result is not an error.
	Search(ctx context.Context, embedding []float32, threshold float64, maxResults int) ([]Candidate, error)
}
