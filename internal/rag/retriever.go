package rag

import (
	"context"
	"log/slog"
)

// Retriever embeds a query and fetches similarity-ranked candidates
// from the vector index.
type Retriever struct {
	embedder Embedder
	index    VectorIndex
	logger   *slog.Logger
}

// NewRetriever creates a Retriever.
func NewRetriever(embedder Embedder, index VectorIndex, logger *slog.Logger) *Retriever {
	if logger == nil {
		logger = slog.Default()
	}
	return &Retriever{embedder: embedder, index: index, logger: logger}
}

// Retrieve returns up to maxResults candidates whose similarity to the
// query is at least threshold, ordered by similarity descending.
//
// Retrieval failure degrades to "no context found": an embedding or
// search error (including timeouts) returns an empty slice rather than
// propagating, so the query can still be answered with the
// no-information sentinel instead of failing outright.
func (r *Retriever) Retrieve(ctx context.Context, query string, threshold float64, maxResults int) []Candidate {
	if query == "" || maxResults <= 0 {
		return nil
	}

	embedding, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		r.logger.Warn("query embedding failed, degrading to empty candidates", "error", err)
		return nil
	}

	searchCtx, cancel := context.WithTimeout(ctx, SearchTimeout)
	defer cancel()

	candidates, err := r.index.Search(searchCtx, embedding, threshold, maxResults)
	if err != nil {
		r.logger.Warn("vector search failed, degrading to empty candidates", "error", err)
		return nil
	}
	// The cap holds even against a misbehaving index.
	if len(candidates) > maxResults {
		candidates = candidates[:maxResults]
	}

	r.logger.Debug("retrieved candidates", "count", len(candidates), "threshold", threshold)
	return candidates
}
