package rag

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"
)

// Reranker scores retrieval candidates against the query with a
// PairScorer and re-sorts them by rerank score descending.
//
// The scorer is CPU-bound local inference, so scoring runs on a bounded
// worker pool sized to the available cores instead of on the request
// goroutine. This is a resource-isolation requirement: unbounded
// concurrent scoring would starve every other in-flight request.
type Reranker struct {
	scorer   PairScorer
	requests chan scoreRequest
	wg       sync.WaitGroup
	logger   *slog.Logger

	closeOnce sync.Once
}

type scoreRequest struct {
	query  string
	texts  []string
	result chan scoreResult
}

type scoreResult struct {
	scores []float64
	err    error
}

// NewReranker creates a Reranker with the given number of scoring
// workers. workers <= 0 uses GOMAXPROCS.
func NewReranker(scorer PairScorer, workers int, logger *slog.Logger) *Reranker {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if logger == nil {
		logger = slog.Default()
	}

	r := &Reranker{
		scorer:   scorer,
		requests: make(chan scoreRequest),
		logger:   logger,
	}
	r.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go r.worker()
	}
	return r
}

func (r *Reranker) worker() {
	defer r.wg.Done()
	for req := range r.requests {
		scores, err := r.scorer.ScorePairs(req.query, req.texts)
		req.result <- scoreResult{scores: scores, err: err}
	}
}

// Rerank scores every candidate's content against the query and returns
// a new slice sorted by rerank score descending. Missing content is
// scored as an empty string. A scoring failure is propagated: skipping
// re-ranking would silently return unranked, potentially low-quality
// context.
func (r *Reranker) Rerank(ctx context.Context, query string, candidates []Candidate) ([]Candidate, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = c.Content
	}

	req := scoreRequest{query: query, texts: texts, result: make(chan scoreResult, 1)}
	select {
	case r.requests <- req:
	case <-ctx.Done():
		return nil, fmt.Errorf("submitting rerank request: %w", ctx.Err())
	}

	var res scoreResult
	select {
	case res = <-req.result:
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for rerank scores: %w", ctx.Err())
	}
	if res.err != nil {
		return nil, fmt.Errorf("scoring %d candidates: %w", len(candidates), res.err)
	}
	if len(res.scores) != len(candidates) {
		return nil, fmt.Errorf("score count mismatch: got %d scores for %d candidates", len(res.scores), len(candidates))
	}

	ranked := make([]Candidate, len(candidates))
	copy(ranked, candidates)
	for i := range ranked {
		ranked[i].RerankScore = res.scores[i]
	}
	// Stable: ties keep the scorer's input order, so output is
	// deterministic for identical inputs.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RerankScore > ranked[j].RerankScore
	})

	r.logger.Debug("reranked candidates", "count", len(ranked))
	return ranked, nil
}

// Close shuts the worker pool down and waits for in-flight scoring to
// finish. Rerank must not be called after Close.
func (r *Reranker) Close() {
	r.closeOnce.Do(func() {
		close(r.requests)
	})
	r.wg.Wait()
}
