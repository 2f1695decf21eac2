package rag_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sahayak-ai/sahayak/internal/log"
	"github.com/sahayak-ai/sahayak/internal/rag"
	"github.com/sahayak-ai/sahayak/internal/testutil"
)

func insertTexts(t *testing.T, embedder *testutil.MockEmbedder, index *testutil.MemoryIndex, texts ...string) {
	t.Helper()
	vectors, err := embedder.Embed(context.Background(), texts)
	if err != nil {
		t.Fatalf("embedding fixtures: %v", err)
	}
	chunks := make([]rag.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = rag.Chunk{Content: text, Embedding: vectors[i]}
	}
	if err := index.InsertBatch(context.Background(), chunks); err != nil {
		t.Fatalf("inserting fixtures: %v", err)
	}
}

func TestRetrieveReturnsSimilarChunks(t *testing.T) {
	embedder := testutil.NewMockEmbedder(64)
	index := testutil.NewMemoryIndex()
	insertTexts(t, embedder, index,
		"the gram sabha meeting is scheduled for march 31",
		"library opening hours are nine to five",
	)

	r := rag.NewRetriever(embedder, index, log.NewNop())
	candidates := r.Retrieve(context.Background(), "when is the gram sabha meeting", 0.1, 10)

	if len(candidates) == 0 {
		t.Fatal("Retrieve returned no candidates")
	}
	if got := candidates[0].Content; got != "the gram sabha meeting is scheduled for march 31" {
		t.Errorf("top candidate = %q, want the meeting chunk", got)
	}
	for i := 1; i < len(candidates); i++ {
		if candidates[i].Similarity > candidates[i-1].Similarity {
			t.Errorf("candidates not ordered by similarity at %d", i)
		}
	}
}

func TestRetrieveCapsResults(t *testing.T) {
	embedder := testutil.NewMockEmbedder(64)
	index := testutil.NewMemoryIndex()

	texts := make([]string, 30)
	for i := range texts {
		texts[i] = fmt.Sprintf("gram panchayat notice number %d", i)
	}
	insertTexts(t, embedder, index, texts...)

	r := rag.NewRetriever(embedder, index, log.NewNop())
	candidates := r.Retrieve(context.Background(), "gram panchayat notice", 0.0, 20)

	if len(candidates) > 20 {
		t.Errorf("Retrieve returned %d candidates, cap is 20", len(candidates))
	}
	if got := index.LastMaxResults(); got != 20 {
		t.Errorf("search received maxResults %d, want 20", got)
	}
}

func TestRetrieveAppliesThreshold(t *testing.T) {
	embedder := testutil.NewMockEmbedder(64)
	index := testutil.NewMemoryIndex()
	insertTexts(t, embedder, index,
		"the gram sabha meeting is scheduled for march 31",
		"completely unrelated zebra migration patterns",
	)

	r := rag.NewRetriever(embedder, index, log.NewNop())
	candidates := r.Retrieve(context.Background(), "gram sabha meeting schedule", 0.3, 10)

	for _, c := range candidates {
		if c.Similarity < 0.3 {
			t.Errorf("candidate %q below threshold: %v", c.Content, c.Similarity)
		}
	}
	if got := index.LastThreshold(); got != 0.3 {
		t.Errorf("search received threshold %v, want 0.3", got)
	}
}

func TestRetrieveDegradesOnEmbedError(t *testing.T) {
	embedder := testutil.NewMockEmbedder(64)
	embedder.Err = errors.New("provider down")
	index := testutil.NewMemoryIndex()

	r := rag.NewRetriever(embedder, index, log.NewNop())
	if candidates := r.Retrieve(context.Background(), "q", 0.5, 10); candidates != nil {
		t.Errorf("Retrieve = %v, want nil on embed failure", candidates)
	}
}

func TestRetrieveDegradesOnSearchError(t *testing.T) {
	embedder := testutil.NewMockEmbedder(64)
	index := testutil.NewMemoryIndex()
	index.SearchErr = errors.New("connection refused")

	r := rag.NewRetriever(embedder, index, log.NewNop())
	if candidates := r.Retrieve(context.Background(), "q", 0.5, 10); candidates != nil {
		t.Errorf("Retrieve = %v, want nil on search failure", candidates)
	}
}

func TestRetrieveEmptyQuery(t *testing.T) {
	embedder := testutil.NewMockEmbedder(64)
	index := testutil.NewMemoryIndex()

	r := rag.NewRetriever(embedder, index, log.NewNop())
	if candidates := r.Retrieve(context.Background(), "", 0.5, 10); candidates != nil {
		t.Errorf("Retrieve(\"\") = %v, want nil", candidates)
	}
	if embedder.Calls() != 0 {
		t.Errorf("embedder called %d times for empty query, want 0", embedder.Calls())
	}
}
