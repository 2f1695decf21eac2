package testutil

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/sahayak-ai/sahayak/internal/rag"
)

// MemoryIndex is an in-memory rag.VectorIndex using exact cosine
// similarity. It records the arguments of the last search so tests can
// assert on the result cap and threshold actually requested.
type MemoryIndex struct {
	// InsertErr and SearchErr, when set, are returned from the
	// corresponding call.
	InsertErr error
	SearchErr error

	mu             sync.Mutex
	chunks         []rag.Chunk
	lastMaxResults int
	lastThreshold  float64
}

// NewMemoryIndex creates an empty MemoryIndex.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{}
}

// InsertBatch appends the chunks.
func (m *MemoryIndex) InsertBatch(ctx context.Context, chunks []rag.Chunk) error {
	if m.InsertErr != nil {
		return m.InsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chunks = append(m.chunks, chunks...)
	return nil
}

// Search returns stored chunks with cosine similarity of at least
// threshold, ordered descending, capped at maxResults.
func (m *MemoryIndex) Search(ctx context.Context, embedding []float32, threshold float64, maxResults int) ([]rag.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastMaxResults = maxResults
	m.lastThreshold = threshold
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}

	var candidates []rag.Candidate
	for _, c := range m.chunks {
		sim := cosine(embedding, c.Embedding)
		if sim >= threshold {
			candidates = append(candidates, rag.Candidate{Chunk: c, Similarity: sim})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Similarity > candidates[j].Similarity
	})
	if len(candidates) > maxResults {
		candidates = candidates[:maxResults]
	}
	return candidates, nil
}

// Len reports the number of stored chunks.
func (m *MemoryIndex) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.chunks)
}

// LastMaxResults reports the maxResults of the most recent search.
func (m *MemoryIndex) LastMaxResults() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastMaxResults
}

// LastThreshold reports the threshold of the most recent search.
func (m *MemoryIndex) LastThreshold() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastThreshold
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
