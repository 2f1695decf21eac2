package rag

import "time"

// ChunkMetadata identifies where a chunk came from. A typed struct rather
// than a free-form map so key drift is caught at compile time.
type ChunkMetadata struct {
	Source     string `json:"source"`
	Page       int    `json:"page"`
	ChunkIndex int    `json:"chunk"`
}

// Chunk is the atomic retrieval unit: a bounded slice of page text plus
// its provenance. Embedding is attached by the Ingestor before storage
// and is nil until then.
type Chunk struct {
	Content   string
	Metadata  ChunkMetadata
	Embedding []float32
}

// Candidate is a Chunk returned from similarity search, annotated with
// the cosine-derived similarity and, after re-ranking, a rerank score.
// Candidates live only for the duration of one query.
type Candidate struct {
	Chunk
	Similarity  float64
	RerankScore float64
}

// DocumentStatus tracks a document through the ingestion state machine.
type DocumentStatus string

const (
	StatusLoading   DocumentStatus = "loading"
	StatusChunking  DocumentStatus = "chunking"
	StatusEmbedding DocumentStatus = "embedding"
	StatusStoring   DocumentStatus = "storing"
	StatusDone      DocumentStatus = "done"
	StatusFailed    DocumentStatus = "failed"
)

// DocumentReport records the terminal state of one document's ingestion.
// Err is non-nil only when Status is StatusFailed.
type DocumentReport struct {
	Source       string
	Status       DocumentStatus
	Pages        int
	ChunksStored int
	Err          error
}

// Report summarizes one ingestion run. Failures are recorded per
// document instead of only logged, so callers can observe them.
type Report struct {
	RunID     string
	Documents []DocumentReport
	Duration  time.Duration
}

// Done returns the number of documents that completed ingestion.
func (r *Report) Done() int {
	return r.countStatus(StatusDone)
}

// Failed returns the number of documents whose ingestion failed.
func (r *Report) Failed() int {
	return r.countStatus(StatusFailed)
}

// ChunksStored returns the total number of chunks stored across the run.
func (r *Report) ChunksStored() int {
	total := 0
	for _, d := range r.Documents {
		total += d.ChunksStored
	}
	return total
}

func (r *Report) countStatus(s DocumentStatus) int {
	n := 0
	for _, d := range r.Documents {
		if d.Status == s {
			n++
		}
	}
	return n
}
