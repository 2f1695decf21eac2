package config

import (
	"errors"
	"fmt"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrInvalidModelName indicates an empty model name.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidChunkSize indicates a non-positive chunk size.
	ErrInvalidChunkSize = errors.New("invalid chunk size")

	// ErrInvalidChunkOverlap indicates an overlap that is negative or
	// not smaller than the chunk size.
	ErrInvalidChunkOverlap = errors.New("invalid chunk overlap")

	// ErrInvalidThreshold indicates a similarity threshold outside [0, 1).
	ErrInvalidThreshold = errors.New("invalid similarity threshold")

	// ErrInvalidMaxCandidates indicates a non-positive candidate cap.
	ErrInvalidMaxCandidates = errors.New("invalid max candidates")

	// ErrInvalidRerankTopK indicates a rerank top-k that is not positive
	// or exceeds max candidates.
	ErrInvalidRerankTopK = errors.New("invalid rerank top-k")

	// ErrInvalidBatchSize indicates a non-positive insert batch size.
	ErrInvalidBatchSize = errors.New("invalid insert batch size")

	// ErrInvalidPostgresHost indicates an empty PostgreSQL host.
	ErrInvalidPostgresHost = errors.New("invalid PostgreSQL host")

	// ErrInvalidPostgresPort indicates a PostgreSQL port out of range.
	ErrInvalidPostgresPort = errors.New("invalid PostgreSQL port")

	// ErrInvalidPostgresDBName indicates an empty database name.
	ErrInvalidPostgresDBName = errors.New("invalid PostgreSQL database name")
)

// Validate checks the configuration ranges and returns the first
// violation wrapped around its sentinel error.
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}
	if c.ModelName == "" {
		return fmt.Errorf("%w: model name must not be empty", ErrInvalidModelName)
	}
	if c.EmbedderModel == "" {
		return fmt.Errorf("%w: embedder model must not be empty", ErrInvalidModelName)
	}

	r := c.Retrieval
	if r.ChunkSize <= 0 {
		return fmt.Errorf("%w: %d must be positive", ErrInvalidChunkSize, r.ChunkSize)
	}
	if r.ChunkOverlap < 0 || r.ChunkOverlap >= r.ChunkSize {
		return fmt.Errorf("%w: %d must be in [0, chunk_size)", ErrInvalidChunkOverlap, r.ChunkOverlap)
	}
	if r.SimilarityThreshold < 0 || r.SimilarityThreshold >= 1 {
		return fmt.Errorf("%w: %v must be in [0, 1)", ErrInvalidThreshold, r.SimilarityThreshold)
	}
	if r.MaxCandidates <= 0 {
		return fmt.Errorf("%w: %d must be positive", ErrInvalidMaxCandidates, r.MaxCandidates)
	}
	if r.RerankTopK <= 0 || r.RerankTopK > r.MaxCandidates {
		return fmt.Errorf("%w: %d must be in [1, max_candidates]", ErrInvalidRerankTopK, r.RerankTopK)
	}
	if r.InsertBatchSize <= 0 {
		return fmt.Errorf("%w: %d must be positive", ErrInvalidBatchSize, r.InsertBatchSize)
	}

	if c.PostgresHost == "" {
		return fmt.Errorf("%w: host must not be empty", ErrInvalidPostgresHost)
	}
	if c.PostgresPort < 1 || c.PostgresPort > 65535 {
		return fmt.Errorf("%w: %d must be in [1, 65535]", ErrInvalidPostgresPort, c.PostgresPort)
	}
	if c.PostgresDBName == "" {
		return fmt.Errorf("%w: database name must not be empty", ErrInvalidPostgresDBName)
	}
	return nil
}
