// Package vectorstore is the PostgreSQL + pgvector adapter behind the
// rag.VectorIndex contract.
package vectorstore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/sahayak-ai/sahayak/internal/rag"
)

// DB is the subset of pgxpool.Pool the store needs. Both *pgxpool.Pool
// and pgx.Tx satisfy it.
type DB interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

const insertChunkSQL = `INSERT INTO documents (content, source, page, chunk_index, embedding)
	VALUES ($1, $2, $3, $4, $5)`

const searchChunksSQL = `SELECT content, source, page, chunk_index, 1 - (embedding <=> $1) AS similarity
	FROM documents
	WHERE 1 - (embedding <=> $1) >= $2
	ORDER BY embedding <=> $1
	LIMIT $3`

// Store implements rag.VectorIndex on a documents table with a
// vector(768) embedding column.
//
// Store is safe for concurrent use by multiple goroutines.
type Store struct {
	db     DB
	logger *slog.Logger
}

// New creates a Store.
func New(db DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger}
}

// InsertBatch stores the chunks in one pipelined batch. Inserts are
// additive only; callers bound the batch size.
func (s *Store) InsertBatch(ctx context.Context, chunks []rag.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	b := &pgx.Batch{}
	for _, c := range chunks {
		b.Queue(insertChunkSQL,
			c.Content,
			c.Metadata.Source,
			c.Metadata.Page,
			c.Metadata.ChunkIndex,
			pgvector.NewVector(c.Embedding),
		)
	}

	results := s.db.SendBatch(ctx, b)
	defer func() {
		_ = results.Close()
	}()
	for i := range chunks {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("inserting chunk %d of %d: %w", i+1, len(chunks), err)
		}
	}

	s.logger.Debug("inserted chunk batch", "rows", len(chunks))
	return nil
}

// Search returns chunks whose cosine similarity to embedding is at
// least threshold, ordered by similarity descending and capped at
// maxResults.
func (s *Store) Search(ctx context.Context, embedding []float32, threshold float64, maxResults int) ([]rag.Candidate, error) {
	if maxResults <= 0 {
		return nil, nil
	}

	rows, err := s.db.Query(ctx, searchChunksSQL, pgvector.NewVector(embedding), threshold, maxResults)
	if err != nil {
		return nil, fmt.Errorf("searching documents: %w", err)
	}
	defer rows.Close()

	var candidates []rag.Candidate
	for rows.Next() {
		var c rag.Candidate
		if err := rows.Scan(&c.Content, &c.Metadata.Source, &c.Metadata.Page, &c.Metadata.ChunkIndex, &c.Similarity); err != nil {
			return nil, fmt.Errorf("scanning search row: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading search rows: %w", err)
	}
	return candidates, nil
}
