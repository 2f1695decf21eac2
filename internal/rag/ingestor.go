package rag

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/sahayak-ai/sahayak/internal/parser"
)

// ingestLockName is the lock file guarding a corpus directory against
// concurrent ingestion runs.
const ingestLockName = ".sahayak-ingest.lock"

// Ingestor drives documents through the ingestion state machine:
//
//	Loading → Chunking → Embedding → Storing → Done
//
// with Failed terminal from Loading, Chunking, or Embedding. Documents
// are processed independently: one failure never aborts the run.
type Ingestor struct {
	parsers   *parser.Registry
	chunker   *Chunker
	embedder  Embedder
	index     VectorIndex
	batchSize int
	logger    *slog.Logger
}

// NewIngestor creates an Ingestor. batchSize bounds the row count of
// each index insert; batchSize <= 0 defaults to 100.
func NewIngestor(parsers *parser.Registry, chunker *Chunker, embedder Embedder, index VectorIndex, batchSize int, logger *slog.Logger) *Ingestor {
	if batchSize <= 0 {
		batchSize = 100
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingestor{
		parsers:   parsers,
		chunker:   chunker,
		embedder:  embedder,
		index:     index,
		batchSize: batchSize,
		logger:    logger,
	}
}

// IngestDirectory ingests every supported document under dir and
// returns a per-document report. The directory is locked for the
// duration of the run so two processes cannot ingest the same corpus
// concurrently.
func (ing *Ingestor) IngestDirectory(ctx context.Context, dir string) (*Report, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving corpus directory: %w", err)
	}

	lock := flock.New(filepath.Join(absDir, ingestLockName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("locking corpus directory: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another ingestion run holds the lock for %s", absDir)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			ing.logger.Warn("failed to release ingest lock", "error", err)
		}
	}()

	// os.Root confines reads to the corpus directory: symlinks cannot
	// escape it.
	root, err := os.OpenRoot(absDir)
	if err != nil {
		return nil, fmt.Errorf("opening corpus directory: %w", err)
	}
	defer func() {
		_ = root.Close()
	}()

	start := time.Now()
	report := &Report{RunID: uuid.NewString()}
	logger := ing.logger.With("run_id", report.RunID)
	logger.Info("ingestion run started", "dir", absDir)

	err = filepath.Walk(absDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			logger.Warn("skipping unreadable path", "path", path, "error", err)
			return nil
		}
		if info.IsDir() {
			return nil
		}
		name := filepath.Base(path)
		if !ing.parsers.Supported(name) {
			return nil
		}

		relPath, err := filepath.Rel(absDir, path)
		if err != nil {
			return nil
		}
		data, err := root.ReadFile(relPath)
		if err != nil {
			report.Documents = append(report.Documents, DocumentReport{
				Source: name,
				Status: StatusFailed,
				Err:    fmt.Errorf("reading document: %w", err),
			})
			return nil
		}

		report.Documents = append(report.Documents, ing.IngestDocument(ctx, name, data))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking corpus directory: %w", err)
	}

	report.Duration = time.Since(start)
	logger.Info("ingestion run finished",
		"documents", len(report.Documents),
		"done", report.Done(),
		"failed", report.Failed(),
		"chunks_stored", report.ChunksStored(),
		"duration", report.Duration,
	)
	return report, nil
}

// IngestDocument runs one document through the state machine and
// returns its terminal report. A parse, chunk, or embedding error marks
// the document Failed without storing anything; insert-batch errors are
// logged and cost only that batch's rows.
func (ing *Ingestor) IngestDocument(ctx context.Context, name string, data []byte) DocumentReport {
	rep := DocumentReport{Source: name, Status: StatusLoading}
	logger := ing.logger.With("source", name)

	pages, err := ing.parsers.Parse(name, data)
	if err != nil {
		return ing.fail(rep, logger, fmt.Errorf("parsing document: %w", err))
	}
	rep.Pages = len(pages)

	rep.Status = StatusChunking
	var chunks []Chunk
	for _, page := range pages {
		for i, content := range ing.chunker.Split(page.Text) {
			chunks = append(chunks, Chunk{
				Content: content,
				Metadata: ChunkMetadata{
					Source:     name,
					Page:       page.Number,
					ChunkIndex: i,
				},
			})
		}
	}
	if len(chunks) == 0 {
		// No text is not a failure; there is simply nothing to store.
		logger.Info("document has no text, nothing stored")
		rep.Status = StatusDone
		return rep
	}

	// One batched call for the whole document bounds provider overhead.
	// On failure nothing is stored: no partial embeddings.
	rep.Status = StatusEmbedding
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}
	vectors, err := ing.embedder.Embed(ctx, texts)
	if err != nil {
		return ing.fail(rep, logger, fmt.Errorf("embedding %d chunks: %w", len(chunks), err))
	}
	if len(vectors) != len(chunks) {
		return ing.fail(rep, logger, fmt.Errorf("embedding count mismatch: got %d vectors for %d chunks", len(vectors), len(chunks)))
	}
	for i := range chunks {
		chunks[i].Embedding = vectors[i]
	}

	rep.Status = StatusStoring
	for start := 0; start < len(chunks); start += ing.batchSize {
		end := start + ing.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		if err := ing.index.InsertBatch(ctx, chunks[start:end]); err != nil {
			// Batch-scoped: these rows are not stored, the rest of the
			// document still is.
			logger.Error("insert batch failed, rows not stored",
				"rows", end-start, "offset", start, "error", err)
			continue
		}
		rep.ChunksStored += end - start
	}

	rep.Status = StatusDone
	logger.Info("document ingested", "pages", rep.Pages, "chunks_stored", rep.ChunksStored)
	return rep
}

func (ing *Ingestor) fail(rep DocumentReport, logger *slog.Logger, err error) DocumentReport {
	logger.Error("document ingestion failed", "stage", string(rep.Status), "error", err)
	rep.Status = StatusFailed
	rep.Err = err
	return rep
}
