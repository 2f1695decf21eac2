package rag

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// PipelineConfig carries the retrieval knobs consumed by Query.
type PipelineConfig struct {
	// SimilarityThreshold is the minimum cosine similarity for a chunk
	// to be retrieved. A deployment tunable; observed useful range is
	// roughly 0.5–0.78 depending on the corpus.
	SimilarityThreshold float64

	// MaxCandidates caps how many chunks retrieval may return for
	// re-ranking.
	MaxCandidates int

	// RerankTopK is how many re-ranked chunks go into the context block.
	RerankTopK int
}

// Pipeline wires the ingestion and query stages together. It holds no
// mutable state of its own — all persisted state lives in the vector
// index — so concurrent queries and ingestions need no locking here.
type Pipeline struct {
	ingestor  *Ingestor
	retriever *Retriever
	reranker  *Reranker
	generator *AnswerGenerator
	cfg       PipelineConfig
	tracer    trace.Tracer
	logger    *slog.Logger
}

// NewPipeline creates a Pipeline from its stages.
func NewPipeline(ingestor *Ingestor, retriever *Retriever, reranker *Reranker, generator *AnswerGenerator, cfg PipelineConfig, logger *slog.Logger) (*Pipeline, error) {
	if ingestor == nil || retriever == nil || reranker == nil || generator == nil {
		return nil, fmt.Errorf("all pipeline stages are required")
	}
	if cfg.SimilarityThreshold < 0 || cfg.SimilarityThreshold >= 1 {
		return nil, fmt.Errorf("similarity threshold %v must be in [0, 1)", cfg.SimilarityThreshold)
	}
	if cfg.MaxCandidates <= 0 {
		return nil, fmt.Errorf("max candidates %d must be positive", cfg.MaxCandidates)
	}
	if cfg.RerankTopK <= 0 {
		return nil, fmt.Errorf("rerank top-k %d must be positive", cfg.RerankTopK)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		ingestor:  ingestor,
		retriever: retriever,
		reranker:  reranker,
		generator: generator,
		cfg:       cfg,
		tracer:    otel.Tracer("sahayak/rag"),
		logger:    logger,
	}, nil
}

// Ingest ingests every supported document under dir and returns the
// run report.
func (p *Pipeline) Ingest(ctx context.Context, dir string) (*Report, error) {
	ctx, span := p.tracer.Start(ctx, "rag.ingest",
		trace.WithAttributes(attribute.String("rag.corpus_dir", dir)))
	defer span.End()

	return p.ingestor.IngestDirectory(ctx, dir)
}

// Query answers a free-text question from the indexed documents. The
// stages run in strict order: retrieve, then re-rank, then assemble,
// then generate. Retrieval failures degrade to the no-information
// answer; re-ranking and generation failures are returned to the
// caller.
func (p *Pipeline) Query(ctx context.Context, question string) (string, error) {
	ctx, span := p.tracer.Start(ctx, "rag.query")
	defer span.End()

	candidates := p.retriever.Retrieve(ctx, question, p.cfg.SimilarityThreshold, p.cfg.MaxCandidates)
	span.SetAttributes(attribute.Int("rag.candidates", len(candidates)))

	ranked, err := p.reranker.Rerank(ctx, question, candidates)
	if err != nil {
		return "", fmt.Errorf("re-ranking candidates: %w", err)
	}

	contextBlock, hasContext := AssembleContext(ranked, p.cfg.RerankTopK)
	span.SetAttributes(attribute.Bool("rag.has_context", hasContext))

	answer, err := p.generator.Answer(ctx, question, contextBlock, hasContext)
	if err != nil {
		return "", err
	}
	return answer, nil
}

// Close releases pipeline resources (the re-ranking worker pool).
func (p *Pipeline) Close() {
	p.reranker.Close()
}
