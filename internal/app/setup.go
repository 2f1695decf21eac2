package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/time/rate"

	"github.com/sahayak-ai/sahayak/db"
	"github.com/sahayak-ai/sahayak/internal/config"
	"github.com/sahayak-ai/sahayak/internal/database"
	"github.com/sahayak-ai/sahayak/internal/observability"
	"github.com/sahayak-ai/sahayak/internal/parser"
	"github.com/sahayak-ai/sahayak/internal/rag"
	"github.com/sahayak-ai/sahayak/internal/vectorstore"
)

// Setup creates and initializes the application. Returns an App with
// embedded cleanup — call Close() to release.
func Setup(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *App, retErr error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{Config: cfg, Logger: logger}

	// On error, clean up everything already initialized.
	defer func() {
		if retErr != nil {
			if err := a.Close(); err != nil {
				logger.Warn("cleanup during setup failure", "error", err)
			}
		}
	}()

	a.otelCleanup = provideOtelShutdown(ctx, cfg, logger)

	pool, err := provideDBPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.DBPool = pool

	g, err := provideGenkit(ctx)
	if err != nil {
		return nil, err
	}
	a.Genkit = g

	pipeline, err := providePipeline(g, pool, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.Pipeline = pipeline

	return a, nil
}

// provideOtelShutdown sets up OTLP trace export before anything that
// creates spans. Disabled when no endpoint is configured.
func provideOtelShutdown(ctx context.Context, cfg *config.Config, logger *slog.Logger) func() {
	if cfg.OTLPEndpoint == "" {
		return func() {}
	}

	shutdown, err := observability.Setup(ctx, observability.Config{
		Endpoint:    cfg.OTLPEndpoint,
		ServiceName: "sahayak",
	}, logger)
	if err != nil {
		logger.Warn("setting up tracing, export disabled", "error", err)
		return func() {}
	}

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			logger.Warn("shutting down tracer provider", "error", err)
		}
	}
}

// provideDBPool runs migrations and creates the PostgreSQL connection
// pool.
func provideDBPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	if err := db.Migrate(cfg.PostgresURL()); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return database.Connect(ctx, cfg)
}

// provideGenkit initializes Genkit with the Gemini provider. The
// GEMINI_API_KEY environment variable supplies credentials.
func provideGenkit(ctx context.Context) (*genkit.Genkit, error) {
	g := genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))
	if g == nil {
		return nil, errors.New("initializing genkit with gemini provider")
	}
	return g, nil
}

// providePipeline assembles the RAG stages from configuration.
func providePipeline(g *genkit.Genkit, pool *pgxpool.Pool, cfg *config.Config, logger *slog.Logger) (*rag.Pipeline, error) {
	embedderModel := googlegenai.GoogleAIEmbedder(g, cfg.EmbedderModel)
	if embedderModel == nil {
		return nil, fmt.Errorf("embedder %q not found", cfg.EmbedderModel)
	}

	var limiter *rate.Limiter
	if cfg.EmbedRatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.EmbedRatePerSecond), 1)
	}

	embedder, err := rag.NewGeminiEmbedder(embedderModel, limiter, logger)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}

	chunker, err := rag.NewChunker(cfg.Retrieval.ChunkSize, cfg.Retrieval.ChunkOverlap)
	if err != nil {
		return nil, fmt.Errorf("creating chunker: %w", err)
	}

	index := vectorstore.New(pool, logger)
	ingestor := rag.NewIngestor(parser.NewRegistry(), chunker, embedder, index, cfg.Retrieval.InsertBatchSize, logger)
	retriever := rag.NewRetriever(embedder, index, logger)
	reranker := rag.NewReranker(rag.LexicalScorer{}, 0, logger)

	model := ai.NewModelRef("googleai/"+cfg.ModelName, nil)
	generator := rag.NewAnswerGenerator(rag.NewGenkitGenerator(g, model), logger)

	pipeline, err := rag.NewPipeline(ingestor, retriever, reranker, generator, rag.PipelineConfig{
		SimilarityThreshold: cfg.Retrieval.SimilarityThreshold,
		MaxCandidates:       cfg.Retrieval.MaxCandidates,
		RerankTopK:          cfg.Retrieval.RerankTopK,
	}, logger)
	if err != nil {
		reranker.Close()
		return nil, fmt.Errorf("creating pipeline: %w", err)
	}
	return pipeline, nil
}
