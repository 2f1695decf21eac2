// Package app provides application initialization and dependency
// wiring. Setup builds the full RAG pipeline — database pool,
// migrations, Genkit, embedder, vector store, re-ranker — and App
// owns the lifecycle of everything it created.
package app

import (
	"context"
	"log/slog"

	"github.com/firebase/genkit/go/genkit"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sahayak-ai/sahayak/internal/config"
	"github.com/sahayak-ai/sahayak/internal/rag"
)

// App is the application container.
type App struct {
	Config *config.Config
	Logger *slog.Logger

	Genkit   *genkit.Genkit
	DBPool   *pgxpool.Pool
	Pipeline *rag.Pipeline

	otelCleanup func()
}

// Close gracefully shuts down all resources in reverse creation order.
func (a *App) Close() error {
	a.logger().Info("shutting down application")

	if a.Pipeline != nil {
		a.Pipeline.Close()
	}
	if a.DBPool != nil {
		a.DBPool.Close()
		a.logger().Info("database pool closed")
	}
	if a.otelCleanup != nil {
		a.otelCleanup()
	}
	return nil
}

func (a *App) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}

// Ingest runs the ingestion pipeline over a document directory.
func (a *App) Ingest(ctx context.Context, dir string) (*rag.Report, error) {
	return a.Pipeline.Ingest(ctx, dir)
}

// Query answers a question from the indexed documents.
func (a *App) Query(ctx context.Context, question string) (string, error) {
	return a.Pipeline.Query(ctx, question)
}
