// Package api exposes the RAG pipeline's two entry points over a thin
// JSON API. Everything else the chat product needs (auth, sessions,
// TTS, admin) lives in other services; this server only validates
// requests and delegates to the pipeline.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sahayak-ai/sahayak/internal/rag"
)

// RAGService is the pipeline surface the server depends on.
type RAGService interface {
	Ingest(ctx context.Context, dir string) (*rag.Report, error)
	Query(ctx context.Context, question string) (string, error)
}

// ServerConfig configures the API server.
type ServerConfig struct {
	Logger  *slog.Logger
	Service RAGService

	// RatePerSecond and RateBurst configure the per-IP limiter.
	// Zero values default to 1 token/sec with a burst of 30.
	RatePerSecond float64
	RateBurst     int
}

// Server is the JSON API HTTP server.
type Server struct {
	mux *http.ServeMux
}

// NewServer creates the server with all routes and middleware
// configured.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Service == nil {
		return nil, errors.New("rag service is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	h := &handler{service: cfg.Service, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/query", h.query)
	mux.HandleFunc("POST /api/v1/ingest", h.ingest)

	ratePerSec := cfg.RatePerSecond
	if ratePerSec <= 0 {
		ratePerSec = 1.0
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 30
	}
	rl := newRateLimiter(ratePerSec, burst)

	// Middleware stack, outermost first:
	//   Recovery → RequestID → Logging → RateLimit → Routes
	// RequestID comes before Logging so request_id is in every log line.
	var stack http.Handler = mux
	stack = rateLimitMiddleware(rl, logger)(stack)
	stack = loggingMiddleware(logger)(stack)
	stack = requestIDMiddleware()(stack)
	stack = recoveryMiddleware(logger)(stack)

	// Health probes bypass the middleware stack.
	topMux := http.NewServeMux()
	topMux.HandleFunc("GET /health", health)
	topMux.Handle("/", stack)

	return &Server{mux: topMux}, nil
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
