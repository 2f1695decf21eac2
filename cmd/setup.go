package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sahayak-ai/sahayak/internal/app"
	"github.com/sahayak-ai/sahayak/internal/config"
)

// setupApp initializes the application container shared by all
// commands.
func setupApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app.App, error) {
	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("initializing application: %w", err)
	}
	return a, nil
}

func closeApp(a *app.App, logger *slog.Logger) {
	if err := a.Close(); err != nil {
		logger.Warn("shutdown error", "error", err)
	}
}
