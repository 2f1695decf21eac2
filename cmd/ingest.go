package cmd

import (
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sahayak-ai/sahayak/internal/config"
	"github.com/sahayak-ai/sahayak/internal/log"
	"github.com/sahayak-ai/sahayak/internal/rag"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [directory]",
	Short: "Index every supported document under a directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := log.New(log.Config{Level: slog.LevelInfo})

	a, err := setupApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeApp(a, logger)

	report, err := a.Ingest(ctx, args[0])
	if err != nil {
		return fmt.Errorf("ingesting %s: %w", args[0], err)
	}

	printReport(cmd, report)
	if failed := report.Failed(); failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(report.Documents))
	}
	return nil
}

func printReport(cmd *cobra.Command, report *rag.Report) {
	cmd.Printf("Run %s finished in %s\n", report.RunID, report.Duration.Round(time.Millisecond))
	for _, doc := range report.Documents {
		if doc.Status == rag.StatusDone {
			cmd.Printf("  %-40s %d pages, %d chunks stored\n", doc.Source, doc.Pages, doc.ChunksStored)
			continue
		}
		cmd.Printf("  %-40s FAILED at %s: %v\n", doc.Source, doc.Status, doc.Err)
	}
	cmd.Printf("Total: %d documents, %d done, %d failed, %d chunks stored\n",
		len(report.Documents), report.Done(), report.Failed(), report.ChunksStored())
}
