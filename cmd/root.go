// Package cmd implements the sahayak command-line interface.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sahayak",
	Short: "Sahayak - RAG backend for Gram Panchayat documents",
	Long: `Sahayak indexes Gram Panchayat documents into a PostgreSQL vector
store and answers questions grounded strictly in their content.

Commands:
  ingest   index a directory of documents
  ask      answer a single question from the terminal
  serve    run the JSON API server`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
