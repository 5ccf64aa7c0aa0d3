// Package cmd contains all CLI commands for spendsort.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/spendsort/internal/config"
	"github.com/crimson-sun/spendsort/internal/logging"
)

// Version is the current version of spendsort.
var Version = "0.1.0"

var cfg config.Config

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "spendsort",
	Short: "Embedding-based expense categorization",
	Long: `spendsort assigns shared expenses to spending categories by
comparing sentence embeddings of their descriptions against a small
set of example phrases per category.

Main capabilities:
  - Fetch expenses from Splitwise
  - Anonymize payer names before sharing a dataset
  - Categorize expense descriptions with confidence buckets
  - Evaluate predictions against a labeled dataset

Configuration comes from SPENDSORT_* environment variables (a .env
file in the working directory is honored).

Examples:
  spendsort fetch --after 2024-01-01 --out expenses.csv
  spendsort anonymize --in expenses.csv --out shared.csv
  spendsort categorize --in shared.csv
  spendsort evaluate --in labeled.csv`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		logging.Setup(logging.Config{
			Level: logging.ParseLevel(cfg.LogLevel),
			JSON:  cfg.Output == "stdout",
		})
		return nil
	},
}

// Execute adds all child commands to the root command and runs it.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
