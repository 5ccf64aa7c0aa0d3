package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/spendsort/internal/connector"
	"github.com/crimson-sun/spendsort/internal/dataset"

	// Register connector implementations.
	_ "github.com/crimson-sun/spendsort/internal/connector/splitwise"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch expenses from the configured source",
	Long: `Fetch expenses from the configured connector (Splitwise by
default) and write them as CSV.

The first run opens a browser for OAuth authorization; the token is
cached for later runs.

Examples:
  spendsort fetch --out expenses.csv
  spendsort fetch --after 2024-01-01 --before 2024-06-30 --out h1.csv`,
	RunE: runFetch,
}

var (
	fetchAfter  string
	fetchBefore string
	fetchLimit  int
	fetchOut    string
)

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVar(&fetchAfter, "after", "", "Only expenses dated after this day (YYYY-MM-DD)")
	fetchCmd.Flags().StringVar(&fetchBefore, "before", "", "Only expenses dated before this day (YYYY-MM-DD)")
	fetchCmd.Flags().IntVar(&fetchLimit, "limit", 0, "Maximum number of expenses (0 = all)")
	fetchCmd.Flags().StringVar(&fetchOut, "out", "", "Output CSV path (default: stdout)")
}

func runFetch(cmd *cobra.Command, args []string) error {
	params := connector.FetchParams{
		GroupID: cfg.GroupID,
		Limit:   fetchLimit,
	}
	var err error
	if params.DatedAfter, err = parseDayFlag(fetchAfter); err != nil {
		return err
	}
	if params.DatedBefore, err = parseDayFlag(fetchBefore); err != nil {
		return err
	}

	conn, err := buildConnector()
	if err != nil {
		return err
	}

	expenses, err := conn.Fetch(cmd.Context(), params)
	if err != nil {
		return err
	}

	out := os.Stdout
	if fetchOut != "" {
		f, err := os.Create(fetchOut)
		if err != nil {
			return fmt.Errorf("creating %s: %w", fetchOut, err)
		}
		defer f.Close()
		out = f
	}
	return dataset.WriteExpenses(out, expenses)
}

func parseDayFlag(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", value)
	}
	return t, nil
}
