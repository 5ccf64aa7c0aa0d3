package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/spendsort/internal/dataset"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Measure categorization accuracy on a labeled dataset",
	Long: `Classify every expense in a labeled CSV (columns description
and true_category) and report accuracy overall and per category.

The error set written by --errors contains every misclassified
expense plus every correct one the classifier was unsure about, so it
is the full review queue, not just the mistakes.

Examples:
  spendsort evaluate --in labeled.csv
  spendsort evaluate --in labeled.csv --errors errors.csv`,
	RunE: runEvaluate,
}

var evaluateIn string
var evaluateErrors string

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringVar(&evaluateIn, "in", "", "Labeled CSV with description and true_category columns (required)")
	evaluateCmd.Flags().StringVar(&evaluateErrors, "errors", "", "Write the error set to this CSV")
	evaluateCmd.MarkFlagRequired("in")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	labeled, err := dataset.ReadLabeled(evaluateIn)
	if err != nil {
		return err
	}

	eng, err := buildEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer eng.Close()

	report, err := eng.Evaluate(cmd.Context(), labeled)
	if err != nil {
		return err
	}

	if err := dataset.WriteSummary(cmd.OutOrStdout(), report); err != nil {
		return err
	}

	if evaluateErrors != "" {
		f, err := os.Create(evaluateErrors)
		if err != nil {
			return fmt.Errorf("creating %s: %w", evaluateErrors, err)
		}
		defer f.Close()
		if err := dataset.WriteEvaluated(f, report.Errors); err != nil {
			return err
		}
	}
	return nil
}
