package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/spendsort/internal/dataset"
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Draw a deduplicated sample for hand labeling",
	Long: `Deduplicate expenses by description and draw a reproducible
random sample, sized for hand labeling into an evaluation set.

The same --seed always selects the same rows.

Examples:
  spendsort sample --in expenses.csv --out to-label.csv --n 100
  spendsort sample --in expenses.csv --out to-label.csv --n 100 --seed 7`,
	RunE: runSample,
}

var (
	sampleIn   string
	sampleOut  string
	sampleN    int
	sampleSeed int64
)

func init() {
	rootCmd.AddCommand(sampleCmd)

	sampleCmd.Flags().StringVar(&sampleIn, "in", "", "Input expense CSV (required)")
	sampleCmd.Flags().StringVar(&sampleOut, "out", "", "Output CSV path (required)")
	sampleCmd.Flags().IntVar(&sampleN, "n", 100, "Sample size (0 = keep all unique rows)")
	sampleCmd.Flags().Int64Var(&sampleSeed, "seed", 1, "Random seed")
	sampleCmd.MarkFlagRequired("in")
	sampleCmd.MarkFlagRequired("out")
}

func runSample(cmd *cobra.Command, args []string) error {
	expenses, err := dataset.ReadExpenses(sampleIn)
	if err != nil {
		return err
	}

	sampled := dataset.SampleUnique(expenses, sampleN, sampleSeed)

	f, err := os.Create(sampleOut)
	if err != nil {
		return fmt.Errorf("creating %s: %w", sampleOut, err)
	}
	defer f.Close()
	if err := dataset.WriteExpenses(f, sampled); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Sampled %d of %d expenses\n", len(sampled), len(expenses))
	return nil
}
