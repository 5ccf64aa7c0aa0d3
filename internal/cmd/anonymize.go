package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/spendsort/internal/anonymize"
	"github.com/crimson-sun/spendsort/internal/dataset"
)

var anonymizeCmd = &cobra.Command{
	Use:   "anonymize",
	Short: "Replace payer names with pseudonyms",
	Long: `Replace every payer name in an expense CSV with a stable
pseudonym so the dataset can be shared.

The original-to-pseudonym mapping can be written to a separate file
with --mapping; keep that file private.

Examples:
  spendsort anonymize --in expenses.csv --out shared.csv
  spendsort anonymize --in expenses.csv --out shared.csv --mapping names.csv`,
	RunE: runAnonymize,
}

var (
	anonIn      string
	anonOut     string
	anonMapping string
)

func init() {
	rootCmd.AddCommand(anonymizeCmd)

	anonymizeCmd.Flags().StringVar(&anonIn, "in", "", "Input expense CSV (required)")
	anonymizeCmd.Flags().StringVar(&anonOut, "out", "", "Output CSV path (required)")
	anonymizeCmd.Flags().StringVar(&anonMapping, "mapping", "", "Write the name mapping to this CSV")
	anonymizeCmd.MarkFlagRequired("in")
	anonymizeCmd.MarkFlagRequired("out")
}

func runAnonymize(cmd *cobra.Command, args []string) error {
	expenses, err := dataset.ReadExpenses(anonIn)
	if err != nil {
		return err
	}

	mapper := anonymize.NewMapper()
	anonymized := mapper.AnonymizeExpenses(expenses)
	if err := mapper.Validate(); err != nil {
		return err
	}

	out, err := os.Create(anonOut)
	if err != nil {
		return fmt.Errorf("creating %s: %w", anonOut, err)
	}
	defer out.Close()
	if err := dataset.WriteExpenses(out, anonymized); err != nil {
		return err
	}

	if anonMapping != "" {
		mf, err := os.Create(anonMapping)
		if err != nil {
			return fmt.Errorf("creating %s: %w", anonMapping, err)
		}
		defer mf.Close()
		if err := dataset.WriteNameMapping(mf, mapper.Pairs()); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Anonymized %d expenses (%d distinct payers)\n", len(anonymized), len(mapper.Pairs()))
	return nil
}
