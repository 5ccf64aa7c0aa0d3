package cmd

import (
	"github.com/spf13/cobra"

	"github.com/crimson-sun/spendsort/internal/dataset"
	"github.com/crimson-sun/spendsort/internal/pipeline"
)

var categorizeCmd = &cobra.Command{
	Use:   "categorize",
	Short: "Categorize expense descriptions",
	Long: `Categorize every expense in a CSV file, writing one
prediction per expense to the configured output.

With --fetch, expenses come straight from the configured connector
instead of a file.

Examples:
  spendsort categorize --in shared.csv
  SPENDSORT_OUTPUT=csv SPENDSORT_OUTPUT_PATH=predictions.csv \
    spendsort categorize --in shared.csv
  spendsort categorize --fetch`,
	RunE: runCategorize,
}

var (
	categorizeIn    string
	categorizeFetch bool
)

func init() {
	rootCmd.AddCommand(categorizeCmd)

	categorizeCmd.Flags().StringVar(&categorizeIn, "in", "", "Input expense CSV")
	categorizeCmd.Flags().BoolVar(&categorizeFetch, "fetch", false, "Fetch expenses from the connector instead of a file")
	categorizeCmd.MarkFlagsOneRequired("in", "fetch")
	categorizeCmd.MarkFlagsMutuallyExclusive("in", "fetch")
}

func runCategorize(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	eng, err := buildEngine(ctx)
	if err != nil {
		return err
	}
	defer eng.Close()

	out, err := buildOutput()
	if err != nil {
		return err
	}

	if categorizeFetch {
		conn, err := buildConnector()
		if err != nil {
			out.Close()
			return err
		}
		p := pipeline.New(conn, eng, out)
		defer p.Close()
		_, err = p.Run(ctx, fetchParamsFromConfig())
		return err
	}

	expenses, err := dataset.ReadExpenses(categorizeIn)
	if err != nil {
		out.Close()
		return err
	}
	p := pipeline.New(nil, eng, out)
	defer p.Close()
	_, err = p.RunExpenses(ctx, expenses)
	return err
}
