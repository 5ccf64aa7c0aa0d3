// Package dataset reads and writes the CSV files that flow between
// pipeline stages: raw expenses, labeled evaluation sets, predictions
// and reports.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/crimson-sun/spendsort/internal/model"
)

const dateLayout = "2006-01-02"

// column indices resolved from a CSV header row.
type columns map[string]int

func resolveColumns(header []string, required ...string) (columns, error) {
	cols := make(columns, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("dataset: missing required column %q", name)
		}
	}
	return cols, nil
}

func (c columns) get(record []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// ReadExpenses reads an expense CSV from path. The file must carry a
// description column; date, amount, currency and paid_by are optional.
func ReadExpenses(path string) ([]model.Expense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: opening %s: %w", path, err)
	}
	defer f.Close()
	return ReadExpensesCSV(f)
}

// ReadExpensesCSV reads expense rows from r.
func ReadExpensesCSV(r io.Reader) ([]model.Expense, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("dataset: reading header: %w", err)
	}
	cols, err := resolveColumns(header, "description")
	if err != nil {
		return nil, err
	}

	var out []model.Expense
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dataset: reading row %d: %w", len(out)+2, err)
		}

		exp := model.Expense{
			Amount:      cols.get(record, "amount"),
			Currency:    cols.get(record, "currency"),
			PaidBy:      cols.get(record, "paid_by"),
			Description: cols.get(record, "description"),
		}
		if raw := cols.get(record, "date"); raw != "" {
			date, err := parseDate(raw)
			if err != nil {
				return nil, fmt.Errorf("dataset: row %d: %w", len(out)+2, err)
			}
			exp.Date = date
		}
		out = append(out, exp)
	}
	return out, nil
}

// ReadLabeled reads a labeled evaluation set from path. Both the
// description and true_category columns are required; a file without
// ground-truth labels cannot be evaluated.
func ReadLabeled(path string) ([]model.LabeledExpense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: opening %s: %w", path, err)
	}
	defer f.Close()
	return ReadLabeledCSV(f)
}

// ReadLabeledCSV reads labeled rows from r.
func ReadLabeledCSV(r io.Reader) ([]model.LabeledExpense, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("dataset: reading header: %w", err)
	}
	cols, err := resolveColumns(header, "description", "true_category")
	if err != nil {
		return nil, err
	}

	var out []model.LabeledExpense
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dataset: reading row %d: %w", len(out)+2, err)
		}
		out = append(out, model.LabeledExpense{
			Description:  cols.get(record, "description"),
			TrueCategory: cols.get(record, "true_category"),
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("dataset: no labeled rows")
	}
	return out, nil
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable date %q", raw)
	}
	return t, nil
}

// WriteExpenses writes expenses as CSV to w.
func WriteExpenses(w io.Writer, expenses []model.Expense) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "amount", "currency", "paid_by", "description"}); err != nil {
		return fmt.Errorf("dataset: writing header: %w", err)
	}
	for _, exp := range expenses {
		date := ""
		if !exp.Date.IsZero() {
			date = exp.Date.Format(dateLayout)
		}
		if err := cw.Write([]string{date, exp.Amount, exp.Currency, exp.PaidBy, exp.Description}); err != nil {
			return fmt.Errorf("dataset: writing expense row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePredictions writes predictions as CSV to w.
func WritePredictions(w io.Writer, preds []model.Prediction) error {
	cw := csv.NewWriter(w)
	header := []string{"description", "predicted_category", "matched_example", "score", "confidence", "low_confidence_flag"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("dataset: writing header: %w", err)
	}
	for _, p := range preds {
		row := []string{
			p.Description,
			p.Category,
			p.MatchedExample,
			formatScore(p.Score),
			p.Confidence,
			strconv.FormatBool(p.LowConfidence),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("dataset: writing prediction row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteEvaluated writes evaluated predictions, including ground truth
// and correctness, as CSV to w.
func WriteEvaluated(w io.Writer, evaluated []model.EvaluatedPrediction) error {
	cw := csv.NewWriter(w)
	header := []string{"description", "true_category", "predicted_category", "score", "confidence", "low_confidence_flag", "correct"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("dataset: writing header: %w", err)
	}
	for _, ev := range evaluated {
		row := []string{
			ev.Description,
			ev.TrueCategory,
			ev.Category,
			formatScore(ev.Score),
			ev.Confidence,
			strconv.FormatBool(ev.LowConfidence),
			strconv.FormatBool(ev.Correct),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("dataset: writing evaluated row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSummary writes a human-readable evaluation report to w.
func WriteSummary(w io.Writer, report model.EvaluationReport) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Total: %d\n", report.Total)
	fmt.Fprintf(&b, "Correct: %d\n", report.Correct)
	fmt.Fprintf(&b, "Incorrect: %d\n", report.Incorrect)
	fmt.Fprintf(&b, "Accuracy: %.4f\n", report.Accuracy)
	fmt.Fprintf(&b, "Low confidence: %d\n", report.LowConfidence)
	b.WriteString("\nPer category:\n")
	for _, stats := range report.PerCategory {
		fmt.Fprintf(&b, "  %-15s %3d/%3d  %.4f\n", stats.Category, stats.Correct, stats.Count, stats.Accuracy)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', 6, 64)
}
