package dataset

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/crimson-sun/spendsort/internal/model"
)

func TestReadExpensesCSV(t *testing.T) {
	in := strings.NewReader(
		"date,amount,currency,paid_by,description\n" +
			"2024-03-15,42.50,USD,Alex,Trader Joe's\n" +
			",88.00,USD,,electric bill\n")

	expenses, err := ReadExpensesCSV(in)
	if err != nil {
		t.Fatalf("ReadExpensesCSV() error: %v", err)
	}
	if len(expenses) != 2 {
		t.Fatalf("got %d expenses, want 2", len(expenses))
	}

	first := expenses[0]
	if first.Description != "Trader Joe's" || first.Amount != "42.50" || first.PaidBy != "Alex" {
		t.Errorf("unexpected first row: %+v", first)
	}
	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	if !first.Date.Equal(want) {
		t.Errorf("date = %v, want %v", first.Date, want)
	}
	if !expenses[1].Date.IsZero() {
		t.Errorf("blank date must stay zero, got %v", expenses[1].Date)
	}
}

func TestReadExpensesCSVColumnOrder(t *testing.T) {
	in := strings.NewReader(
		"description,Amount\n" +
			"coffee,4.50\n")

	expenses, err := ReadExpensesCSV(in)
	if err != nil {
		t.Fatalf("ReadExpensesCSV() error: %v", err)
	}
	if expenses[0].Description != "coffee" || expenses[0].Amount != "4.50" {
		t.Errorf("unexpected row: %+v", expenses[0])
	}
}

func TestReadExpensesCSVMissingDescription(t *testing.T) {
	in := strings.NewReader("date,amount\n2024-01-01,5.00\n")
	if _, err := ReadExpensesCSV(in); err == nil {
		t.Fatal("expected error for missing description column")
	}
}

func TestReadExpensesCSVBadDate(t *testing.T) {
	in := strings.NewReader("date,description\nnot-a-date,coffee\n")
	if _, err := ReadExpensesCSV(in); err == nil {
		t.Fatal("expected error for unparseable date")
	}
}

func TestReadLabeledCSV(t *testing.T) {
	in := strings.NewReader(
		"description,true_category\n" +
			"milk and eggs,Groceries\n" +
			"flight to portland,Travel\n")

	labeled, err := ReadLabeledCSV(in)
	if err != nil {
		t.Fatalf("ReadLabeledCSV() error: %v", err)
	}
	if len(labeled) != 2 {
		t.Fatalf("got %d rows, want 2", len(labeled))
	}
	if labeled[0].TrueCategory != "Groceries" {
		t.Errorf("true category = %q", labeled[0].TrueCategory)
	}
}

func TestReadLabeledCSVMissingLabelColumn(t *testing.T) {
	in := strings.NewReader("description,category\nmilk,Groceries\n")
	_, err := ReadLabeledCSV(in)
	if err == nil {
		t.Fatal("expected error for missing true_category column")
	}
	if !strings.Contains(err.Error(), "true_category") {
		t.Errorf("error should name the missing column: %v", err)
	}
}

func TestReadLabeledCSVEmpty(t *testing.T) {
	in := strings.NewReader("description,true_category\n")
	if _, err := ReadLabeledCSV(in); err == nil {
		t.Fatal("expected error for empty labeled set")
	}
}

func TestWriteExpensesRoundTrip(t *testing.T) {
	expenses := []model.Expense{
		{
			Date:        time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			Amount:      "42.50",
			Currency:    "USD",
			PaidBy:      "Alex",
			Description: "Trader Joe's, produce",
		},
		{Description: "electric bill"},
	}

	var buf bytes.Buffer
	if err := WriteExpenses(&buf, expenses); err != nil {
		t.Fatalf("WriteExpenses() error: %v", err)
	}

	got, err := ReadExpensesCSV(&buf)
	if err != nil {
		t.Fatalf("ReadExpensesCSV() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d expenses, want 2", len(got))
	}
	if got[0].Description != "Trader Joe's, produce" {
		t.Errorf("comma in description not preserved: %q", got[0].Description)
	}
	if !got[0].Date.Equal(expenses[0].Date) {
		t.Errorf("date = %v, want %v", got[0].Date, expenses[0].Date)
	}
}

func TestWritePredictions(t *testing.T) {
	preds := []model.Prediction{
		{
			Description:    "milk and eggs",
			Category:       "Groceries",
			MatchedExample: "weekly grocery shop",
			Score:          0.8123,
			Confidence:     "High",
		},
		{
			Description:   "mystery venue",
			Category:      "Other",
			Score:         0.31,
			Confidence:    "Low",
			LowConfidence: true,
		},
	}

	var buf bytes.Buffer
	if err := WritePredictions(&buf, preds); err != nil {
		t.Fatalf("WritePredictions() error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header plus 2 rows", len(lines))
	}
	if lines[0] != "description,predicted_category,matched_example,score,confidence,low_confidence_flag" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[2], "true") {
		t.Errorf("low confidence flag missing: %q", lines[2])
	}
}

func TestWriteEvaluated(t *testing.T) {
	evaluated := []model.EvaluatedPrediction{
		{
			Prediction:   model.Prediction{Description: "milk", Category: "Groceries", Score: 0.9, Confidence: "High"},
			TrueCategory: "Groceries",
			Correct:      true,
		},
	}

	var buf bytes.Buffer
	if err := WriteEvaluated(&buf, evaluated); err != nil {
		t.Fatalf("WriteEvaluated() error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "true_category") || !strings.Contains(out, "correct") {
		t.Errorf("header missing evaluation columns: %q", out)
	}
}

func TestWriteSummary(t *testing.T) {
	report := model.EvaluationReport{
		Total:         10,
		Correct:       7,
		Incorrect:     3,
		Accuracy:      0.7,
		LowConfidence: 1,
		PerCategory: []model.CategoryStats{
			{Category: "Groceries", Count: 5, Correct: 4, Accuracy: 0.8},
			{Category: "Travel", Count: 5, Correct: 3, Accuracy: 0.6},
		},
	}

	var buf bytes.Buffer
	if err := WriteSummary(&buf, report); err != nil {
		t.Fatalf("WriteSummary() error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Total: 10", "Accuracy: 0.7000", "Groceries", "Travel"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}
