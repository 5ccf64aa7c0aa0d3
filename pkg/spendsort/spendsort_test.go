package spendsort

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/crimson-sun/spendsort/internal/engine/embedtest"
)

const testModelDir = "../../models"

func skipWithoutModel(t *testing.T) {
	t.Helper()
	if _, err := os.Stat(testModelDir + "/model.onnx"); os.IsNotExist(err) {
		t.Skip("ONNX model not available, skipping integration test")
	}
}

func testTable() []Category {
	return []Category{
		{Name: "Groceries", Phrases: []string{"milk and eggs", "weekly grocery shop"}},
		{Name: "Travel", Phrases: []string{"flight ticket", "hotel night"}},
	}
}

func TestNewWithModelDir(t *testing.T) {
	skipWithoutModel(t)

	s, err := New(WithModelDir(testModelDir))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer s.Close()

	if got := len(s.Categories()); got != 8 {
		t.Errorf("Categories() returned %d names, want 8", got)
	}
}

func TestNewBadPathReturnsError(t *testing.T) {
	_, err := New(WithModelDir("/nonexistent/path"))
	if err == nil {
		t.Fatal("expected error for bad model path, got nil")
	}
}

func TestNewRejectsUnknownStrategy(t *testing.T) {
	_, err := New(WithEmbedder(&embedtest.Embedder{}), WithStrategy("nearest"))
	if err == nil {
		t.Fatal("expected error for unknown strategy, got nil")
	}
}

func TestNewRejectsInvertedThresholds(t *testing.T) {
	_, err := New(WithEmbedder(&embedtest.Embedder{}), WithThresholds(0.3, 0.7))
	if err == nil {
		t.Fatal("expected error for high <= low thresholds, got nil")
	}
}

func TestCategorizeWithCustomTable(t *testing.T) {
	s, err := New(WithEmbedder(&embedtest.Embedder{}), WithCategories(testTable()))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer s.Close()

	pred, err := s.Categorize(context.Background(), "flight ticket")
	if err != nil {
		t.Fatalf("Categorize() error: %v", err)
	}
	if pred.Category != "Travel" {
		t.Errorf("Category = %q, want Travel", pred.Category)
	}
	if pred.Confidence != "High" {
		t.Errorf("Confidence = %q, want High", pred.Confidence)
	}
	if pred.MatchedExample != "flight ticket" {
		t.Errorf("MatchedExample = %q, want the exact phrase", pred.MatchedExample)
	}
	if pred.LowConfidence {
		t.Error("exact phrase match flagged low-confidence")
	}
}

func TestCategorizeBatchPreservesOrder(t *testing.T) {
	s, err := New(WithEmbedder(&embedtest.Embedder{}), WithCategories(testTable()))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer s.Close()

	preds, err := s.CategorizeBatch(context.Background(), []string{"hotel night", "milk and eggs"})
	if err != nil {
		t.Fatalf("CategorizeBatch() error: %v", err)
	}
	if len(preds) != 2 {
		t.Fatalf("got %d predictions, want 2", len(preds))
	}
	if preds[0].Category != "Travel" || preds[1].Category != "Groceries" {
		t.Errorf("categories = %q, %q; want Travel, Groceries", preds[0].Category, preds[1].Category)
	}
}

func TestCentroidStrategyOmitsMatchedExample(t *testing.T) {
	s, err := New(
		WithEmbedder(&embedtest.Embedder{}),
		WithCategories(testTable()),
		WithStrategy("centroid"),
	)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer s.Close()

	pred, err := s.Categorize(context.Background(), "flight ticket")
	if err != nil {
		t.Fatalf("Categorize() error: %v", err)
	}
	if pred.Category != "Travel" {
		t.Errorf("Category = %q, want Travel", pred.Category)
	}
	if pred.MatchedExample != "" {
		t.Errorf("MatchedExample = %q, want empty under centroid strategy", pred.MatchedExample)
	}
}

func TestEvaluateReport(t *testing.T) {
	s, err := New(WithEmbedder(&embedtest.Embedder{}), WithCategories(testTable()))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer s.Close()

	report, err := s.Evaluate(context.Background(), []Labeled{
		{Description: "flight ticket", TrueCategory: "Travel"},
		{Description: "weekly grocery shop", TrueCategory: "groceries"}, // case-insensitive match
	})
	if err != nil {
		t.Fatalf("Evaluate() error: %v", err)
	}
	if report.Total != 2 || report.Correct != 2 {
		t.Errorf("Total/Correct = %d/%d, want 2/2", report.Total, report.Correct)
	}
	if report.Accuracy != 1.0 {
		t.Errorf("Accuracy = %v, want 1.0", report.Accuracy)
	}
	if len(report.Errors) != 0 {
		t.Errorf("Errors has %d entries, want 0", len(report.Errors))
	}
}

func TestCategoriesOrder(t *testing.T) {
	s, err := New(WithEmbedder(&embedtest.Embedder{}), WithCategories(testTable()))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer s.Close()

	got := s.Categories()
	if len(got) != 2 || got[0] != "Groceries" || got[1] != "Travel" {
		t.Errorf("Categories() = %v, want [Groceries Travel]", got)
	}
}

// staticEmbedder serves fixed unit vectors with no internal state, so
// concurrent calls are race-free.
type staticEmbedder struct {
	vecs map[string][]float32
}

func (s *staticEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec, ok := s.vecs[text]
	if !ok {
		return nil, fmt.Errorf("no canned vector for %q", text)
	}
	return vec, nil
}

func (s *staticEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec, err := s.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (s *staticEmbedder) Dim() int     { return 3 }
func (s *staticEmbedder) Close() error { return nil }

func TestConcurrentCategorize(t *testing.T) {
	emb := &staticEmbedder{vecs: map[string][]float32{
		"milk and eggs":       {1, 0, 0},
		"weekly grocery shop": {1, 0, 0},
		"flight ticket":       {0, 1, 0},
		"hotel night":         {0, 1, 0},
	}}
	s, err := New(WithEmbedder(emb), WithCategories(testTable()))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer s.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pred, err := s.Categorize(context.Background(), "hotel night")
			if err != nil {
				t.Errorf("Categorize() error: %v", err)
				return
			}
			if pred.Category != "Travel" {
				t.Errorf("Category = %q, want Travel", pred.Category)
			}
		}()
	}
	wg.Wait()
}
