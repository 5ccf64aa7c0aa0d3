package spendsort

import (
	"context"
	"fmt"

	"github.com/crimson-sun/spendsort/internal/engine"
	"github.com/crimson-sun/spendsort/internal/engine/confidence"
	"github.com/crimson-sun/spendsort/internal/engine/embedder"
	"github.com/crimson-sun/spendsort/internal/engine/exemplars"
	"github.com/crimson-sun/spendsort/internal/model"
)

// Spendsort is an expense categorization engine.
// It embeds expense descriptions into vectors and matches against a labeled
// table of example phrases. Safe for concurrent use.
type Spendsort struct {
	engine *engine.Engine
}

// New creates a Spendsort instance, loading model files and pre-embedding
// the category table. This is an expensive operation (~100-300ms) — create
// once, reuse across requests.
func New(opts ...Option) (*Spendsort, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	strategy, err := engine.ParseStrategy(o.strategy)
	if err != nil {
		return nil, fmt.Errorf("spendsort: %w", err)
	}
	buckets, err := confidence.NewBucketer(o.highThreshold, o.lowThreshold)
	if err != nil {
		return nil, fmt.Errorf("spendsort: %w", err)
	}

	table, err := resolveTable(o)
	if err != nil {
		return nil, fmt.Errorf("spendsort: %w", err)
	}

	var emb embedder.Embedder
	if o.embedder != nil {
		emb = o.embedder
	} else {
		if o.runtimeLib != "" {
			embedder.SetRuntimeLibrary(o.runtimeLib)
		}
		modelPath, vocabPath := resolvePaths(o)
		emb, err = embedder.NewONNX(modelPath, vocabPath)
		if err != nil {
			return nil, fmt.Errorf("spendsort: %w", err)
		}
	}

	eng, err := engine.New(context.Background(), emb, table, strategy, buckets)
	if err != nil {
		emb.Close()
		return nil, fmt.Errorf("spendsort: %w", err)
	}

	return &Spendsort{engine: eng}, nil
}

// resolveTable picks the category table: CSV file, custom slice, or the
// built-in defaults.
func resolveTable(o options) (exemplars.Table, error) {
	if o.categoriesCSV != "" {
		return exemplars.LoadCSV(o.categoriesCSV)
	}
	if len(o.categories) > 0 {
		table := make(exemplars.Table, len(o.categories))
		for i, c := range o.categories {
			table[i] = exemplars.Entry{Category: c.Name, Phrases: c.Phrases}
		}
		return table, nil
	}
	return exemplars.DefaultTable(), nil
}

// Categorize categorizes a single expense description.
func (s *Spendsort) Categorize(ctx context.Context, description string) (Prediction, error) {
	pred, err := s.engine.Categorize(ctx, description)
	if err != nil {
		return Prediction{}, err
	}
	return predictionFromInternal(pred), nil
}

// CategorizeBatch categorizes multiple descriptions in a single batched
// inference call. More efficient than calling Categorize in a loop.
func (s *Spendsort) CategorizeBatch(ctx context.Context, descriptions []string) ([]Prediction, error) {
	preds, err := s.engine.CategorizeBatch(ctx, descriptions)
	if err != nil {
		return nil, err
	}
	out := make([]Prediction, len(preds))
	for i, p := range preds {
		out[i] = predictionFromInternal(p)
	}
	return out, nil
}

// Evaluate categorizes a labeled set and reports accuracy against the
// ground-truth categories. Label comparison ignores case and surrounding
// whitespace.
func (s *Spendsort) Evaluate(ctx context.Context, labeled []Labeled) (Report, error) {
	internal := make([]model.LabeledExpense, len(labeled))
	for i, l := range labeled {
		internal[i] = model.LabeledExpense{Description: l.Description, TrueCategory: l.TrueCategory}
	}
	report, err := s.engine.Evaluate(ctx, internal)
	if err != nil {
		return Report{}, err
	}
	return reportFromInternal(report), nil
}

// Categories returns the category names in table order.
func (s *Spendsort) Categories() []string {
	return s.engine.Categories()
}

// Close releases model resources (ONNX runtime, memory).
// Must be called when the Spendsort instance is no longer needed.
func (s *Spendsort) Close() error {
	return s.engine.Close()
}

// predictionFromInternal converts the internal Prediction to the public type.
func predictionFromInternal(p model.Prediction) Prediction {
	return Prediction{
		Description:    p.Description,
		Category:       p.Category,
		MatchedExample: p.MatchedExample,
		Score:          p.Score,
		Confidence:     p.Confidence,
		LowConfidence:  p.LowConfidence,
	}
}

func reportFromInternal(r model.EvaluationReport) Report {
	out := Report{
		Total:         r.Total,
		Correct:       r.Correct,
		Incorrect:     r.Incorrect,
		Accuracy:      r.Accuracy,
		LowConfidence: r.LowConfidence,
		PerCategory:   make([]CategoryStats, len(r.PerCategory)),
		Errors:        make([]Evaluated, len(r.Errors)),
	}
	for i, cs := range r.PerCategory {
		out.PerCategory[i] = CategoryStats{
			Category: cs.Category,
			Count:    cs.Count,
			Correct:  cs.Correct,
			Accuracy: cs.Accuracy,
		}
	}
	for i, ev := range r.Errors {
		out.Errors[i] = Evaluated{
			Prediction:   predictionFromInternal(ev.Prediction),
			TrueCategory: ev.TrueCategory,
			Correct:      ev.Correct,
		}
	}
	return out
}
