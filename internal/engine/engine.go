// Package engine wires the embedder, exemplar store, similarity index
// and evaluator into a single categorization pipeline.
package engine

import (
	"context"
	"fmt"

	"github.com/crimson-sun/spendsort/internal/engine/classifier"
	"github.com/crimson-sun/spendsort/internal/engine/confidence"
	"github.com/crimson-sun/spendsort/internal/engine/embedder"
	"github.com/crimson-sun/spendsort/internal/engine/evaluator"
	"github.com/crimson-sun/spendsort/internal/engine/exemplars"
	"github.com/crimson-sun/spendsort/internal/engine/index"
	"github.com/crimson-sun/spendsort/internal/model"
)

// Strategy selects how query vectors are matched against a category's
// exemplars.
type Strategy string

const (
	// StrategyFlat scans every individual exemplar and reports the
	// phrase that matched.
	StrategyFlat Strategy = "flat"
	// StrategyCentroid compares against one averaged vector per
	// category.
	StrategyCentroid Strategy = "centroid"
)

// ParseStrategy converts a config string into a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyFlat:
		return StrategyFlat, nil
	case StrategyCentroid:
		return StrategyCentroid, nil
	default:
		return "", fmt.Errorf("engine: unknown strategy %q (want flat or centroid)", s)
	}
}

// Engine categorizes expense descriptions against an exemplar table.
type Engine struct {
	emb      embedder.Embedder
	store    *exemplars.Store
	cls      *classifier.Classifier
	eval     *evaluator.Evaluator
	strategy Strategy
}

// New embeds the exemplar table and builds the matching index for the
// chosen strategy. The embedder is retained for query time; Close
// releases it.
func New(ctx context.Context, emb embedder.Embedder, table exemplars.Table, strategy Strategy, buckets *confidence.Bucketer) (*Engine, error) {
	store, err := exemplars.Build(ctx, table, emb)
	if err != nil {
		return nil, err
	}

	var idx index.Index
	switch strategy {
	case StrategyFlat:
		idx, err = index.NewFlat(store.Exemplars())
	case StrategyCentroid:
		idx, err = index.NewCentroids(store.Centroids())
	default:
		return nil, fmt.Errorf("engine: unknown strategy %q", strategy)
	}
	if err != nil {
		return nil, err
	}

	cls := classifier.New(emb, idx, buckets)
	return &Engine{
		emb:      emb,
		store:    store,
		cls:      cls,
		eval:     evaluator.New(cls),
		strategy: strategy,
	}, nil
}

// Categorize predicts the category for a single description.
func (e *Engine) Categorize(ctx context.Context, description string) (model.Prediction, error) {
	return e.cls.Classify(ctx, description)
}

// CategorizeBatch predicts categories for descriptions in one
// embedding pass, preserving input order.
func (e *Engine) CategorizeBatch(ctx context.Context, descriptions []string) ([]model.Prediction, error) {
	return e.cls.ClassifyBatch(ctx, descriptions)
}

// CategorizeExpenses predicts a category for every expense, in order.
func (e *Engine) CategorizeExpenses(ctx context.Context, expenses []model.Expense) ([]model.Prediction, error) {
	descriptions := make([]string, len(expenses))
	for i, exp := range expenses {
		descriptions[i] = exp.Description
	}
	return e.CategorizeBatch(ctx, descriptions)
}

// Evaluate classifies labeled expenses and reports aggregate accuracy.
func (e *Engine) Evaluate(ctx context.Context, labeled []model.LabeledExpense) (model.EvaluationReport, error) {
	return e.eval.Evaluate(ctx, labeled)
}

// Categories returns the category names in table order.
func (e *Engine) Categories() []string {
	return e.store.Categories()
}

// Strategy returns the matching strategy the engine was built with.
func (e *Engine) Strategy() Strategy {
	return e.strategy
}

// Close releases the underlying embedder.
func (e *Engine) Close() error {
	return e.emb.Close()
}
