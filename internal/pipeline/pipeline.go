// Package pipeline connects a connector, the categorization engine,
// and an output into a one-shot run.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/crimson-sun/spendsort/internal/anonymize"
	"github.com/crimson-sun/spendsort/internal/connector"
	"github.com/crimson-sun/spendsort/internal/engine"
	"github.com/crimson-sun/spendsort/internal/model"
	"github.com/crimson-sun/spendsort/internal/output"
)

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithAnonymizer makes the pipeline replace payer names before
// predictions are written.
func WithAnonymizer(m *anonymize.Mapper) Option {
	return func(p *Pipeline) { p.mapper = m }
}

// Pipeline fetches expenses, categorizes them, and writes predictions.
type Pipeline struct {
	connector connector.Connector
	engine    *engine.Engine
	output    output.Output
	mapper    *anonymize.Mapper
}

// New creates a Pipeline from the given components.
func New(conn connector.Connector, eng *engine.Engine, out output.Output, opts ...Option) *Pipeline {
	p := &Pipeline{
		connector: conn,
		engine:    eng,
		output:    out,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run fetches expenses matching params and pushes every prediction to
// the output. Returns the predictions for further processing.
func (p *Pipeline) Run(ctx context.Context, params connector.FetchParams) ([]model.Prediction, error) {
	expenses, err := p.connector.Fetch(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("pipeline fetch: %w", err)
	}
	slog.Info("fetched expenses", "count", len(expenses))
	return p.RunExpenses(ctx, expenses)
}

// RunExpenses categorizes already-loaded expenses and pushes every
// prediction to the output, preserving input order.
func (p *Pipeline) RunExpenses(ctx context.Context, expenses []model.Expense) ([]model.Prediction, error) {
	if p.mapper != nil {
		expenses = p.mapper.AnonymizeExpenses(expenses)
	}

	preds, err := p.engine.CategorizeExpenses(ctx, expenses)
	if err != nil {
		return nil, fmt.Errorf("pipeline categorize: %w", err)
	}

	for _, pred := range preds {
		if err := p.output.Write(ctx, pred); err != nil {
			return nil, fmt.Errorf("pipeline output: %w", err)
		}
	}
	return preds, nil
}

// Close shuts down the output.
func (p *Pipeline) Close() error {
	return p.output.Close()
}
