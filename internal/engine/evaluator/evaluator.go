// Package evaluator scores predictions against ground-truth labels.
package evaluator

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/crimson-sun/spendsort/internal/engine/classifier"
	"github.com/crimson-sun/spendsort/internal/model"
)

// Evaluator classifies labeled expenses and measures how well the
// predictions agree with the labels.
type Evaluator struct {
	cls *classifier.Classifier
}

// New creates an Evaluator backed by the given classifier.
func New(cls *classifier.Classifier) *Evaluator {
	return &Evaluator{cls: cls}
}

// Evaluate classifies every labeled expense and returns an aggregate
// report. Labels compare case-insensitively after trimming whitespace,
// so "groceries" and " Groceries " count as the same category.
func (e *Evaluator) Evaluate(ctx context.Context, labeled []model.LabeledExpense) (model.EvaluationReport, error) {
	if len(labeled) == 0 {
		return model.EvaluationReport{}, fmt.Errorf("evaluator: no labeled expenses to evaluate")
	}

	descriptions := make([]string, len(labeled))
	for i, l := range labeled {
		descriptions[i] = l.Description
	}
	preds, err := e.cls.ClassifyBatch(ctx, descriptions)
	if err != nil {
		return model.EvaluationReport{}, err
	}

	evaluated := make([]model.EvaluatedPrediction, len(preds))
	for i, pred := range preds {
		evaluated[i] = model.EvaluatedPrediction{
			Prediction:   pred,
			TrueCategory: labeled[i].TrueCategory,
			Correct:      labelsMatch(pred.Category, labeled[i].TrueCategory),
		}
	}
	return Summarize(evaluated), nil
}

// Summarize aggregates already-evaluated predictions into a report.
// The error list carries every incorrect prediction plus every correct
// one flagged low confidence, so it is a superset of the
// misclassifications.
func Summarize(evaluated []model.EvaluatedPrediction) model.EvaluationReport {
	report := model.EvaluationReport{Total: len(evaluated)}
	byCategory := make(map[string]*model.CategoryStats)

	for _, ev := range evaluated {
		key := canonicalLabel(ev.TrueCategory)
		stats, ok := byCategory[key]
		if !ok {
			stats = &model.CategoryStats{Category: strings.TrimSpace(ev.TrueCategory)}
			byCategory[key] = stats
		}
		stats.Count++

		if ev.Correct {
			report.Correct++
			stats.Correct++
		} else {
			report.Incorrect++
		}
		if ev.LowConfidence {
			report.LowConfidence++
		}
		if !ev.Correct || ev.LowConfidence {
			report.Errors = append(report.Errors, ev)
		}
	}

	if report.Total > 0 {
		report.Accuracy = float64(report.Correct) / float64(report.Total)
	}

	report.PerCategory = make([]model.CategoryStats, 0, len(byCategory))
	for _, stats := range byCategory {
		if stats.Count > 0 {
			stats.Accuracy = float64(stats.Correct) / float64(stats.Count)
		}
		report.PerCategory = append(report.PerCategory, *stats)
	}
	sort.Slice(report.PerCategory, func(i, j int) bool {
		return report.PerCategory[i].Category < report.PerCategory[j].Category
	})
	return report
}

func labelsMatch(predicted, truth string) bool {
	return canonicalLabel(predicted) == canonicalLabel(truth)
}

func canonicalLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}
