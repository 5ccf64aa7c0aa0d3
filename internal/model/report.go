package model

// CategoryStats holds per-category evaluation counts, grouped by true label.
type CategoryStats struct {
	Category string
	Count    int
	Correct  int
	Accuracy float64
}

// EvaluationReport summarizes a labeled evaluation run.
type EvaluationReport struct {
	Total         int
	Correct       int
	Incorrect     int
	Accuracy      float64 // Correct / Total, 0 for an empty run
	LowConfidence int     // predictions bucketed Low

	// PerCategory is sorted by category name.
	PerCategory []CategoryStats

	// Errors contains every prediction that is incorrect or low-confidence.
	// Always a superset of the misclassifications.
	Errors []EvaluatedPrediction
}
