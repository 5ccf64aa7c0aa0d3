package spendsort

import "context"

// Prediction is a categorized expense description.
// This is the stable public type — internal representations may evolve
// independently without breaking consumers.
type Prediction struct {
	Description    string  `json:"description"`
	Category       string  `json:"predicted_category"`
	MatchedExample string  `json:"matched_example,omitempty"` // empty in centroid mode
	Score          float64 `json:"similarity_score"`          // cosine similarity in [-1, 1]
	Confidence     string  `json:"confidence_bucket"`         // High, Medium, Low
	LowConfidence  bool    `json:"low_confidence_flag"`
}

// Labeled is a description with a ground-truth category, used by Evaluate.
type Labeled struct {
	Description  string
	TrueCategory string
}

// CategoryStats holds per-category evaluation counts, grouped by true label.
type CategoryStats struct {
	Category string
	Count    int
	Correct  int
	Accuracy float64
}

// Evaluated pairs a Prediction with its ground-truth label.
type Evaluated struct {
	Prediction
	TrueCategory string `json:"true_category"`
	Correct      bool   `json:"correct"`
}

// Report summarizes an evaluation run over a labeled set.
type Report struct {
	Total         int
	Correct       int
	Incorrect     int
	Accuracy      float64
	LowConfidence int

	// PerCategory is sorted by category name.
	PerCategory []CategoryStats

	// Errors contains every prediction that is incorrect or low-confidence.
	Errors []Evaluated
}

// Category is one labeled group of example phrases. Phrase order matters:
// earlier phrases win similarity ties.
type Category struct {
	Name    string
	Phrases []string
}

// Embedder turns text into unit-length vectors. Implement this to plug a
// custom embedding backend into New via WithEmbedder; the built-in ONNX
// embedder is used otherwise.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dim() int
	Close() error
}
