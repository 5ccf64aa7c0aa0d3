package model

// Prediction is spendsort's output type — one per classified description,
// never mutated after creation.
type Prediction struct {
	Description    string  `json:"description"`
	Category       string  `json:"predicted_category"`
	MatchedExample string  `json:"matched_example,omitempty"` // empty in centroid mode
	Score          float64 `json:"similarity_score"`          // cosine similarity in [-1, 1]
	Confidence     string  `json:"confidence_bucket"`         // High, Medium, Low
	LowConfidence  bool    `json:"low_confidence_flag"`
}

// EvaluatedPrediction pairs a Prediction with its ground-truth label.
type EvaluatedPrediction struct {
	Prediction
	TrueCategory string `json:"true_category"`
	Correct      bool   `json:"correct"`
}
