package output

import "github.com/crimson-sun/spendsort/internal/model"

// Verbosity controls which prediction fields an output emits.
type Verbosity int

const (
	// Minimal drops the matched example and raw score, keeping only
	// the category assignment.
	Minimal Verbosity = iota
	// Full preserves every field.
	Full
)

// FormatPrediction returns a copy of the prediction with fields
// stripped according to verbosity. At Minimal: MatchedExample is
// omitted and Score zeroed. At Full: all fields preserved.
func FormatPrediction(p model.Prediction, verbosity Verbosity) model.Prediction {
	if verbosity == Minimal {
		p.MatchedExample = ""
		p.Score = 0
	}
	return p
}
