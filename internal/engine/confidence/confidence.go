// Package confidence maps similarity scores to confidence buckets.
package confidence

import "fmt"

// Level is the confidence bucket assigned to a prediction.
type Level string

const (
	High   Level = "High"
	Medium Level = "Medium"
	Low    Level = "Low"
)

// Default thresholds. Scores at or above High are High, at or above
// Low are Medium, everything else is Low.
const (
	DefaultHighThreshold = 0.75
	DefaultLowThreshold  = 0.45
)

// Bucketer assigns a Level to a cosine similarity score.
type Bucketer struct {
	high float64
	low  float64
}

// NewBucketer builds a Bucketer with the given cutoffs. high must be
// strictly greater than low.
func NewBucketer(high, low float64) (*Bucketer, error) {
	if high <= low {
		return nil, fmt.Errorf("confidence: high threshold %.4f must exceed low threshold %.4f", high, low)
	}
	return &Bucketer{high: high, low: low}, nil
}

// Default returns a Bucketer with the standard 0.75/0.45 cutoffs.
func Default() *Bucketer {
	return &Bucketer{high: DefaultHighThreshold, low: DefaultLowThreshold}
}

// Bucket returns the Level for score. Boundaries are inclusive:
// a score exactly at a threshold lands in the higher bucket.
func (b *Bucketer) Bucket(score float64) Level {
	switch {
	case score >= b.high:
		return High
	case score >= b.low:
		return Medium
	default:
		return Low
	}
}

// LowConfidence reports whether score falls below the low threshold.
// It is always consistent with Bucket returning Low.
func (b *Bucketer) LowConfidence(score float64) bool {
	return score < b.low
}

// HighThreshold returns the configured High cutoff.
func (b *Bucketer) HighThreshold() float64 { return b.high }

// LowThreshold returns the configured Low cutoff.
func (b *Bucketer) LowThreshold() float64 { return b.low }
