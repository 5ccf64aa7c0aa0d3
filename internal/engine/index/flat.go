package index

import (
	"fmt"

	"github.com/crimson-sun/spendsort/internal/model"
)

// Flat scans every individual exemplar vector and returns the one with the
// maximum inner product. Ties break toward the first-encountered exemplar,
// so results are deterministic for a fixed exemplar ordering.
type Flat struct {
	exemplars []model.Exemplar
	dim       int
}

// NewFlat builds a flat index over the given exemplars. The set must be
// non-empty and dimensionally uniform.
func NewFlat(exemplars []model.Exemplar) (*Flat, error) {
	if len(exemplars) == 0 {
		return nil, fmt.Errorf("index: no exemplars to index")
	}
	dim := len(exemplars[0].Vector)
	for _, ex := range exemplars {
		if len(ex.Vector) != dim {
			return nil, fmt.Errorf("index: exemplar %q has %d dims, expected %d",
				ex.Phrase, len(ex.Vector), dim)
		}
	}
	return &Flat{exemplars: exemplars, dim: dim}, nil
}

// BestMatch returns the exemplar with the highest inner product against query.
func (f *Flat) BestMatch(query []float32) (Match, error) {
	if err := checkDim(len(query), f.dim); err != nil {
		return Match{}, err
	}

	best := Match{Score: -2} // below the cosine floor of -1
	for _, ex := range f.exemplars {
		if score := dot(query, ex.Vector); score > best.Score {
			best = Match{Category: ex.Category, Example: ex.Phrase, Score: score}
		}
	}
	return best, nil
}
