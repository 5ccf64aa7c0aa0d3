package index

import (
	"fmt"

	"github.com/crimson-sun/spendsort/internal/model"
)

// Centroids scans one summary vector per category. Ties break toward the
// earlier category in insertion order.
type Centroids struct {
	centroids []model.Centroid
	dim       int
}

// NewCentroids builds a centroid index. At least one centroid is required and
// all vectors must share a dimension.
func NewCentroids(centroids []model.Centroid) (*Centroids, error) {
	if len(centroids) == 0 {
		return nil, fmt.Errorf("index: no centroids to index")
	}
	dim := len(centroids[0].Vector)
	for _, c := range centroids {
		if len(c.Vector) != dim {
			return nil, fmt.Errorf("index: centroid %q has %d dims, expected %d",
				c.Category, len(c.Vector), dim)
		}
	}
	return &Centroids{centroids: centroids, dim: dim}, nil
}

// BestMatch returns the category whose centroid has the highest inner product
// against query. Match.Example is empty: a centroid summarizes the whole
// category rather than any single phrase.
func (c *Centroids) BestMatch(query []float32) (Match, error) {
	if err := checkDim(len(query), c.dim); err != nil {
		return Match{}, err
	}

	best := Match{Score: -2}
	for _, cent := range c.centroids {
		if score := dot(query, cent.Vector); score > best.Score {
			best = Match{Category: cent.Category, Score: score}
		}
	}
	return best, nil
}
