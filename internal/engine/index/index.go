// Package index performs nearest-match lookup over stored exemplar or
// centroid vectors. Both backends are exact linear scans — corpus sizes are
// tens to low hundreds of vectors, where a scan beats any approximate
// structure. The Index interface leaves room to swap in an approximate
// backend without touching callers.
package index

import "fmt"

// Match is the best-scoring anchor for a query vector.
type Match struct {
	Category string
	Example  string  // matched phrase; empty for centroid matches
	Score    float64 // cosine similarity in [-1, 1]
}

// Index returns the best-matching anchor for a unit-normalized query vector.
type Index interface {
	BestMatch(query []float32) (Match, error)
}

// dot computes the inner product of two equal-length vectors in float64.
// For unit-normalized inputs this equals cosine similarity.
func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func checkDim(got, want int) error {
	if got != want {
		return fmt.Errorf("index: query has %d dims, index holds %d-dim vectors", got, want)
	}
	return nil
}
