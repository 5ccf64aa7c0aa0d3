package model

// Exemplar is a category example phrase with its pre-computed embedding.
type Exemplar struct {
	Category string
	Phrase   string
	Vector   []float32
}

// Centroid is the element-wise mean of a category's exemplar embeddings,
// re-normalized to unit length.
type Centroid struct {
	Category string
	Vector   []float32
}
