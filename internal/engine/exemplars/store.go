// Package exemplars builds and holds the labeled example phrases that anchor
// classification. The store is read-only after construction and safe to share
// across concurrent classification calls.
package exemplars

import (
	"context"
	"fmt"

	"github.com/crimson-sun/spendsort/internal/engine/embedder"
	"github.com/crimson-sun/spendsort/internal/model"
)

// Entry is one category with its ordered example phrases.
type Entry struct {
	Category string
	Phrases  []string
}

// Table is an ordered category → phrases mapping. Order is load order and
// determines tie-breaking downstream.
type Table []Entry

// Store holds every exemplar with its embedding, plus one centroid per
// category. Rebuilding after a table change requires a full Build pass;
// there is no incremental update.
type Store struct {
	exemplars []model.Exemplar
	centroids []model.Centroid
	dim       int
}

// Build embeds every phrase in the table (one batched call) and derives the
// per-category centroids. Configuration errors — an empty table, a category
// without phrases, a dimension mismatch — are fatal and reported here, before
// any classification runs.
func Build(ctx context.Context, table Table, emb embedder.Embedder) (*Store, error) {
	if len(table) == 0 {
		return nil, fmt.Errorf("exemplars: empty category table")
	}

	var texts []string
	for _, entry := range table {
		if entry.Category == "" {
			return nil, fmt.Errorf("exemplars: entry with empty category name")
		}
		if len(entry.Phrases) == 0 {
			return nil, fmt.Errorf("exemplars: category %q has no example phrases", entry.Category)
		}
		texts = append(texts, entry.Phrases...)
	}

	vecs, err := emb.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("exemplars: embedding examples: %w", err)
	}
	if len(vecs) != len(texts) {
		return nil, fmt.Errorf("exemplars: embedded %d of %d phrases", len(vecs), len(texts))
	}

	dim := emb.Dim()
	s := &Store{dim: dim}
	i := 0
	for _, entry := range table {
		sum := make([]float64, dim)
		for _, phrase := range entry.Phrases {
			vec := vecs[i]
			i++
			if len(vec) != dim {
				return nil, fmt.Errorf("exemplars: %q embedded to %d dims, provider reports %d",
					phrase, len(vec), dim)
			}
			s.exemplars = append(s.exemplars, model.Exemplar{
				Category: entry.Category,
				Phrase:   phrase,
				Vector:   vec,
			})
			for d, v := range vec {
				sum[d] += float64(v)
			}
		}

		centroid := make([]float32, dim)
		n := float64(len(entry.Phrases))
		for d := range centroid {
			centroid[d] = float32(sum[d] / n)
		}
		s.centroids = append(s.centroids, model.Centroid{
			Category: entry.Category,
			Vector:   embedder.Normalize(centroid),
		})
	}

	return s, nil
}

// Exemplars returns every exemplar in table order. Callers must not mutate
// the returned slice.
func (s *Store) Exemplars() []model.Exemplar {
	return s.exemplars
}

// Centroids returns one centroid per category, in category insertion order.
func (s *Store) Centroids() []model.Centroid {
	return s.centroids
}

// Categories returns the category names in insertion order.
func (s *Store) Categories() []string {
	out := make([]string, len(s.centroids))
	for i, c := range s.centroids {
		out[i] = c.Category
	}
	return out
}

// Dim returns the embedding dimensionality shared by all stored vectors.
func (s *Store) Dim() int {
	return s.dim
}
