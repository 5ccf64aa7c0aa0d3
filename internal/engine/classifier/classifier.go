// Package classifier assigns expense descriptions to categories by
// nearest-neighbor search over exemplar embeddings.
package classifier

import (
	"context"
	"fmt"

	"github.com/crimson-sun/spendsort/internal/engine/confidence"
	"github.com/crimson-sun/spendsort/internal/engine/embedder"
	"github.com/crimson-sun/spendsort/internal/engine/index"
	"github.com/crimson-sun/spendsort/internal/model"
)

// Classifier embeds descriptions and resolves each one to its
// best-matching category with a confidence bucket.
type Classifier struct {
	emb     embedder.Embedder
	idx     index.Index
	buckets *confidence.Bucketer
}

// New creates a Classifier over the given embedder and index.
func New(emb embedder.Embedder, idx index.Index, buckets *confidence.Bucketer) *Classifier {
	if buckets == nil {
		buckets = confidence.Default()
	}
	return &Classifier{emb: emb, idx: idx, buckets: buckets}
}

// Classify categorizes a single description. Empty and whitespace-only
// descriptions are embedded like any other text, never skipped.
func (c *Classifier) Classify(ctx context.Context, description string) (model.Prediction, error) {
	preds, err := c.ClassifyBatch(ctx, []string{description})
	if err != nil {
		return model.Prediction{}, err
	}
	return preds[0], nil
}

// ClassifyBatch categorizes descriptions in one embedding pass and
// returns exactly one Prediction per input, in input order.
func (c *Classifier) ClassifyBatch(ctx context.Context, descriptions []string) ([]model.Prediction, error) {
	if len(descriptions) == 0 {
		return nil, nil
	}

	vectors, err := c.emb.EmbedBatch(ctx, descriptions)
	if err != nil {
		return nil, fmt.Errorf("classifier: embedding batch of %d: %w", len(descriptions), err)
	}
	if len(vectors) != len(descriptions) {
		return nil, fmt.Errorf("classifier: embedder returned %d vectors for %d inputs", len(vectors), len(descriptions))
	}

	preds := make([]model.Prediction, len(descriptions))
	for i, vec := range vectors {
		match, err := c.idx.BestMatch(vec)
		if err != nil {
			return nil, fmt.Errorf("classifier: matching %q: %w", descriptions[i], err)
		}
		preds[i] = model.Prediction{
			Description:    descriptions[i],
			Category:       match.Category,
			MatchedExample: match.Example,
			Score:          match.Score,
			Confidence:     string(c.buckets.Bucket(match.Score)),
			LowConfidence:  c.buckets.LowConfidence(match.Score),
		}
	}
	return preds, nil
}
