// Package embedtest provides a deterministic embedder double for tests.
// Real model files are never required to exercise the classification core.
package embedtest

import (
	"context"
	"hash/fnv"
	"strings"

	"github.com/crimson-sun/spendsort/internal/engine/embedder"
)

// Dim is the dimensionality of test vectors. Large enough that hash
// collisions between the handful of words used in tests are implausible.
const Dim = 256

// Embedder is a bag-of-words test double: each lowercased word hashes to one
// vector component, and the result is unit-normalized. Texts sharing words
// score high cosine similarity; disjoint texts score zero. Fully
// deterministic, so batch and single calls agree exactly.
type Embedder struct {
	Calls      int
	BatchCalls int
	Err        error // returned from every call when set
}

func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	e.Calls++
	if e.Err != nil {
		return nil, e.Err
	}
	return embed(text), nil
}

func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	e.Calls++
	e.BatchCalls++
	if e.Err != nil {
		return nil, e.Err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = embed(t)
	}
	return out, nil
}

func (e *Embedder) Dim() int     { return Dim }
func (e *Embedder) Close() error { return nil }

func embed(text string) []float32 {
	vec := make([]float32, Dim)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,!?'\"()-+:")
		if word == "" {
			continue
		}
		h := fnv.New32a()
		h.Write([]byte(word))
		vec[h.Sum32()%Dim]++
	}
	return embedder.Normalize(vec)
}
