package embedder

import (
	"context"
	"fmt"
	"math"
)

// Embedder produces unit-normalized vector embeddings from text.
//
// EmbedBatch must be numerically identical, item for item, to calling Embed
// on each text individually — batching is a throughput optimization, never a
// semantic change.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dim() int
	Close() error
}

// Normalize scales vec to unit L2 norm in place and returns it.
// A zero vector is returned unchanged: there is no meaningful direction to
// preserve, and downstream dot products correctly score it at 0.
func Normalize(vec []float32) []float32 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return vec
	}
	inv := 1.0 / math.Sqrt(sum)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) * inv)
	}
	return vec
}

// ONNXEmbedder runs a MiniLM-style sentence transformer locally:
// tokenize → ONNX inference → mean pool → L2 normalize.
type ONNXEmbedder struct {
	session *onnxSession
	tok     *wordpieceTokenizer
}

// NewONNX creates an ONNXEmbedder from an exported model and its WordPiece
// vocabulary. Loading is expensive (model deserialization); create once and
// reuse. A missing model or vocab file is a fatal startup error.
func NewONNX(modelPath, vocabPath string) (*ONNXEmbedder, error) {
	sess, err := newONNXSession(modelPath)
	if err != nil {
		return nil, fmt.Errorf("embedder: %w", err)
	}

	tok, err := newWordpieceTokenizer(vocabPath)
	if err != nil {
		sess.close()
		return nil, fmt.Errorf("embedder: %w", err)
	}

	return &ONNXEmbedder{session: sess, tok: tok}, nil
}

// Dim returns the embedding dimensionality reported by the model (384 for
// all-MiniLM-L6-v2).
func (e *ONNXEmbedder) Dim() int {
	return int(e.session.hiddenDim)
}

// Embed produces the unit-normalized embedding for a single text. The empty
// string is embedded like any other input ([CLS] [SEP] only).
func (e *ONNXEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch produces unit-normalized embeddings for multiple texts in a
// single inference call. The call blocks until every vector is ready.
func (e *ONNXEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	batch := e.tok.encodeBatch(texts)

	hidden, err := e.session.infer(batch)
	if err != nil {
		return nil, fmt.Errorf("embedder: %w", err)
	}

	dim := e.session.hiddenDim
	pooled := meanPool(hidden, batch.mask, batch.size, batch.seqLen, dim)

	out := make([][]float32, batch.size)
	for i := int64(0); i < batch.size; i++ {
		vec := make([]float32, dim)
		copy(vec, pooled[i*dim:(i+1)*dim])
		out[i] = Normalize(vec)
	}
	return out, nil
}

// Close releases ONNX Runtime resources.
func (e *ONNXEmbedder) Close() error {
	if e.session != nil {
		return e.session.close()
	}
	return nil
}
