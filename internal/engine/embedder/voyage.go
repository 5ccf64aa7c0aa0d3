package embedder

import (
	"context"
	"fmt"

	"github.com/austinfhunter/voyageai"
)

const (
	// DefaultVoyageModel balances quality and cost for short phrases.
	DefaultVoyageModel = "voyage-3.5-lite"
	// DefaultVoyageDim is the smallest output dimension the model supports.
	DefaultVoyageDim = 256
)

// VoyageEmbedder produces embeddings via the VoyageAI API. It is an
// alternative to the local ONNX provider for hosts without the ONNX runtime.
// Vectors are re-normalized locally so the unit-norm invariant never depends
// on remote behavior.
type VoyageEmbedder struct {
	client *voyageai.VoyageClient
	model  string
	dim    int
}

// VoyageOption configures a VoyageEmbedder.
type VoyageOption func(*VoyageEmbedder)

// WithVoyageModel overrides the embedding model.
func WithVoyageModel(model string) VoyageOption {
	return func(v *VoyageEmbedder) { v.model = model }
}

// WithVoyageDim overrides the requested output dimension. Must be a dimension
// the chosen model supports.
func WithVoyageDim(dim int) VoyageOption {
	return func(v *VoyageEmbedder) { v.dim = dim }
}

// NewVoyage creates a VoyageEmbedder. The API key must be non-empty; an
// invalid key surfaces on the first Embed call.
func NewVoyage(apiKey string, opts ...VoyageOption) (*VoyageEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("voyage: API key is required")
	}
	v := &VoyageEmbedder{
		client: voyageai.NewClient(&voyageai.VoyageClientOpts{Key: apiKey}),
		model:  DefaultVoyageModel,
		dim:    DefaultVoyageDim,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

func (v *VoyageEmbedder) Dim() int {
	return v.dim
}

func (v *VoyageEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := v.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (v *VoyageEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := v.client.Embed(texts, v.model, &voyageai.EmbeddingRequestOpts{
		OutputDimension: &v.dim,
	})
	if err != nil {
		return nil, fmt.Errorf("voyage: embed: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("voyage: requested %d embeddings, got %d", len(texts), len(resp.Data))
	}

	out := make([][]float32, len(texts))
	for i, obj := range resp.Data {
		if len(obj.Embedding) != v.dim {
			return nil, fmt.Errorf("voyage: expected %d-dim vector, got %d", v.dim, len(obj.Embedding))
		}
		out[i] = Normalize(obj.Embedding)
	}
	return out, nil
}

// Close is a no-op for the API-backed embedder.
func (v *VoyageEmbedder) Close() error {
	return nil
}
