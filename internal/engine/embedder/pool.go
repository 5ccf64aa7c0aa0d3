package embedder

// meanPool computes attention-mask-weighted mean pooling over the sequence
// dimension of transformer hidden states.
//
// hidden: flat [size * seqLen * dim] per-token hidden states
// mask:   flat [size * seqLen], 1 for real tokens, 0 for padding
//
// Returns flat [size * dim], one pooled vector per sample. A sample whose
// mask is all zeros pools to the zero vector.
func meanPool(hidden []float32, mask []int64, size, seqLen, dim int64) []float32 {
	out := make([]float32, size*dim)

	for b := int64(0); b < size; b++ {
		maskOff := b * seqLen
		hiddenOff := b * seqLen * dim
		outOff := b * dim

		var count float32
		for s := int64(0); s < seqLen; s++ {
			if mask[maskOff+s] != 1 {
				continue
			}
			count++
			tokOff := hiddenOff + s*dim
			for d := int64(0); d < dim; d++ {
				out[outOff+d] += hidden[tokOff+d]
			}
		}
		if count == 0 {
			continue
		}
		for d := int64(0); d < dim; d++ {
			out[outOff+d] /= count
		}
	}
	return out
}
