package embedder

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// maxSeqLen caps the token sequence length fed to the model, including the
// [CLS] and [SEP] markers. Expense descriptions are short phrases; 128 leaves
// ample headroom.
const maxSeqLen = 128

const (
	padToken = "[PAD]"
	unkToken = "[UNK]"
	clsToken = "[CLS]"
	sepToken = "[SEP]"
)

// encodedBatch holds tokenized texts packed into flat tensors, padded to the
// longest sequence in the batch. All slices have length size*seqLen.
type encodedBatch struct {
	ids    []int64
	mask   []int64
	size   int64
	seqLen int64
}

// wordpieceTokenizer performs BERT-style lowercased WordPiece tokenization.
type wordpieceTokenizer struct {
	tokenIDs map[string]int64
	padID    int64
	unkID    int64
	clsID    int64
	sepID    int64
}

// newWordpieceTokenizer loads a vocab.txt file where the 0-indexed line
// number is the token ID. The four special tokens must be present.
func newWordpieceTokenizer(vocabPath string) (*wordpieceTokenizer, error) {
	f, err := os.Open(vocabPath)
	if err != nil {
		return nil, fmt.Errorf("vocab: %w", err)
	}
	defer f.Close()

	ids := make(map[string]int64)
	scanner := bufio.NewScanner(f)
	var id int64
	for scanner.Scan() {
		ids[strings.TrimRight(scanner.Text(), "\r\n")] = id
		id++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("vocab: %w", err)
	}

	t := &wordpieceTokenizer{tokenIDs: ids}
	for _, s := range []struct {
		token string
		dst   *int64
	}{
		{padToken, &t.padID},
		{unkToken, &t.unkID},
		{clsToken, &t.clsID},
		{sepToken, &t.sepID},
	} {
		v, ok := ids[s.token]
		if !ok {
			return nil, fmt.Errorf("vocab: missing special token %s", s.token)
		}
		*s.dst = v
	}
	return t, nil
}

// encode converts text to token IDs wrapped in [CLS]/[SEP], truncated to
// maxSeqLen. No padding — encodeBatch pads to the batch maximum.
func (t *wordpieceTokenizer) encode(text string) []int64 {
	words := basicTokenize(text)

	ids := make([]int64, 0, len(words)+2)
	ids = append(ids, t.clsID)
	for _, w := range words {
		for _, piece := range t.wordpiece(w) {
			ids = append(ids, piece)
		}
		if len(ids) >= maxSeqLen-1 {
			ids = ids[:maxSeqLen-1]
			break
		}
	}
	return append(ids, t.sepID)
}

// encodeBatch tokenizes texts and packs them into flat tensors padded to the
// longest sequence in the batch.
func (t *wordpieceTokenizer) encodeBatch(texts []string) encodedBatch {
	n := len(texts)
	if n == 0 {
		return encodedBatch{}
	}

	seqs := make([][]int64, n)
	maxLen := 0
	for i, text := range texts {
		seqs[i] = t.encode(text)
		if len(seqs[i]) > maxLen {
			maxLen = len(seqs[i])
		}
	}

	size, seqLen := int64(n), int64(maxLen)
	ids := make([]int64, size*seqLen)
	mask := make([]int64, size*seqLen)
	if t.padID != 0 {
		for i := range ids {
			ids[i] = t.padID
		}
	}
	for i, seq := range seqs {
		off := int64(i) * seqLen
		copy(ids[off:], seq)
		for j := range seq {
			mask[off+int64(j)] = 1
		}
	}

	return encodedBatch{ids: ids, mask: mask, size: size, seqLen: seqLen}
}

// wordpiece decomposes one basic token into subword IDs using greedy
// longest-match-first, mirroring BERT's WordPiece algorithm.
func (t *wordpieceTokenizer) wordpiece(word string) []int64 {
	runes := []rune(word)
	if len(runes) == 0 {
		return nil
	}
	if len(runes) > 200 {
		return []int64{t.unkID}
	}

	var pieces []int64
	start := 0
	for start < len(runes) {
		end := len(runes)
		matched := int64(-1)
		for end > start {
			sub := string(runes[start:end])
			if start > 0 {
				sub = "##" + sub
			}
			if id, ok := t.tokenIDs[sub]; ok {
				matched = id
				break
			}
			end--
		}
		if matched < 0 {
			return []int64{t.unkID}
		}
		pieces = append(pieces, matched)
		start = end
	}
	return pieces
}

// basicTokenize applies BERT's BasicTokenizer: strip control characters,
// lowercase, remove accents, split on whitespace and punctuation.
func basicTokenize(text string) []string {
	var cleaned strings.Builder
	cleaned.Grow(len(text))
	for _, r := range text {
		switch {
		case r == 0 || r == 0xFFFD || isControl(r):
		case isTokenSpace(r):
			cleaned.WriteRune(' ')
		default:
			cleaned.WriteRune(r)
		}
	}

	lowered := stripAccents(strings.ToLower(cleaned.String()))

	var words []string
	for _, field := range strings.Fields(lowered) {
		words = append(words, splitPunctuation(field)...)
	}
	return words
}

// stripAccents removes combining diacritical marks after NFD normalization.
func stripAccents(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range norm.NFD.String(text) {
		if unicode.In(r, unicode.Mn) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// splitPunctuation splits a word at each punctuation rune, keeping the
// punctuation as a separate token.
func splitPunctuation(word string) []string {
	var tokens []string
	var current strings.Builder
	for _, r := range word {
		if isTokenPunct(r) {
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
			tokens = append(tokens, string(r))
		} else {
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}
	return tokens
}

// Character classes below match BERT's reference tokenizer, which treats a
// few ASCII ranges as punctuation beyond the Unicode categories.

func isTokenSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || unicode.Is(unicode.Zs, r)
}

func isControl(r rune) bool {
	if r == '\t' || r == '\n' || r == '\r' {
		return false
	}
	return unicode.IsControl(r)
}

func isTokenPunct(r rune) bool {
	if (r >= 33 && r <= 47) || (r >= 58 && r <= 64) ||
		(r >= 91 && r <= 96) || (r >= 123 && r <= 126) {
		return true
	}
	return unicode.IsPunct(r)
}
