package embedder

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// testVocab covers the special tokens plus a few whole words and subwords.
// Line number is token ID.
var testVocab = []string{
	"[PAD]",  // 0
	"[UNK]",  // 1
	"[CLS]",  // 2
	"[SEP]",  // 3
	"grocery", // 4
	"store",  // 5
	"un",     // 6
	"##able", // 7
	"##s",    // 8
	"!",      // 9
}

func writeTestVocab(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vocab.txt")
	if err := os.WriteFile(path, []byte(strings.Join(testVocab, "\n")+"\n"), 0644); err != nil {
		t.Fatalf("write vocab: %v", err)
	}
	return path
}

func newTestTokenizer(t *testing.T) *wordpieceTokenizer {
	t.Helper()
	tok, err := newWordpieceTokenizer(writeTestVocab(t))
	if err != nil {
		t.Fatalf("newWordpieceTokenizer() error: %v", err)
	}
	return tok
}

func TestTokenizerMissingSpecialToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.txt")
	if err := os.WriteFile(path, []byte("[PAD]\n[UNK]\n[CLS]\n"), 0644); err != nil {
		t.Fatalf("write vocab: %v", err)
	}
	if _, err := newWordpieceTokenizer(path); err == nil {
		t.Fatal("expected error for vocab without [SEP]")
	}
}

func TestEncodeKnownWords(t *testing.T) {
	tok := newTestTokenizer(t)

	got := tok.encode("Grocery store!")
	want := []int64{2, 4, 5, 9, 3} // [CLS] grocery store ! [SEP]
	if !reflect.DeepEqual(got, want) {
		t.Errorf("encode() = %v, want %v", got, want)
	}
}

func TestEncodeWordpieceSubwords(t *testing.T) {
	tok := newTestTokenizer(t)

	got := tok.encode("unable stores")
	// unable → un ##able; stores → store ##s
	want := []int64{2, 6, 7, 5, 8, 3}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("encode() = %v, want %v", got, want)
	}
}

func TestEncodeUnknownWord(t *testing.T) {
	tok := newTestTokenizer(t)

	got := tok.encode("zzzzz")
	want := []int64{2, 1, 3} // [CLS] [UNK] [SEP]
	if !reflect.DeepEqual(got, want) {
		t.Errorf("encode() = %v, want %v", got, want)
	}
}

func TestEncodeEmptyString(t *testing.T) {
	tok := newTestTokenizer(t)

	got := tok.encode("")
	want := []int64{2, 3} // [CLS] [SEP] — the empty string is still embedded
	if !reflect.DeepEqual(got, want) {
		t.Errorf("encode(\"\") = %v, want %v", got, want)
	}
}

func TestEncodeTruncation(t *testing.T) {
	tok := newTestTokenizer(t)

	long := strings.Repeat("store ", maxSeqLen*2)
	got := tok.encode(long)
	if len(got) != maxSeqLen {
		t.Errorf("expected truncation to %d tokens, got %d", maxSeqLen, len(got))
	}
	if got[len(got)-1] != tok.sepID {
		t.Error("truncated sequence must still end with [SEP]")
	}
}

func TestEncodeBatchPadsToLongest(t *testing.T) {
	tok := newTestTokenizer(t)

	b := tok.encodeBatch([]string{"grocery store", "store"})
	if b.size != 2 {
		t.Fatalf("size = %d, want 2", b.size)
	}
	if b.seqLen != 4 { // [CLS] grocery store [SEP]
		t.Fatalf("seqLen = %d, want 4", b.seqLen)
	}

	wantIDs := []int64{
		2, 4, 5, 3, // grocery store
		2, 5, 3, 0, // store + [PAD]
	}
	wantMask := []int64{
		1, 1, 1, 1,
		1, 1, 1, 0,
	}
	if !reflect.DeepEqual(b.ids, wantIDs) {
		t.Errorf("ids = %v, want %v", b.ids, wantIDs)
	}
	if !reflect.DeepEqual(b.mask, wantMask) {
		t.Errorf("mask = %v, want %v", b.mask, wantMask)
	}
}

func TestBasicTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"Trader Joe's", []string{"trader", "joe", "'", "s"}},
		{"  milk\tand  eggs ", []string{"milk", "and", "eggs"}},
		{"café", []string{"cafe"}},
		{"", nil},
		{"a\x00b", []string{"ab"}},
	}
	for _, tt := range tests {
		got := basicTokenize(tt.in)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("basicTokenize(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
