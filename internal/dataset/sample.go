package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"strings"

	"github.com/crimson-sun/spendsort/internal/anonymize"
	"github.com/crimson-sun/spendsort/internal/model"
)

// SampleUnique deduplicates expenses by description and returns a
// deterministic random sample of up to n of them. Duplicates compare
// case-insensitively after trimming; the first occurrence wins. The
// same seed always selects the same rows.
func SampleUnique(expenses []model.Expense, n int, seed int64) []model.Expense {
	seen := make(map[string]bool, len(expenses))
	unique := make([]model.Expense, 0, len(expenses))
	for _, exp := range expenses {
		key := strings.ToLower(strings.TrimSpace(exp.Description))
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, exp)
	}

	if n <= 0 || n >= len(unique) {
		return unique
	}

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(unique), func(i, j int) {
		unique[i], unique[j] = unique[j], unique[i]
	})
	return unique[:n]
}

// WriteNameMapping writes original-to-pseudonym pairs as CSV to w.
// The mapping file stays out of shared datasets; it exists so a run
// can be audited locally.
func WriteNameMapping(w io.Writer, pairs []anonymize.Pair) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"original", "pseudonym"}); err != nil {
		return fmt.Errorf("dataset: writing header: %w", err)
	}
	for _, pair := range pairs {
		if err := cw.Write([]string{pair.Original, pair.Pseudonym}); err != nil {
			return fmt.Errorf("dataset: writing mapping row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
