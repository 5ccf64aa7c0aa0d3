// Package anonymize replaces real payer names with stable pseudonyms
// so datasets can be shared without exposing who paid.
package anonymize

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/crimson-sun/spendsort/internal/model"
)

// unknownName stands in for blank payer names. It never consumes a
// pseudonym from the pool.
const unknownName = "Unknown"

var defaultPool = []string{
	"Alex", "Blake", "Casey", "Drew", "Emery",
	"Finley", "Harper", "Jordan", "Kendall", "Logan",
	"Morgan", "Parker", "Quinn", "Reese", "Riley",
	"Rowan", "Sage", "Skyler", "Taylor", "Wren",
}

// Pair records one original name and its assigned pseudonym.
type Pair struct {
	Original  string
	Pseudonym string
}

// Mapper assigns one pseudonym per distinct payer name. Names compare
// case-insensitively after trimming, so "alex" and " Alex " share a
// pseudonym. Once the pool runs out, generated names are used instead.
type Mapper struct {
	pool     []string
	assigned map[string]string
	pairs    []Pair
}

// NewMapper creates a Mapper over the default pseudonym pool.
func NewMapper() *Mapper {
	return &Mapper{
		pool:     defaultPool,
		assigned: make(map[string]string),
	}
}

// Pseudonym returns the stable pseudonym for name, assigning one on
// first sight. Blank names map to "Unknown".
func (m *Mapper) Pseudonym(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return unknownName
	}

	key := strings.ToLower(trimmed)
	if p, ok := m.assigned[key]; ok {
		return p
	}

	var p string
	if len(m.pairs) < len(m.pool) {
		p = m.pool[len(m.pairs)]
	} else {
		p = "Person-" + uuid.NewString()[:8]
	}
	m.assigned[key] = p
	m.pairs = append(m.pairs, Pair{Original: trimmed, Pseudonym: p})
	return p
}

// AnonymizeExpenses returns a copy of expenses with every PaidBy
// replaced by its pseudonym. Order is preserved.
func (m *Mapper) AnonymizeExpenses(expenses []model.Expense) []model.Expense {
	out := make([]model.Expense, len(expenses))
	for i, exp := range expenses {
		out[i] = exp
		out[i].PaidBy = m.Pseudonym(exp.PaidBy)
	}
	return out
}

// Pairs returns the name mapping in first-seen order. Blank names are
// not included.
func (m *Mapper) Pairs() []Pair {
	out := make([]Pair, len(m.pairs))
	copy(out, m.pairs)
	return out
}

// Validate checks that distinct originals and distinct pseudonyms
// stayed in one-to-one correspondence.
func (m *Mapper) Validate() error {
	seen := make(map[string]string, len(m.pairs))
	for _, pair := range m.pairs {
		if prev, ok := seen[pair.Pseudonym]; ok && prev != strings.ToLower(pair.Original) {
			return fmt.Errorf("anonymize: pseudonym %q assigned to both %q and %q", pair.Pseudonym, prev, pair.Original)
		}
		seen[pair.Pseudonym] = strings.ToLower(pair.Original)
	}
	if len(seen) != len(m.pairs) {
		return fmt.Errorf("anonymize: %d pairs collapsed to %d pseudonyms", len(m.pairs), len(seen))
	}
	return nil
}
