package model

import "time"

// Expense is the intermediate type produced by connectors and consumed by
// the engine and dataset layers.
type Expense struct {
	Date        time.Time
	Amount      string // kept verbatim from the source API ("25.0"), never parsed
	Currency    string
	PaidBy      string
	Description string
}

// LabeledExpense is a single row of a hand-labeled evaluation set.
type LabeledExpense struct {
	Description  string
	TrueCategory string
}
