// Package connector defines the interface for expense source
// connectors and a registry of available providers.
package connector

import (
	"context"
	"time"

	"github.com/crimson-sun/spendsort/internal/model"
)

// Connector fetches expenses from an external source.
type Connector interface {
	// Fetch returns expenses matching the given parameters, oldest
	// page first.
	Fetch(ctx context.Context, params FetchParams) ([]model.Expense, error)
}

// Config holds provider-specific connection settings.
type Config struct {
	Provider     string
	ClientID     string
	ClientSecret string
	TokenFile    string
	Endpoint     string
	Extra        map[string]string
}

// FetchParams defines filters for expense fetches.
type FetchParams struct {
	DatedAfter  time.Time
	DatedBefore time.Time
	GroupID     string
	// Limit caps the total number of expenses returned. Zero means
	// no cap.
	Limit int
}
