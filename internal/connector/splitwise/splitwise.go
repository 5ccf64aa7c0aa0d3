// Package splitwise fetches expenses from the Splitwise REST API.
package splitwise

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/crimson-sun/spendsort/internal/connector"
	"github.com/crimson-sun/spendsort/internal/connector/httpclient"
	"github.com/crimson-sun/spendsort/internal/model"
)

const (
	defaultBaseURL = "https://secure.splitwise.com"
	expensesPath   = "/api/v3.0/get_expenses"
	pageSize       = 50
)

func init() {
	connector.Register("splitwise", New)
}

// Client fetches expenses from Splitwise, one page at a time.
type Client struct {
	http *httpclient.Client
}

// New builds a Client from registry configuration, running the OAuth2
// authorization flow if no cached token exists.
func New(cfg connector.Config) (connector.Connector, error) {
	hc, err := newAuthClient(context.Background(), authConfig{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenFile:    cfg.TokenFile,
	})
	if err != nil {
		return nil, err
	}

	base := cfg.Endpoint
	if base == "" {
		base = defaultBaseURL
	}
	return NewWithHTTPClient(base, httpclient.New(base, httpclient.WithHTTPClient(hc))), nil
}

// NewWithHTTPClient builds a Client over an already-authenticated
// HTTP client. Tests use this to point at a local server.
func NewWithHTTPClient(baseURL string, hc *httpclient.Client) *Client {
	if hc == nil {
		hc = httpclient.New(baseURL)
	}
	return &Client{http: hc}
}

// apiExpense mirrors the get_expenses response shape.
type apiExpense struct {
	ID           int64      `json:"id"`
	Description  string     `json:"description"`
	Cost         string     `json:"cost"`
	CurrencyCode string     `json:"currency_code"`
	Date         time.Time  `json:"date"`
	DeletedAt    *time.Time `json:"deleted_at"`
	Payment      bool       `json:"payment"`
	Users        []struct {
		User struct {
			FirstName string `json:"first_name"`
			LastName  string `json:"last_name"`
		} `json:"user"`
		PaidShare string `json:"paid_share"`
	} `json:"users"`
}

type expensesResponse struct {
	Expenses []apiExpense `json:"expenses"`
}

// Fetch pages through get_expenses and maps the results. Deleted
// expenses and settle-up payments are skipped since they carry no
// description worth categorizing.
func (c *Client) Fetch(ctx context.Context, params connector.FetchParams) ([]model.Expense, error) {
	var out []model.Expense

	for offset := 0; ; offset += pageSize {
		query := url.Values{
			"limit":  {strconv.Itoa(pageSize)},
			"offset": {strconv.Itoa(offset)},
		}
		if !params.DatedAfter.IsZero() {
			query.Set("dated_after", params.DatedAfter.Format(time.RFC3339))
		}
		if !params.DatedBefore.IsZero() {
			query.Set("dated_before", params.DatedBefore.Format(time.RFC3339))
		}
		if params.GroupID != "" {
			query.Set("group_id", params.GroupID)
		}

		var page expensesResponse
		if err := c.http.GetJSON(ctx, expensesPath, query, &page); err != nil {
			return nil, fmt.Errorf("splitwise: fetching expenses at offset %d: %w", offset, err)
		}

		for _, apiExp := range page.Expenses {
			if apiExp.DeletedAt != nil || apiExp.Payment {
				continue
			}
			out = append(out, mapExpense(apiExp))
			if params.Limit > 0 && len(out) >= params.Limit {
				return out[:params.Limit], nil
			}
		}

		if len(page.Expenses) < pageSize {
			return out, nil
		}
	}
}

func mapExpense(e apiExpense) model.Expense {
	return model.Expense{
		Date:        e.Date,
		Amount:      e.Cost,
		Currency:    e.CurrencyCode,
		PaidBy:      payerName(e),
		Description: e.Description,
	}
}

// payerName returns the first name of the first user with a positive
// paid share, or "Unknown" when no payer can be determined.
func payerName(e apiExpense) string {
	for _, u := range e.Users {
		paid, err := strconv.ParseFloat(u.PaidShare, 64)
		if err != nil {
			continue
		}
		if paid > 0 && u.User.FirstName != "" {
			return u.User.FirstName
		}
	}
	return "Unknown"
}
