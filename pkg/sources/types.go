package sources

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// Category represents the kind of marketplace a source reports on
type Category string

const (
	CategoryCrypto     Category = "crypto"
	CategoryEcommerce  Category = "ecommerce"
	CategoryRealEstate Category = "realestate"
)

// ParseCategory validates a category string from configuration
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryCrypto, CategoryEcommerce, CategoryRealEstate:
		return Category(s), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownCategory, s)
	}
}

// RawRecord is one unnormalized asset record as reported by a single source.
// Records are produced per aggregation cycle and discarded after folding.
type RawRecord struct {
	Source     string            `json:"source"`
	ExternalID string            `json:"external_id"`
	Name       string            `json:"name"`
	Symbol     string            `json:"symbol,omitempty"`
	Price      decimal.Decimal   `json:"price"`
	Currency   string            `json:"currency"`
	Volume     decimal.Decimal   `json:"volume,omitempty"`
	MarketCap  decimal.Decimal   `json:"market_cap,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// Source defines the interface that all asset sources must implement
type Source interface {
	// Name returns the unique name of this source
	Name() string

	// Category returns the marketplace category of this source
	Category() Category

	// RateLimit returns the advisory request budget in requests per minute.
	// It is declared for scheduling collaborators and not enforced here.
	RateLimit() int

	// Fetch retrieves the current raw records from the source
	Fetch(ctx context.Context) ([]RawRecord, error)
}

// SourceFactory is a function that creates a new Source instance
type SourceFactory func(config map[string]interface{}) (Source, error)

// FetchError wraps any failure (network, parse, rate limit) that prevents a
// source from producing records during a cycle.
type FetchError struct {
	Source string
	Err    error
}

// NewFetchError creates a FetchError for the named source
func NewFetchError(source string, err error) *FetchError {
	return &FetchError{Source: source, Err: err}
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("source %s: fetch failed: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
