// Package aggregator orchestrates the fetch, match and fold pipeline that
// turns heterogeneous raw records into canonical aggregated assets.
package aggregator

import (
	"time"

	"github.com/shopspring/decimal"
)

// CanonicalAsset is a deduplicated, currency-normalized aggregate built from
// one match group. Assets are recomputed fully each cycle; nothing is
// mutated in place between cycles.
type CanonicalAsset struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Symbol      string          `json:"symbol,omitempty"`
	PriceUSD    decimal.Decimal `json:"price_usd"`
	Change24h   decimal.Decimal `json:"change_24h"`
	Volume      decimal.Decimal `json:"volume"`
	MarketCap   decimal.Decimal `json:"market_cap"`
	Sources     []string        `json:"sources"`
	LastUpdated time.Time       `json:"last_updated"`
}

// Warning reports a recovered per-source problem (failed fetch, dropped
// record) without failing the cycle. Callers that need visibility into
// partial failures inspect these instead of an error.
type Warning struct {
	Source string `json:"source"`
	Err    error  `json:"-"`
}

func (w Warning) String() string {
	return w.Source + ": " + w.Err.Error()
}
