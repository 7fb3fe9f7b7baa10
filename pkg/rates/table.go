// Package rates holds currency to USD conversion factors.
package rates

import (
	"sync"

	"github.com/shopspring/decimal"

	"tc.com/asset-prices/pkg/logging"
)

// Table maps currency codes to exchange rates expressed as foreign units per
// 1 USD, so price_usd = price / rate. The table is shared, long-lived state:
// readers take a Snapshot at the start of a cycle while rate-polling
// collaborators call Update concurrently.
type Table struct {
	mu     sync.RWMutex
	rates  map[string]decimal.Decimal
	logger *logging.Logger
}

// NewTable creates a rate table seeded with USD -> 1
func NewTable(logger *logging.Logger) *Table {
	if logger == nil {
		logger = logging.NewNoopLogger()
	}
	return &Table{
		rates: map[string]decimal.Decimal{
			"USD": decimal.NewFromInt(1),
		},
		logger: logger,
	}
}

// Update merges the given rates into the table, overwriting existing entries
func (t *Table) Update(rates map[string]decimal.Decimal) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for code, rate := range rates {
		t.rates[code] = rate
	}
	t.logger.Debug("Exchange rates updated", "count", len(rates))
}

// Rate returns the conversion rate for a currency code. Unknown codes return
// 1, making conversion a silent no-op. That default is load-bearing for
// output compatibility; do not turn it into an error.
func (t *Table) Rate(code string) decimal.Decimal {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return rateOrDefault(t.rates, code)
}

// ToUSD converts a price in the given currency to USD
func (t *Table) ToUSD(price decimal.Decimal, code string) decimal.Decimal {
	return price.Div(t.Rate(code))
}

// Snapshot returns an immutable copy of the table for use within one
// aggregation cycle, so concurrent Update calls cannot skew a cycle halfway.
func (t *Table) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	rates := make(map[string]decimal.Decimal, len(t.rates))
	for code, rate := range t.rates {
		rates[code] = rate
	}
	return Snapshot{rates: rates}
}

// Snapshot is a point-in-time copy of the rate table. Safe for concurrent
// reads without locking.
type Snapshot struct {
	rates map[string]decimal.Decimal
}

// Rate returns the conversion rate for a currency code, defaulting to 1
func (s Snapshot) Rate(code string) decimal.Decimal {
	return rateOrDefault(s.rates, code)
}

// ToUSD converts a price in the given currency to USD
func (s Snapshot) ToUSD(price decimal.Decimal, code string) decimal.Decimal {
	return price.Div(s.Rate(code))
}

func rateOrDefault(rates map[string]decimal.Decimal, code string) decimal.Decimal {
	if rate, ok := rates[code]; ok && rate.IsPositive() {
		return rate
	}
	return decimal.NewFromInt(1)
}
