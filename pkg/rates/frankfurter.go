package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"tc.com/asset-prices/pkg/logging"
)

const (
	frankfurterBaseURL  = "https://api.frankfurter.app"
	frankfurterTimeout  = 5 * time.Second
	frankfurterInterval = 15 * time.Minute
)

// FrankfurterPoller periodically fetches fiat exchange rates from the
// Frankfurter API (free, no API key) and pushes them into a sink, normally
// Service.UpdateExchangeRates. It is the rate-polling collaborator that
// feeds the table; the aggregation core itself never fetches rates.
type FrankfurterPoller struct {
	baseURL  string
	symbols  []string
	interval time.Duration
	sink     func(map[string]decimal.Decimal)
	client   *http.Client
	logger   *logging.Logger
}

type frankfurterResponse struct {
	Amount float64            `json:"amount"`
	Base   string             `json:"base"`
	Date   string             `json:"date"`
	Rates  map[string]float64 `json:"rates"`
}

// NewFrankfurterPoller creates a poller for the given currency codes.
// Rates are requested with base USD, so the response already carries the
// table's foreign-units-per-USD semantics.
func NewFrankfurterPoller(symbols []string, interval time.Duration, sink func(map[string]decimal.Decimal), logger *logging.Logger) *FrankfurterPoller {
	if interval <= 0 {
		interval = frankfurterInterval
	}
	if logger == nil {
		logger = logging.NewNoopLogger()
	}
	return &FrankfurterPoller{
		baseURL:  frankfurterBaseURL,
		symbols:  symbols,
		interval: interval,
		sink:     sink,
		client: &http.Client{
			Timeout: frankfurterTimeout,
		},
		logger: logger,
	}
}

// SetBaseURL overrides the API endpoint, mainly for tests
func (p *FrankfurterPoller) SetBaseURL(url string) {
	p.baseURL = url
}

// Start fetches once immediately and then polls until ctx is cancelled
func (p *FrankfurterPoller) Start(ctx context.Context) {
	if err := p.fetchRates(ctx); err != nil {
		p.logger.Warn("Initial exchange rate fetch failed", "error", err.Error())
	}

	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := p.fetchRates(ctx); err != nil {
					p.logger.Error("Exchange rate fetch failed", "error", err.Error())
				}
			}
		}
	}()
}

// FetchOnce performs a single fetch-and-push, for callers that manage their
// own scheduling
func (p *FrankfurterPoller) FetchOnce(ctx context.Context) error {
	return p.fetchRates(ctx)
}

func (p *FrankfurterPoller) fetchRates(ctx context.Context) error {
	url := p.baseURL + "/latest?base=USD"
	if len(p.symbols) > 0 {
		url += "&symbols=" + strings.Join(p.symbols, ",")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var data frankfurterResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if len(data.Rates) == 0 {
		return fmt.Errorf("%w", ErrNoRatesInResponse)
	}

	rates := make(map[string]decimal.Decimal, len(data.Rates))
	for code, rate := range data.Rates {
		rates[code] = decimal.NewFromFloat(rate)
	}
	p.sink(rates)

	p.logger.Debug("Fetched exchange rates", "count", len(rates), "date", data.Date)
	return nil
}
