// Package crypto provides crypto marketplace source adapters.
package crypto

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"tc.com/asset-prices/pkg/sources"
)

const (
	coingeckoBaseURL = "https://api.coingecko.com/api/v3"

	// Free API allows roughly 10 calls/minute; declared for scheduling
	// collaborators, not enforced here.
	coingeckoFreeRateLimit = 10
	coingeckoProRateLimit  = 30
)

// CoinGeckoSource fetches market records from the CoinGecko REST API
type CoinGeckoSource struct {
	*sources.BaseSource

	apiURL string
	apiKey string
	ids    []string
}

// coinMarket is one entry of the /coins/markets response
type coinMarket struct {
	ID           string   `json:"id"`
	Symbol       string   `json:"symbol"`
	Name         string   `json:"name"`
	CurrentPrice *float64 `json:"current_price"`
	MarketCap    *float64 `json:"market_cap"`
	TotalVolume  *float64 `json:"total_volume"`
}

// NewCoinGeckoSource creates a new CoinGecko source.
// Config keys: ids (list of CoinGecko coin ids, required), api_key
// (optional), api_url (optional override).
func NewCoinGeckoSource(config map[string]interface{}) (sources.Source, error) {
	logger := sources.GetLoggerFromConfig(config)

	ids := sources.ConfigStringSlice(config, "ids")
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: 'ids' key", sources.ErrNoAssetsConfigured)
	}

	apiKey := sources.ConfigString(config, "api_key", "")
	rateLimit := coingeckoFreeRateLimit
	if apiKey != "" {
		rateLimit = coingeckoProRateLimit
	}

	base := sources.NewBaseSource("coingecko", sources.CategoryCrypto, rateLimit, logger)

	return &CoinGeckoSource{
		BaseSource: base,
		apiURL:     sources.ConfigString(config, "api_url", coingeckoBaseURL),
		apiKey:     apiKey,
		ids:        ids,
	}, nil
}

// Fetch retrieves current market data for all configured coin ids
func (s *CoinGeckoSource) Fetch(ctx context.Context) ([]sources.RawRecord, error) {
	url := fmt.Sprintf("%s/coins/markets?vs_currency=usd&ids=%s",
		s.apiURL,
		strings.Join(s.ids, ","))

	if s.apiKey != "" {
		url += "&x_cg_pro_api_key=" + s.apiKey
	}

	var markets []coinMarket
	if err := s.GetJSON(ctx, url, &markets); err != nil {
		return nil, err
	}

	records := make([]sources.RawRecord, 0, len(markets))
	for _, m := range markets {
		if m.CurrentPrice == nil {
			s.Logger().Debug("Skipping coin without price", "id", m.ID)
			continue
		}

		rec := sources.RawRecord{
			Source:     s.Name(),
			ExternalID: m.ID,
			Name:       m.Name,
			Symbol:     strings.ToUpper(m.Symbol),
			Price:      decimal.NewFromFloat(*m.CurrentPrice),
			Currency:   "USD",
		}
		if m.TotalVolume != nil {
			rec.Volume = decimal.NewFromFloat(*m.TotalVolume)
		}
		if m.MarketCap != nil {
			rec.MarketCap = decimal.NewFromFloat(*m.MarketCap)
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w", sources.ErrNoRecords)
	}

	s.Logger().Debug("Fetched records from CoinGecko", "count", len(records))
	return records, nil
}

// Register the source in init
func init() {
	sources.Register("crypto.coingecko", func(config map[string]interface{}) (sources.Source, error) {
		return NewCoinGeckoSource(config)
	})
}
