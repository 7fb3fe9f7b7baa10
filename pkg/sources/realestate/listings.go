// Package realestate provides real-estate marketplace source adapters.
package realestate

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"tc.com/asset-prices/pkg/sources"
)

const listingsRateLimit = 30

// ListingsSource fetches property listings from a portal-style JSON feed:
// { "listings": [ {id, name, price, currency, city, area_sqm} ] }.
type ListingsSource struct {
	*sources.BaseSource

	endpoint string
	currency string
}

type listing struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
	City     string  `json:"city"`
	AreaSqm  float64 `json:"area_sqm"`
}

type listingsResponse struct {
	Listings []listing `json:"listings"`
}

// NewListingsSource creates a listings source.
// Config keys: endpoint (required), name (optional, default "listings"),
// currency (optional fallback, default "USD").
func NewListingsSource(config map[string]interface{}) (sources.Source, error) {
	logger := sources.GetLoggerFromConfig(config)

	endpoint := sources.ConfigString(config, "endpoint", "")
	if endpoint == "" {
		return nil, fmt.Errorf("%w: 'endpoint' key", sources.ErrInvalidConfig)
	}

	name := sources.ConfigString(config, "name", "listings")
	base := sources.NewBaseSource(name, sources.CategoryRealEstate, listingsRateLimit, logger)

	return &ListingsSource{
		BaseSource: base,
		endpoint:   endpoint,
		currency:   sources.ConfigString(config, "currency", "USD"),
	}, nil
}

// Fetch retrieves the current property listings
func (s *ListingsSource) Fetch(ctx context.Context) ([]sources.RawRecord, error) {
	var data listingsResponse
	if err := s.GetJSON(ctx, s.endpoint, &data); err != nil {
		return nil, err
	}

	if len(data.Listings) == 0 {
		return nil, fmt.Errorf("%w", sources.ErrNoRecords)
	}

	records := make([]sources.RawRecord, 0, len(data.Listings))
	for _, l := range data.Listings {
		currency := l.Currency
		if currency == "" {
			currency = s.currency
		}

		rec := sources.RawRecord{
			Source:     s.Name(),
			ExternalID: l.ID,
			Name:       l.Name,
			Price:      decimal.NewFromFloat(l.Price),
			Currency:   currency,
		}

		metadata := make(map[string]string, 2)
		if l.City != "" {
			metadata["city"] = l.City
		}
		if l.AreaSqm > 0 {
			metadata["area_sqm"] = decimal.NewFromFloat(l.AreaSqm).String()
		}
		if len(metadata) > 0 {
			rec.Metadata = metadata
		}

		records = append(records, rec)
	}

	s.Logger().Debug("Fetched records from listings portal", "source", s.Name(), "count", len(records))
	return records, nil
}

// Register the source in init
func init() {
	sources.Register("realestate.listings", func(config map[string]interface{}) (sources.Source, error) {
		return NewListingsSource(config)
	})
}
