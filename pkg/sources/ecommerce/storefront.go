// Package ecommerce provides e-commerce marketplace source adapters.
package ecommerce

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"tc.com/asset-prices/pkg/sources"
)

const storefrontRateLimit = 60

// StorefrontSource fetches product listings from a storefront-style JSON
// feed: { "products": [ {id, title, price, currency, units_sold, brand} ] }.
// Marketplace APIs differ in auth and pagination; those concerns live in the
// feed deployment, not here.
type StorefrontSource struct {
	*sources.BaseSource

	name     string
	endpoint string
	currency string
}

type storefrontProduct struct {
	ID        int64    `json:"id"`
	Title     string   `json:"title"`
	Price     float64  `json:"price"`
	Currency  string   `json:"currency"`
	UnitsSold *float64 `json:"units_sold"`
	Brand     string   `json:"brand"`
}

type storefrontResponse struct {
	Products []storefrontProduct `json:"products"`
}

// NewStorefrontSource creates a storefront source.
// Config keys: endpoint (required), name (optional, default "storefront"),
// currency (optional fallback when products omit one, default "USD").
func NewStorefrontSource(config map[string]interface{}) (sources.Source, error) {
	logger := sources.GetLoggerFromConfig(config)

	endpoint := sources.ConfigString(config, "endpoint", "")
	if endpoint == "" {
		return nil, fmt.Errorf("%w: 'endpoint' key", sources.ErrInvalidConfig)
	}

	name := sources.ConfigString(config, "name", "storefront")
	base := sources.NewBaseSource(name, sources.CategoryEcommerce, storefrontRateLimit, logger)

	return &StorefrontSource{
		BaseSource: base,
		endpoint:   endpoint,
		currency:   sources.ConfigString(config, "currency", "USD"),
	}, nil
}

// Fetch retrieves the current product listings
func (s *StorefrontSource) Fetch(ctx context.Context) ([]sources.RawRecord, error) {
	var data storefrontResponse
	if err := s.GetJSON(ctx, s.endpoint, &data); err != nil {
		return nil, err
	}

	if len(data.Products) == 0 {
		return nil, fmt.Errorf("%w", sources.ErrNoRecords)
	}

	records := make([]sources.RawRecord, 0, len(data.Products))
	for _, p := range data.Products {
		currency := p.Currency
		if currency == "" {
			currency = s.currency
		}

		rec := sources.RawRecord{
			Source:     s.Name(),
			ExternalID: strconv.FormatInt(p.ID, 10),
			Name:       p.Title,
			Price:      decimal.NewFromFloat(p.Price),
			Currency:   currency,
		}
		if p.UnitsSold != nil {
			rec.Volume = decimal.NewFromFloat(*p.UnitsSold)
		}
		if p.Brand != "" {
			rec.Metadata = map[string]string{"brand": p.Brand}
		}
		records = append(records, rec)
	}

	s.Logger().Debug("Fetched records from storefront", "source", s.Name(), "count", len(records))
	return records, nil
}

// Register the source in init
func init() {
	sources.Register("ecommerce.storefront", func(config map[string]interface{}) (sources.Source, error) {
		return NewStorefrontSource(config)
	})
}
