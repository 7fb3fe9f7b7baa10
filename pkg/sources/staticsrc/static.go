// Package staticsrc provides a fixture-backed source that serves records
// straight from configuration. Useful for demos and for wiring tests without
// a live feed.
package staticsrc

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"tc.com/asset-prices/pkg/sources"
)

// StaticSource returns a fixed set of records on every fetch
type StaticSource struct {
	*sources.BaseSource

	records []sources.RawRecord
}

// NewStaticSource creates a static source for the given category.
// Config keys: name (optional, default "static"), records (required list of
// {external_id, name, symbol, price, currency, volume, market_cap}).
func NewStaticSource(category sources.Category, config map[string]interface{}) (sources.Source, error) {
	logger := sources.GetLoggerFromConfig(config)
	name := sources.ConfigString(config, "name", "static")

	rawList, ok := config["records"].([]interface{})
	if !ok || len(rawList) == 0 {
		return nil, fmt.Errorf("%w: 'records' key", sources.ErrNoAssetsConfigured)
	}

	records := make([]sources.RawRecord, 0, len(rawList))
	for i, raw := range rawList {
		entry, ok := raw.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: record %d is not an object", sources.ErrInvalidConfig, i)
		}

		rec := sources.RawRecord{
			Source:     name,
			ExternalID: sources.ConfigString(entry, "external_id", fmt.Sprintf("%s-%d", name, i)),
			Name:       sources.ConfigString(entry, "name", ""),
			Symbol:     sources.ConfigString(entry, "symbol", ""),
			Currency:   sources.ConfigString(entry, "currency", "USD"),
		}
		if rec.Name == "" {
			return nil, fmt.Errorf("%w: record %d missing 'name'", sources.ErrInvalidConfig, i)
		}

		price, err := configDecimal(entry, "price")
		if err != nil {
			return nil, fmt.Errorf("record %d (%s): %w", i, rec.Name, err)
		}
		rec.Price = price

		if volume, err := configDecimal(entry, "volume"); err == nil {
			rec.Volume = volume
		}
		if marketCap, err := configDecimal(entry, "market_cap"); err == nil {
			rec.MarketCap = marketCap
		}

		records = append(records, rec)
	}

	base := sources.NewBaseSource(name, category, 0, logger)
	return &StaticSource{
		BaseSource: base,
		records:    records,
	}, nil
}

// Fetch returns a copy of the configured records
func (s *StaticSource) Fetch(_ context.Context) ([]sources.RawRecord, error) {
	records := make([]sources.RawRecord, len(s.records))
	copy(records, s.records)
	return records, nil
}

func configDecimal(entry map[string]interface{}, key string) (decimal.Decimal, error) {
	switch v := entry[key].(type) {
	case float64:
		return decimal.NewFromFloat(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: bad %s %q", sources.ErrInvalidConfig, key, v)
		}
		return d, nil
	default:
		return decimal.Zero, fmt.Errorf("%w: missing %s", sources.ErrInvalidConfig, key)
	}
}

// Register one static factory per category in init
func init() {
	for _, category := range []sources.Category{
		sources.CategoryCrypto,
		sources.CategoryEcommerce,
		sources.CategoryRealEstate,
	} {
		sources.Register(string(category)+".static", func(config map[string]interface{}) (sources.Source, error) {
			return NewStaticSource(category, config)
		})
	}
}
