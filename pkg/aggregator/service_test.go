package aggregator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tc.com/asset-prices/pkg/sources"
)

var errFeedDown = errors.New("feed down")

// fakeSource is a deterministic in-memory adapter for pipeline tests
type fakeSource struct {
	name    string
	records []sources.RawRecord
	err     error
	delay   time.Duration
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Category() sources.Category { return sources.CategoryCrypto }

func (f *fakeSource) RateLimit() int { return 0 }

func (f *fakeSource) Fetch(ctx context.Context) ([]sources.RawRecord, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	records := make([]sources.RawRecord, len(f.records))
	copy(records, f.records)
	return records, nil
}

func record(source, name string, price float64) sources.RawRecord {
	return sources.RawRecord{
		Source:   source,
		Name:     name,
		Price:    decimal.NewFromFloat(price),
		Currency: "USD",
	}
}

func TestAggregate_NoSources(t *testing.T) {
	svc := New(nil)

	assets, warnings, err := svc.Aggregate(context.Background())
	require.NoError(t, err)
	assert.Empty(t, assets)
	assert.Empty(t, warnings)
}

func TestAggregate_AllSourcesFail(t *testing.T) {
	svc := New(nil)
	svc.RegisterSource(&fakeSource{name: "one", err: errFeedDown})
	svc.RegisterSource(&fakeSource{name: "two", err: errFeedDown})

	assets, warnings, err := svc.Aggregate(context.Background())
	require.NoError(t, err, "adapter failures must never abort the cycle")
	assert.Empty(t, assets)
	assert.Len(t, warnings, 2)
}

func TestFetchAllSources_PartialFailureIsolation(t *testing.T) {
	svc := New(nil)
	svc.RegisterSource(&fakeSource{name: "good", records: []sources.RawRecord{
		record("good", "Bitcoin", 50000),
	}})
	svc.RegisterSource(&fakeSource{name: "bad", err: errFeedDown})

	records, warnings := svc.FetchAllSources(context.Background())

	require.Len(t, records, 1)
	assert.Equal(t, "Bitcoin", records[0].Name)

	require.Len(t, warnings, 1)
	assert.Equal(t, "bad", warnings[0].Source)
	assert.ErrorIs(t, warnings[0].Err, errFeedDown)

	var fetchErr *sources.FetchError
	require.ErrorAs(t, warnings[0].Err, &fetchErr)
	assert.Equal(t, "bad", fetchErr.Source)
}

func TestFetchAllSources_RegistrationOrderDeterminism(t *testing.T) {
	// The slow source is registered first, so its records must come first
	// even though the fast source finishes earlier.
	svc := New(nil)
	svc.RegisterSource(&fakeSource{
		name:  "slow",
		delay: 30 * time.Millisecond,
		records: []sources.RawRecord{
			record("slow", "First", 1),
			record("slow", "Second", 2),
		},
	})
	svc.RegisterSource(&fakeSource{name: "fast", records: []sources.RawRecord{
		record("fast", "Third", 3),
	}})

	records, warnings := svc.FetchAllSources(context.Background())

	require.Empty(t, warnings)
	require.Len(t, records, 3)
	assert.Equal(t, "First", records[0].Name)
	assert.Equal(t, "Second", records[1].Name)
	assert.Equal(t, "Third", records[2].Name)
}

func TestFetchAllSources_FillsMissingSourceName(t *testing.T) {
	svc := New(nil)
	svc.RegisterSource(&fakeSource{name: "feed", records: []sources.RawRecord{
		{Name: "Bitcoin", Price: decimal.NewFromInt(1), Currency: "USD"},
	}})

	records, _ := svc.FetchAllSources(context.Background())

	require.Len(t, records, 1)
	assert.Equal(t, "feed", records[0].Source)
}

func TestAggregate_FoldsGroupIntoCanonicalAsset(t *testing.T) {
	recA := record("binance", "Binance Coin (BNB)", 300)
	recA.Symbol = "BNB"
	recA.Volume = decimal.NewFromInt(10)
	recA.MarketCap = decimal.NewFromInt(100)

	recB := record("coingecko", "Binance Coin BNB", 310)
	recB.Volume = decimal.NewFromInt(20)
	recB.MarketCap = decimal.NewFromInt(200)

	svc := New(nil)
	svc.RegisterSource(&fakeSource{name: "binance", records: []sources.RawRecord{recA}})
	svc.RegisterSource(&fakeSource{name: "coingecko", records: []sources.RawRecord{recB}})

	assets, warnings, err := svc.Aggregate(context.Background())
	require.NoError(t, err)
	require.Empty(t, warnings)
	require.Len(t, assets, 1)

	asset := assets[0]
	assert.Equal(t, "binance-coin-bnb", asset.ID)
	assert.Equal(t, "Binance Coin (BNB)", asset.Name, "name comes from the seed record")
	assert.Equal(t, "BNB", asset.Symbol)
	assert.True(t, asset.PriceUSD.Equal(decimal.NewFromInt(305)), "arithmetic mean, got %s", asset.PriceUSD)
	assert.True(t, asset.Volume.Equal(decimal.NewFromInt(30)))
	assert.True(t, asset.MarketCap.Equal(decimal.NewFromInt(300)))
	assert.Equal(t, []string{"binance", "coingecko"}, asset.Sources)
	assert.True(t, asset.Change24h.IsZero(), "24h change is a time-series collaborator's job")
	assert.False(t, asset.LastUpdated.IsZero())
}

func TestAggregate_CurrencyConversion(t *testing.T) {
	rec := record("eushop", "Gold Ring", 100)
	rec.Currency = "EUR"

	svc := New(nil)
	svc.RegisterSource(&fakeSource{name: "eushop", records: []sources.RawRecord{rec}})
	svc.UpdateExchangeRates(map[string]decimal.Decimal{
		"EUR": decimal.NewFromFloat(0.9),
	})

	assets, _, err := svc.Aggregate(context.Background())
	require.NoError(t, err)
	require.Len(t, assets, 1)

	// 100 / 0.9 = 111.11...
	expected := decimal.NewFromFloat(111.111111)
	assert.True(t, assets[0].PriceUSD.Sub(expected).Abs().LessThan(decimal.NewFromFloat(0.001)),
		"expected ~%s, got %s", expected, assets[0].PriceUSD)
}

func TestAggregate_UnknownCurrencyIsNoOp(t *testing.T) {
	rec := record("feed", "Cabin", 500)
	rec.Currency = "XXX"

	svc := New(nil)
	svc.RegisterSource(&fakeSource{name: "feed", records: []sources.RawRecord{rec}})

	assets, _, err := svc.Aggregate(context.Background())
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.True(t, assets[0].PriceUSD.Equal(decimal.NewFromInt(500)))
}

func TestAggregate_DuplicateRegistrationDuplicatesContribution(t *testing.T) {
	rec := record("feed", "Bitcoin", 50000)
	rec.Volume = decimal.NewFromInt(10)
	src := &fakeSource{name: "feed", records: []sources.RawRecord{rec}}

	svc := New(nil)
	svc.RegisterSource(src)
	svc.RegisterSource(src)

	assets, _, err := svc.Aggregate(context.Background())
	require.NoError(t, err)
	require.Len(t, assets, 1)

	assert.True(t, assets[0].Volume.Equal(decimal.NewFromInt(20)),
		"a source registered twice contributes twice")
	assert.Equal(t, []string{"feed"}, assets[0].Sources)
}

func TestAggregate_DropsInvalidRecords(t *testing.T) {
	bad := record("feed", "Broken", -5)
	nameless := record("feed", "", 10)
	good := record("feed", "Bitcoin", 50000)

	svc := New(nil)
	svc.RegisterSource(&fakeSource{name: "feed", records: []sources.RawRecord{bad, nameless, good}})

	assets, warnings, err := svc.Aggregate(context.Background())
	require.NoError(t, err)

	require.Len(t, assets, 1)
	assert.Equal(t, "bitcoin", assets[0].ID)

	require.Len(t, warnings, 2)
	assert.ErrorIs(t, warnings[0].Err, ErrNegativePrice)
	assert.ErrorIs(t, warnings[1].Err, ErrEmptyName)
}

func TestAggregate_ThresholdOption(t *testing.T) {
	records := []sources.RawRecord{
		record("feed", "abcdefgh", 1),
		record("feed", "abcdefghxx", 2),
	}

	// Similarity is round(8/10*100) = 80: grouped at the default threshold,
	// split when the threshold is raised.
	def := New(nil)
	def.RegisterSource(&fakeSource{name: "feed", records: records})
	assets, _, err := def.Aggregate(context.Background())
	require.NoError(t, err)
	assert.Len(t, assets, 1)

	strict := New(nil, WithThreshold(90))
	strict.RegisterSource(&fakeSource{name: "feed", records: records})
	assets, _, err = strict.Aggregate(context.Background())
	require.NoError(t, err)
	assert.Len(t, assets, 2)
}

func TestAggregate_EmitsGroupsInDiscoveryOrder(t *testing.T) {
	svc := New(nil)
	svc.RegisterSource(&fakeSource{name: "feed", records: []sources.RawRecord{
		record("feed", "Bitcoin", 1),
		record("feed", "Ethereum", 2),
		record("feed", "Dogecoin", 3),
	}})

	assets, _, err := svc.Aggregate(context.Background())
	require.NoError(t, err)
	require.Len(t, assets, 3)
	assert.Equal(t, "bitcoin", assets[0].ID)
	assert.Equal(t, "ethereum", assets[1].ID)
	assert.Equal(t, "dogecoin", assets[2].ID)
}

func TestAggregate_CancelledContext(t *testing.T) {
	svc := New(nil)
	svc.RegisterSource(&fakeSource{name: "feed", records: []sources.RawRecord{
		record("feed", "Bitcoin", 1),
	}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := svc.Aggregate(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
