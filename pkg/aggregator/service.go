package aggregator

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tc.com/asset-prices/pkg/logging"
	"tc.com/asset-prices/pkg/match"
	"tc.com/asset-prices/pkg/metrics"
	"tc.com/asset-prices/pkg/rates"
	"tc.com/asset-prices/pkg/sources"
)

// Service drives the aggregation pipeline. Each instance owns its adapter
// list and rate table, so callers can run isolated or differently configured
// instances side by side; there is no package-level singleton.
type Service struct {
	mu        sync.RWMutex
	adapters  []sources.Source
	rateTable *rates.Table
	threshold int
	logger    *logging.Logger
}

// Option configures a Service
type Option func(*Service)

// WithThreshold overrides the similarity threshold used for clustering
func WithThreshold(threshold int) Option {
	return func(s *Service) {
		s.threshold = threshold
	}
}

// WithRateTable supplies an externally owned exchange rate table
func WithRateTable(table *rates.Table) Option {
	return func(s *Service) {
		s.rateTable = table
	}
}

// New creates an aggregation service with an empty adapter list and a rate
// table seeded with USD -> 1
func New(logger *logging.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = logging.NewNoopLogger()
	}
	s := &Service{
		threshold: match.DefaultThreshold,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rateTable == nil {
		s.rateTable = rates.NewTable(logger)
	}
	return s
}

// RegisterSource appends an adapter to the registry. Duplicate registration
// is not rejected: a source registered twice contributes twice to every
// cycle. We only warn, since deduplicating here would silently change
// output for callers that rely on the append-only behavior.
func (s *Service) RegisterSource(src sources.Source) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.adapters {
		if existing.Name() == src.Name() {
			s.logger.Warn("Source registered more than once, records will be duplicated",
				"source", src.Name())
			break
		}
	}
	s.adapters = append(s.adapters, src)
}

// Sources returns a copy of the registered adapters in registration order
func (s *Service) Sources() []sources.Source {
	s.mu.RLock()
	defer s.mu.RUnlock()

	adapters := make([]sources.Source, len(s.adapters))
	copy(adapters, s.adapters)
	return adapters
}

// UpdateExchangeRates merges the given currency -> rate entries into the
// rate table. Rates are foreign units per 1 USD.
func (s *Service) UpdateExchangeRates(newRates map[string]decimal.Decimal) {
	s.rateTable.Update(newRates)
	metrics.ExchangeRatesKnown.Set(float64(len(newRates)))
}

// fetchResult is the explicit outcome of one adapter's fetch task, inspected
// at the join point so no failure propagates unobserved.
type fetchResult struct {
	records []sources.RawRecord
	err     error
}

// FetchAllSources fetches from every registered adapter concurrently and
// returns the concatenation of their records in registration order. A
// failing adapter contributes an empty slice and a Warning; the call itself
// never fails and always waits for every task to finish.
func (s *Service) FetchAllSources(ctx context.Context) ([]sources.RawRecord, []Warning) {
	adapters := s.Sources()

	results := make([]fetchResult, len(adapters))
	var wg sync.WaitGroup
	for i, src := range adapters {
		wg.Add(1)
		go func(i int, src sources.Source) {
			defer wg.Done()
			records, err := src.Fetch(ctx)
			if err != nil {
				results[i] = fetchResult{err: sources.NewFetchError(src.Name(), err)}
				return
			}
			results[i] = fetchResult{records: records}
		}(i, src)
	}
	wg.Wait()

	var records []sources.RawRecord
	var warnings []Warning
	for i, res := range results {
		name := adapters[i].Name()
		if res.err != nil {
			s.logger.Error("Source fetch failed, substituting empty result",
				"source", name, "error", res.err.Error())
			metrics.RecordFetchFailure(name)
			warnings = append(warnings, Warning{Source: name, Err: res.err})
			continue
		}
		for _, rec := range res.records {
			if rec.Source == "" {
				rec.Source = name
			}
			records = append(records, rec)
		}
		metrics.RecordFetch(name, len(res.records))
	}

	return records, warnings
}

// Aggregate runs one full pipeline cycle: concurrent fetch across all
// adapters, similarity clustering, then folding each group into one
// canonical asset using a snapshot of the exchange rate table. Adapter and
// record level problems surface as warnings; the returned error is reserved
// for context cancellation.
func (s *Service) Aggregate(ctx context.Context) ([]CanonicalAsset, []Warning, error) {
	start := time.Now()
	cycleID := uuid.NewString()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	records, warnings := s.FetchAllSources(ctx)

	if err := ctx.Err(); err != nil {
		return nil, warnings, err
	}

	records, warnings = s.validateRecords(records, warnings)

	// Snapshot rates once so a concurrent rate update cannot skew a cycle
	// halfway through.
	rateSnap := s.rateTable.Snapshot()

	s.mu.RLock()
	threshold := s.threshold
	s.mu.RUnlock()

	groups := match.FindMatches(records, threshold)

	now := time.Now()
	assets := make([]CanonicalAsset, 0, len(groups))
	for _, group := range groups {
		assets = append(assets, foldGroup(group, rateSnap, now))
	}

	metrics.RecordCycle(len(groups), len(assets), time.Since(start))
	s.logger.Info("Aggregation cycle complete",
		"cycle", cycleID,
		"records", len(records),
		"groups", len(groups),
		"warnings", len(warnings),
		"duration", time.Since(start).String())

	return assets, warnings, nil
}

// validateRecords drops malformed records (negative price, empty name) with
// a warning each. The matcher itself has no failure mode, so this is the
// single validation point of the pipeline.
func (s *Service) validateRecords(records []sources.RawRecord, warnings []Warning) ([]sources.RawRecord, []Warning) {
	valid := make([]sources.RawRecord, 0, len(records))
	for _, rec := range records {
		switch {
		case rec.Name == "":
			warnings = append(warnings, Warning{
				Source: rec.Source,
				Err:    fmt.Errorf("%w: id %q", ErrEmptyName, rec.ExternalID),
			})
			metrics.RecordInvalidRecord(rec.Source)
		case rec.Price.IsNegative():
			warnings = append(warnings, Warning{
				Source: rec.Source,
				Err:    fmt.Errorf("%w: %q (%s)", ErrNegativePrice, rec.Name, rec.Price),
			})
			metrics.RecordInvalidRecord(rec.Source)
		default:
			valid = append(valid, rec)
		}
	}
	return valid, warnings
}

// foldGroup reduces one match group to a canonical asset: converted prices
// are averaged arithmetically (not volume-weighted), volumes and market
// caps are summed with missing values as zero.
func foldGroup(group match.Group, rateSnap rates.Snapshot, now time.Time) CanonicalAsset {
	sum := decimal.Zero
	volume := decimal.Zero
	marketCap := decimal.Zero
	symbol := ""
	sourceSet := make(map[string]struct{}, len(group.Records))

	for _, rec := range group.Records {
		sum = sum.Add(rateSnap.ToUSD(rec.Price, rec.Currency))
		volume = volume.Add(rec.Volume)
		marketCap = marketCap.Add(rec.MarketCap)
		if symbol == "" {
			symbol = rec.Symbol
		}
		sourceSet[rec.Source] = struct{}{}
	}

	names := make([]string, 0, len(sourceSet))
	for name := range sourceSet {
		names = append(names, name)
	}
	sort.Strings(names)

	count := decimal.NewFromInt(int64(len(group.Records)))

	return CanonicalAsset{
		ID:          match.Slugify(group.Key),
		Name:        group.Key,
		Symbol:      symbol,
		PriceUSD:    sum.Div(count),
		Change24h:   decimal.Zero, // historical deltas belong to a time-series collaborator
		Volume:      volume,
		MarketCap:   marketCap,
		Sources:     names,
		LastUpdated: now,
	}
}
