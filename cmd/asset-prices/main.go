package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"tc.com/asset-prices/pkg/aggregator"
	"tc.com/asset-prices/pkg/config"
	"tc.com/asset-prices/pkg/logging"
	"tc.com/asset-prices/pkg/metrics"
	"tc.com/asset-prices/pkg/rates"
	"tc.com/asset-prices/pkg/sources"
	"tc.com/asset-prices/pkg/version"

	// Import sources to register them
	_ "tc.com/asset-prices/pkg/sources/crypto"
	_ "tc.com/asset-prices/pkg/sources/ecommerce"
	_ "tc.com/asset-prices/pkg/sources/realestate"
	_ "tc.com/asset-prices/pkg/sources/staticsrc"
)

var (
	configFile = flag.String("config", "config/config.yaml", "Path to configuration file")
	showVer    = flag.Bool("version", false, "Show version and exit")
	once       = flag.Bool("once", false, "Run a single aggregation cycle, print the result as JSON and exit")
)

func main() {
	flag.Parse()

	if *showVer {
		fmt.Printf("asset-prices version %s\n", version.Version)
		os.Exit(0)
	}

	// Load .env if present so ${VAR} references in the config resolve
	_ = godotenv.Load()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	logger.Info("Starting asset-prices", "version", version.Version)

	if cfg.Metrics.Enabled {
		metrics.Init()
		go func() {
			logger.Info("Starting metrics server", "addr", cfg.Metrics.Addr)
			if err := metrics.ServeHTTP(cfg.Metrics.Addr); err != nil {
				logger.Error("Metrics server failed", "error", err.Error())
			}
		}()
	}

	svc := aggregator.New(logger, aggregator.WithThreshold(cfg.Aggregation.Threshold))

	// Static rates from config are applied once at startup
	if len(cfg.Rates.Static) > 0 {
		static := make(map[string]decimal.Decimal, len(cfg.Rates.Static))
		for code, rate := range cfg.Rates.Static {
			static[code] = decimal.NewFromFloat(rate)
		}
		svc.UpdateExchangeRates(static)
	}

	if err := registerSources(svc, cfg, logger); err != nil {
		logger.Fatal("Failed to set up sources", "error", err.Error())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// The rate poller pushes fresh conversion factors into the service
	// independently of the aggregation schedule.
	if len(cfg.Rates.Symbols) > 0 {
		poller := rates.NewFrankfurterPoller(
			cfg.Rates.Symbols,
			cfg.Rates.Interval.ToDuration(),
			svc.UpdateExchangeRates,
			logger,
		)
		poller.Start(ctx)
	}

	if *once {
		runOnce(ctx, svc, logger)
		return
	}

	go runLoop(ctx, svc, cfg.Aggregation.Interval.ToDuration(), logger)

	sig := <-sigChan
	logger.Info("Shutting down", "signal", sig.String())
	cancel()
}

// registerSources builds every enabled source from config and registers it
func registerSources(svc *aggregator.Service, cfg *config.Config, logger *logging.Logger) error {
	registered := 0
	for _, sc := range cfg.Sources {
		if !sc.Enabled {
			logger.Debug("Skipping disabled source", "category", sc.Category, "name", sc.Name)
			continue
		}

		category, err := sources.ParseCategory(sc.Category)
		if err != nil {
			return err
		}

		srcConfig := make(map[string]interface{}, len(sc.Config)+1)
		for k, v := range sc.Config {
			srcConfig[k] = v
		}
		srcConfig["logger"] = logger

		src, err := sources.Create(category, sc.Name, srcConfig)
		if err != nil {
			return fmt.Errorf("source %s.%s: %w", sc.Category, sc.Name, err)
		}

		svc.RegisterSource(src)
		registered++
		logger.Info("Registered source",
			"source", src.Name(),
			"category", string(src.Category()),
			"rate_limit_rpm", src.RateLimit())
	}

	logger.Info("Source setup complete", "registered", registered)
	return nil
}

// runLoop executes aggregation cycles on a fixed interval until ctx ends
func runLoop(ctx context.Context, svc *aggregator.Service, interval time.Duration, logger *logging.Logger) {
	runCycle(ctx, svc, logger)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runCycle(ctx, svc, logger)
		}
	}
}

func runCycle(ctx context.Context, svc *aggregator.Service, logger *logging.Logger) {
	assets, warnings, err := svc.Aggregate(ctx)
	if err != nil {
		logger.Error("Aggregation cycle aborted", "error", err.Error())
		return
	}
	for _, w := range warnings {
		logger.Warn("Cycle warning", "source", w.Source, "error", w.Err.Error())
	}
	logger.Info("Canonical assets ready", "count", len(assets))
}

// runOnce runs a single cycle and prints the canonical assets as JSON
func runOnce(ctx context.Context, svc *aggregator.Service, logger *logging.Logger) {
	assets, warnings, err := svc.Aggregate(ctx)
	if err != nil {
		logger.Fatal("Aggregation cycle aborted", "error", err.Error())
	}
	for _, w := range warnings {
		logger.Warn("Cycle warning", "source", w.Source, "error", w.Err.Error())
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(assets); err != nil {
		logger.Fatal("Failed to encode assets", "error", err.Error())
	}
}
