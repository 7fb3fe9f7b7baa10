package config

import (
	"fmt"
	"strings"

	"tc.com/asset-prices/pkg/sources"
)

// Validate checks configuration for errors
func Validate(cfg *Config) error {
	if cfg.Aggregation.Threshold < 1 || cfg.Aggregation.Threshold > 100 {
		return fmt.Errorf("%w: %d", ErrInvalidThreshold, cfg.Aggregation.Threshold)
	}

	if len(cfg.Sources) == 0 {
		return fmt.Errorf("%w", ErrNoSourcesConfigured)
	}

	enabled := 0
	for i, source := range cfg.Sources {
		if err := validateSourceConfig(&source); err != nil {
			return fmt.Errorf("source %d (%s.%s): %w", i, source.Category, source.Name, err)
		}
		if source.Enabled {
			enabled++
		}
	}
	if enabled == 0 {
		return fmt.Errorf("%w", ErrNoSourcesEnabled)
	}

	for code, rate := range cfg.Rates.Static {
		if rate <= 0 {
			return fmt.Errorf("%w: %s = %v", ErrInvalidStaticRate, code, rate)
		}
	}

	if err := validateLoggingConfig(&cfg.Logging); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

func validateSourceConfig(cfg *SourceConfig) error {
	if cfg.Category == "" {
		return fmt.Errorf("%w", ErrSourceCategoryRequired)
	}
	if _, err := sources.ParseCategory(cfg.Category); err != nil {
		return err
	}
	if cfg.Name == "" {
		return fmt.Errorf("%w", ErrSourceNameRequired)
	}
	return nil
}

func validateLoggingConfig(cfg *LoggingConfig) error {
	switch strings.ToLower(cfg.Level) {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return fmt.Errorf("%w: %s", ErrInvalidLogLevel, cfg.Level)
	}

	switch strings.ToLower(cfg.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("%w: %s", ErrInvalidLogFormat, cfg.Format)
	}

	return nil
}
