// Package config provides configuration loading and validation for asset-prices.
package config

import "errors"

var (
	// ErrNoSourcesConfigured indicates that no asset sources are configured.
	ErrNoSourcesConfigured = errors.New("at least one source must be configured")
	// ErrNoSourcesEnabled indicates that no sources are enabled.
	ErrNoSourcesEnabled = errors.New("no sources enabled")
	// ErrSourceCategoryRequired indicates that source category is required.
	ErrSourceCategoryRequired = errors.New("source category is required")
	// ErrSourceNameRequired indicates that source name is required.
	ErrSourceNameRequired = errors.New("source name is required")
	// ErrInvalidThreshold indicates that the similarity threshold is out of range.
	ErrInvalidThreshold = errors.New("threshold must be between 1 and 100")
	// ErrInvalidStaticRate indicates a non-positive static exchange rate.
	ErrInvalidStaticRate = errors.New("static exchange rate must be positive")
	// ErrInvalidLogLevel indicates that the log level is invalid.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidLogFormat indicates that the log format is invalid.
	ErrInvalidLogFormat = errors.New("invalid log format")
)
