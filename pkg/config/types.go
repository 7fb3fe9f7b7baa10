package config

import "time"

// Config is the root configuration structure
type Config struct {
	Aggregation AggregationConfig `yaml:"aggregation"`
	Rates       RatesConfig       `yaml:"rates"`
	Sources     []SourceConfig    `yaml:"sources"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// AggregationConfig configures the aggregation pipeline
type AggregationConfig struct {
	Interval  Duration `yaml:"interval"`  // time between cycles
	Threshold int      `yaml:"threshold"` // similarity threshold 0-100
}

// RatesConfig configures the exchange rate collaborator
type RatesConfig struct {
	Symbols  []string           `yaml:"symbols"`  // currency codes to poll
	Interval Duration           `yaml:"interval"` // poll interval
	Static   map[string]float64 `yaml:"static"`   // fixed rates, applied at startup
}

// SourceConfig configures an asset source
type SourceConfig struct {
	Category string                 `yaml:"category"`
	Name     string                 `yaml:"name"`
	Enabled  bool                   `yaml:"enabled"`
	Config   map[string]interface{} `yaml:"config"`
}

// MetricsConfig configures Prometheus metrics
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Path    string `yaml:"path"`
}

// LoggingConfig configures logging
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Duration is a wrapper around time.Duration for YAML parsing
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	td, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(td)
	return nil
}

// ToDuration converts Duration to time.Duration
func (d Duration) ToDuration() time.Duration {
	return time.Duration(d)
}
