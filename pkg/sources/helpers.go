package sources

import (
	"time"

	"tc.com/asset-prices/pkg/logging"
)

// GetLoggerFromConfig extracts the logger from a config map or returns a noop
// logger. Sources should use this to pick up the logger passed from main.
func GetLoggerFromConfig(config map[string]interface{}) *logging.Logger {
	if loggerInterface, ok := config["logger"]; ok {
		if logger, ok := loggerInterface.(*logging.Logger); ok {
			return logger
		}
	}

	return logging.NewNoopLogger()
}

// ConfigString retrieves a string value from a source config map
func ConfigString(config map[string]interface{}, key, defaultValue string) string {
	if v, ok := config[key].(string); ok && v != "" {
		return v
	}
	return defaultValue
}

// ConfigInt retrieves an integer value from a source config map.
// YAML decodes untyped numbers as int, but float64 shows up through JSON.
func ConfigInt(config map[string]interface{}, key string, defaultValue int) int {
	switch v := config[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return defaultValue
	}
}

// ConfigDuration retrieves a duration value (e.g. "30s") from a source config map
func ConfigDuration(config map[string]interface{}, key string, defaultValue time.Duration) time.Duration {
	if v, ok := config[key].(string); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

// ConfigStringSlice retrieves a string slice from a source config map
func ConfigStringSlice(config map[string]interface{}, key string) []string {
	raw, ok := config[key].([]interface{})
	if !ok {
		return nil
	}
	result := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			result = append(result, s)
		}
	}
	return result
}
