package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"tc.com/asset-prices/pkg/logging"
	"tc.com/asset-prices/pkg/version"
)

const defaultHTTPTimeout = 10 * time.Second

// BaseSource provides common functionality for all asset sources
type BaseSource struct {
	name      string
	category  Category
	rateLimit int
	logger    *logging.Logger
	client    *http.Client
}

// NewBaseSource creates a new base source.
// rateLimit is the advisory request budget in requests per minute.
func NewBaseSource(name string, category Category, rateLimit int, logger *logging.Logger) *BaseSource {
	if logger == nil {
		logger = logging.NewNoopLogger()
	}
	return &BaseSource{
		name:      name,
		category:  category,
		rateLimit: rateLimit,
		logger:    logger,
		client: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
	}
}

// Name returns the source name
func (b *BaseSource) Name() string {
	return b.name
}

// Category returns the source category
func (b *BaseSource) Category() Category {
	return b.category
}

// RateLimit returns the advisory requests-per-minute budget
func (b *BaseSource) RateLimit() int {
	return b.rateLimit
}

// Logger returns the logger
func (b *BaseSource) Logger() *logging.Logger {
	return b.logger
}

// SetHTTPClient overrides the HTTP client, mainly for tests
func (b *BaseSource) SetHTTPClient(client *http.Client) {
	b.client = client
}

// GetJSON performs a GET request and decodes the JSON response into v
func (b *BaseSource) GetJSON(ctx context.Context, url string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.AgentString())

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		b.logger.Warn("Source rate limit exceeded",
			"source", b.name,
			"advisory_rpm", b.rateLimit)
		return fmt.Errorf("%w (status 429)", ErrRateLimitExceeded)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	return nil
}
