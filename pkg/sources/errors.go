// Package sources provides asset source interfaces and implementations.
package sources

import "errors"

var (
	// ErrUnexpectedStatus indicates an unexpected HTTP status code.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status code")
	// ErrRateLimitExceeded indicates that a rate limit has been exceeded.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	// ErrInvalidResponse indicates an invalid response from the source.
	ErrInvalidResponse = errors.New("invalid response")
	// ErrInvalidConfig indicates that the source configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrUnknownCategory indicates an unrecognized source category.
	ErrUnknownCategory = errors.New("unknown source category")
	// ErrUnknownSource indicates that no factory is registered under the name.
	ErrUnknownSource = errors.New("unknown source")
	// ErrNoRecords indicates that a source response contained no usable records.
	ErrNoRecords = errors.New("no records in response")
	// ErrNoAssetsConfigured indicates that no assets are configured for the source.
	ErrNoAssetsConfigured = errors.New("no assets configured")
)
