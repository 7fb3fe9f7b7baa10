package aggregator

import "errors"

var (
	// ErrNegativePrice indicates a raw record carrying a negative price.
	ErrNegativePrice = errors.New("record has negative price")
	// ErrEmptyName indicates a raw record without a display name.
	ErrEmptyName = errors.New("record has empty name")
)
