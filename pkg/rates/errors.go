package rates

import "errors"

var (
	// ErrUnexpectedStatus indicates an unexpected HTTP status code.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status code")
	// ErrNoRatesInResponse indicates that the rate provider returned no rates.
	ErrNoRatesInResponse = errors.New("no rates in response")
)
