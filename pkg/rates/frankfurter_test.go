package rates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrankfurterPoller_FetchOnce(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "USD", r.URL.Query().Get("base"))
		assert.Equal(t, "EUR,GBP", r.URL.Query().Get("symbols"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"amount": 1.0,
			"base": "USD",
			"date": "2026-08-25",
			"rates": {"EUR": 0.92, "GBP": 0.79}
		}`))
	}))
	defer server.Close()

	var received map[string]decimal.Decimal
	poller := NewFrankfurterPoller([]string{"EUR", "GBP"}, 0, func(rates map[string]decimal.Decimal) {
		received = rates
	}, nil)
	poller.SetBaseURL(server.URL)

	err := poller.FetchOnce(context.Background())
	require.NoError(t, err)

	require.Len(t, received, 2)
	assert.True(t, received["EUR"].Equal(decimal.NewFromFloat(0.92)))
	assert.True(t, received["GBP"].Equal(decimal.NewFromFloat(0.79)))
}

func TestFrankfurterPoller_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	called := false
	poller := NewFrankfurterPoller(nil, 0, func(map[string]decimal.Decimal) {
		called = true
	}, nil)
	poller.SetBaseURL(server.URL)

	err := poller.FetchOnce(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.False(t, called, "sink must not run on a failed fetch")
}

func TestFrankfurterPoller_EmptyRates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"amount": 1.0, "base": "USD", "rates": {}}`))
	}))
	defer server.Close()

	poller := NewFrankfurterPoller(nil, 0, func(map[string]decimal.Decimal) {}, nil)
	poller.SetBaseURL(server.URL)

	err := poller.FetchOnce(context.Background())
	assert.ErrorIs(t, err, ErrNoRatesInResponse)
}
