package realestate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tc.com/asset-prices/pkg/sources"
)

func TestListingsSource_RequiresEndpoint(t *testing.T) {
	_, err := NewListingsSource(map[string]interface{}{})
	require.Error(t, err)
	assert.ErrorIs(t, err, sources.ErrInvalidConfig)
}

func TestListingsSource_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"listings": [
				{"id": "lst-77", "name": "Modern Loft (Downtown)", "price": 450000,
				 "currency": "EUR", "city": "Berlin", "area_sqm": 85.5},
				{"id": "lst-78", "name": "Suburban House", "price": 320000}
			]
		}`))
	}))
	defer server.Close()

	src, err := NewListingsSource(map[string]interface{}{
		"endpoint": server.URL,
		"name":     "homeportal",
	})
	require.NoError(t, err)
	assert.Equal(t, sources.CategoryRealEstate, src.Category())

	records, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "homeportal", first.Source)
	assert.Equal(t, "lst-77", first.ExternalID)
	assert.Equal(t, "Modern Loft (Downtown)", first.Name)
	assert.Equal(t, "EUR", first.Currency)
	assert.True(t, first.Price.Equal(decimal.NewFromInt(450000)))
	assert.Equal(t, "Berlin", first.Metadata["city"])
	assert.Equal(t, "85.5", first.Metadata["area_sqm"])

	assert.Equal(t, "USD", records[1].Currency)
	assert.Nil(t, records[1].Metadata)
}
