package staticsrc

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tc.com/asset-prices/pkg/sources"
)

func TestStaticSource_FromConfig(t *testing.T) {
	src, err := NewStaticSource(sources.CategoryRealEstate, map[string]interface{}{
		"name": "fixtures",
		"records": []interface{}{
			map[string]interface{}{
				"external_id": "lot-1",
				"name":        "Modern Loft Downtown",
				"price":       450000.0,
				"currency":    "EUR",
			},
			map[string]interface{}{
				"name":  "Suburban House",
				"price": "320000.50",
			},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "fixtures", src.Name())
	assert.Equal(t, sources.CategoryRealEstate, src.Category())

	records, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "lot-1", records[0].ExternalID)
	assert.Equal(t, "EUR", records[0].Currency)
	assert.True(t, records[0].Price.Equal(decimal.NewFromInt(450000)))

	assert.Equal(t, "fixtures-1", records[1].ExternalID, "missing external_id gets a positional fallback")
	assert.Equal(t, "USD", records[1].Currency)
	assert.True(t, records[1].Price.Equal(decimal.RequireFromString("320000.50")))
}

func TestStaticSource_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		config map[string]interface{}
	}{
		{name: "missing records", config: map[string]interface{}{}},
		{name: "empty records", config: map[string]interface{}{"records": []interface{}{}}},
		{
			name: "record missing name",
			config: map[string]interface{}{
				"records": []interface{}{
					map[string]interface{}{"price": 1.0},
				},
			},
		},
		{
			name: "record missing price",
			config: map[string]interface{}{
				"records": []interface{}{
					map[string]interface{}{"name": "Thing"},
				},
			},
		},
		{
			name: "record price malformed",
			config: map[string]interface{}{
				"records": []interface{}{
					map[string]interface{}{"name": "Thing", "price": "not-a-number"},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStaticSource(sources.CategoryCrypto, tt.config)
			assert.Error(t, err)
		})
	}
}

func TestStaticSource_FetchReturnsCopy(t *testing.T) {
	src, err := NewStaticSource(sources.CategoryCrypto, map[string]interface{}{
		"records": []interface{}{
			map[string]interface{}{"name": "Bitcoin", "price": 65000.0},
		},
	})
	require.NoError(t, err)

	first, err := src.Fetch(context.Background())
	require.NoError(t, err)
	first[0].Name = "mutated"

	second, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bitcoin", second[0].Name, "callers must not be able to mutate the fixtures")
}
