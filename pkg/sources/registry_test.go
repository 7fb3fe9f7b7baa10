package sources

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	name string
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Category() Category { return CategoryCrypto }

func (s *stubSource) RateLimit() int { return 0 }

func (s *stubSource) Fetch(_ context.Context) ([]RawRecord, error) { return nil, nil }

func TestRegistry_CreateByKey(t *testing.T) {
	Register("crypto.stub", func(config map[string]interface{}) (Source, error) {
		return &stubSource{name: config["name"].(string)}, nil
	})

	src, err := Create(CategoryCrypto, "stub", map[string]interface{}{"name": "stub-a"})
	require.NoError(t, err)
	assert.Equal(t, "stub-a", src.Name())
}

func TestRegistry_UnknownSource(t *testing.T) {
	_, err := Create(CategoryEcommerce, "does-not-exist", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownSource)
}

func TestRegistry_List(t *testing.T) {
	Register("crypto.listed", func(map[string]interface{}) (Source, error) {
		return &stubSource{name: "listed"}, nil
	})

	assert.Contains(t, List(), "crypto.listed")
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input    string
		expected Category
		wantErr  bool
	}{
		{input: "crypto", expected: CategoryCrypto},
		{input: "ecommerce", expected: CategoryEcommerce},
		{input: "realestate", expected: CategoryRealEstate},
		{input: "stocks", wantErr: true},
		{input: "", wantErr: true},
		{input: "Crypto", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCategory(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownCategory)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFetchError_Unwrap(t *testing.T) {
	cause := ErrUnexpectedStatus
	err := NewFetchError("binance", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "binance")
}
