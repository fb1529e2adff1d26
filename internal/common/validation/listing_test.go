package validation

import (
	"testing"

	"shopping-assistant/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator(t *testing.T) *ListingValidator {
	t.Helper()
	v, err := NewListingValidator()
	require.NoError(t, err)
	return v
}

func TestValidateListing(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		name         string
		listing      models.Listing
		wantErrors   int
		wantWarnings int
		errContains  string
	}{
		{
			name: "valid listing",
			listing: models.Listing{
				ID: "ent001", Name: "Sony WH-1000XM5 Headphones", Price: 42000,
				Condition: "new", SellerRating: 4.9, Category: "Electronics", Brand: "Sony",
			},
		},
		{
			name:        "missing id",
			listing:     models.Listing{Name: "Lamp", Price: 100, Condition: "good"},
			wantErrors:  1,
			errContains: "id",
		},
		{
			name:        "blank name",
			listing:     models.Listing{ID: "x", Name: "   ", Price: 100, Condition: "good"},
			wantErrors:  1,
			errContains: "name",
		},
		{
			name:        "negative price",
			listing:     models.Listing{ID: "x", Name: "Lamp", Price: -5, Condition: "good"},
			wantErrors:  1,
			errContains: "price",
		},
		{
			name:         "rating out of range is a warning",
			listing:      models.Listing{ID: "x", Name: "Lamp", Price: 100, Condition: "good", SellerRating: 6},
			wantWarnings: 1,
		},
		{
			name:         "unknown condition is a warning",
			listing:      models.Listing{ID: "x", Name: "Lamp", Price: 100, Condition: "for_parts"},
			wantWarnings: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := v.ValidateListing(tt.listing)
			require.NoError(t, err)

			assert.Len(t, res.Errors, tt.wantErrors, "errors: %v", res.Errors)
			assert.Len(t, res.Warnings, tt.wantWarnings, "warnings: %v", res.Warnings)
			assert.Equal(t, tt.wantErrors == 0, res.Valid())
			if tt.errContains != "" {
				assert.Contains(t, res.Errors[0], tt.errContains)
			}
		})
	}
}

func TestValidateListingsJSON(t *testing.T) {
	v := newValidator(t)

	t.Run("valid array decodes", func(t *testing.T) {
		raw := []byte(`[
			{"id":"1","name":"iPhone 15 Pro","price":150000,"condition":"new","seller_rating":4.8,"category":"Electronics","brand":"Apple"},
			{"id":"2","name":"iPhone 14","price":120000,"condition":"like_new","seller_rating":7}
		]`)

		listings, res, err := v.ValidateListingsJSON(raw)
		require.NoError(t, err)
		require.True(t, res.Valid())
		require.Len(t, listings, 2)
		assert.Equal(t, "Apple", listings[0].Brand)
		require.Len(t, res.Warnings, 1)
		assert.Contains(t, res.Warnings[0], "1.seller_rating")
	})

	t.Run("invalid entries are reported together", func(t *testing.T) {
		raw := []byte(`[
			{"id":"1","price":100,"condition":"new"},
			{"id":"2","name":"Cable","price":-1,"condition":"good"}
		]`)

		listings, res, err := v.ValidateListingsJSON(raw)
		require.NoError(t, err)
		assert.Nil(t, listings)
		assert.False(t, res.Valid())
		assert.Len(t, res.Errors, 2)
	})

	t.Run("fractional price is rejected", func(t *testing.T) {
		_, res, err := v.ValidateListingsJSON([]byte(`[{"id":"1","name":"x","price":10.5,"condition":"new"}]`))
		require.NoError(t, err)
		assert.False(t, res.Valid())
	})

	t.Run("empty input is an empty list", func(t *testing.T) {
		listings, res, err := v.ValidateListingsJSON(nil)
		require.NoError(t, err)
		assert.True(t, res.Valid())
		assert.Empty(t, listings)
	})

	t.Run("not an array", func(t *testing.T) {
		_, res, err := v.ValidateListingsJSON([]byte(`{"id":"1"}`))
		require.NoError(t, err)
		assert.False(t, res.Valid())
	})
}

func TestValidateDocument(t *testing.T) {
	schema := map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"query"},
		"properties": map[string]interface{}{
			"query": map[string]interface{}{"type": "string"},
		},
	}

	errs, err := ValidateDocument(schema, map[string]interface{}{"query": "iphone"})
	require.NoError(t, err)
	assert.Empty(t, errs)

	errs, err = ValidateDocument(schema, map[string]interface{}{})
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "query is required")

	errs, err = ValidateDocument(nil, map[string]interface{}{})
	require.NoError(t, err)
	assert.Nil(t, errs)
}
