// internal/workers/shopping/rank-listings/handler_test.go
package ranklistings

import (
	"context"
	"encoding/json"
	"testing"

	apperrors "shopping-assistant/internal/common/errors"
	"shopping-assistant/internal/common/logger"
	"shopping-assistant/internal/common/validation"
	"shopping-assistant/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const phonesJSON = `[
	{"id": "3", "name": "Galaxy S24", "price": 140000, "condition": "new", "seller_rating": 4.2, "category": "Electronics", "brand": "Samsung"},
	{"id": "2", "name": "iPhone 14 128GB", "price": 120000, "condition": "like_new", "seller_rating": 4.5, "category": "Electronics", "brand": "Apple"},
	{"id": "1", "name": "iPhone 15 Pro 256GB", "price": 150000, "condition": "new", "seller_rating": 4.8, "category": "Electronics", "brand": "Apple"},
	{"id": "4", "name": "iPhone 15 Pro 256GB Black", "price": 149000, "condition": "new", "seller_rating": 4.6, "category": "Electronics", "brand": "Apple"}
]`

func newHandler(t *testing.T, withValidator bool) *Handler {
	t.Helper()
	var v *validation.ListingValidator
	if withValidator {
		var err error
		v, err = validation.NewListingValidator()
		require.NoError(t, err)
	}
	return NewHandler(LoadConfig(), v, logger.NewTestLogger(t))
}

func applePrefs() *models.Preferences {
	return &models.Preferences{
		Brand:     models.StringPtr("Apple"),
		Condition: models.StringPtr("new"),
		Category:  models.StringPtr("Electronics"),
	}
}

// ==========================
// Ranking
// ==========================

func TestExecute_RanksAndDeduplicates(t *testing.T) {
	h := newHandler(t, true)

	out, err := h.Execute(context.Background(), &Input{
		Listings:    json.RawMessage(phonesJSON),
		Preferences: applePrefs(),
	})
	require.NoError(t, err)

	assert.True(t, out.Ranked)
	assert.Equal(t, 4, out.InputCount)
	assert.Equal(t, 3, out.OutputCount)
	assert.Equal(t, 1, out.DuplicatesRemoved)
	for _, l := range out.RankedListings {
		assert.Greater(t, l.Score, 0.0)
	}

	// Without a full price range the score pass decides the final order,
	// so the cheaper like_new iPhone 14 outranks the new listings.
	ids := make([]string, len(out.RankedListings))
	for i, l := range out.RankedListings {
		ids[i] = l.ID
	}
	assert.Equal(t, []string{"2", "4", "3"}, ids)
	assert.Equal(t, "like_new", out.RankedListings[0].Condition)
}

func TestExecute_PriceRangeOrdersByPrice(t *testing.T) {
	h := newHandler(t, true)

	prefs := applePrefs()
	prefs.PriceRange = &models.PriceRange{Min: models.IntPtr(100000), Max: models.IntPtr(145000)}

	out, err := h.Execute(context.Background(), &Input{
		Listings:    json.RawMessage(phonesJSON),
		Preferences: prefs,
	})
	require.NoError(t, err)
	require.Len(t, out.RankedListings, 3)

	assert.Equal(t, "2", out.RankedListings[0].ID)
	assert.Equal(t, "3", out.RankedListings[1].ID)
	assert.Equal(t, 149000, out.RankedListings[2].Price)
}

func TestExecute_TopN(t *testing.T) {
	h := newHandler(t, true)

	out, err := h.Execute(context.Background(), &Input{
		Listings: json.RawMessage(phonesJSON),
		TopN:     2,
	})
	require.NoError(t, err)
	assert.Len(t, out.RankedListings, 2)
	assert.Equal(t, 2, out.OutputCount)
	assert.Equal(t, 1, out.DuplicatesRemoved)
}

func TestExecute_EmptyListings(t *testing.T) {
	h := newHandler(t, true)

	tests := []struct {
		name string
		raw  json.RawMessage
	}{
		{"missing", nil},
		{"null", json.RawMessage("null")},
		{"empty array", json.RawMessage("[]")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := h.Execute(context.Background(), &Input{Listings: tt.raw})
			require.NoError(t, err)
			assert.True(t, out.Ranked)
			assert.NotNil(t, out.RankedListings)
			assert.Empty(t, out.RankedListings)
		})
	}
}

// ==========================
// Validation
// ==========================

func TestExecute_SchemaViolation(t *testing.T) {
	h := newHandler(t, true)

	_, err := h.Execute(context.Background(), &Input{
		Listings: json.RawMessage(`[{"id": "1", "name": "Camera", "condition": "good"}]`),
	})
	require.Error(t, err)

	stdErr := apperrors.AsStandardError(err)
	assert.Equal(t, apperrors.ErrCodeListingValidationFailed, stdErr.Code)
	assert.False(t, stdErr.Retryable)
	assert.Contains(t, stdErr.Details, "price")
	assert.Zero(t, apperrors.ConvertToBPMNError(stdErr).Retries)
}

func TestExecute_WarningsDoNotFail(t *testing.T) {
	h := newHandler(t, true)

	out, err := h.Execute(context.Background(), &Input{
		Listings: json.RawMessage(`[{"id": "1", "name": "Camera", "price": 20000, "condition": "mint", "seller_rating": 7}]`),
	})
	require.NoError(t, err)
	assert.Len(t, out.Warnings, 2)
	assert.Len(t, out.RankedListings, 1)
}

func TestExecute_EngineRejectsListing(t *testing.T) {
	h := newHandler(t, false)
	raw := json.RawMessage(`[
		{"id": "a", "name": "Camera", "price": 20000, "condition": "good"},
		{"id": "b", "name": "", "price": 10000, "condition": "new"}
	]`)

	_, err := h.Execute(context.Background(), &Input{Listings: raw})
	require.Error(t, err)
	stdErr := apperrors.AsStandardError(err)
	assert.Equal(t, apperrors.ErrCodeListingValidationFailed, stdErr.Code)
	assert.Equal(t, 1, stdErr.Metadata["listingIndex"])

	out, err := h.Execute(context.Background(), &Input{Listings: raw, FallbackOnError: true})
	require.NoError(t, err)
	assert.False(t, out.Ranked)
	require.Len(t, out.RankedListings, 2)
	assert.Equal(t, "a", out.RankedListings[0].ID)
	assert.Equal(t, "b", out.RankedListings[1].ID)
	assert.Zero(t, out.RankedListings[0].Score)
	assert.Zero(t, out.DuplicatesRemoved)
}

func TestExecute_MalformedListings(t *testing.T) {
	h := newHandler(t, false)

	_, err := h.Execute(context.Background(), &Input{Listings: json.RawMessage(`{"id": "1"}`)})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.AsStandardError(err).Code)
}
