package ranking

import (
	"errors"
	"sort"
	"testing"

	"shopping-assistant/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(items []models.ScoredListing) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func names(items []models.ScoredListing) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Name
	}
	return out
}

func appleNewPrefs(rng *models.PriceRange) *models.Preferences {
	return &models.Preferences{
		Category:   models.StringPtr("Electronics"),
		Brand:      models.StringPtr("Apple"),
		Condition:  models.StringPtr("new"),
		PriceRange: rng,
	}
}

// ==========================
// Empty and invalid input
// ==========================

func TestRank_EmptyInput(t *testing.T) {
	r := New()

	result, err := r.Rank([]models.Listing{}, &models.Preferences{})
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result)

	result, err = r.Rank(nil, appleNewPrefs(priceRange(1, 2)))
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result)
}

func TestRank_InvalidListing(t *testing.T) {
	r := New()

	listings := []models.Listing{
		iphone15Pro(),
		{ID: "bad-name", Name: "   ", Price: 100},
		{ID: "bad-price", Name: "Broken", Price: -1},
	}

	result, err := r.Rank(listings, nil)
	require.Error(t, err)
	assert.Nil(t, result)

	assert.True(t, errors.Is(err, ErrMissingName))
	assert.True(t, errors.Is(err, ErrInvalidPrice))

	var le *ListingError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, 1, le.Index)
	assert.Equal(t, "bad-name", le.ID)
	assert.Contains(t, err.Error(), "bad-price")
}

func TestRank_MissingIDIsAccepted(t *testing.T) {
	r := New()

	result, err := r.Rank([]models.Listing{{Name: "Unlabeled Lamp", Price: 2500, Condition: "good"}}, nil)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "", result[0].ID)
}

// ==========================
// Preference scenarios
// ==========================

func TestRank_FullPreferences_CombinedPolicy(t *testing.T) {
	r := New(WithSortPolicy(SortPolicyCombined))

	result, err := r.Rank(
		[]models.Listing{iphone15Pro(), iphone14()},
		appleNewPrefs(priceRange(100000, 200000)),
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"iPhone 15 Pro", "iPhone 14"}, names(result))
}

func TestRank_FullPreferences_LayeredPolicy(t *testing.T) {
	r := New()
	assert.Equal(t, SortPolicyLayered, r.Policy())

	result, err := r.Rank(
		[]models.Listing{iphone15Pro(), iphone14()},
		appleNewPrefs(priceRange(100000, 200000)),
	)
	require.NoError(t, err)

	// Both are in range, so the final price pass decides.
	assert.Equal(t, []string{"iPhone 14", "iPhone 15 Pro"}, names(result))
}

func TestRank_NoRange_ScoreDecides(t *testing.T) {
	layered, err := New().Rank([]models.Listing{iphone15Pro(), iphone14()}, appleNewPrefs(nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "1"}, ids(layered))
	assert.InDelta(t, 0.925, layered[0].Score, 1e-9)
	assert.InDelta(t, 0.704, layered[1].Score, 1e-9)

	combined, err := New(WithSortPolicy(SortPolicyCombined)).Rank(
		[]models.Listing{iphone15Pro(), iphone14()}, appleNewPrefs(nil),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, ids(combined))
}

func TestRank_PriceRangeOnly(t *testing.T) {
	for _, policy := range []SortPolicy{SortPolicyLayered, SortPolicyCombined} {
		t.Run(string(policy), func(t *testing.T) {
			r := New(WithSortPolicy(policy))

			result, err := r.Rank(sampleListings(), &models.Preferences{
				PriceRange: priceRange(100000, 160000),
			})
			require.NoError(t, err)

			prices := make([]int, len(result))
			for i, item := range result {
				prices[i] = item.Price
			}
			assert.Equal(t, []int{120000, 140000, 150000, 8000}, prices)
		})
	}
}

func TestRank_NearDuplicatesRemoved(t *testing.T) {
	r := New()

	listings := []models.Listing{
		{ID: "a", Name: "Sample Product 1", Price: 1000, Condition: "new", SellerRating: 4.5},
		{ID: "b", Name: "sample product 1 ", Price: 1000, Condition: "new", SellerRating: 4.5},
	}

	result, err := r.Rank(listings, &models.Preferences{})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "a", result[0].ID)
}

func TestRank_EmptyPreferencesSortByScore(t *testing.T) {
	for _, prefs := range []*models.Preferences{nil, {}} {
		r := New()
		listings := sampleListings()

		result, err := r.Rank(listings, prefs)
		require.NoError(t, err)
		require.Len(t, result, len(listings))

		assert.True(t, sort.SliceIsSorted(result, func(i, j int) bool {
			return result[i].Score > result[j].Score
		}))
		assert.ElementsMatch(t, []string{"1", "2", "3", "4"}, ids(result))

		for _, item := range result {
			assert.InDelta(t, r.Score(item.Listing, prefs, listings), item.Score, 1e-12)
		}
	}
}

func TestRank_EmptyStringPreferencesAreIgnored(t *testing.T) {
	r := New()
	listings := sampleListings()

	plain, err := r.Rank(listings, &models.Preferences{})
	require.NoError(t, err)

	blank, err := r.Rank(listings, &models.Preferences{
		Category:  models.StringPtr(""),
		Brand:     models.StringPtr(""),
		Condition: models.StringPtr(""),
	})
	require.NoError(t, err)

	assert.Equal(t, plain, blank)
}

func TestRank_ConditionPassDominatesCategoryPass(t *testing.T) {
	r := New()

	// Equal prices leave the final range pass with only ties, exposing the
	// earlier passes.
	listings := []models.Listing{
		{ID: "A", Name: "alpha lamp", Price: 150, Condition: "good", Category: "Home"},
		{ID: "B", Name: "bravo mug", Price: 150, Condition: "new", Category: "Kitchen"},
		{ID: "C", Name: "charlie vase", Price: 150, Condition: "new", Category: "Home"},
		{ID: "D", Name: "delta fork", Price: 150, Condition: "good", Category: "Kitchen"},
	}
	prefs := &models.Preferences{
		Category:   models.StringPtr("home"),
		Condition:  models.StringPtr("NEW"),
		PriceRange: priceRange(100, 200),
	}

	result, err := r.Rank(listings, prefs)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "B", "A", "D"}, ids(result))
}

func TestRank_HalfOpenRangeUsesScoreOrder(t *testing.T) {
	r := New()

	result, err := r.Rank(sampleListings(), &models.Preferences{
		PriceRange: &models.PriceRange{Min: models.IntPtr(100000)},
	})
	require.NoError(t, err)

	assert.True(t, sort.SliceIsSorted(result, func(i, j int) bool {
		return result[i].Score > result[j].Score
	}))
}

// ==========================
// Properties
// ==========================

func TestRank_InRangeBeatsOutOfRange(t *testing.T) {
	r := New()
	base := models.Listing{Name: "Desk Chair", Condition: "good", SellerRating: 4.0, Category: "Home"}

	inRange := base
	inRange.ID, inRange.Price = "in", 150000
	outRange := base
	outRange.ID, outRange.Name, outRange.Price = "out", "Office Stool", 300000

	prefs := &models.Preferences{PriceRange: priceRange(100000, 200000)}
	candidates := []models.Listing{inRange, outRange}

	assert.Greater(t, r.Score(inRange, prefs, candidates), r.Score(outRange, prefs, candidates))

	result, err := r.Rank(candidates, prefs)
	require.NoError(t, err)
	assert.Equal(t, []string{"in", "out"}, ids(result))
}

func TestRank_Idempotent(t *testing.T) {
	prefSets := []*models.Preferences{
		{},
		appleNewPrefs(nil),
		appleNewPrefs(priceRange(100000, 200000)),
		{Keywords: []string{"iphone"}, PriceRange: priceRange(100000, 160000)},
	}

	for _, policy := range []SortPolicy{SortPolicyLayered, SortPolicyCombined} {
		r := New(WithSortPolicy(policy))
		for _, prefs := range prefSets {
			first, err := r.Rank(sampleListings(), prefs)
			require.NoError(t, err)

			second, err := r.Rank(models.Listings(first), prefs)
			require.NoError(t, err)

			assert.Equal(t, ids(first), ids(second), "policy %s", policy)
		}
	}
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	r := New()

	listings := sampleListings()
	listings[0].SEOTags = []string{"iphone"}
	snapshot := sampleListings()
	snapshot[0].SEOTags = []string{"iphone"}

	_, err := r.Rank(listings, appleNewPrefs(priceRange(100000, 200000)))
	require.NoError(t, err)

	assert.Equal(t, snapshot, listings)
}

func TestRank_OutputIsSubsetOfInput(t *testing.T) {
	r := New()
	listings := append(sampleListings(), models.Listing{
		ID: "5", Name: "iPhone 15 Pro Max", Price: 180000, Condition: "new", SellerRating: 4.9,
	})

	result, err := r.Rank(listings, &models.Preferences{})
	require.NoError(t, err)

	assert.LessOrEqual(t, len(result), len(listings))
	byID := make(map[string]models.Listing, len(listings))
	for _, l := range listings {
		byID[l.ID] = l
	}
	for _, item := range result {
		original, ok := byID[item.ID]
		require.True(t, ok)
		assert.Equal(t, original, item.Listing)
	}
}

// ==========================
// Sort policy parsing
// ==========================

func TestParseSortPolicy(t *testing.T) {
	tests := []struct {
		input    string
		expected SortPolicy
		wantErr  bool
	}{
		{"", SortPolicyLayered, false},
		{"layered", SortPolicyLayered, false},
		{"COMBINED", SortPolicyCombined, false},
		{" combined ", SortPolicyCombined, false},
		{"random", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, err := ParseSortPolicy(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, p)
		})
	}
}
