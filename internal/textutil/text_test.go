package textutil

import (
	"testing"

	"shopping-assistant/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"english", "iPhone 15 Pro under 150000 yen", "en"},
		{"hiragana", "あたらしいかばん", "ja"},
		{"katakana", "イヤホン", "ja"},
		{"kanji and kana", "新品のバッグ", "ja"},
		{"mostly latin with one kana", "iPhone 15 Pro ケース", "en"},
		{"empty", "", "en"},
		{"whitespace", "   ", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectLanguage(tt.text))
		})
	}
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "¥0", FormatPrice(0))
	assert.Equal(t, "¥999", FormatPrice(999))
	assert.Equal(t, "¥1,000", FormatPrice(1000))
	assert.Equal(t, "¥150,000", FormatPrice(150000))
	assert.Equal(t, "¥1,234,567", FormatPrice(1234567))
	assert.Equal(t, "-¥5,000", FormatPrice(-5000))
}

func TestCleanAndSanitize(t *testing.T) {
	assert.Equal(t, "used iphone 14", CleanQuery("  used   iphone\t14 \n"))
	assert.Equal(t, "Nike Air", SanitizeText("Nike\x00 \x07Air\x7F "))
	assert.Equal(t, "", SanitizeText("\x01\x02"))
}

func TestExtractPriceRange(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantMin *int
		wantMax *int
	}{
		{"dash range", "iphone 10000-50000", models.IntPtr(10000), models.IntPtr(50000)},
		{"tilde range with commas", "bag 10,000~50,000 yen", models.IntPtr(10000), models.IntPtr(50000)},
		{"reversed bounds", "50000 - 10000", models.IntPtr(10000), models.IntPtr(50000)},
		{"under", "shoes under 8000", nil, models.IntPtr(8000)},
		{"less than yen sign", "less than ¥20,000", nil, models.IntPtr(20000)},
		{"above", "camera above 30000", models.IntPtr(30000), nil},
		{"none", "iphone 15 pro", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractPriceRange(tt.text)
			assert.Equal(t, tt.wantMin, got.Min)
			assert.Equal(t, tt.wantMax, got.Max)
		})
	}
}

func TestNormalizeCondition(t *testing.T) {
	tests := map[string]string{
		"Brand New":   "new",
		"unused":      "new",
		"Like New":    "like_new",
		"excellent":   "very_good",
		"Very Good":   "very_good",
		"fair":        "acceptable",
		"poor":        "acceptable",
		" good ":      "good",
		"refurbished": "refurbished",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeCondition(in), in)
	}
}

func TestMapCategory(t *testing.T) {
	assert.Equal(t, "Home & Beauty", MapCategory("Home & Kitchen"))
	assert.Equal(t, "Home & Beauty", MapCategory("home & beauty"))
	assert.Equal(t, "Entertainment", MapCategory("Gaming"))
	assert.Equal(t, "Electronics", MapCategory("Electronics"))
}

func TestExtractSearchTerms(t *testing.T) {
	prefs := &models.Preferences{
		Keywords: []string{"iPhone", "smartphone"},
		Brand:    models.StringPtr("Apple"),
		Category: models.StringPtr("Electronics"),
	}

	terms := ExtractSearchTerms("Used iPhone 14!", prefs)
	assert.Equal(t, []string{"used", "iphone", "14", "smartphone", "apple", "electronics"}, terms)

	assert.Empty(t, ExtractSearchTerms("   ", nil))
	assert.Equal(t, []string{"バッグ"}, ExtractSearchTerms("バッグ", &models.Preferences{Brand: models.StringPtr("")}))
}

func TestSEOTags(t *testing.T) {
	assert.Equal(t, []string{"apple", "ios", "smartphone"}, SEOTags("iPhone 15 Pro"))
	assert.Equal(t, []string{"apple", "ios", "laptop", "smartphone"}, SEOTags("MacBook Air + iPhone bundle"))
	assert.Equal(t, []string{"bag", "fashion"}, SEOTags("ブランドバッグ"))
	assert.Equal(t, []string{"gaming", "nintendo"}, SEOTags("Nintendo Switch OLED"))

	tags := SEOTags("Plain notebook")
	require.NotNil(t, tags)
	assert.Empty(t, tags)
}
