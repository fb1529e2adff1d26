// internal/services/genai/operations.go
package genai

import (
	"context"
	"fmt"
	"strings"

	"shopping-assistant/internal/models"
	"shopping-assistant/internal/textutil"
)

const (
	NoResultsMessage = "I couldn't find any products matching your criteria. Please try a different search."

	OperationParseQuery = "parse_query"
	OperationRecommend  = "recommend"
	OperationTranslate  = "translate"
)

// FallbackRecommendation is the text shown when the gateway cannot write one.
func FallbackRecommendation(count int) string {
	return fmt.Sprintf("Here are the top %d products I found for you. Please check the details below.", count)
}

func mockPreferences() *models.Preferences {
	return &models.Preferences{
		Keywords:  []string{"iphone"},
		Category:  models.StringPtr("Electronics"),
		Brand:     models.StringPtr("Apple"),
		Condition: models.StringPtr(string(models.ConditionNew)),
		PriceRange: &models.PriceRange{
			Min: models.IntPtr(100000),
			Max: models.IntPtr(200000),
		},
		Features: []string{},
	}
}

// ParseQuery extracts structured preferences from a free-text query.
func (c *Client) ParseQuery(ctx context.Context, query, language string) (*models.Preferences, error) {
	if c.config.MockMode {
		return mockPreferences(), nil
	}

	req := map[string]interface{}{
		"query":    query,
		"language": language,
	}
	var prefs models.Preferences
	if err := c.post(ctx, parseQueryPath, req, &prefs); err != nil {
		return nil, err
	}
	return &prefs, nil
}

// ParseQueryOrFallback never fails. When the gateway is unavailable the
// lowercased query becomes the only keyword and any price phrase in it is
// kept as the range. The bool reports whether the fallback was used.
func (c *Client) ParseQueryOrFallback(ctx context.Context, query, language string) (*models.Preferences, bool) {
	prefs, err := c.ParseQuery(ctx, query, language)
	if err == nil {
		return prefs, false
	}

	c.recordFallback(OperationParseQuery, err)
	return KeywordFallback(query), true
}

// KeywordFallback is the whole lowercased query as the only keyword, with
// every filter absent.
func KeywordFallback(query string) *models.Preferences {
	return models.KeywordPreferences(query)
}

// GenerateRecommendation asks the gateway to explain why the listings fit the query.
func (c *Client) GenerateRecommendation(ctx context.Context, query string, listings []models.Listing, language string) (string, error) {
	if len(listings) == 0 {
		return NoResultsMessage, nil
	}
	if c.config.MockMode {
		return fmt.Sprintf("Here are the top %d products I found for you. Product: %s is a great match!", len(listings), listings[0].Name), nil
	}

	req := map[string]interface{}{
		"prompt":      buildRecommendationPrompt(query, listings),
		"system":      systemPrompt(language),
		"language":    language,
		"max_tokens":  1000,
		"temperature": 0.7,
	}
	var resp struct {
		Text string `json:"text"`
	}
	if err := c.post(ctx, generatePath, req, &resp); err != nil {
		return "", err
	}
	if strings.TrimSpace(resp.Text) == "" {
		return "", ErrEmptyResponse
	}
	return resp.Text, nil
}

// RecommendationOrFallback never fails; the bool reports whether the fixed
// fallback text was used.
func (c *Client) RecommendationOrFallback(ctx context.Context, query string, listings []models.Listing, language string) (string, bool) {
	text, err := c.GenerateRecommendation(ctx, query, listings, language)
	if err == nil {
		return text, false
	}

	c.recordFallback(OperationRecommend, err)
	return FallbackRecommendation(len(listings)), true
}

func systemPrompt(language string) string {
	instruction := "Respond in English"
	if language == models.LanguageJapanese {
		instruction = "Respond in Japanese"
	}
	return "You are a helpful shopping assistant for a second-hand marketplace. " +
		instruction + ". For each product, explain why it is a good match. " +
		"Mention key features, price value and condition in a friendly tone."
}

func buildRecommendationPrompt(query string, listings []models.Listing) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User asked: %q\n\nHere are the top products I found:\n", query)
	for i, l := range listings {
		category := l.Category
		if category == "" {
			category = "Unknown"
		}
		fmt.Fprintf(&b, "\nProduct %d:\n", i+1)
		fmt.Fprintf(&b, "- Name: %s\n", l.Name)
		fmt.Fprintf(&b, "- Price: %s\n", textutil.FormatPrice(l.Price))
		fmt.Fprintf(&b, "- Condition: %s\n", l.Condition)
		fmt.Fprintf(&b, "- Seller Rating: %.1f/5\n", l.SellerRating)
		fmt.Fprintf(&b, "- Category: %s\n", category)
	}
	b.WriteString("\nPlease provide recommendations explaining why these products match the user's needs.\n")
	return b.String()
}

// Translate converts text between languages. Identical languages return
// the input unchanged without a gateway call.
func (c *Client) Translate(ctx context.Context, text, source, target string) (string, error) {
	if source == target || strings.TrimSpace(text) == "" || c.config.MockMode {
		return text, nil
	}

	req := map[string]interface{}{
		"text":            text,
		"source_language": source,
		"target_language": target,
	}
	var resp struct {
		TranslatedText string `json:"translated_text"`
	}
	if err := c.post(ctx, translatePath, req, &resp); err != nil {
		return "", err
	}
	translated := strings.TrimSpace(resp.TranslatedText)
	if translated == "" {
		return "", ErrEmptyResponse
	}
	return translated, nil
}

// TranslateOrOriginal keeps the original text when translation fails.
// The bool is false only when the gateway call failed; a translation equal
// to the input (a brand name, say) still reports true.
func (c *Client) TranslateOrOriginal(ctx context.Context, text, source, target string) (string, bool) {
	translated, err := c.Translate(ctx, text, source, target)
	if err != nil {
		c.recordFallback(OperationTranslate, err)
		return text, false
	}
	return translated, true
}
