// internal/assistant/assistant.go
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"shopping-assistant/internal/common/logger"
	"shopping-assistant/internal/models"
	"shopping-assistant/internal/textutil"

	"github.com/google/uuid"
)

var ErrEmptyQuery = errors.New("EMPTY_QUERY")

const noProductsMessage = "No products found matching your criteria."

// GenAI is the subset of the gateway client the pipeline needs. Every
// method degrades to a local fallback instead of failing.
type GenAI interface {
	ParseQueryOrFallback(ctx context.Context, query, language string) (*models.Preferences, bool)
	TranslateOrOriginal(ctx context.Context, text, source, target string) (string, bool)
	RecommendationOrFallback(ctx context.Context, query string, listings []models.Listing, language string) (string, bool)
}

type Catalog interface {
	SearchWithRanking(ctx context.Context, query string, prefs *models.Preferences) []models.ScoredListing
}

type Result struct {
	RequestID      string                 `json:"requestId"`
	Query          string                 `json:"query"`
	SearchQuery    string                 `json:"searchQuery"`
	Language       string                 `json:"language"`
	Preferences    *models.Preferences    `json:"preferences"`
	Listings       []models.ScoredListing `json:"listings"`
	Recommendation string                 `json:"recommendation"`
	Formatted      string                 `json:"formatted"`
	FallbackUsed   bool                   `json:"fallbackUsed"`
}

// Assistant turns a free-text shopping query into ranked picks and a
// written recommendation.
type Assistant struct {
	genai   GenAI
	catalog Catalog
	topN    int
	logger  logger.Logger
}

func New(genai GenAI, catalog Catalog, topN int, log logger.Logger) *Assistant {
	if topN <= 0 {
		topN = 3
	}
	return &Assistant{
		genai:   genai,
		catalog: catalog,
		topN:    topN,
		logger:  log.With(map[string]interface{}{"component": "assistant"}),
	}
}

func (a *Assistant) Answer(ctx context.Context, query string) (*Result, error) {
	start := time.Now()
	query = textutil.CleanQuery(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	res := &Result{
		RequestID: uuid.New().String(),
		Query:     query,
		Language:  textutil.DetectLanguage(query),
	}
	log := a.logger.With(map[string]interface{}{"requestId": res.RequestID})

	prefs, parseFallback := a.genai.ParseQueryOrFallback(ctx, query, res.Language)
	res.Preferences = prefs

	res.SearchQuery = query
	translateFailed := false
	if res.Language == models.LanguageJapanese {
		translated, ok := a.genai.TranslateOrOriginal(ctx, query, models.LanguageJapanese, models.LanguageEnglish)
		res.SearchQuery = translated
		translateFailed = !ok
	}

	ranked := a.catalog.SearchWithRanking(ctx, res.SearchQuery, prefs)
	if len(ranked) > a.topN {
		ranked = ranked[:a.topN]
	}
	res.Listings = ranked

	text, recommendFallback := a.genai.RecommendationOrFallback(ctx, query, models.Listings(ranked), res.Language)
	res.Recommendation = text
	res.FallbackUsed = parseFallback || translateFailed || recommendFallback
	res.Formatted = Format(ranked)

	log.Info("query answered", map[string]interface{}{
		"language":     res.Language,
		"resultCount":  len(ranked),
		"fallbackUsed": res.FallbackUsed,
		"durationMs":   time.Since(start).Milliseconds(),
	})
	return res, nil
}

// Format renders listings as numbered product cards.
func Format(listings []models.ScoredListing) string {
	if len(listings) == 0 {
		return noProductsMessage
	}

	var b strings.Builder
	for i, l := range listings {
		category := l.Category
		if category == "" {
			category = "Unknown"
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, l.Name)
		fmt.Fprintf(&b, "   %s | %s | Condition: %s | Seller Rating: %.1f/5\n",
			textutil.FormatPrice(l.Price), category, l.Condition, l.SellerRating)
		if l.Brand != "" {
			fmt.Fprintf(&b, "   Brand: %s\n", l.Brand)
		}
		if l.URL != "" {
			fmt.Fprintf(&b, "   %s\n", l.URL)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
