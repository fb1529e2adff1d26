// internal/catalog/catalog.go
package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	apperrors "shopping-assistant/internal/common/errors"
	"shopping-assistant/internal/common/logger"
	"shopping-assistant/internal/common/metrics"
	"shopping-assistant/internal/common/validation"
	"shopping-assistant/internal/models"
	"shopping-assistant/internal/ranking"
	"shopping-assistant/internal/textutil"

	"github.com/google/uuid"
)

type ListingStore interface {
	Search(ctx context.Context, query string, prefs *models.Preferences) ([]models.Listing, error)
	GetByID(ctx context.Context, id string) (*models.Listing, error)
	Add(ctx context.Context, l models.Listing) (models.Listing, error)
	All(ctx context.Context) ([]models.Listing, error)
	ByTags(ctx context.Context, tags []string, limit int) ([]models.Listing, error)
}

type ListingIndex interface {
	Search(ctx context.Context, query string, prefs *models.Preferences, size int) ([]models.Listing, error)
	Index(ctx context.Context, listings []models.Listing) error
}

type ListingCache interface {
	Key(query string, prefs *models.Preferences) string
	Get(ctx context.Context, key string) ([]models.Listing, bool, error)
	Set(ctx context.Context, key string, listings []models.Listing, ttl time.Duration) error
}

type Scraper interface {
	Search(ctx context.Context, query string) []models.Listing
	Details(ctx context.Context, id string) (*models.Listing, bool)
}

type Config struct {
	UseScraper bool
	CacheTTL   time.Duration
	MaxResults int
}

// Deps are optional; a nil dependency is skipped.
type Deps struct {
	Store     ListingStore
	Index     ListingIndex
	Cache     ListingCache
	Scraper   Scraper
	Validator *validation.ListingValidator
	Ranker    *ranking.Ranker
}

// Service answers listing searches from the scraper, cache, Postgres and
// Elasticsearch, in that order of preference.
type Service struct {
	config Config
	deps   Deps
	logger logger.Logger
}

func New(cfg Config, deps Deps, log logger.Logger) *Service {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 20
	}
	if deps.Ranker == nil {
		deps.Ranker = ranking.New()
	}
	return &Service{
		config: cfg,
		deps:   deps,
		logger: log.With(map[string]interface{}{"component": "catalog"}),
	}
}

// Search never fails: unavailable sources are logged and skipped.
func (s *Service) Search(ctx context.Context, query string, prefs *models.Preferences) []models.Listing {
	listings, _ := s.SearchWithSource(ctx, query, prefs)
	return listings
}

// SearchWithSource is Search that also reports which source answered.
func (s *Service) SearchWithSource(ctx context.Context, query string, prefs *models.Preferences) ([]models.Listing, models.SearchSource) {
	listings, source := s.search(ctx, strings.TrimSpace(query), prefs)
	metrics.ListingSearchSource.WithLabelValues(string(source)).Inc()
	return listings, source
}

func (s *Service) search(ctx context.Context, query string, prefs *models.Preferences) ([]models.Listing, models.SearchSource) {
	if query == "" && !prefs.HasFilters() && (prefs == nil || len(prefs.Keywords) == 0) {
		return []models.Listing{}, models.SearchSourceNone
	}

	if s.config.UseScraper && s.deps.Scraper != nil {
		scrapeQuery := query
		if scrapeQuery == "" && prefs != nil {
			scrapeQuery = strings.Join(prefs.Keywords, " ")
		}
		if listings := s.deps.Scraper.Search(ctx, scrapeQuery); len(listings) > 0 {
			return listings, models.SearchSourceScraper
		}
	}

	var cacheKey string
	if s.deps.Cache != nil {
		cacheKey = s.deps.Cache.Key(query, prefs)
		cached, hit, err := s.deps.Cache.Get(ctx, cacheKey)
		if err != nil {
			s.logger.Warn("listing cache read failed", map[string]interface{}{"error": err.Error()})
		} else if hit && len(cached) > 0 {
			return cached, models.SearchSourceCache
		}
	}

	listings, source := s.queryStores(ctx, query, prefs)

	if s.deps.Cache != nil && len(listings) > 0 {
		if err := s.deps.Cache.Set(ctx, cacheKey, listings, s.config.CacheTTL); err != nil {
			s.logger.Warn("listing cache write failed", map[string]interface{}{"error": err.Error()})
		}
	}

	s.logger.Info("listing search completed", map[string]interface{}{
		"source": string(source),
		"count":  len(listings),
	})
	return listings, source
}

// queryStores runs Postgres and Elasticsearch in parallel and merges the
// results by id, Postgres first.
func (s *Service) queryStores(ctx context.Context, query string, prefs *models.Preferences) ([]models.Listing, models.SearchSource) {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		pgResult []models.Listing
		esResult []models.Listing
		pgOK     bool
		esOK     bool
	)

	if s.deps.Store != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			listings, err := s.deps.Store.Search(ctx, query, prefs)
			if err != nil {
				s.logger.Warn("postgres search failed", map[string]interface{}{"error": err.Error()})
				return
			}
			mu.Lock()
			pgResult, pgOK = listings, true
			mu.Unlock()
		}()
	}

	if s.deps.Index != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			listings, err := s.deps.Index.Search(ctx, query, prefs, s.config.MaxResults)
			if err != nil {
				s.logger.Warn("elasticsearch search failed", map[string]interface{}{"error": err.Error()})
				return
			}
			mu.Lock()
			esResult, esOK = listings, true
			mu.Unlock()
		}()
	}

	wg.Wait()

	merged := mergeByID(pgResult, esResult)
	if len(merged) > s.config.MaxResults {
		merged = merged[:s.config.MaxResults]
	}

	switch {
	case len(pgResult) > 0 && len(esResult) > 0:
		return merged, models.SearchSourceMerged
	case len(pgResult) > 0:
		return merged, models.SearchSourcePostgres
	case len(esResult) > 0:
		return merged, models.SearchSourceElasticsearch
	case pgOK:
		return merged, models.SearchSourcePostgres
	case esOK:
		return merged, models.SearchSourceElasticsearch
	}
	return merged, models.SearchSourceNone
}

func mergeByID(first, second []models.Listing) []models.Listing {
	seen := make(map[string]bool, len(first)+len(second))
	merged := make([]models.Listing, 0, len(first)+len(second))
	for _, group := range [][]models.Listing{first, second} {
		for _, l := range group {
			if l.ID != "" {
				if seen[l.ID] {
					continue
				}
				seen[l.ID] = true
			}
			merged = append(merged, l)
		}
	}
	return merged
}

// SearchWithRanking searches and ranks. A ranking failure returns the
// listings unranked with zero scores.
func (s *Service) SearchWithRanking(ctx context.Context, query string, prefs *models.Preferences) []models.ScoredListing {
	listings := s.Search(ctx, query, prefs)
	return s.Rank(listings, prefs)
}

// Rank orders listings, falling back to the input order on failure.
func (s *Service) Rank(listings []models.Listing, prefs *models.Preferences) []models.ScoredListing {
	start := time.Now()
	ranked, err := s.deps.Ranker.Rank(listings, prefs)
	if err != nil {
		s.logger.Warn("ranking failed, returning unranked listings", map[string]interface{}{
			"error": err.Error(),
			"count": len(listings),
		})
		return models.Unscored(listings)
	}
	metrics.ObserveRanking(len(listings), len(ranked), time.Since(start).Seconds())
	return ranked
}

// ByCategory resolves display aliases before matching.
func (s *Service) ByCategory(ctx context.Context, category string) ([]models.Listing, error) {
	mapped := textutil.MapCategory(category)
	if s.deps.Store == nil {
		return []models.Listing{}, nil
	}

	listings, err := s.deps.Store.Search(ctx, "", &models.Preferences{Category: models.StringPtr(mapped)})
	if err == nil && len(listings) > 0 {
		return listings, nil
	}
	if err != nil {
		s.logger.Warn("category search failed, filtering all listings", map[string]interface{}{
			"category": mapped,
			"error":    err.Error(),
		})
	}

	all, err := s.deps.Store.All(ctx)
	if err != nil {
		return nil, apperrors.NewListingSearchFailedError(err)
	}
	out := []models.Listing{}
	for _, l := range all {
		if strings.EqualFold(l.Category, mapped) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *Service) ByBrand(ctx context.Context, brand string) ([]models.Listing, error) {
	return s.storeSearch(ctx, &models.Preferences{Brand: models.StringPtr(brand)})
}

// ByPriceRange accepts open bounds.
func (s *Service) ByPriceRange(ctx context.Context, minPrice, maxPrice *int) ([]models.Listing, error) {
	return s.storeSearch(ctx, &models.Preferences{PriceRange: &models.PriceRange{Min: minPrice, Max: maxPrice}})
}

func (s *Service) storeSearch(ctx context.Context, prefs *models.Preferences) ([]models.Listing, error) {
	if s.deps.Store == nil {
		return []models.Listing{}, nil
	}
	listings, err := s.deps.Store.Search(ctx, "", prefs)
	if err != nil {
		return nil, apperrors.NewListingSearchFailedError(err)
	}
	return listings, nil
}

// ByTags returns listings carrying all of the given SEO tags.
func (s *Service) ByTags(ctx context.Context, tags []string) ([]models.Listing, error) {
	if s.deps.Store == nil {
		return []models.Listing{}, nil
	}
	listings, err := s.deps.Store.ByTags(ctx, tags, s.config.MaxResults)
	if err != nil {
		return nil, apperrors.NewListingSearchFailedError(err)
	}
	return listings, nil
}

// Add validates, stores and indexes a listing. Indexing failures are logged
// and do not fail the call.
func (s *Service) Add(ctx context.Context, l models.Listing) (models.Listing, error) {
	if s.deps.Store == nil {
		return models.Listing{}, apperrors.NewInternalError(fmt.Errorf("no listing store configured"))
	}
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	l.Condition = textutil.NormalizeCondition(l.Condition)

	if s.deps.Validator != nil {
		res, err := s.deps.Validator.ValidateListing(l)
		if err != nil {
			return models.Listing{}, apperrors.NewInternalError(err)
		}
		if !res.Valid() {
			return models.Listing{}, apperrors.NewListingValidationFailedError(res.Errors)
		}
		for _, w := range res.Warnings {
			s.logger.Warn("listing warning", map[string]interface{}{"id": l.ID, "warning": w})
		}
	}

	stored, err := s.deps.Store.Add(ctx, l)
	if err != nil {
		return models.Listing{}, apperrors.NewQueryExecutionFailedError("add listing", err)
	}

	if s.deps.Index != nil {
		if err := s.deps.Index.Index(ctx, []models.Listing{stored}); err != nil {
			s.logger.Warn("listing index write failed", map[string]interface{}{
				"id":    stored.ID,
				"error": err.Error(),
			})
		}
	}
	return stored, nil
}

func (s *Service) All(ctx context.Context) ([]models.Listing, error) {
	if s.deps.Store == nil {
		return []models.Listing{}, nil
	}
	listings, err := s.deps.Store.All(ctx)
	if err != nil {
		return nil, apperrors.NewListingSearchFailedError(err)
	}
	return listings, nil
}

// Details looks the id up in the store, then asks the scraper.
func (s *Service) Details(ctx context.Context, id string) (*models.Listing, bool) {
	if s.deps.Store != nil {
		if l, err := s.deps.Store.GetByID(ctx, id); err == nil {
			return l, true
		}
	}
	if s.deps.Scraper != nil && s.config.UseScraper {
		return s.deps.Scraper.Details(ctx, id)
	}
	return nil, false
}
