// internal/store/index.go
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"shopping-assistant/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var listingMapping = map[string]interface{}{
	"mappings": map[string]interface{}{
		"properties": map[string]interface{}{
			"id":            map[string]string{"type": "keyword"},
			"name":          map[string]string{"type": "text"},
			"price":         map[string]string{"type": "integer"},
			"condition":     map[string]string{"type": "keyword"},
			"seller_rating": map[string]string{"type": "float"},
			"category":      map[string]string{"type": "text"},
			"brand":         map[string]string{"type": "text"},
			"image_url":     map[string]string{"type": "keyword"},
			"url":           map[string]string{"type": "keyword"},
			"description":   map[string]string{"type": "text"},
			"seo_tags":      map[string]string{"type": "text"},
		},
	},
}

// SearchIndex is the full-text listing index.
type SearchIndex struct {
	client *elasticsearch.Client
	index  string
}

func NewSearchIndex(client *elasticsearch.Client, index string) *SearchIndex {
	if index == "" {
		index = "listings"
	}
	return &SearchIndex{client: client, index: index}
}

// EnsureIndex creates the index with its mapping when it does not exist.
func (s *SearchIndex) EnsureIndex(ctx context.Context) error {
	res, err := esapi.IndicesExistsRequest{Index: []string{s.index}}.Do(ctx, s.client)
	if err != nil {
		return fmt.Errorf("check index %s: %w", s.index, err)
	}
	res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}

	body, _ := json.Marshal(listingMapping)
	res, err = esapi.IndicesCreateRequest{
		Index: s.index,
		Body:  bytes.NewReader(body),
	}.Do(ctx, s.client)
	if err != nil {
		return fmt.Errorf("create index %s: %w", s.index, err)
	}
	defer res.Body.Close()

	if res.IsError() && !strings.Contains(res.String(), "resource_already_exists_exception") {
		return fmt.Errorf("create index %s: %s", s.index, res.String())
	}
	return nil
}

// Index writes listings with a single bulk request.
func (s *SearchIndex) Index(ctx context.Context, listings []models.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, l := range listings {
		meta := map[string]interface{}{"index": map[string]string{"_index": s.index, "_id": l.ID}}
		if err := enc.Encode(meta); err != nil {
			return err
		}
		if err := enc.Encode(l); err != nil {
			return err
		}
	}

	res, err := esapi.BulkRequest{Body: &buf, Refresh: "wait_for"}.Do(ctx, s.client)
	if err != nil {
		return fmt.Errorf("bulk index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("bulk index failed: %s", res.String())
	}

	var r struct {
		Errors bool `json:"errors"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return fmt.Errorf("decode bulk response: %w", err)
	}
	if r.Errors {
		return fmt.Errorf("bulk index reported item errors")
	}
	return nil
}

// Search runs a boosted multi_match over the text fields, filtered by the
// structured preferences.
func (s *SearchIndex) Search(ctx context.Context, query string, prefs *models.Preferences, size int) ([]models.Listing, error) {
	body, err := json.Marshal(map[string]interface{}{
		"query": buildIndexQuery(query, prefs),
		"size":  size,
	})
	if err != nil {
		return nil, fmt.Errorf("encode search body: %w", err)
	}

	res, err := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  bytes.NewReader(body),
	}.Do(ctx, s.client)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search failed: %s", res.String())
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source models.Listing `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, err
	}

	listings := make([]models.Listing, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		listings = append(listings, hit.Source)
	}
	return listings, nil
}

func buildIndexQuery(query string, prefs *models.Preferences) map[string]interface{} {
	text := strings.TrimSpace(query)
	if prefs != nil && len(prefs.Keywords) > 0 {
		text = strings.TrimSpace(text + " " + strings.Join(prefs.Keywords, " "))
	}

	var must []interface{}
	if text != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  text,
				"fields": []string{"name^3", "brand^2", "seo_tags^2", "category", "description"},
			},
		})
	} else {
		must = append(must, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	var filter []interface{}
	if condition, ok := prefs.ConditionValue(); ok {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"condition": condition},
		})
	}
	if brand, ok := prefs.BrandValue(); ok {
		filter = append(filter, map[string]interface{}{
			"match": map[string]interface{}{"brand": brand},
		})
	}
	if category, ok := prefs.CategoryValue(); ok {
		filter = append(filter, map[string]interface{}{
			"match": map[string]interface{}{"category": category},
		})
	}
	if rng := prefs.Range(); rng != nil {
		bounds := map[string]interface{}{}
		if rng.Min != nil {
			bounds["gte"] = *rng.Min
		}
		if rng.Max != nil {
			bounds["lte"] = *rng.Max
		}
		filter = append(filter, map[string]interface{}{
			"range": map[string]interface{}{"price": bounds},
		})
	}

	boolQuery := map[string]interface{}{"must": must}
	if len(filter) > 0 {
		boolQuery["filter"] = filter
	}
	return map[string]interface{}{"bool": boolQuery}
}
