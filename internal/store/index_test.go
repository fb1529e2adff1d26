package store

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"shopping-assistant/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIndex(t *testing.T, handler http.HandlerFunc) *SearchIndex {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{server.URL}})
	require.NoError(t, err)
	return NewSearchIndex(client, "listings")
}

func TestSearchIndex_EnsureIndex(t *testing.T) {
	t.Run("existing index", func(t *testing.T) {
		created := false
		idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPut {
				created = true
			}
			w.WriteHeader(http.StatusOK)
		})

		require.NoError(t, idx.EnsureIndex(context.Background()))
		assert.False(t, created)
	})

	t.Run("missing index is created", func(t *testing.T) {
		var mapping map[string]interface{}
		idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodHead:
				w.WriteHeader(http.StatusNotFound)
			case http.MethodPut:
				assert.Equal(t, "/listings", r.URL.Path)
				require.NoError(t, json.NewDecoder(r.Body).Decode(&mapping))
				_, _ = w.Write([]byte(`{"acknowledged":true}`))
			}
		})

		require.NoError(t, idx.EnsureIndex(context.Background()))
		require.NotNil(t, mapping)
		props := mapping["mappings"].(map[string]interface{})["properties"].(map[string]interface{})
		assert.Contains(t, props, "seller_rating")
	})
}

func TestSearchIndex_Index(t *testing.T) {
	var lines []string
	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/_bulk", r.URL.Path)
		scanner := bufio.NewScanner(r.Body)
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		_, _ = w.Write([]byte(`{"errors":false,"items":[]}`))
	})

	err := idx.Index(context.Background(), SampleCatalog()[:2])
	require.NoError(t, err)
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], `"_id":"m001"`)
	assert.Contains(t, lines[1], `"name":"iPhone 15 Pro 256GB"`)

	require.NoError(t, idx.Index(context.Background(), nil))
}

func TestSearchIndex_IndexItemErrors(t *testing.T) {
	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"errors":true,"items":[]}`))
	})

	err := idx.Index(context.Background(), SampleCatalog()[:1])
	require.Error(t, err)
}

func TestSearchIndex_Search(t *testing.T) {
	var body map[string]interface{}
	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/_search"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = w.Write([]byte(`{"hits":{"hits":[
			{"_source":{"id":"m002","name":"iPhone 14 128GB","price":120000,"condition":"like_new","seller_rating":4.5,"category":"Electronics","brand":"Apple"}}
		]}}`))
	})

	prefs := &models.Preferences{
		Keywords:   []string{"iphone"},
		Condition:  models.StringPtr("like_new"),
		PriceRange: &models.PriceRange{Max: models.IntPtr(130000)},
	}
	listings, err := idx.Search(context.Background(), "apple phone", prefs, 5)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "m002", listings[0].ID)
	assert.Equal(t, 120000, listings[0].Price)

	assert.Equal(t, float64(5), body["size"])
	boolQuery := body["query"].(map[string]interface{})["bool"].(map[string]interface{})
	must := boolQuery["must"].([]interface{})
	multi := must[0].(map[string]interface{})["multi_match"].(map[string]interface{})
	assert.Equal(t, "apple phone iphone", multi["query"])
	assert.Contains(t, multi["fields"], "seo_tags^2")

	filter := boolQuery["filter"].([]interface{})
	require.Len(t, filter, 2)
	priceRange := filter[1].(map[string]interface{})["range"].(map[string]interface{})["price"].(map[string]interface{})
	assert.Equal(t, float64(130000), priceRange["lte"])
	assert.NotContains(t, priceRange, "gte")
}

func TestSearchIndex_SearchError(t *testing.T) {
	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"index_not_found_exception"}`))
	})

	_, err := idx.Search(context.Background(), "iphone", nil, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search failed")
}

func TestBuildIndexQuery_MatchAllWithoutText(t *testing.T) {
	q := buildIndexQuery("  ", nil)
	boolQuery := q["bool"].(map[string]interface{})
	must := boolQuery["must"].([]interface{})
	assert.Contains(t, must[0], "match_all")
	assert.NotContains(t, boolQuery, "filter")
}
