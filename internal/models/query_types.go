// internal/models/query_types.go
package models

// SearchSource names where a candidate set came from.
type SearchSource string

const (
	SearchSourceScraper       SearchSource = "scraper"
	SearchSourceCache         SearchSource = "cache"
	SearchSourcePostgres      SearchSource = "postgres"
	SearchSourceElasticsearch SearchSource = "elasticsearch"
	SearchSourceMerged        SearchSource = "postgres+elasticsearch"
	SearchSourceTags          SearchSource = "tags"
	SearchSourceNone          SearchSource = "none"
)

const (
	LanguageEnglish  = "en"
	LanguageJapanese = "ja"
)
