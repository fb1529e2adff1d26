package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
app:
  name: shopping-assistant
  environment: test
camunda:
  broker_address: localhost:26500
database:
  postgres:
    host: localhost
    database: shopping
    user: shop
    password: ${TEST_SHOP_DB_PASSWORD}
  elasticsearch:
    addresses: ["http://localhost:9200"]
  redis:
    address: localhost:6379
workers:
  rank-listings:
    enabled: true
    timeout: 5000
  notify-shopper:
    enabled: false
apis:
  genai:
    base_url: http://localhost:8000
ranking:
  sort_policy: combined
  top_n: 5
search:
  use_scraper: true
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("TEST_SHOP_DB_PASSWORD", "s3cret")

	cfg, err := LoadFromFile(writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, "localhost:26500", cfg.Camunda.BrokerAddress)
	assert.Equal(t, "s3cret", cfg.Database.Postgres.Password)
	assert.Equal(t, "http://localhost:9200", cfg.Database.Elasticsearch.URL)
	assert.Equal(t, "combined", cfg.Ranking.SortPolicy)
	assert.Equal(t, 5, cfg.Ranking.TopN)
	assert.True(t, cfg.Search.UseScraper)

	rank := cfg.Workers["rank-listings"]
	assert.True(t, rank.Enabled)
	assert.Equal(t, 5000, rank.Timeout)
	assert.Equal(t, 5, rank.MaxJobsActive)
	assert.Equal(t, 3, rank.MaxRetries)

	assert.False(t, IsWorkerEnabled(cfg, "notify-shopper"))
	assert.True(t, IsWorkerEnabled(cfg, "unknown-worker"))
}

func TestLoadFromFile_Defaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, 300, cfg.Search.CacheTTL)
	assert.Equal(t, 20, cfg.Search.MaxResults)
	assert.Equal(t, "listings", cfg.Search.Index)
	assert.Equal(t, 500, cfg.Ranking.SlowThreshold)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30000, cfg.APIs.GenAI.Timeout)
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing broker",
			yaml:    "database:\n  postgres:\n    host: h\n",
			wantErr: "camunda.broker_address",
		},
		{
			name: "unknown sort policy",
			yaml: `
camunda: {broker_address: b}
database:
  postgres: {host: h, database: d, user: u}
  elasticsearch: {url: "http://es:9200"}
  redis: {address: r}
apis:
  genai: {mock_mode: true}
ranking: {sort_policy: random}
`,
			wantErr: "ranking.sort_policy",
		},
		{
			name: "genai url required outside mock mode",
			yaml: `
camunda: {broker_address: b}
database:
  postgres: {host: h, database: d, user: u}
  elasticsearch: {url: "http://es:9200"}
  redis: {address: r}
`,
			wantErr: "apis.genai.base_url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, "layered", cfg.Ranking.SortPolicy)
	assert.Equal(t, 3, cfg.Ranking.TopN)
	assert.Equal(t, "shopping-assistant", cfg.App.Name)
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
	assert.Equal(t, time.Duration(0), GetDuration(0))
}

func TestGetWorkerConfig_Fallback(t *testing.T) {
	wc := GetWorkerConfig(&Config{}, "rank-listings")
	assert.True(t, wc.Enabled)
	assert.Equal(t, 30000, wc.Timeout)
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "shop", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=shop sslmode=disable", p.GetDSN())
}
