// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopping-assistant/internal/catalog"
	"shopping-assistant/internal/common/camunda"
	"shopping-assistant/internal/common/config"
	"shopping-assistant/internal/common/database"
	"shopping-assistant/internal/common/logger"
	"shopping-assistant/internal/common/observability"
	"shopping-assistant/internal/common/validation"
	"shopping-assistant/internal/ranking"
	"shopping-assistant/internal/services/genai"
	"shopping-assistant/internal/services/scraper"
	"shopping-assistant/internal/store"
	"shopping-assistant/pkg/registry"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

type pingCloser interface {
	database.Pinger
	Close() error
}

// pingOrClose closes c when its first ping fails; each retry opens a new pool.
func pingOrClose(ctx context.Context, c pingCloser) error {
	if err := c.Ping(ctx); err != nil {
		c.Close()
		return err
	}
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...", zap.String("environment", cfg.App.Environment))

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Fatal("observability setup failed", zap.Error(err))
	}

	ctx := context.Background()

	// --- Zeebe ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClient(cfg.Camunda.BrokerAddress)
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- PostgreSQL ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pingOrClose(ctx, pg)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Elasticsearch ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Redis ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return pingOrClose(ctx, redis)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Listing stores ---
	repo := store.NewListingRepository(pg.DB, cfg.Search.MaxResults)
	index := store.NewSearchIndex(esClient.Client, cfg.Search.Index)
	prepareStores(ctx, cfg, repo, index, zapLog)

	validator, err := validation.NewListingValidator()
	if err != nil {
		zapLog.Fatal("listing schema failed to compile", zap.Error(err))
	}

	policy, err := ranking.ParseSortPolicy(cfg.Ranking.SortPolicy)
	if err != nil {
		zapLog.Fatal("invalid ranking policy", zap.Error(err))
	}

	deps := services{
		config:    cfg,
		log:       log,
		repo:      repo,
		index:     index,
		validator: validator,
		policy:    policy,
		genai:     genai.NewClient(genai.ConfigFrom(cfg.APIs.GenAI), log),
		catalog: catalog.New(
			catalog.Config{
				UseScraper: cfg.Search.UseScraper,
				CacheTTL:   time.Duration(cfg.Search.CacheTTL) * time.Second,
				MaxResults: cfg.Search.MaxResults,
			},
			catalog.Deps{
				Store:     repo,
				Index:     index,
				Cache:     store.NewListingCache(redis.Client),
				Scraper:   scraper.New(),
				Validator: validator,
				Ranker:    ranking.New(ranking.WithSortPolicy(policy)),
			},
			log,
		),
	}

	// --- Workers ---
	workers, served := registerWorkers(zeebe, deps, obs, zapLog)
	zapLog.Info("Workers registered", zap.Int("count", len(workers)), zap.Strings("taskTypes", served))
	checkRegistry(cfg.Registry.Path, served, zapLog)

	// --- Health & Metrics Server ---
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: healthMux(map[string]database.Pinger{
			"postgres":      pg,
			"elasticsearch": esClient,
			"redis":         redis,
			"zeebe":         zeebe,
		}),
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Close()
		w.AwaitClose()
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error flushing metrics", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

// prepareStores creates the table and index and loads the sample catalog
// when asked. Failures are logged; search degrades to the remaining sources.
func prepareStores(ctx context.Context, cfg *config.Config, repo *store.ListingRepository, index *store.SearchIndex, log *zap.Logger) {
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Error("listing schema setup failed", zap.Error(err))
		return
	}
	if err := index.EnsureIndex(ctx); err != nil {
		log.Warn("listing index setup failed", zap.Error(err))
	}

	if !cfg.Search.SeedSampleData {
		return
	}

	seeded, err := repo.SeedIfEmpty(ctx)
	if err != nil {
		log.Warn("sample catalog seed failed", zap.Error(err))
		return
	}
	if seeded > 0 {
		all, err := repo.All(ctx)
		if err == nil {
			err = index.Index(ctx, all)
		}
		if err != nil {
			log.Warn("sample catalog indexing failed", zap.Error(err))
		}
	}

	showcased, err := repo.EnsureShowcaseCategories(ctx)
	if err != nil {
		log.Warn("showcase categories failed", zap.Error(err))
	}
	images, err := repo.BackfillImages(ctx, rand.New(rand.NewSource(time.Now().UnixNano())))
	if err != nil {
		log.Warn("image backfill failed", zap.Error(err))
	}
	log.Info("Sample catalog ready",
		zap.Int("seeded", seeded),
		zap.Int("showcaseAdded", showcased),
		zap.Int("imagesAdded", images),
	)
}

// checkRegistry reports drift between the activity registry and the
// workers this process serves. Drift is logged, never fatal.
func checkRegistry(path string, served []string, log *zap.Logger) {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		log.Warn("activity registry not loaded", zap.String("path", path), zap.Error(err))
		return
	}
	if err := reg.Validate(); err != nil {
		log.Warn("activity registry is invalid", zap.Error(err))
	}

	unregistered, unserved := reg.Diff(served)
	if len(unregistered) > 0 {
		log.Warn("workers missing from activity registry", zap.Strings("taskTypes", unregistered))
	}
	if len(unserved) > 0 {
		log.Info("registered activities without a running worker", zap.Strings("taskTypes", unserved))
	}
}

func healthMux(checks map[string]database.Pinger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status, code := "ready", http.StatusOK
		failures := map[string]string{}
		for name, p := range checks {
			if err := p.Ping(ctx); err != nil {
				failures[name] = err.Error()
			}
		}
		if len(failures) > 0 {
			status, code = "not ready", http.StatusServiceUnavailable
		}
		writeJSON(w, code, map[string]interface{}{
			"status":   status,
			"failures": failures,
			"time":     time.Now().Format(time.RFC3339),
		})
	})
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}
