// cmd/assistant/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"shopping-assistant/internal/assistant"
	"shopping-assistant/internal/catalog"
	"shopping-assistant/internal/common/config"
	"shopping-assistant/internal/common/database"
	"shopping-assistant/internal/common/logger"
	"shopping-assistant/internal/common/validation"
	"shopping-assistant/internal/ranking"
	"shopping-assistant/internal/services/genai"
	"shopping-assistant/internal/services/scraper"
	"shopping-assistant/internal/store"
)

type options struct {
	query      string
	configPath string
	asJSON     bool
	top        int
	offline    bool
	timeout    time.Duration
	logLevel   string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (*options, error) {
	fs := flag.NewFlagSet("assistant", flag.ContinueOnError)
	opts := &options{}
	fs.StringVar(&opts.query, "query", "", "Shopping query, e.g. \"iPhone under 150000 yen\"")
	fs.StringVar(&opts.configPath, "config", "", "Config file (defaults to configs/config.yaml lookup)")
	fs.BoolVar(&opts.asJSON, "json", false, "Print the full result as JSON")
	fs.IntVar(&opts.top, "top", 0, "Number of picks to show (defaults to ranking.top_n)")
	fs.BoolVar(&opts.offline, "offline", false, "Use scraper fixtures and GenAI mock mode, no backing services")
	fs.DurationVar(&opts.timeout, "timeout", time.Minute, "Overall deadline")
	fs.StringVar(&opts.logLevel, "log-level", "warn", "Log level written to stderr")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if opts.query == "" && fs.NArg() > 0 {
		opts.query = strings.Join(fs.Args(), " ")
	}
	if strings.TrimSpace(opts.query) == "" {
		return nil, errors.New("a query is required (-query or trailing arguments)")
	}
	if opts.top < 0 {
		return nil, errors.New("-top must not be negative")
	}
	return opts, nil
}

func run(ctx context.Context, args []string, out io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	log := logger.NewStructured(opts.logLevel, "console")

	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	deps, closeAll := catalogDeps(ctx, cfg, opts.offline, log)
	defer closeAll()

	policy, err := ranking.ParseSortPolicy(cfg.Ranking.SortPolicy)
	if err != nil {
		return err
	}
	deps.Ranker = ranking.New(ranking.WithSortPolicy(policy))
	if deps.Validator, err = validation.NewListingValidator(); err != nil {
		return err
	}

	cat := catalog.New(catalog.Config{
		UseScraper: cfg.Search.UseScraper,
		CacheTTL:   time.Duration(cfg.Search.CacheTTL) * time.Second,
		MaxResults: cfg.Search.MaxResults,
	}, deps, log)

	top := opts.top
	if top == 0 {
		top = cfg.Ranking.TopN
	}
	a := assistant.New(genai.NewClient(genai.ConfigFrom(cfg.APIs.GenAI), log), cat, top, log)

	res, err := a.Answer(ctx, opts.query)
	if err != nil {
		return err
	}
	return render(out, res, opts.asJSON)
}

func loadConfig(opts *options) (*config.Config, error) {
	if opts.offline {
		cfg := config.Defaults()
		cfg.APIs.GenAI.MockMode = true
		cfg.Search.UseScraper = true
		return cfg, nil
	}
	if opts.configPath != "" {
		return config.LoadFromFile(opts.configPath)
	}
	return config.Load()
}

// catalogDeps connects to whichever stores answer a ping. A store that is
// down is left out and the catalog searches the rest.
func catalogDeps(ctx context.Context, cfg *config.Config, offline bool, log logger.Logger) (catalog.Deps, func()) {
	deps := catalog.Deps{Scraper: scraper.New()}
	var closers []func()
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}
	if offline {
		return deps, closeAll
	}

	if pg, err := database.NewPostgres(cfg.Database.Postgres); err != nil {
		log.Warn("postgres unavailable", map[string]interface{}{"error": err.Error()})
	} else if err := pg.Ping(ctx); err != nil {
		pg.Close()
		log.Warn("postgres unavailable", map[string]interface{}{"error": err.Error()})
	} else {
		closers = append(closers, func() { pg.Close() })
		deps.Store = store.NewListingRepository(pg.DB, cfg.Search.MaxResults)
	}

	if es, err := database.NewElasticsearch(cfg.Database.Elasticsearch); err != nil {
		log.Warn("elasticsearch unavailable", map[string]interface{}{"error": err.Error()})
	} else if err := es.Ping(ctx); err != nil {
		log.Warn("elasticsearch unavailable", map[string]interface{}{"error": err.Error()})
	} else {
		deps.Index = store.NewSearchIndex(es.Client, cfg.Search.Index)
	}

	if rdb, err := database.NewRedis(cfg.Database.Redis); err != nil {
		log.Warn("redis unavailable", map[string]interface{}{"error": err.Error()})
	} else if err := rdb.Ping(ctx); err != nil {
		rdb.Close()
		log.Warn("redis unavailable", map[string]interface{}{"error": err.Error()})
	} else {
		closers = append(closers, func() { rdb.Close() })
		deps.Cache = store.NewListingCache(rdb.Client)
	}

	return deps, closeAll
}

func render(out io.Writer, res *assistant.Result, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(res)
	}

	fmt.Fprintln(out, res.Recommendation)
	fmt.Fprintln(out)
	fmt.Fprintln(out, res.Formatted)
	if res.FallbackUsed {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "(some answers came from local fallbacks)")
	}
	return nil
}
