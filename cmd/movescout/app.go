package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/octobees/movescout/internal/config"
	"github.com/octobees/movescout/internal/database"
	"github.com/octobees/movescout/internal/extract"
	"github.com/octobees/movescout/internal/matcher"
	"github.com/octobees/movescout/internal/report"
	"github.com/octobees/movescout/internal/repository"
	"github.com/octobees/movescout/internal/service"
	"github.com/octobees/movescout/internal/source"
)

const browserSettle = 2 * time.Second

// app holds the wired pipeline and the resources to release on exit.
type app struct {
	pipeline *service.Pipeline
	closers  []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func buildApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*app, error) {
	a := &app{}

	vocab, err := config.LoadVocabulary(cfg.VocabularyPath)
	if err != nil {
		return nil, err
	}
	extractor := extract.New(matcher.New(vocab))
	planner := service.NewQueryPlanner(vocab)

	sources, research, closeSources := buildSources(ctx, cfg, planner, log)
	a.closers = append(a.closers, closeSources)

	enricherOpts := []service.EnricherOption{service.WithEnricherLogger(log.Named("enricher"))}
	if research != nil {
		enricherOpts = append(enricherOpts, service.WithMarketResearch(research))
	}
	discovery := service.NewDiscovery(
		sources,
		extractor,
		planner,
		service.NewRelevanceFilter(vocab.Relevance),
		service.NewEnricher(extractor, planner, enricherOpts...),
		service.WithTarget(cfg.TargetCount),
		service.WithLogger(log.Named("discovery")),
	)

	store, closeStore, err := buildStore(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.closers = append(a.closers, closeStore)

	a.pipeline = service.NewPipeline(discovery, store, report.NewWriter(cfg.ReportDir), log.Named("pipeline"))
	return a, nil
}

// buildSources returns the discovery chain in priority order: structured
// answers, scraped search results, the city directory, then the static
// fixture. Offline mode keeps only the fixture.
func buildSources(ctx context.Context, cfg *config.Config, planner *service.QueryPlanner, log *zap.Logger) ([]source.Source, service.MarketResearcher, func()) {
	noop := func() {}
	fixture := source.NewStaticFixtureSource()
	if cfg.Offline {
		log.Info("offline mode, using fixture source only")
		return []source.Source{fixture}, nil, noop
	}

	guard := source.GuardOptions{Timeout: cfg.RequestTimeout, MaxRetries: cfg.MaxRetries, Backoff: cfg.RetryBackoff}
	var (
		sources  []source.Source
		research service.MarketResearcher
	)

	gemini, err := source.NewGeminiAnswerer(ctx, source.GeminiConfig{APIKey: cfg.GeminiAPIKey, Model: cfg.GeminiModel})
	switch {
	case err == nil:
		research = gemini
	case errors.Is(err, source.ErrNotConfigured):
		log.Debug("gemini not configured", zap.Error(err))
	default:
		log.Warn("gemini unavailable", zap.Error(err))
	}

	switch cfg.AnswerProvider {
	case config.ProviderGemini:
		if gemini != nil {
			sources = append(sources, source.NewGuard(source.NewStructuredAnswerSource(gemini), guard, log))
		}
	default:
		if cfg.LinkupAPIKey != "" {
			linkup := source.NewLinkupClient(cfg.LinkupAPIKey, cfg.LinkupBaseURL, &http.Client{Timeout: cfg.RequestTimeout})
			sources = append(sources, source.NewGuard(source.NewStructuredAnswerSource(linkup), guard, log))
		} else {
			log.Info("linkup api key not set, skipping structured answers")
		}
	}

	closer := noop
	var fetcher source.Fetcher = source.NewHTTPFetcher(&http.Client{Timeout: cfg.RequestTimeout})
	if cfg.ScrapeBrowser {
		browser := source.NewBrowserFetcher(cfg.ChromeBin, browserSettle)
		fetcher = browser
		closer = browser.Close
	}
	scraped := source.NewScrapedListingSource(fetcher, source.DefaultScrapedOptions(cfg.ScrapeSearchURL, cfg.ScrapeDelay))
	sources = append(sources, source.NewGuard(scraped, guard, log))

	if cfg.DirectoryURL != "" {
		directory := source.NewDirectoryListingSource(fetcher, planner, source.DefaultDirectoryOptions(cfg.DirectoryURL, cfg.ScrapeDelay), 0)
		sources = append(sources, source.NewGuard(directory, guard, log))
	} else {
		log.Info("directory url not set, skipping directory listings")
	}

	sources = append(sources, fixture)

	return sources, research, closer
}

func buildStore(ctx context.Context, cfg *config.Config) (repository.SessionStore, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreSQLite:
		db, err := database.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		store := repository.NewSQLiteSessionStore(db)
		if err := store.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrate sqlite store: %w", err)
		}
		return store, func() { db.Close() }, nil
	case config.StorePostgres:
		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect database: %w", err)
		}
		store := repository.NewPGXSessionStore(pool)
		if err := store.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("migrate postgres store: %w", err)
		}
		return store, pool.Close, nil
	default:
		return repository.NewMemorySessionStore(), func() {}, nil
	}
}
