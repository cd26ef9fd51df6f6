package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/octobees/movescout/internal/entity"
	"github.com/octobees/movescout/internal/extract"
	"github.com/octobees/movescout/internal/logger"
	"github.com/octobees/movescout/internal/source"
)

// DefaultTarget is the size of the shortlist.
const DefaultTarget = 5

// Discovery runs the fallback chain: each source is tried in priority order
// until enough unique companies are found.
type Discovery struct {
	sources   []source.Source
	extractor *extract.Extractor
	planner   *QueryPlanner
	relevance *RelevanceFilter
	enricher  *Enricher
	target    int
	log       *zap.Logger
}

// DiscoveryOption configures a Discovery.
type DiscoveryOption func(*Discovery)

// WithTarget sets the shortlist size, capped at DefaultTarget.
func WithTarget(n int) DiscoveryOption {
	return func(d *Discovery) {
		if n > 0 && n <= DefaultTarget {
			d.target = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) DiscoveryOption {
	return func(d *Discovery) {
		d.log = logger.OrNop(log)
	}
}

// NewDiscovery wires the chain. sources are tried in the given order.
func NewDiscovery(sources []source.Source, extractor *extract.Extractor, planner *QueryPlanner, relevance *RelevanceFilter, enricher *Enricher, opts ...DiscoveryOption) *Discovery {
	d := &Discovery{
		sources:   sources,
		extractor: extractor,
		planner:   planner,
		relevance: relevance,
		enricher:  enricher,
		target:    DefaultTarget,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Discover returns at most the target number of enriched companies, in
// discovery order. Source failures are logged and skipped; an empty result
// means every source came back empty.
func (d *Discovery) Discover(ctx context.Context, req entity.CustomerRequest) []entity.EnrichedCompany {
	queries := d.planner.DiscoveryQueries(req)
	dedup := NewDeduplicator()
	origin := make(map[string]source.Source)

	for _, src := range d.sources {
		if dedup.Len() >= d.target {
			break
		}
		before := dedup.Len()
		d.collect(ctx, src, queries, dedup, origin)
		d.log.Info("source finished",
			zap.String("source", src.Name()),
			zap.Int("added", dedup.Len()-before),
			zap.Int("total", dedup.Len()),
		)
	}

	companies := dedup.Companies()
	if len(companies) > d.target {
		companies = companies[:d.target]
	}

	if d.enricher != nil {
		d.enricher.EnrichAll(ctx, companies, req, func(c entity.EnrichedCompany) source.Source {
			return origin[c.Key()]
		})
	}
	return companies
}

func (d *Discovery) collect(ctx context.Context, src source.Source, queries []string, dedup *Deduplicator, origin map[string]source.Source) {
	filter := source.IsOpenWeb(src) && d.relevance != nil

	for _, q := range queries {
		if dedup.Len() >= d.target {
			return
		}

		listings, err := src.Search(ctx, q)
		if err != nil {
			d.log.Warn("discovery query failed",
				zap.String("source", src.Name()),
				zap.String("query", q),
				zap.Error(err),
			)
			continue
		}

		for _, l := range listings {
			if l.Summary {
				continue
			}
			c := d.extractor.Extract(l)
			if filter && !d.relevance.Relevant(c.Name) {
				d.log.Debug("dropped irrelevant listing", zap.String("name", c.Name), zap.String("source", src.Name()))
				continue
			}
			if dedup.Add(c) {
				origin[c.Key()] = src
			}
		}
	}
}
