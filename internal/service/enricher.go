package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/octobees/movescout/internal/entity"
	"github.com/octobees/movescout/internal/extract"
	"github.com/octobees/movescout/internal/logger"
	"github.com/octobees/movescout/internal/matcher"
	"github.com/octobees/movescout/internal/source"
)

// MarketResearcher returns free-text pricing research for a move.
type MarketResearcher interface {
	Research(ctx context.Context, req entity.CustomerRequest) (string, error)
}

// Enricher fills in missing contact and pricing details for shortlisted
// companies by asking follow-up queries.
type Enricher struct {
	extractor *extract.Extractor
	planner   *QueryPlanner
	research  MarketResearcher
	log       *zap.Logger
}

// EnricherOption configures optional collaborators.
type EnricherOption func(*Enricher)

// WithMarketResearch adds a market-research provider whose price range is
// used when a vendor's own quote has none.
func WithMarketResearch(r MarketResearcher) EnricherOption {
	return func(e *Enricher) {
		e.research = r
	}
}

// WithEnricherLogger sets the logger.
func WithEnricherLogger(log *zap.Logger) EnricherOption {
	return func(e *Enricher) {
		e.log = logger.OrNop(log)
	}
}

// NewEnricher wires an enricher.
func NewEnricher(extractor *extract.Extractor, planner *QueryPlanner, opts ...EnricherOption) *Enricher {
	e := &Enricher{extractor: extractor, planner: planner, log: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EnrichAll enriches every company in place. origin maps a company to the
// source that discovered it.
func (e *Enricher) EnrichAll(ctx context.Context, companies []entity.EnrichedCompany, req entity.CustomerRequest, origin func(entity.EnrichedCompany) source.Source) {
	marketRange := e.marketRange(ctx, req)
	for i := range companies {
		e.enrich(ctx, &companies[i], req, origin(companies[i]), marketRange)
	}
}

// Enrich adds contact and quotation details to c using src. Existing values
// are never overwritten; failures leave c as it was.
func (e *Enricher) Enrich(ctx context.Context, c *entity.EnrichedCompany, req entity.CustomerRequest, src source.Source) {
	e.enrich(ctx, c, req, src, "")
}

func (e *Enricher) enrich(ctx context.Context, c *entity.EnrichedCompany, req entity.CustomerRequest, src source.Source, marketRange string) {
	log := e.log.With(zap.String("company", c.Name))

	// Only open-web sources answer follow-up queries; the fixture returns the
	// same list whatever is asked.
	canAsk := src != nil && source.IsOpenWeb(src)

	if canAsk && c.Contact.Phone == "" {
		e.findContact(ctx, c, req, src, log)
	}
	if canAsk && !c.Quotation.HasEstimate() {
		e.findQuote(ctx, c, req, src, log)
	}

	if !c.Quotation.HasEstimate() {
		c.Quotation = entity.DefaultQuotation()
		return
	}
	if c.Quotation.CostRange == "" && marketRange != "" {
		c.Quotation.CostRange = marketRange
	}
}

func (e *Enricher) findContact(ctx context.Context, c *entity.EnrichedCompany, req entity.CustomerRequest, src source.Source, log *zap.Logger) {
	for _, q := range e.planner.ContactQueries(c.Name, req) {
		listings, err := src.Search(ctx, q)
		if err != nil {
			log.Warn("contact lookup failed", zap.String("query", q), zap.Error(err))
			continue
		}
		for _, l := range listings {
			c.Contact.Merge(e.extractor.Contact(l.Text()))
		}
		if c.Contact.Phone != "" {
			return
		}
	}
}

func (e *Enricher) findQuote(ctx context.Context, c *entity.EnrichedCompany, req entity.CustomerRequest, src source.Source, log *zap.Logger) {
	q := e.planner.QuoteQuery(c.Name, req)
	listings, err := src.Search(ctx, q)
	if err != nil {
		log.Warn("quote lookup failed", zap.String("query", q), zap.Error(err))
		return
	}

	texts := make([]string, 0, len(listings))
	for _, l := range listings {
		texts = append(texts, l.Text())
	}
	quote := e.extractor.Quote(strings.Join(texts, " "))
	if quote.EstimatedCost == "" {
		return
	}
	if len(listings) > 0 {
		quote.QuoteSource = listings[0].URL
	}
	if quote.CostRange == "" {
		quote.CostRange = c.Quotation.CostRange
	}
	c.Quotation = quote
}

func (e *Enricher) marketRange(ctx context.Context, req entity.CustomerRequest) string {
	if e.research == nil {
		return ""
	}
	blob, err := e.research.Research(ctx, req)
	if err != nil {
		e.log.Warn("market research failed", zap.Error(err))
		return ""
	}
	rng, _ := matcher.PriceRange(blob)
	return rng
}
