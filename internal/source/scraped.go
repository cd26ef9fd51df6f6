package source

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/octobees/movescout/internal/entity"
	"github.com/octobees/movescout/internal/matcher"
)

// ScrapedOptions describes where to search and how result blocks look.
type ScrapedOptions struct {
	SearchURL  string
	QueryParam string
	Delay      time.Duration

	BlockSelector   string
	TitleSelector   string
	SnippetSelector string
	LinkSelector    string
	PhoneSelector   string
	AddressSelector string
	WebsiteSelector string
}

// DefaultScrapedOptions matches DuckDuckGo HTML and Google style result
// pages.
func DefaultScrapedOptions(searchURL string, delay time.Duration) ScrapedOptions {
	return ScrapedOptions{
		SearchURL:       searchURL,
		QueryParam:      "q",
		Delay:           delay,
		BlockSelector:   "div.result, div.g, div.web-result",
		TitleSelector:   "h2, h3, a.result__a",
		SnippetSelector: ".result__snippet, .snippet, span.aCOpRe, .VwiC3b",
		LinkSelector:    "a.result__a, h2 a, h3 a, a[href]",
	}
}

// ScrapedListingSource searches a public listing page and parses its result
// blocks. Calls to the same host are spaced by at least Delay.
type ScrapedListingSource struct {
	fetcher  Fetcher
	opts     ScrapedOptions
	limiters *hostLimiters
}

// NewScrapedListingSource wires a scraped source.
func NewScrapedListingSource(fetcher Fetcher, opts ScrapedOptions) *ScrapedListingSource {
	if opts.QueryParam == "" {
		opts.QueryParam = "q"
	}
	return &ScrapedListingSource{
		fetcher:  fetcher,
		opts:     opts,
		limiters: newHostLimiters(opts.Delay),
	}
}

func (s *ScrapedListingSource) Name() string { return NameScraped }

func (s *ScrapedListingSource) OpenWeb() bool { return true }

func (s *ScrapedListingSource) Search(ctx context.Context, query string) ([]entity.RawListing, error) {
	if strings.TrimSpace(s.opts.SearchURL) == "" {
		return nil, ErrNotConfigured
	}

	target, err := url.Parse(s.opts.SearchURL)
	if err != nil {
		return nil, fmt.Errorf("parse search url: %w", err)
	}
	params := target.Query()
	params.Set(s.opts.QueryParam, query)
	target.RawQuery = params.Encode()

	if err := s.limiters.wait(ctx, target.Host); err != nil {
		return nil, err
	}

	body, err := s.fetcher.Fetch(ctx, target.String())
	if err != nil {
		return nil, err
	}
	return ParseListings(body, target, s.opts)
}

// hostLimiters spaces requests to the same host by at least delay.
type hostLimiters struct {
	delay time.Duration

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func newHostLimiters(delay time.Duration) *hostLimiters {
	return &hostLimiters{delay: delay, limiters: make(map[string]*rate.Limiter)}
}

func (h *hostLimiters) wait(ctx context.Context, host string) error {
	if err := h.limiter(host).Wait(ctx); err != nil {
		return fmt.Errorf("wait for %s: %w", host, err)
	}
	return nil
}

func (h *hostLimiters) limiter(host string) *rate.Limiter {
	h.mu.Lock()
	defer h.mu.Unlock()

	l, ok := h.limiters[host]
	if !ok {
		limit := rate.Inf
		if h.delay > 0 {
			limit = rate.Every(h.delay)
		}
		l = rate.NewLimiter(limit, 1)
		h.limiters[host] = l
	}
	return l
}

// ParseListings extracts one listing per result block. Blocks without a
// heading are skipped.
func ParseListings(body []byte, base *url.URL, opts ScrapedOptions) ([]entity.RawListing, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse listing page: %w", err)
	}

	var listings []entity.RawListing
	doc.Find(opts.BlockSelector).Each(func(_ int, block *goquery.Selection) {
		title := collapse(selectText(block, opts.TitleSelector))
		if title == "" {
			return
		}

		listing := entity.RawListing{
			Source:  NameScraped,
			Title:   title,
			Snippet: collapse(selectText(block, opts.SnippetSelector)),
		}
		if href, ok := selectAttr(block, opts.LinkSelector, "href"); ok {
			listing.URL = resolveLink(href, base)
		}
		if phones := matcher.Phones(selectText(block, opts.PhoneSelector)); len(phones) > 0 {
			listing.Contact.Phone = phones[0]
			listing.Contact.AllPhones = phones
		}
		listing.Contact.Address = collapse(selectText(block, opts.AddressSelector))
		if href, ok := selectAttr(block, opts.WebsiteSelector, "href"); ok {
			listing.Contact.Website = resolveLink(href, base)
		}
		listings = append(listings, listing)
	})
	return listings, nil
}

func selectText(block *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	return block.Find(selector).First().Text()
}

func selectAttr(block *goquery.Selection, selector, attr string) (string, bool) {
	if selector == "" {
		return "", false
	}
	val, ok := block.Find(selector).First().Attr(attr)
	val = strings.TrimSpace(val)
	return val, ok && val != ""
}

// resolveLink unwraps DuckDuckGo redirect links and makes relative links
// absolute.
func resolveLink(href string, base *url.URL) string {
	parsed, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := parsed.Query().Get("uddg"); target != "" {
		return target
	}
	if base != nil && !parsed.IsAbs() {
		return base.ResolveReference(parsed).String()
	}
	return parsed.String()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
