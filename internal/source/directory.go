package source

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/octobees/movescout/internal/entity"
)

// DefaultDirectoryURL is the Yellow Pages movers category for a New York city.
const DefaultDirectoryURL = "https://www.yellowpages.com/{city}-ny/movers"

const cityPlaceholder = "{city}"

const defaultDirectoryTTL = 10 * time.Minute

var rankPrefix = regexp.MustCompile(`^\d+\.\s*`)

// CityResolver picks the city a search query is about.
type CityResolver interface {
	QueryCity(query string) string
}

// DefaultDirectoryOptions matches Yellow Pages category pages. The search URL
// is a template whose {city} placeholder is filled per query.
func DefaultDirectoryOptions(urlTemplate string, delay time.Duration) ScrapedOptions {
	return ScrapedOptions{
		SearchURL:       urlTemplate,
		Delay:           delay,
		BlockSelector:   "div.result",
		TitleSelector:   "h2.n",
		SnippetSelector: ".categories",
		LinkSelector:    "h2.n a, a.business-name",
		PhoneSelector:   ".phones",
		AddressSelector: ".adr",
		WebsiteSelector: "a.track-visit-website",
	}
}

type directoryPage struct {
	listings []entity.RawListing
	fetched  time.Time
}

// DirectoryListingSource reads the movers category of a business directory
// for the city a query names. Every listing on a category page is a mover, so
// its titles are taken as company names.
type DirectoryListingSource struct {
	fetcher  Fetcher
	cities   CityResolver
	opts     ScrapedOptions
	ttl      time.Duration
	limiters *hostLimiters
	now      func() time.Time

	mu    sync.Mutex
	pages map[string]directoryPage
}

// NewDirectoryListingSource wires a directory source. Pages are reused for
// ttl, so the several phrasings of one search fetch a city page once; a
// non-positive ttl uses the default.
func NewDirectoryListingSource(fetcher Fetcher, cities CityResolver, opts ScrapedOptions, ttl time.Duration) *DirectoryListingSource {
	if ttl <= 0 {
		ttl = defaultDirectoryTTL
	}
	return &DirectoryListingSource{
		fetcher:  fetcher,
		cities:   cities,
		opts:     opts,
		ttl:      ttl,
		limiters: newHostLimiters(opts.Delay),
		now:      time.Now,
		pages:    make(map[string]directoryPage),
	}
}

func (s *DirectoryListingSource) Name() string { return NameDirectory }

// OpenWeb is false: a category page answers with the same movers whatever
// the query asks, so follow-up lookups against it learn nothing.
func (s *DirectoryListingSource) OpenWeb() bool { return false }

func (s *DirectoryListingSource) Search(ctx context.Context, query string) ([]entity.RawListing, error) {
	if !strings.Contains(s.opts.SearchURL, cityPlaceholder) {
		return nil, ErrNotConfigured
	}
	city := ""
	if s.cities != nil {
		city = s.cities.QueryCity(query)
	}
	pageURL, ok := DirectoryURL(s.opts.SearchURL, city)
	if !ok {
		return nil, nil
	}

	if listings, ok := s.cached(pageURL); ok {
		return listings, nil
	}

	target, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse directory url: %w", err)
	}
	if err := s.limiters.wait(ctx, target.Host); err != nil {
		return nil, err
	}
	body, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	listings, err := ParseListings(body, target, s.opts)
	if err != nil {
		return nil, err
	}
	for i := range listings {
		name := rankPrefix.ReplaceAllString(listings[i].Title, "")
		listings[i].Source = NameDirectory
		listings[i].Title = name
		listings[i].Name = name
	}

	s.mu.Lock()
	s.pages[pageURL] = directoryPage{listings: listings, fetched: s.now()}
	s.mu.Unlock()
	return copyListings(listings), nil
}

func (s *DirectoryListingSource) cached(pageURL string) ([]entity.RawListing, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	page, ok := s.pages[pageURL]
	if !ok {
		return nil, false
	}
	if s.now().Sub(page.fetched) >= s.ttl {
		delete(s.pages, pageURL)
		return nil, false
	}
	return copyListings(page.listings), true
}

// DirectoryURL fills the {city} placeholder of template with the city slug:
// lower case, with spaces turned into hyphens. It reports false when city is
// blank.
func DirectoryURL(template, city string) (string, bool) {
	slug := strings.Join(strings.Fields(strings.ToLower(city)), "-")
	if slug == "" {
		return "", false
	}
	return strings.ReplaceAll(template, cityPlaceholder, url.PathEscape(slug)), true
}

func copyListings(in []entity.RawListing) []entity.RawListing {
	out := make([]entity.RawListing, len(in))
	for i, l := range in {
		l.Contact.AllPhones = append([]string(nil), l.Contact.AllPhones...)
		out[i] = l
	}
	return out
}
