package extract

import (
	"strings"

	"github.com/octobees/movescout/internal/entity"
	"github.com/octobees/movescout/internal/matcher"
)

// Extractor turns raw listings into company records using the matcher rules.
// It never fails: anything the rules cannot find is left empty.
type Extractor struct {
	rules *matcher.Rules
}

// New wires an extractor around rules.
func New(rules *matcher.Rules) *Extractor {
	return &Extractor{rules: rules}
}

// Rules exposes the underlying rule set.
func (e *Extractor) Rules() *matcher.Rules {
	return e.rules
}

// Extract builds a company from a listing. Facts carried by the listing win
// over facts found in its text.
func (e *Extractor) Extract(listing entity.RawListing) entity.EnrichedCompany {
	text := listing.Text()

	name := strings.TrimSpace(listing.Name)
	if name == "" {
		name = e.rules.Name(listing.Title, listing.Snippet)
	}

	contact := listing.Contact
	contact.AllPhones = append([]string(nil), listing.Contact.AllPhones...)
	contact.Merge(e.rules.Contact(text))

	services := entity.NewServiceSet(listing.Services...)
	for _, s := range e.rules.Services(text) {
		services.Add(s)
	}

	quotation := entity.DefaultQuotation()
	switch {
	case listing.Quotation != nil:
		quotation = cloneQuotation(*listing.Quotation)
		if quotation.EstimatedCost == "" {
			quotation.EstimatedCost = entity.DefaultEstimate
		}
	default:
		if price, ok := matcher.Price(text); ok {
			quotation.EstimatedCost = price
			quotation.CostRange, _ = matcher.PriceRange(text)
		}
	}

	return entity.EnrichedCompany{
		Name:         name,
		OriginalName: listing.Title,
		URL:          listing.URL,
		Description:  strings.TrimSpace(listing.Snippet),
		Contact:      contact,
		Services:     services,
		Quotation:    quotation,
		Source:       listing.Source,
	}
}

// Contact applies only the contact rules.
func (e *Extractor) Contact(text string) entity.ContactInfo {
	return e.rules.Contact(text)
}

// Quote reads pricing details out of text. EstimatedCost is empty when no
// price is mentioned.
func (e *Extractor) Quote(text string) entity.Quotation {
	var q entity.Quotation
	q.EstimatedCost, _ = matcher.Price(text)
	q.CostRange, _ = matcher.PriceRange(text)
	q.IncludedServices = e.rules.Services(text)
	q.AdditionalFees = e.rules.Fees(text)
	return q
}

func cloneQuotation(q entity.Quotation) entity.Quotation {
	q.IncludedServices = append([]string(nil), q.IncludedServices...)
	q.AdditionalFees = append([]string(nil), q.AdditionalFees...)
	return q
}
