package entity

import "strings"

// RawListing is one result returned by a discovery source before extraction.
// Name, Contact, Services and Quotation carry facts the source already knows;
// they take precedence over anything the text rules find. Summary marks a
// provider's free-text answer that accompanies cited listings: it feeds
// contact and price rules but never names a company of its own.
type RawListing struct {
	Source    string      `json:"source"`
	Name      string      `json:"name,omitempty"`
	Title     string      `json:"title"`
	URL       string      `json:"url"`
	Snippet   string      `json:"snippet"`
	Contact   ContactInfo `json:"contact"`
	Services  []string    `json:"services,omitempty"`
	Quotation *Quotation  `json:"quotation,omitempty"`
	Summary   bool        `json:"summary,omitempty"`
}

// Text joins the fields that extraction rules run against.
func (l RawListing) Text() string {
	return strings.TrimSpace(l.Title + " " + l.Snippet)
}

// EnrichedCompany is a vendor candidate after extraction and enrichment.
type EnrichedCompany struct {
	Name         string      `json:"name"`
	OriginalName string      `json:"original_name,omitempty"`
	URL          string      `json:"url,omitempty"`
	Description  string      `json:"description,omitempty"`
	Contact      ContactInfo `json:"contact"`
	Services     ServiceSet  `json:"services"`
	Quotation    Quotation   `json:"quotation"`
	Source       string      `json:"source,omitempty"`
}

// Key returns the identity used for de-duplication: the case-folded, trimmed name.
func (c EnrichedCompany) Key() string {
	return NameKey(c.Name)
}

// NameKey normalises a company name into its de-duplication key.
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
