package source

import (
	"context"

	"github.com/octobees/movescout/internal/entity"
	"github.com/octobees/movescout/internal/matcher"
)

type fixtureCompany struct {
	name        string
	url         string
	description string
	phone       string
	email       string
	services    []string
	cost        string
	costNote    string
}

var fixtureCompanies = []fixtureCompany{
	{
		name:        "Brooklyn Moving Company",
		url:         "https://brooklynmoving.com",
		description: "Professional moving services in Brooklyn",
		phone:       "(718) 555-0123",
		email:       "info@brooklynmoving.com",
		services:    []string{"Local Moving", "Packing", "Loading"},
		cost:        "$800-1200",
		costNote:    "Based on apartment size",
	},
	{
		name:        "NYC Movers Pro",
		url:         "https://nycmoverspro.com",
		description: "Full-service moving company serving Brooklyn",
		phone:       "(718) 555-0456",
		email:       "contact@nycmoverspro.com",
		services:    []string{"Residential Moving", "Commercial Moving", "Storage"},
		cost:        "$900-1500",
		costNote:    "Includes packing and loading",
	},
	{
		name:        "Brooklyn Best Movers",
		url:         "https://brooklynbestmovers.com",
		description: "Affordable moving services in Brooklyn",
		phone:       "(718) 555-0789",
		email:       "hello@brooklynbestmovers.com",
		services:    []string{"Local Moving", "Long Distance", "Packing Services"},
		cost:        "$700-1100",
		costNote:    "Competitive rates",
	},
	{
		name:        "Atlantic Moving Co",
		url:         "https://atlanticmoving.com",
		description: "Reliable moving services in Brooklyn and surrounding areas",
		phone:       "(718) 555-0321",
		email:       "info@atlanticmoving.com",
		services:    []string{"Residential", "Office Moving", "Storage Solutions"},
		cost:        "$850-1300",
		costNote:    "Free estimates available",
	},
	{
		name:        "Brooklyn Express Movers",
		url:         "https://brooklynexpressmovers.com",
		description: "Fast and efficient moving services",
		phone:       "(718) 555-0654",
		email:       "service@brooklynexpressmovers.com",
		services:    []string{"Express Moving", "Packing", "Unpacking"},
		cost:        "$750-1250",
		costNote:    "Same-day service available",
	},
}

// StaticFixtureSource returns a fixed list of Brooklyn movers. It needs no
// network and always answers the same way.
type StaticFixtureSource struct{}

// NewStaticFixtureSource builds the fixture source.
func NewStaticFixtureSource() *StaticFixtureSource {
	return &StaticFixtureSource{}
}

func (s *StaticFixtureSource) Name() string { return NameFixture }

func (s *StaticFixtureSource) OpenWeb() bool { return false }

func (s *StaticFixtureSource) Search(_ context.Context, _ string) ([]entity.RawListing, error) {
	listings := make([]entity.RawListing, 0, len(fixtureCompanies))
	for _, c := range fixtureCompanies {
		phones := matcher.Phones(c.phone)
		var phone string
		if len(phones) > 0 {
			phone = phones[0]
		}
		listings = append(listings, entity.RawListing{
			Source:  NameFixture,
			Name:    c.name,
			Title:   c.name,
			URL:     c.url,
			Snippet: c.description,
			Contact: entity.ContactInfo{
				Phone:     phone,
				AllPhones: phones,
				Email:     c.email,
				Website:   c.url,
			},
			Services: append([]string(nil), c.services...),
			Quotation: &entity.Quotation{
				EstimatedCost: c.cost,
				CostRange:     c.costNote,
			},
		})
	}
	return listings, nil
}
