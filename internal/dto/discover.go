package dto

import (
	"strings"

	"github.com/google/uuid"

	"github.com/octobees/movescout/internal/entity"
)

// DiscoverRequest is the payload used by the discovery endpoint.
type DiscoverRequest struct {
	CurrentAddress     string `json:"current_address"`
	DestinationAddress string `json:"destination_address"`
	MoveOutDate        string `json:"move_out_date,omitempty"`
	MoveInDate         string `json:"move_in_date,omitempty"`
	ApartmentSize      string `json:"apartment_size,omitempty"`
	SpecialItems       string `json:"special_items,omitempty"`
	PackingNeeded      bool   `json:"packing_needed,omitempty"`
	StorageNeeded      bool   `json:"storage_needed,omitempty"`
}

// CustomerRequest converts the payload into the domain request, trimming text fields.
func (r DiscoverRequest) CustomerRequest() entity.CustomerRequest {
	return entity.CustomerRequest{
		CurrentAddress:     strings.TrimSpace(r.CurrentAddress),
		DestinationAddress: strings.TrimSpace(r.DestinationAddress),
		MoveOutDate:        strings.TrimSpace(r.MoveOutDate),
		MoveInDate:         strings.TrimSpace(r.MoveInDate),
		ApartmentSize:      strings.TrimSpace(r.ApartmentSize),
		SpecialItems:       strings.TrimSpace(r.SpecialItems),
		PackingNeeded:      r.PackingNeeded,
		StorageNeeded:      r.StorageNeeded,
	}
}

// DiscoverResponse is returned once a session has produced its shortlist.
type DiscoverResponse struct {
	SessionID  uuid.UUID                `json:"session_id"`
	ReportPath string                   `json:"report_path"`
	Count      int                      `json:"count"`
	Companies  []entity.EnrichedCompany `json:"companies"`
}
