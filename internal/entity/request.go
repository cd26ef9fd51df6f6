package entity

import (
	"errors"
	"strings"
)

// ErrMissingAddress is returned when a request lacks an origin or destination.
var ErrMissingAddress = errors.New("current and destination address are required")

// CustomerRequest captures the move a customer wants quoted.
type CustomerRequest struct {
	CurrentAddress     string `json:"current_address"`
	DestinationAddress string `json:"destination_address"`
	MoveOutDate        string `json:"move_out_date"`
	MoveInDate         string `json:"move_in_date"`
	ApartmentSize      string `json:"apartment_size"`
	SpecialItems       string `json:"special_items"`
	PackingNeeded      bool   `json:"packing_needed"`
	StorageNeeded      bool   `json:"storage_needed"`
}

// Field is one labelled value of a request, in display order.
type Field struct {
	Key   string
	Value string
}

// Validate checks the minimal fields discovery needs.
func (r CustomerRequest) Validate() error {
	if strings.TrimSpace(r.CurrentAddress) == "" || strings.TrimSpace(r.DestinationAddress) == "" {
		return ErrMissingAddress
	}
	return nil
}

// Fields lists the request values keyed by their snake_case name.
func (r CustomerRequest) Fields() []Field {
	return []Field{
		{Key: "current_address", Value: r.CurrentAddress},
		{Key: "destination_address", Value: r.DestinationAddress},
		{Key: "move_out_date", Value: r.MoveOutDate},
		{Key: "move_in_date", Value: r.MoveInDate},
		{Key: "apartment_size", Value: r.ApartmentSize},
		{Key: "special_items", Value: r.SpecialItems},
		{Key: "packing_needed", Value: yesNo(r.PackingNeeded)},
		{Key: "storage_needed", Value: yesNo(r.StorageNeeded)},
	}
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
