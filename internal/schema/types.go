package schema

import (
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// AllTypes is the sentinel label meaning "no type restriction". It is
// mutually exclusive with any specific vehicle type selection.
const AllTypes = "ALL"

type CompanyProfile struct {
	Name          string  `json:"name"`
	Address       string  `json:"address"`
	Phone         string  `json:"phone"`
	PrimaryColor  string  `json:"primaryColor"`
	FacebookLink  *string `json:"facebookLink,omitempty"`
	InstagramLink *string `json:"instagramLink,omitempty"`
	Whatsapp      *string `json:"whatsapp,omitempty"`
	MapEmbedURL   *string `json:"mapEmbedUrl,omitempty"`
}

type VehicleType string

// Vehicle is an immutable snapshot returned by the remote store. Additional
// photos are not part of the snapshot, they are loaded lazily by code.
type Vehicle struct {
	Code       string       `json:"code"`
	Name       string       `json:"name"`
	Type       VehicleType  `json:"type"`
	Year       *int         `json:"year,omitempty"`
	Color      *string      `json:"color,omitempty"`
	Brand      *string      `json:"brand,omitempty"`
	DailyRate  RoundedFloat `json:"dailyRate"`
	Deductible RoundedFloat `json:"deductible"`
	Featured   bool         `json:"featured"`
	ImageURL   *string      `json:"imageUrl,omitempty"`
}

// SearchParams is the wire form of an availability search. An empty type
// list means no restriction, same as the AllTypes sentinel.
type SearchParams struct {
	Start openapi_types.Date `json:"start"`
	End   openapi_types.Date `json:"end"`
	Types []VehicleType      `json:"types"`
}

// SearchResult partitions vehicles for a requested range. Both partitions
// empty is the canonical no-results value.
type SearchResult struct {
	Available     []Vehicle `json:"available"`
	SoonAvailable []Vehicle `json:"soonAvailable"`
}

func (r SearchResult) Empty() bool {
	return len(r.Available) == 0 && len(r.SoonAvailable) == 0
}

type ReservationRequest struct {
	CustomerName  string             `json:"customerName"`
	Phone         string             `json:"phone"`
	License       string             `json:"license"`
	PickupTime    string             `json:"pickupTime"`
	Comments      *string            `json:"comments,omitempty"`
	Start         openapi_types.Date `json:"start"`
	End           openapi_types.Date `json:"end"`
	VehicleType   VehicleType        `json:"vehicleType"`
	VehicleCode   string             `json:"vehicleCode"`
}

// Outcome is the uniform result of a write against the remote store. A
// transport failure is an unsuccessful Outcome, never an error.
type Outcome struct {
	Success bool    `json:"success"`
	ID      *string `json:"id,omitempty"`
	Error   *string `json:"error,omitempty"`
}

func SuccessOutcome(id string) Outcome {
	return Outcome{Success: true, ID: &id}
}

func FailureOutcome(reason string) Outcome {
	return Outcome{Success: false, Error: &reason}
}
