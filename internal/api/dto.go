package api

import (
	"github.com/bishnuhaldar/dealerdesk/internal/models"
)

// DealerRequest is the request body for creating or replacing a dealer.
type DealerRequest struct {
	Name       string              `json:"name" example:"Haldar Traders" validate:"required"`
	Contact    string              `json:"contact" example:"📞 98300 11111" validate:"required"`
	Rating     string              `json:"rating" example:"⭐ 4.5" validate:"required"`
	Regions    []string            `json:"regions" example:"Burdwan,Hooghly"`
	PaddyTypes []models.PriceEntry `json:"paddyTypes" validate:"required"`
}

// Dealer converts the request into the domain type.
func (r DealerRequest) Dealer() models.Dealer {
	return models.Dealer{
		Name:       r.Name,
		Contact:    r.Contact,
		Rating:     r.Rating,
		Regions:    r.Regions,
		PaddyTypes: r.PaddyTypes,
	}
}

// RegionRequest is the request body for adding a region.
type RegionRequest struct {
	Name string `json:"name" example:"Burdwan" validate:"required"`
}

// SaveRequest is the request body for committing the working copy.
type SaveRequest struct {
	Message string `json:"message" example:"Add dealer Haldar Traders"`
}

// DealerListResponse wraps dealer listings.
type DealerListResponse struct {
	Dealers []models.Dealer `json:"dealers" validate:"required"`
	Total   int             `json:"total" example:"7" validate:"required"`
}

// RegionListResponse wraps region listings.
type RegionListResponse struct {
	Regions []string `json:"regions" validate:"required"`
	Total   int      `json:"total" example:"4" validate:"required"`
}

// StatusResponse is the session status payload (aliased from the domain layer).
type StatusResponse = models.DocumentStatus
