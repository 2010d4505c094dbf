package crm

import (
	"time"

	"github.com/google/uuid"
	"github.com/salesdesk/backend/internal/domain/crm"
	"github.com/shopspring/decimal"
)

// CreateDealRequest represents a request to create a deal
type CreateDealRequest struct {
	Title             string          `json:"title" binding:"required,min=1,max=200"`
	CustomerID        *uuid.UUID      `json:"customer_id"`
	Value             decimal.Decimal `json:"value" binding:"required"`
	ExpectedCloseDate *time.Time      `json:"expected_close_date"`
	Notes             string          `json:"notes"`
}

// UpdateDealRequest represents a request to update an open deal
type UpdateDealRequest struct {
	Title             string          `json:"title" binding:"required,min=1,max=200"`
	Value             decimal.Decimal `json:"value" binding:"required"`
	ExpectedCloseDate *time.Time      `json:"expected_close_date"`
	Notes             string          `json:"notes"`
}

// MoveDealRequest represents a request to move a deal to a new stage
type MoveDealRequest struct {
	Stage       string `json:"stage" binding:"required,oneof=lead contacted proposal negotiation won lost"`
	Probability *int   `json:"probability" binding:"omitempty,gte=0,lte=100"`
}

// DealListFilter represents filtering options for listing deals
type DealListFilter struct {
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
	Search     string     `form:"search"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir"`
	Stage      string     `form:"stage"`
	CustomerID *uuid.UUID `form:"customer_id"`
}

// DealResponse represents a deal in API responses
type DealResponse struct {
	ID                uuid.UUID       `json:"id"`
	Title             string          `json:"title"`
	CustomerID        *uuid.UUID      `json:"customer_id,omitempty"`
	CustomerName      string          `json:"customer_name,omitempty"`
	Value             decimal.Decimal `json:"value"`
	WeightedValue     decimal.Decimal `json:"weighted_value"`
	Stage             string          `json:"stage"`
	Probability       int             `json:"probability"`
	ExpectedCloseDate *time.Time      `json:"expected_close_date,omitempty"`
	ClosedAt          *time.Time      `json:"closed_at,omitempty"`
	Notes             string          `json:"notes,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ToDealResponse converts a Deal to DealResponse
func ToDealResponse(deal *crm.Deal) DealResponse {
	return DealResponse{
		ID:                deal.ID,
		Title:             deal.Title,
		CustomerID:        deal.CustomerID,
		CustomerName:      deal.CustomerName,
		Value:             deal.Value,
		WeightedValue:     deal.WeightedValue(),
		Stage:             deal.Stage.String(),
		Probability:       deal.Probability,
		ExpectedCloseDate: deal.ExpectedCloseDate,
		ClosedAt:          deal.ClosedAt,
		Notes:             deal.Notes,
		CreatedAt:         deal.CreatedAt,
		UpdatedAt:         deal.UpdatedAt,
	}
}

// ToDealResponses converts a slice of Deals
func ToDealResponses(deals []crm.Deal) []DealResponse {
	responses := make([]DealResponse, len(deals))
	for i := range deals {
		responses[i] = ToDealResponse(&deals[i])
	}
	return responses
}
