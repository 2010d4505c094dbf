package returns

import (
	"time"

	"github.com/google/uuid"
	"github.com/salesdesk/backend/internal/domain/returns"
	"github.com/shopspring/decimal"
)

// CreateReturnItemInput represents one returned line in a create request
type CreateReturnItemInput struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int64     `json:"quantity" binding:"required,gt=0"`
	Reason    string    `json:"reason" binding:"omitempty,max=500"`
	Condition string    `json:"condition" binding:"omitempty,oneof=resellable damaged defective"`
}

// CreateReturnRequest represents a request to file a return against a sale
type CreateReturnRequest struct {
	SaleID       uuid.UUID               `json:"sale_id" binding:"required"`
	Items        []CreateReturnItemInput `json:"items" binding:"required,min=1,dive"`
	RefundAmount *decimal.Decimal        `json:"refund_amount"` // Defaults to the returned item total
	RefundMethod string                  `json:"refund_method" binding:"required,oneof=cash store_credit original_payment exchange"`
	Reason       string                  `json:"reason" binding:"omitempty,max=500"`
}

// RejectReturnRequest represents a request to reject a pending return
type RejectReturnRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

// ReturnListFilter represents filtering options for listing returns
type ReturnListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
	Status   string `form:"status"`
}

// ReturnItemResponse represents a returned line item in API responses
type ReturnItemResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
	Reason      string          `json:"reason,omitempty"`
	Condition   string          `json:"condition"`
}

// ReturnResponse represents a return in API responses
type ReturnResponse struct {
	ID           uuid.UUID            `json:"id"`
	SaleID       uuid.UUID            `json:"sale_id"`
	CustomerID   *uuid.UUID           `json:"customer_id,omitempty"`
	CustomerName string               `json:"customer_name,omitempty"`
	Items        []ReturnItemResponse `json:"items"`
	RefundAmount decimal.Decimal      `json:"refund_amount"`
	RefundMethod string               `json:"refund_method"`
	Status       string               `json:"status"`
	Reason       string               `json:"reason,omitempty"`
	ProcessedAt  *time.Time           `json:"processed_at,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
}

// ToReturnResponse converts a Return to ReturnResponse
func ToReturnResponse(ret *returns.Return) ReturnResponse {
	items := make([]ReturnItemResponse, len(ret.Items))
	for i, item := range ret.Items {
		items[i] = ReturnItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       item.Total,
			Reason:      item.Reason,
			Condition:   string(item.Condition),
		}
	}
	return ReturnResponse{
		ID:           ret.ID,
		SaleID:       ret.SaleID,
		CustomerID:   ret.CustomerID,
		CustomerName: ret.CustomerName,
		Items:        items,
		RefundAmount: ret.RefundAmount,
		RefundMethod: string(ret.RefundMethod),
		Status:       ret.Status.String(),
		Reason:       ret.Reason,
		ProcessedAt:  ret.ProcessedAt,
		CreatedAt:    ret.CreatedAt,
	}
}

// ToReturnResponses converts a slice of Returns
func ToReturnResponses(rets []returns.Return) []ReturnResponse {
	responses := make([]ReturnResponse, len(rets))
	for i := range rets {
		responses[i] = ToReturnResponse(&rets[i])
	}
	return responses
}
