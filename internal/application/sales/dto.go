package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/salesdesk/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// CreateSaleItemInput represents one line in a create-sale request
type CreateSaleItemInput struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int64     `json:"quantity" binding:"required,gt=0"`
}

// CreateSaleRequest represents a request to record a sale. Prices and product
// names are resolved server-side from the catalog, not trusted from the client.
type CreateSaleRequest struct {
	CustomerID    *uuid.UUID            `json:"customer_id"`
	Items         []CreateSaleItemInput `json:"items" binding:"required,min=1,dive"`
	Tax           decimal.Decimal       `json:"tax"`
	Discount      decimal.Decimal       `json:"discount"`
	PaymentMethod string                `json:"payment_method" binding:"required"`
}

// SaleListFilter represents filtering options for listing sales
type SaleListFilter struct {
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
	Search     string     `form:"search"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir"`
	CustomerID *uuid.UUID `form:"customer_id"`
	StartDate  *time.Time `form:"start_date" time_format:"2006-01-02"`
	EndDate    *time.Time `form:"end_date" time_format:"2006-01-02"`
}

// SaleItemResponse represents a sale line item in API responses
type SaleItemResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// SaleResponse represents a sale in API responses
type SaleResponse struct {
	ID            uuid.UUID          `json:"id"`
	CustomerID    *uuid.UUID         `json:"customer_id,omitempty"`
	CustomerName  string             `json:"customer_name,omitempty"`
	Items         []SaleItemResponse `json:"items"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Tax           decimal.Decimal    `json:"tax"`
	Discount      decimal.Decimal    `json:"discount"`
	Total         decimal.Decimal    `json:"total"`
	Status        string             `json:"status"`
	PaymentMethod string             `json:"payment_method"`
	InvoiceID     *uuid.UUID         `json:"invoice_id,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
}

// ToSaleResponse converts a Sale to SaleResponse
func ToSaleResponse(sale *sales.Sale) SaleResponse {
	items := make([]SaleItemResponse, len(sale.Items))
	for i, item := range sale.Items {
		items[i] = SaleItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       item.Total,
		}
	}
	return SaleResponse{
		ID:            sale.ID,
		CustomerID:    sale.CustomerID,
		CustomerName:  sale.CustomerName,
		Items:         items,
		Subtotal:      sale.Subtotal,
		Tax:           sale.Tax,
		Discount:      sale.Discount,
		Total:         sale.Total,
		Status:        sale.Status.String(),
		PaymentMethod: string(sale.PaymentMethod),
		InvoiceID:     sale.InvoiceID,
		CreatedAt:     sale.CreatedAt,
	}
}

// ToSaleResponses converts a slice of Sales
func ToSaleResponses(saleRows []sales.Sale) []SaleResponse {
	responses := make([]SaleResponse, len(saleRows))
	for i := range saleRows {
		responses[i] = ToSaleResponse(&saleRows[i])
	}
	return responses
}
