package invoicing

import (
	"time"

	"github.com/google/uuid"
	"github.com/salesdesk/backend/internal/domain/invoicing"
	"github.com/shopspring/decimal"
)

// CreateInvoiceItemInput represents one line in a create-invoice request
type CreateInvoiceItemInput struct {
	ProductID   *uuid.UUID      `json:"product_id"`
	Description string          `json:"description" binding:"required,min=1,max=500"`
	Quantity    int64           `json:"quantity" binding:"required,gt=0"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
}

// CreateInvoiceRequest represents a request to create an invoice. When SaleID
// is set the invoice is raised for an existing sale and the sale gets linked
// back in the same transaction.
type CreateInvoiceRequest struct {
	CustomerID  *uuid.UUID               `json:"customer_id"`
	SaleID      *uuid.UUID               `json:"sale_id"`
	Items       []CreateInvoiceItemInput `json:"items" binding:"required,min=1,dive"`
	Tax         decimal.Decimal          `json:"tax"`
	Discount    decimal.Decimal          `json:"discount"`
	InvoiceType string                   `json:"invoice_type"`
	Currency    string                   `json:"currency"`
	DueDate     *time.Time               `json:"due_date"`
}

// RecordPaymentRequest represents a request to record a direct payment
type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Method string          `json:"method" binding:"omitempty,max=50"`
}

// ApplyCreditRequest represents a request to pay with customer store credit
type ApplyCreditRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// ResolveOverpaymentRequest represents the one-shot overpayment resolution
type ResolveOverpaymentRequest struct {
	Action string `json:"action" binding:"required,oneof=store_credit refunded keep"`
}

// InvoiceListFilter represents filtering options for listing invoices
type InvoiceListFilter struct {
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
	Search     string     `form:"search"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir"`
	CustomerID *uuid.UUID `form:"customer_id"`
	Status     string     `form:"status"`
}

// InvoiceItemResponse represents an invoice line item in API responses
type InvoiceItemResponse struct {
	ProductID   *uuid.UUID      `json:"product_id,omitempty"`
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// PaymentRecordResponse represents one payment audit entry
type PaymentRecordResponse struct {
	ID        uuid.UUID       `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Source    string          `json:"source"`
	Method    string          `json:"method,omitempty"`
	AppliedAt time.Time       `json:"applied_at"`
}

// InvoiceResponse represents an invoice in API responses. PaymentStatus and
// Balance are derived fields, computed on the way out.
type InvoiceResponse struct {
	ID               uuid.UUID               `json:"id"`
	Number           string                  `json:"number"`
	CustomerID       *uuid.UUID              `json:"customer_id,omitempty"`
	CustomerName     string                  `json:"customer_name,omitempty"`
	SaleID           *uuid.UUID              `json:"sale_id,omitempty"`
	Items            []InvoiceItemResponse   `json:"items"`
	Subtotal         decimal.Decimal         `json:"subtotal"`
	Tax              decimal.Decimal         `json:"tax"`
	Discount         decimal.Decimal         `json:"discount"`
	Total            decimal.Decimal         `json:"total"`
	PaidAmount       decimal.Decimal         `json:"paid_amount"`
	Balance          decimal.Decimal         `json:"balance"`
	PaymentStatus    string                  `json:"payment_status"`
	Status           string                  `json:"status"`
	InvoiceType      string                  `json:"invoice_type"`
	Currency         string                  `json:"currency"`
	DueDate          *time.Time              `json:"due_date,omitempty"`
	PaymentHistory   []PaymentRecordResponse `json:"payment_history"`
	ResolutionAction *string                 `json:"resolution_action,omitempty"`
	ResolvedAt       *time.Time              `json:"resolved_at,omitempty"`
	CreatedAt        time.Time               `json:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at"`
}

// ToInvoiceResponse converts an Invoice to InvoiceResponse
func ToInvoiceResponse(inv *invoicing.Invoice) InvoiceResponse {
	items := make([]InvoiceItemResponse, len(inv.Items))
	for i, item := range inv.Items {
		items[i] = InvoiceItemResponse{
			ProductID:   item.ProductID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       item.Total,
		}
	}

	history := make([]PaymentRecordResponse, len(inv.PaymentHistory))
	for i, record := range inv.PaymentHistory {
		history[i] = PaymentRecordResponse{
			ID:        record.ID,
			Amount:    record.Amount,
			Source:    string(record.Source),
			Method:    record.Method,
			AppliedAt: record.AppliedAt,
		}
	}

	var resolution *string
	if inv.ResolutionAction != nil {
		action := string(*inv.ResolutionAction)
		resolution = &action
	}

	return InvoiceResponse{
		ID:               inv.ID,
		Number:           inv.Number,
		CustomerID:       inv.CustomerID,
		CustomerName:     inv.CustomerName,
		SaleID:           inv.SaleID,
		Items:            items,
		Subtotal:         inv.Subtotal,
		Tax:              inv.Tax,
		Discount:         inv.Discount,
		Total:            inv.Total,
		PaidAmount:       inv.PaidAmount,
		Balance:          inv.Balance(),
		PaymentStatus:    string(inv.PaymentStatus()),
		Status:           inv.Status.String(),
		InvoiceType:      string(inv.InvoiceType),
		Currency:         inv.Currency,
		DueDate:          inv.DueDate,
		PaymentHistory:   history,
		ResolutionAction: resolution,
		ResolvedAt:       inv.ResolvedAt,
		CreatedAt:        inv.CreatedAt,
		UpdatedAt:        inv.UpdatedAt,
	}
}

// ToInvoiceResponses converts a slice of Invoices
func ToInvoiceResponses(invoices []invoicing.Invoice) []InvoiceResponse {
	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = ToInvoiceResponse(&invoices[i])
	}
	return responses
}
