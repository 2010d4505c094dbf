package sales

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/salesdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SaleStatus represents the status of a sale
type SaleStatus string

const (
	SaleStatusPending   SaleStatus = "pending"
	SaleStatusCompleted SaleStatus = "completed"
	SaleStatusCancelled SaleStatus = "cancelled"
	SaleStatusRefunded  SaleStatus = "refunded"
)

// IsValid checks if the status is a valid SaleStatus
func (s SaleStatus) IsValid() bool {
	switch s {
	case SaleStatusPending, SaleStatusCompleted, SaleStatusCancelled, SaleStatusRefunded:
		return true
	}
	return false
}

// String returns the string representation of SaleStatus
func (s SaleStatus) String() string {
	return string(s)
}

// CountsTowardRevenue returns true if a sale in this status contributes to
// recognized revenue
func (s SaleStatus) CountsTowardRevenue() bool {
	return s != SaleStatusCancelled
}

// PaymentMethod represents how a sale was paid
type PaymentMethod string

const (
	PaymentMethodCash        PaymentMethod = "cash"
	PaymentMethodCard        PaymentMethod = "card"
	PaymentMethodTransfer    PaymentMethod = "transfer"
	PaymentMethodStoreCredit PaymentMethod = "store_credit"
	PaymentMethodOther       PaymentMethod = "other"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer, PaymentMethodStoreCredit, PaymentMethodOther:
		return true
	}
	return false
}

// SaleItem represents a line item in a sale. Items carry a denormalized
// product name snapshot so later product edits don't rewrite history.
type SaleItem struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// SaleItems is a slice of SaleItem stored as a single JSON column
type SaleItems []SaleItem

// Value implements driver.Valuer for JSON storage
func (s SaleItems) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner for JSON storage
func (s *SaleItems) Scan(value interface{}) error {
	if value == nil {
		*s = SaleItems{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan SaleItems: unsupported type")
	}

	if len(bytes) == 0 {
		*s = SaleItems{}
		return nil
	}

	return json.Unmarshal(bytes, s)
}

// NewSaleItem creates a new sale item
func NewSaleItem(productID uuid.UUID, productName string, quantity int64, unitPrice decimal.Decimal) (*SaleItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewValidationError("Product name cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewValidationError("Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewValidationError("Unit price cannot be negative")
	}

	return &SaleItem{
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Total:       unitPrice.Mul(decimal.NewFromInt(quantity)),
	}, nil
}

// Sale represents a completed point-of-sale transaction. Unlike an invoice it
// is recorded after the fact: stock is deducted when the sale is created and
// restored when it is deleted.
type Sale struct {
	shared.BaseAggregateRoot
	CustomerID    *uuid.UUID      `gorm:"type:uuid;index" json:"customer_id,omitempty"`    // Soft reference, nulled when the customer goes away
	CustomerName  string          `gorm:"type:varchar(200)" json:"customer_name"`          // Denormalized snapshot, survives customer edits
	Items         SaleItems       `gorm:"type:json;not null" json:"items"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"subtotal"`
	Tax           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"tax"`
	Discount      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"discount"`
	Total         decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total"`
	Status        SaleStatus      `gorm:"type:varchar(20);not null;default:'completed'" json:"status"`
	PaymentMethod PaymentMethod   `gorm:"type:varchar(20);not null" json:"payment_method"`
	InvoiceID     *uuid.UUID      `gorm:"type:uuid;index" json:"invoice_id,omitempty"` // Back-reference to a follow-on invoice
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

// NewSale creates a new sale with at least one item
func NewSale(customerID *uuid.UUID, customerName string, items []SaleItem, tax, discount decimal.Decimal, paymentMethod PaymentMethod) (*Sale, error) {
	if len(items) == 0 {
		return nil, shared.NewValidationError("Sale must have at least one item")
	}
	if !paymentMethod.IsValid() {
		return nil, shared.NewValidationError(fmt.Sprintf("Invalid payment method %q", paymentMethod))
	}
	if tax.IsNegative() {
		return nil, shared.NewValidationError("Tax cannot be negative")
	}
	if discount.IsNegative() {
		return nil, shared.NewValidationError("Discount cannot be negative")
	}

	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Total)
	}
	if discount.GreaterThan(subtotal.Add(tax)) {
		return nil, shared.NewValidationError("Discount cannot exceed subtotal plus tax")
	}

	sale := &Sale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		CustomerName:      customerName,
		Items:             items,
		Subtotal:          subtotal,
		Tax:               tax,
		Discount:          discount,
		Total:             subtotal.Add(tax).Sub(discount),
		Status:            SaleStatusCompleted,
		PaymentMethod:     paymentMethod,
	}

	sale.AddDomainEvent(NewSaleCreatedEvent(sale))

	return sale, nil
}

// LinkInvoice records the follow-on invoice raised for this sale. The link is
// what keeps the reconciliation from counting the same money twice.
func (s *Sale) LinkInvoice(invoiceID uuid.UUID) error {
	if invoiceID == uuid.Nil {
		return shared.NewValidationError("Invoice ID cannot be empty")
	}
	if s.InvoiceID != nil {
		return shared.NewDomainError("INVALID_STATE", "Sale is already linked to an invoice")
	}

	s.InvoiceID = &invoiceID
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// ChangeStatus transitions the sale to a new status
func (s *Sale) ChangeStatus(status SaleStatus) error {
	if !status.IsValid() {
		return shared.NewValidationError(fmt.Sprintf("Invalid sale status %q", status))
	}

	s.Status = status
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// DetachCustomer drops the customer reference while keeping the denormalized
// name, used when the referenced customer is deleted.
func (s *Sale) DetachCustomer() {
	s.CustomerID = nil
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// TotalQuantity returns the sum of all item quantities
func (s *Sale) TotalQuantity() int64 {
	var total int64
	for _, item := range s.Items {
		total += item.Quantity
	}
	return total
}
