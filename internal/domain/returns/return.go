package returns

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

// ReturnStatus represents the lifecycle status of a return
type ReturnStatus string

const (
	ReturnStatusPending   ReturnStatus = "pending"
	ReturnStatusApproved  ReturnStatus = "approved"
	ReturnStatusRejected  ReturnStatus = "rejected"
	ReturnStatusCompleted ReturnStatus = "completed"
)

// IsValid checks if the status is a valid ReturnStatus
func (s ReturnStatus) IsValid() bool {
	switch s {
	case ReturnStatusPending, ReturnStatusApproved, ReturnStatusRejected, ReturnStatusCompleted:
		return true
	}
	return false
}

// String returns the string representation of ReturnStatus
func (s ReturnStatus) String() string {
	return string(s)
}

// ReducesRevenue returns true if a return in this status is deducted from
// recognized revenue. Pending and rejected returns never touch the numbers.
func (s ReturnStatus) ReducesRevenue() bool {
	return s == ReturnStatusApproved || s == ReturnStatusCompleted
}

// RefundMethod represents how the customer is made whole
type RefundMethod string

const (
	RefundMethodCash            RefundMethod = "cash"
	RefundMethodStoreCredit     RefundMethod = "store_credit"
	RefundMethodOriginalPayment RefundMethod = "original_payment"
	RefundMethodExchange        RefundMethod = "exchange"
)

// ReducesRevenue returns true if refunds via this method are deducted from
// recognized revenue. Store credit becomes a liability instead, and an
// exchange swaps goods without moving money.
func (m RefundMethod) ReducesRevenue() bool {
	return m == RefundMethodCash || m == RefundMethodOriginalPayment
}

// IsValid checks if the refund method is valid
func (m RefundMethod) IsValid() bool {
	switch m {
	case RefundMethodCash, RefundMethodStoreCredit, RefundMethodOriginalPayment, RefundMethodExchange:
		return true
	}
	return false
}

// ItemCondition describes the state of a returned item, which decides
// whether it can go back into sellable stock
type ItemCondition string

const (
	ConditionResellable ItemCondition = "resellable"
	ConditionDamaged    ItemCondition = "damaged"
	ConditionDefective  ItemCondition = "defective"
)

// IsValid checks if the condition is valid
func (c ItemCondition) IsValid() bool {
	switch c {
	case ConditionResellable, ConditionDamaged, ConditionDefective:
		return true
	}
	return false
}

// Restockable returns true if items in this condition go back to stock
func (c ItemCondition) Restockable() bool {
	return c == ConditionResellable
}

// ReturnItem represents a returned line item
type ReturnItem struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
	Reason      string          `json:"reason,omitempty"`
	Condition   ItemCondition   `json:"condition"`
}

// ReturnItems is a slice of ReturnItem stored as a single JSON column
type ReturnItems []ReturnItem

// Value implements driver.Valuer for JSON storage
func (r ReturnItems) Value() (driver.Value, error) {
	if r == nil {
		return "[]", nil
	}
	return json.Marshal(r)
}

// Scan implements sql.Scanner for JSON storage
func (r *ReturnItems) Scan(value interface{}) error {
	if value == nil {
		*r = ReturnItems{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan ReturnItems: unsupported type")
	}

	if len(bytes) == 0 {
		*r = ReturnItems{}
		return nil
	}

	return json.Unmarshal(bytes, r)
}

// NewReturnItem creates a new return item
func NewReturnItem(productID uuid.UUID, productName string, quantity int64, unitPrice decimal.Decimal, reason string, condition ItemCondition) (*ReturnItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("Product ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewValidationError("Return quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewValidationError("Unit price cannot be negative")
	}
	if condition == "" {
		condition = ConditionResellable
	}
	if !condition.IsValid() {
		return nil, shared.NewValidationError(fmt.Sprintf("Invalid item condition %q", condition))
	}

	return &ReturnItem{
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Total:       unitPrice.Mul(decimal.NewFromInt(quantity)),
		Reason:      reason,
		Condition:   condition,
	}, nil
}

// Return represents a sales return aggregate root. A return references the
// original sale, carries its own refund amount and deducts from revenue only
// once approved.
type Return struct {
	shared.BaseAggregateRoot
	SaleID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"sale_id"`
	CustomerID   *uuid.UUID      `gorm:"type:uuid;index" json:"customer_id,omitempty"` // Soft reference, nulled when the customer goes away
	CustomerName string          `gorm:"type:varchar(200)" json:"customer_name"`       // Denormalized snapshot
	Items        ReturnItems     `gorm:"type:json;not null" json:"items"`
	RefundAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;check:refund_amount >= 0" json:"refund_amount"`
	RefundMethod RefundMethod    `gorm:"type:varchar(20);not null" json:"refund_method"`
	Status       ReturnStatus    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Reason       string          `gorm:"type:varchar(500)" json:"reason,omitempty"`
	ProcessedAt  *time.Time      `json:"processed_at,omitempty"`
}

// TableName returns the table name for GORM
func (Return) TableName() string {
	return "returns"
}

// NewReturn creates a new pending return against a sale
func NewReturn(saleID uuid.UUID, customerID *uuid.UUID, customerName string, items []ReturnItem, refundAmount decimal.Decimal, refundMethod RefundMethod, reason string) (*Return, error) {
	if saleID == uuid.Nil {
		return nil, shared.NewValidationError("Sale ID is required")
	}
	if len(items) == 0 {
		return nil, shared.NewValidationError("Return must have at least one item")
	}
	if refundAmount.IsNegative() {
		return nil, shared.NewValidationError("Refund amount cannot be negative")
	}
	if !refundMethod.IsValid() {
		return nil, shared.NewValidationError(fmt.Sprintf("Invalid refund method %q", refundMethod))
	}

	itemTotal := decimal.Zero
	for _, item := range items {
		itemTotal = itemTotal.Add(item.Total)
	}
	if refundAmount.GreaterThan(itemTotal) {
		return nil, shared.NewValidationError("Refund amount cannot exceed the returned item total")
	}

	ret := &Return{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SaleID:            saleID,
		CustomerID:        customerID,
		CustomerName:      customerName,
		Items:             items,
		RefundAmount:      refundAmount,
		RefundMethod:      refundMethod,
		Status:            ReturnStatusPending,
		Reason:            reason,
	}

	ret.AddDomainEvent(NewReturnCreatedEvent(ret))

	return ret, nil
}

// Approve transitions a pending return to approved. Restocking and store
// credit happen in the same transaction at the service layer.
func (r *Return) Approve() error {
	if r.Status != ReturnStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot approve a %s return", r.Status))
	}

	now := time.Now()
	r.Status = ReturnStatusApproved
	r.ProcessedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewReturnApprovedEvent(r))

	return nil
}

// Reject transitions a pending return to rejected
func (r *Return) Reject(reason string) error {
	if r.Status != ReturnStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot reject a %s return", r.Status))
	}

	now := time.Now()
	r.Status = ReturnStatusRejected
	if reason != "" {
		r.Reason = reason
	}
	r.ProcessedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	return nil
}

// Complete transitions an approved return to completed once the refund has
// actually been paid out
func (r *Return) Complete() error {
	if r.Status != ReturnStatusApproved {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete a %s return", r.Status))
	}

	r.Status = ReturnStatusCompleted
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// ReducesRevenue reports whether this return is deducted from revenue. Both
// the status and the refund method have to qualify.
func (r *Return) ReducesRevenue() bool {
	return r.Status.ReducesRevenue() && r.RefundMethod.ReducesRevenue()
}

// RestockableQuantities returns the per-product quantities that go back to
// stock on approval. Damaged and defective items are excluded.
func (r *Return) RestockableQuantities() map[uuid.UUID]int64 {
	quantities := make(map[uuid.UUID]int64)
	for _, item := range r.Items {
		if item.Condition.Restockable() {
			quantities[item.ProductID] += item.Quantity
		}
	}
	return quantities
}

// DetachCustomer drops the customer reference while keeping the denormalized
// name, used when the referenced customer is deleted.
func (r *Return) DetachCustomer() {
	r.CustomerID = nil
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}
