package invoicing

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

// InvoiceStatus represents the stored document status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusPending   InvoiceStatus = "pending"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusPending, InvoiceStatusSent,
		InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// CanAcceptPayment returns true if payments can be applied in this status
func (s InvoiceStatus) CanAcceptPayment() bool {
	return s != InvoiceStatusCancelled
}

// PaymentStatus is the derived payment position of an invoice. It is never
// persisted; it is a pure function of (total, paidAmount).
type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "unpaid"
	PaymentStatusPartial  PaymentStatus = "partial"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusOverpaid PaymentStatus = "overpaid"
)

// DerivePaymentStatus computes the payment status from total and paid amount
func DerivePaymentStatus(total, paidAmount decimal.Decimal) PaymentStatus {
	switch {
	case paidAmount.LessThanOrEqual(decimal.Zero):
		return PaymentStatusUnpaid
	case paidAmount.LessThan(total):
		return PaymentStatusPartial
	case paidAmount.Equal(total):
		return PaymentStatusPaid
	default:
		return PaymentStatusOverpaid
	}
}

// InvoiceType distinguishes standard invoices from credit and proforma documents
type InvoiceType string

const (
	InvoiceTypeStandard InvoiceType = "standard"
	InvoiceTypeProforma InvoiceType = "proforma"
	InvoiceTypeCredit   InvoiceType = "credit"
)

// IsValid checks if the invoice type is valid
func (t InvoiceType) IsValid() bool {
	switch t {
	case InvoiceTypeStandard, InvoiceTypeProforma, InvoiceTypeCredit:
		return true
	}
	return false
}

// ResolutionAction is the one-shot resolution applied to an overpaid invoice
type ResolutionAction string

const (
	ResolutionStoreCredit ResolutionAction = "store_credit"
	ResolutionRefunded    ResolutionAction = "refunded"
	ResolutionKeep        ResolutionAction = "keep"
)

// IsValid checks if the resolution action is valid
func (a ResolutionAction) IsValid() bool {
	switch a {
	case ResolutionStoreCredit, ResolutionRefunded, ResolutionKeep:
		return true
	}
	return false
}

// InvoiceItem represents a line item on an invoice
type InvoiceItem struct {
	ProductID   *uuid.UUID      `json:"product_id,omitempty"`
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// InvoiceItems is a slice of InvoiceItem stored as a single JSON column
type InvoiceItems []InvoiceItem

// Value implements driver.Valuer for JSON storage
func (i InvoiceItems) Value() (driver.Value, error) {
	if i == nil {
		return "[]", nil
	}
	return json.Marshal(i)
}

// Scan implements sql.Scanner for JSON storage
func (i *InvoiceItems) Scan(value interface{}) error {
	if value == nil {
		*i = InvoiceItems{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan InvoiceItems: unsupported type")
	}

	if len(bytes) == 0 {
		*i = InvoiceItems{}
		return nil
	}

	return json.Unmarshal(bytes, i)
}

// PaymentSource identifies where a payment came from
type PaymentSource string

const (
	PaymentSourceDirect      PaymentSource = "direct"
	PaymentSourceStoreCredit PaymentSource = "store_credit"
)

// PaymentRecord is an audit entry for a payment applied to the invoice,
// stored as part of the aggregate's JSON payment history
type PaymentRecord struct {
	ID        uuid.UUID       `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Source    PaymentSource   `json:"source"`
	Method    string          `json:"method,omitempty"`
	AppliedAt time.Time       `json:"applied_at"`
}

// PaymentRecords is a slice of PaymentRecord stored as a single JSON column
type PaymentRecords []PaymentRecord

// Value implements driver.Valuer for JSON storage
func (p PaymentRecords) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner for JSON storage
func (p *PaymentRecords) Scan(value interface{}) error {
	if value == nil {
		*p = PaymentRecords{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan PaymentRecords: unsupported type")
	}

	if len(bytes) == 0 {
		*p = PaymentRecords{}
		return nil
	}

	return json.Unmarshal(bytes, p)
}

// Invoice represents an invoice aggregate root. It tracks money owed for
// goods/services; payment status is derived from PaidAmount vs Total rather
// than stored, so the two can never drift apart.
type Invoice struct {
	shared.BaseAggregateRoot
	Number           string            `gorm:"type:varchar(50);not null;uniqueIndex" json:"number"`
	CustomerID       *uuid.UUID        `gorm:"type:uuid;index" json:"customer_id,omitempty"` // Soft reference, nulled when the customer goes away
	CustomerName     string            `gorm:"type:varchar(200)" json:"customer_name"`       // Denormalized snapshot
	SaleID           *uuid.UUID        `gorm:"type:uuid;index" json:"sale_id,omitempty"`     // Set when raised for an existing sale
	Items            InvoiceItems      `gorm:"type:json;not null" json:"items"`
	Subtotal         decimal.Decimal   `gorm:"type:decimal(18,4);not null" json:"subtotal"`
	Tax              decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0" json:"tax"`
	Discount         decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0" json:"discount"`
	Total            decimal.Decimal   `gorm:"type:decimal(18,4);not null" json:"total"`
	PaidAmount       decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0;check:paid_amount >= 0" json:"paid_amount"`
	Status           InvoiceStatus     `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	InvoiceType      InvoiceType       `gorm:"type:varchar(20);not null;default:'standard'" json:"invoice_type"`
	Currency         string            `gorm:"type:varchar(3);not null;default:'USD'" json:"currency"`
	DueDate          *time.Time        `json:"due_date,omitempty"`
	PaymentHistory   PaymentRecords    `gorm:"type:json" json:"payment_history"`
	ResolutionAction *ResolutionAction `gorm:"type:varchar(20)" json:"resolution_action,omitempty"` // One-shot overpayment resolution marker
	ResolvedAt       *time.Time        `json:"resolved_at,omitempty"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice creates a new invoice
func NewInvoice(number string, customerID *uuid.UUID, customerName string, saleID *uuid.UUID, items []InvoiceItem, tax, discount decimal.Decimal, invoiceType InvoiceType, currency string) (*Invoice, error) {
	if number == "" {
		return nil, shared.NewValidationError("Invoice number is required")
	}
	if len(number) > 50 {
		return nil, shared.NewValidationError("Invoice number cannot exceed 50 characters")
	}
	if len(items) == 0 {
		return nil, shared.NewValidationError("Invoice must have at least one item")
	}
	if !invoiceType.IsValid() {
		return nil, shared.NewValidationError(fmt.Sprintf("Invalid invoice type %q", invoiceType))
	}
	if currency == "" {
		currency = "USD"
	}
	if tax.IsNegative() || discount.IsNegative() {
		return nil, shared.NewValidationError("Tax and discount cannot be negative")
	}

	subtotal := decimal.Zero
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, shared.NewValidationError("Invoice item quantity must be positive")
		}
		if item.UnitPrice.IsNegative() {
			return nil, shared.NewValidationError("Invoice item price cannot be negative")
		}
		subtotal = subtotal.Add(item.Total)
	}

	total := subtotal.Add(tax).Sub(discount)
	if total.IsNegative() {
		return nil, shared.NewValidationError("Invoice total cannot be negative")
	}

	inv := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		CustomerID:        customerID,
		CustomerName:      customerName,
		SaleID:            saleID,
		Items:             items,
		Subtotal:          subtotal,
		Tax:               tax,
		Discount:          discount,
		Total:             total,
		PaidAmount:        decimal.Zero,
		Status:            InvoiceStatusDraft,
		InvoiceType:       invoiceType,
		Currency:          currency,
		PaymentHistory:    PaymentRecords{},
	}

	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))

	return inv, nil
}

// Balance returns the outstanding amount, floored at zero. It is derived,
// never persisted.
func (i *Invoice) Balance() decimal.Decimal {
	balance := i.Total.Sub(i.PaidAmount)
	if balance.IsNegative() {
		return decimal.Zero
	}
	return balance
}

// PaymentStatus returns the derived payment position
func (i *Invoice) PaymentStatus() PaymentStatus {
	return DerivePaymentStatus(i.Total, i.PaidAmount)
}

// OverpaidAmount returns how much was paid beyond the total, or zero
func (i *Invoice) OverpaidAmount() decimal.Decimal {
	excess := i.PaidAmount.Sub(i.Total)
	if excess.IsNegative() {
		return decimal.Zero
	}
	return excess
}

// RecordPayment applies a direct payment. The overpay check lives here, in
// the authority layer, not at the API edge: paid + amount may never exceed
// the total.
func (i *Invoice) RecordPayment(amount decimal.Decimal, method string) error {
	if !i.Status.CanAcceptPayment() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot record payment on a %s invoice", i.Status))
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("Payment amount must be positive")
	}
	if i.PaidAmount.Add(amount).GreaterThan(i.Total) {
		return shared.NewDomainError("PAYMENT_EXCEEDS_TOTAL",
			fmt.Sprintf("Payment of %s would exceed invoice total %s (already paid %s)",
				amount.StringFixed(2), i.Total.StringFixed(2), i.PaidAmount.StringFixed(2)))
	}

	i.applyPayment(amount, PaymentSourceDirect, method)

	return nil
}

// ApplyStoreCredit applies customer store credit against the outstanding
// balance. The credit-sufficiency check belongs to the Customer aggregate;
// this method enforces the balance bound.
func (i *Invoice) ApplyStoreCredit(amount decimal.Decimal) error {
	if !i.Status.CanAcceptPayment() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot apply credit to a %s invoice", i.Status))
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("Credit amount must be positive")
	}
	if amount.GreaterThan(i.Balance()) {
		return shared.NewDomainError("AMOUNT_EXCEEDS_BALANCE",
			fmt.Sprintf("Credit of %s exceeds outstanding balance %s", amount.StringFixed(2), i.Balance().StringFixed(2)))
	}

	i.applyPayment(amount, PaymentSourceStoreCredit, "")

	return nil
}

// applyPayment mutates paid amount, history and stored status together
func (i *Invoice) applyPayment(amount decimal.Decimal, source PaymentSource, method string) {
	i.PaidAmount = i.PaidAmount.Add(amount)
	i.PaymentHistory = append(i.PaymentHistory, PaymentRecord{
		ID:        uuid.New(),
		Amount:    amount,
		Source:    source,
		Method:    method,
		AppliedAt: time.Now(),
	})

	if i.PaidAmount.GreaterThanOrEqual(i.Total) {
		i.Status = InvoiceStatusPaid
	} else if i.Status == InvoiceStatusDraft || i.Status == InvoiceStatusPending {
		i.Status = InvoiceStatusSent
	}

	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	i.AddDomainEvent(NewInvoicePaymentRecordedEvent(i, amount, source))
}

// ResolveOverpayment marks the one-shot resolution of an overpaid invoice.
// A second resolution attempt fails with INVALID_STATE; the marker is
// persisted so a reload cannot re-trigger it.
func (i *Invoice) ResolveOverpayment(action ResolutionAction) (decimal.Decimal, error) {
	if !action.IsValid() {
		return decimal.Zero, shared.NewValidationError(fmt.Sprintf("Invalid resolution action %q", action))
	}
	if i.PaymentStatus() != PaymentStatusOverpaid {
		return decimal.Zero, shared.NewDomainError("INVALID_STATE", "Invoice is not overpaid")
	}
	if i.ResolutionAction != nil {
		return decimal.Zero, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Overpayment already resolved as %s", *i.ResolutionAction))
	}

	excess := i.OverpaidAmount()
	now := time.Now()
	i.ResolutionAction = &action
	i.ResolvedAt = &now
	i.UpdatedAt = now
	i.IncrementVersion()

	i.AddDomainEvent(NewOverpaymentResolvedEvent(i, action, excess))

	return excess, nil
}

// MarkSent transitions a draft/pending invoice to sent
func (i *Invoice) MarkSent() error {
	if i.Status != InvoiceStatusDraft && i.Status != InvoiceStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot send a %s invoice", i.Status))
	}
	i.Status = InvoiceStatusSent
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

// MarkOverdue flags an unpaid invoice past its due date
func (i *Invoice) MarkOverdue() error {
	if i.Status == InvoiceStatusPaid || i.Status == InvoiceStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark a %s invoice overdue", i.Status))
	}
	i.Status = InvoiceStatusOverdue
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

// Cancel cancels an invoice that has received no payments
func (i *Invoice) Cancel() error {
	if i.PaidAmount.GreaterThan(decimal.Zero) {
		return shared.NewDomainError("INVALID_STATE", "Cannot cancel an invoice with recorded payments")
	}
	if i.Status == InvoiceStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Invoice is already cancelled")
	}
	i.Status = InvoiceStatusCancelled
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

// SetDueDate sets the payment due date
func (i *Invoice) SetDueDate(due time.Time) {
	i.DueDate = &due
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
}

// DetachCustomer drops the customer reference while keeping the denormalized
// name, used when the referenced customer is deleted.
func (i *Invoice) DetachCustomer() {
	i.CustomerID = nil
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
}

// IsIndependent returns true if the invoice is not linked to a sale. Only
// independent invoices count toward revenue; sale-linked ones are already
// captured by their sale.
func (i *Invoice) IsIndependent() bool {
	return i.SaleID == nil
}
