package invoicing

import (
	"github.com/google/uuid"
	"github.com/salesdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeInvoice = "Invoice"

// Event type constants
const (
	EventTypeInvoiceCreated         = "InvoiceCreated"
	EventTypeInvoicePaymentRecorded = "InvoicePaymentRecorded"
	EventTypeOverpaymentResolved    = "OverpaymentResolved"
)

// InvoiceCreatedEvent is published when an invoice is created
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceID uuid.UUID       `json:"invoice_id"`
	Number    string          `json:"number"`
	Total     decimal.Decimal `json:"total"`
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(inv *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCreated, AggregateTypeInvoice, inv.ID),
		InvoiceID:       inv.ID,
		Number:          inv.Number,
		Total:           inv.Total,
	}
}

// InvoicePaymentRecordedEvent is published when a payment is applied
type InvoicePaymentRecordedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	Amount        decimal.Decimal `json:"amount"`
	Source        PaymentSource   `json:"source"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
}

// NewInvoicePaymentRecordedEvent creates a new InvoicePaymentRecordedEvent
func NewInvoicePaymentRecordedEvent(inv *Invoice, amount decimal.Decimal, source PaymentSource) *InvoicePaymentRecordedEvent {
	return &InvoicePaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePaymentRecorded, AggregateTypeInvoice, inv.ID),
		InvoiceID:       inv.ID,
		Amount:          amount,
		Source:          source,
		PaidAmount:      inv.PaidAmount,
		PaymentStatus:   inv.PaymentStatus(),
	}
}

// OverpaymentResolvedEvent is published when an overpaid invoice is resolved
type OverpaymentResolvedEvent struct {
	shared.BaseDomainEvent
	InvoiceID uuid.UUID        `json:"invoice_id"`
	Action    ResolutionAction `json:"action"`
	Excess    decimal.Decimal  `json:"excess"`
}

// NewOverpaymentResolvedEvent creates a new OverpaymentResolvedEvent
func NewOverpaymentResolvedEvent(inv *Invoice, action ResolutionAction, excess decimal.Decimal) *OverpaymentResolvedEvent {
	return &OverpaymentResolvedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOverpaymentResolved, AggregateTypeInvoice, inv.ID),
		InvoiceID:       inv.ID,
		Action:          action,
		Excess:          excess,
	}
}
