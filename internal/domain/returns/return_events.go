package returns

import (
	"github.com/google/uuid"
	"github.com/salesdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeReturn = "Return"

// Event type constants
const (
	EventTypeReturnCreated  = "ReturnCreated"
	EventTypeReturnApproved = "ReturnApproved"
)

// ReturnCreatedEvent is published when a return is filed
type ReturnCreatedEvent struct {
	shared.BaseDomainEvent
	ReturnID     uuid.UUID       `json:"return_id"`
	SaleID       uuid.UUID       `json:"sale_id"`
	RefundAmount decimal.Decimal `json:"refund_amount"`
}

// NewReturnCreatedEvent creates a new ReturnCreatedEvent
func NewReturnCreatedEvent(ret *Return) *ReturnCreatedEvent {
	return &ReturnCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnCreated, AggregateTypeReturn, ret.ID),
		ReturnID:        ret.ID,
		SaleID:          ret.SaleID,
		RefundAmount:    ret.RefundAmount,
	}
}

// ReturnApprovedEvent is published when a return is approved
type ReturnApprovedEvent struct {
	shared.BaseDomainEvent
	ReturnID     uuid.UUID       `json:"return_id"`
	SaleID       uuid.UUID       `json:"sale_id"`
	RefundAmount decimal.Decimal `json:"refund_amount"`
	RefundMethod RefundMethod    `json:"refund_method"`
}

// NewReturnApprovedEvent creates a new ReturnApprovedEvent
func NewReturnApprovedEvent(ret *Return) *ReturnApprovedEvent {
	return &ReturnApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnApproved, AggregateTypeReturn, ret.ID),
		ReturnID:        ret.ID,
		SaleID:          ret.SaleID,
		RefundAmount:    ret.RefundAmount,
		RefundMethod:    ret.RefundMethod,
	}
}
