package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/salesdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CreditTransactionType represents the direction of a store-credit change
type CreditTransactionType string

const (
	// CreditTransactionTypeGrant represents credit added to the customer (balance increase)
	CreditTransactionTypeGrant CreditTransactionType = "GRANT"
	// CreditTransactionTypeApply represents credit spent against an invoice (balance decrease)
	CreditTransactionTypeApply CreditTransactionType = "APPLY"
	// CreditTransactionTypeAdjust represents a manual correction
	CreditTransactionTypeAdjust CreditTransactionType = "ADJUST"
)

// IsValid returns true if the transaction type is valid
func (t CreditTransactionType) IsValid() bool {
	switch t {
	case CreditTransactionTypeGrant, CreditTransactionTypeApply, CreditTransactionTypeAdjust:
		return true
	}
	return false
}

// String returns the string representation of CreditTransactionType
func (t CreditTransactionType) String() string {
	return string(t)
}

// CreditSourceType identifies the document that caused a credit change
type CreditSourceType string

const (
	CreditSourceInvoiceOverpayment CreditSourceType = "INVOICE_OVERPAYMENT"
	CreditSourceInvoicePayment     CreditSourceType = "INVOICE_PAYMENT"
	CreditSourceReturnRefund       CreditSourceType = "RETURN_REFUND"
	CreditSourceManual             CreditSourceType = "MANUAL"
)

// IsValid returns true if the source type is valid
func (s CreditSourceType) IsValid() bool {
	switch s {
	case CreditSourceInvoiceOverpayment, CreditSourceInvoicePayment, CreditSourceReturnRefund, CreditSourceManual:
		return true
	}
	return false
}

// CreditTransaction is an immutable record of a store-credit change.
// Once created it is never modified; corrections are new transactions.
// Customer.StoreCredit is the materialized projection of these rows.
type CreditTransaction struct {
	shared.BaseEntity
	CustomerID      uuid.UUID             `gorm:"type:uuid;not null;index" json:"customer_id"`
	TransactionType CreditTransactionType `gorm:"type:varchar(20);not null" json:"transaction_type"`
	Amount          decimal.Decimal       `gorm:"type:decimal(18,4);not null" json:"amount"` // Always positive, direction from type
	BalanceBefore   decimal.Decimal       `gorm:"type:decimal(18,4);not null" json:"balance_before"`
	BalanceAfter    decimal.Decimal       `gorm:"type:decimal(18,4);not null" json:"balance_after"`
	SourceType      CreditSourceType      `gorm:"type:varchar(30);not null" json:"source_type"`
	SourceID        *string               `gorm:"type:varchar(100)" json:"source_id,omitempty"`
	Remark          string                `gorm:"type:text" json:"remark,omitempty"`
	TransactionDate time.Time             `gorm:"not null" json:"transaction_date"`
}

// TableName returns the table name for GORM
func (CreditTransaction) TableName() string {
	return "credit_transactions"
}

// NewCreditTransaction creates a new credit transaction
func NewCreditTransaction(
	customerID uuid.UUID,
	txType CreditTransactionType,
	amount decimal.Decimal,
	balanceBefore decimal.Decimal,
	balanceAfter decimal.Decimal,
	sourceType CreditSourceType,
) (*CreditTransaction, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("Customer ID cannot be empty")
	}
	if !txType.IsValid() {
		return nil, shared.NewValidationError("Invalid credit transaction type")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("Credit amount must be positive")
	}
	if balanceBefore.IsNegative() || balanceAfter.IsNegative() {
		return nil, shared.NewValidationError("Store credit balance cannot be negative")
	}
	if !sourceType.IsValid() {
		return nil, shared.NewValidationError("Invalid credit source type")
	}

	return &CreditTransaction{
		BaseEntity:      shared.NewBaseEntity(),
		CustomerID:      customerID,
		TransactionType: txType,
		Amount:          amount,
		BalanceBefore:   balanceBefore,
		BalanceAfter:    balanceAfter,
		SourceType:      sourceType,
		TransactionDate: time.Now(),
	}, nil
}

// WithSourceID sets the source document ID for the transaction
func (t *CreditTransaction) WithSourceID(sourceID string) *CreditTransaction {
	t.SourceID = &sourceID
	return t
}

// WithRemark sets the remark for the transaction
func (t *CreditTransaction) WithRemark(remark string) *CreditTransaction {
	t.Remark = remark
	return t
}

// BalanceChange returns the signed net balance change
func (t *CreditTransaction) BalanceChange() decimal.Decimal {
	return t.BalanceAfter.Sub(t.BalanceBefore)
}
