package partner

import (
	"strings"
	"time"

	"github.com/salesdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Customer represents a customer in the partner context.
// It is the aggregate root for customer-related operations; StoreCredit is
// only mutated through the credit methods below so every change is paired
// with a CreditTransaction row.
type Customer struct {
	shared.BaseAggregateRoot
	Name        string          `gorm:"type:varchar(200);not null" json:"name"`
	Email       string          `gorm:"type:varchar(200);index" json:"email"`
	Phone       string          `gorm:"type:varchar(50);index" json:"phone"`
	Address     string          `gorm:"type:text" json:"address"`
	StoreCredit decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"store_credit"`
	IsActive    bool            `gorm:"not null;default:true" json:"is_active"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer with required fields
func NewCustomer(name, email, phone, address string) (*Customer, error) {
	if err := validateCustomerName(name); err != nil {
		return nil, err
	}
	if email != "" && !strings.Contains(email, "@") {
		return nil, shared.NewValidationError("Customer email is not valid")
	}

	customer := &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Email:             email,
		Phone:             phone,
		Address:           address,
		StoreCredit:       decimal.Zero,
		IsActive:          true,
	}

	customer.AddDomainEvent(NewCustomerCreatedEvent(customer))

	return customer, nil
}

// Update updates the customer's contact information
func (c *Customer) Update(name, email, phone, address string) error {
	if err := validateCustomerName(name); err != nil {
		return err
	}
	if email != "" && !strings.Contains(email, "@") {
		return shared.NewValidationError("Customer email is not valid")
	}

	c.Name = strings.TrimSpace(name)
	c.Email = email
	c.Phone = phone
	c.Address = address
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerUpdatedEvent(c))

	return nil
}

// Deactivate marks the customer as inactive
func (c *Customer) Deactivate() {
	c.IsActive = false
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Activate marks the customer as active
func (c *Customer) Activate() {
	c.IsActive = true
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// GrantCredit increases the store-credit balance and returns the matching
// ledger row. The caller persists both in one transaction.
func (c *Customer) GrantCredit(amount decimal.Decimal, sourceType CreditSourceType, sourceID string) (*CreditTransaction, error) {
	tx, err := NewCreditTransaction(c.ID, CreditTransactionTypeGrant, amount, c.StoreCredit, c.StoreCredit.Add(amount), sourceType)
	if err != nil {
		return nil, err
	}
	if sourceID != "" {
		tx.WithSourceID(sourceID)
	}

	c.StoreCredit = c.StoreCredit.Add(amount)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerCreditChangedEvent(c, tx))

	return tx, nil
}

// ApplyCredit decreases the store-credit balance, failing with
// INSUFFICIENT_CREDIT if the balance cannot cover the amount.
func (c *Customer) ApplyCredit(amount decimal.Decimal, sourceType CreditSourceType, sourceID string) (*CreditTransaction, error) {
	if c.StoreCredit.LessThan(amount) {
		return nil, shared.ErrInsufficientCredit
	}

	tx, err := NewCreditTransaction(c.ID, CreditTransactionTypeApply, amount, c.StoreCredit, c.StoreCredit.Sub(amount), sourceType)
	if err != nil {
		return nil, err
	}
	if sourceID != "" {
		tx.WithSourceID(sourceID)
	}

	c.StoreCredit = c.StoreCredit.Sub(amount)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerCreditChangedEvent(c, tx))

	return tx, nil
}

func validateCustomerName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("Customer name is required")
	}
	if len(name) > 200 {
		return shared.NewValidationError("Customer name cannot exceed 200 characters")
	}
	return nil
}
