package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/salesdesk/backend/internal/domain/partner"
	"github.com/shopspring/decimal"
)

// CreateCustomerRequest represents a request to create a customer
type CreateCustomerRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone" binding:"omitempty,max=50"`
	Address string `json:"address"`
}

// UpdateCustomerRequest represents a request to update a customer
type UpdateCustomerRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone" binding:"omitempty,max=50"`
	Address string `json:"address"`
}

// AdjustCreditRequest represents a manual store-credit adjustment
type AdjustCreditRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Remark string          `json:"remark"`
}

// CustomerListFilter represents filtering options for listing customers
type CustomerListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Search   string `form:"search"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone"`
	Address     string          `json:"address"`
	StoreCredit decimal.Decimal `json:"store_credit"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CreditTransactionResponse represents a credit ledger row in API responses
type CreditTransactionResponse struct {
	ID              uuid.UUID       `json:"id"`
	CustomerID      uuid.UUID       `json:"customer_id"`
	TransactionType string          `json:"transaction_type"`
	Amount          decimal.Decimal `json:"amount"`
	BalanceBefore   decimal.Decimal `json:"balance_before"`
	BalanceAfter    decimal.Decimal `json:"balance_after"`
	SourceType      string          `json:"source_type"`
	SourceID        *string         `json:"source_id,omitempty"`
	Remark          string          `json:"remark,omitempty"`
	TransactionDate time.Time       `json:"transaction_date"`
}

// ToCustomerResponse converts a Customer to CustomerResponse
func ToCustomerResponse(customer *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:          customer.ID,
		Name:        customer.Name,
		Email:       customer.Email,
		Phone:       customer.Phone,
		Address:     customer.Address,
		StoreCredit: customer.StoreCredit,
		IsActive:    customer.IsActive,
		CreatedAt:   customer.CreatedAt,
		UpdatedAt:   customer.UpdatedAt,
	}
}

// ToCustomerResponses converts a slice of Customers
func ToCustomerResponses(customers []partner.Customer) []CustomerResponse {
	responses := make([]CustomerResponse, len(customers))
	for i := range customers {
		responses[i] = ToCustomerResponse(&customers[i])
	}
	return responses
}

// ToCreditTransactionResponse converts a CreditTransaction to its response
func ToCreditTransactionResponse(tx *partner.CreditTransaction) CreditTransactionResponse {
	return CreditTransactionResponse{
		ID:              tx.ID,
		CustomerID:      tx.CustomerID,
		TransactionType: tx.TransactionType.String(),
		Amount:          tx.Amount,
		BalanceBefore:   tx.BalanceBefore,
		BalanceAfter:    tx.BalanceAfter,
		SourceType:      string(tx.SourceType),
		SourceID:        tx.SourceID,
		Remark:          tx.Remark,
		TransactionDate: tx.TransactionDate,
	}
}

// ToCreditTransactionResponses converts a slice of CreditTransactions
func ToCreditTransactionResponses(txs []partner.CreditTransaction) []CreditTransactionResponse {
	responses := make([]CreditTransactionResponse, len(txs))
	for i := range txs {
		responses[i] = ToCreditTransactionResponse(&txs[i])
	}
	return responses
}
