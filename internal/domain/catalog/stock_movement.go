package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/salesdesk/backend/internal/domain/shared"
)

// MovementType represents the kind of stock movement
type MovementType string

const (
	// MovementTypeSale is a deduction caused by creating a sale
	MovementTypeSale MovementType = "SALE"
	// MovementTypeSaleReversal is a restock caused by deleting a sale
	MovementTypeSaleReversal MovementType = "SALE_REVERSAL"
	// MovementTypeReturnRestock is a restock caused by approving a return
	MovementTypeReturnRestock MovementType = "RETURN_RESTOCK"
	// MovementTypeAdjustment is a manual correction to a counted quantity
	MovementTypeAdjustment MovementType = "ADJUSTMENT"
)

// IsValid returns true if the movement type is valid
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeSale, MovementTypeSaleReversal, MovementTypeReturnRestock, MovementTypeAdjustment:
		return true
	}
	return false
}

// MovementSourceType identifies the document that caused a stock movement
type MovementSourceType string

const (
	MovementSourceSale   MovementSourceType = "SALE"
	MovementSourceReturn MovementSourceType = "RETURN"
	MovementSourceManual MovementSourceType = "MANUAL"
)

// StockMovement is an immutable record of a stock change. Product.Stock is
// the materialized projection of these rows; replaying them must reproduce
// the current balance.
type StockMovement struct {
	shared.BaseEntity
	ProductID    uuid.UUID          `gorm:"type:uuid;not null;index" json:"product_id"`
	MovementType MovementType       `gorm:"type:varchar(20);not null" json:"movement_type"`
	Quantity     int64              `gorm:"not null" json:"quantity"` // Signed: negative deducts, positive restocks
	StockBefore  int64              `gorm:"not null" json:"stock_before"`
	StockAfter   int64              `gorm:"not null" json:"stock_after"`
	SourceType   MovementSourceType `gorm:"type:varchar(20);not null" json:"source_type"`
	SourceID     string             `gorm:"type:varchar(100);index" json:"source_id,omitempty"`
	Remark       string             `gorm:"type:text" json:"remark,omitempty"`
	MovementDate time.Time          `gorm:"not null" json:"movement_date"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement creates a new stock movement record
func NewStockMovement(productID uuid.UUID, movementType MovementType, quantity, before, after int64, sourceType MovementSourceType, sourceID string) *StockMovement {
	return &StockMovement{
		BaseEntity:   shared.NewBaseEntity(),
		ProductID:    productID,
		MovementType: movementType,
		Quantity:     quantity,
		StockBefore:  before,
		StockAfter:   after,
		SourceType:   sourceType,
		SourceID:     sourceID,
		MovementDate: time.Now(),
	}
}
