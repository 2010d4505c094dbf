package catalog

import (
	"strings"
	"time"

	"github.com/salesdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product represents a sellable item in the catalog.
// Stock is a derived balance: it is only mutated through DeductStock,
// Restock and AdjustStock, each of which returns the matching StockMovement
// row for the caller to persist in the same transaction.
type Product struct {
	shared.BaseAggregateRoot
	Name     string           `gorm:"type:varchar(200);not null" json:"name"`
	Price    decimal.Decimal  `gorm:"type:decimal(18,4);not null;check:price > 0" json:"price"`
	Cost     *decimal.Decimal `gorm:"type:decimal(18,4);check:cost > 0" json:"cost,omitempty"` // Optional purchase cost, used for profit
	Stock    int64            `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
	MinStock int64            `gorm:"not null;default:0" json:"min_stock"` // Low-stock alert threshold
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product with required fields
func NewProduct(name string, price decimal.Decimal, cost *decimal.Decimal, stock, minStock int64) (*Product, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewValidationError("Product name is required")
	}
	if price.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("Product price must be positive")
	}
	if cost != nil && cost.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("Product cost must be positive")
	}
	if stock < 0 {
		return nil, shared.NewValidationError("Product stock cannot be negative")
	}
	if minStock < 0 {
		return nil, shared.NewValidationError("Minimum stock cannot be negative")
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Price:             price,
		Cost:              cost,
		Stock:             stock,
		MinStock:          minStock,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's descriptive fields. Stock is deliberately
// excluded; it only moves through the ledger methods.
func (p *Product) Update(name string, price decimal.Decimal, cost *decimal.Decimal, minStock int64) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewValidationError("Product name is required")
	}
	if price.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("Product price must be positive")
	}
	if cost != nil && cost.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("Product cost must be positive")
	}
	if minStock < 0 {
		return shared.NewValidationError("Minimum stock cannot be negative")
	}

	p.Name = strings.TrimSpace(name)
	p.Price = price
	p.Cost = cost
	p.MinStock = minStock
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// DeductStock removes quantity from stock for a sale. Fails with
// INSUFFICIENT_STOCK (naming the product and available quantity) if the
// result would be negative; no partial change is applied.
func (p *Product) DeductStock(quantity int64, sourceType MovementSourceType, sourceID string) (*StockMovement, error) {
	if quantity <= 0 {
		return nil, shared.NewValidationError("Deduct quantity must be positive")
	}
	if p.Stock < quantity {
		return nil, shared.NewInsufficientStockError(p.Name, quantity, p.Stock)
	}

	before := p.Stock
	p.Stock -= quantity
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	movement := NewStockMovement(p.ID, MovementTypeSale, -quantity, before, p.Stock, sourceType, sourceID)

	p.AddDomainEvent(NewStockChangedEvent(p, movement))
	if p.MinStock > 0 && p.Stock < p.MinStock {
		p.AddDomainEvent(NewLowStockEvent(p))
	}

	return movement, nil
}

// Restock returns quantity to stock, either because a sale was deleted or a
// return was approved. Restocks are unconditional.
func (p *Product) Restock(quantity int64, movementType MovementType, sourceType MovementSourceType, sourceID string) (*StockMovement, error) {
	if quantity <= 0 {
		return nil, shared.NewValidationError("Restock quantity must be positive")
	}
	if movementType != MovementTypeSaleReversal && movementType != MovementTypeReturnRestock {
		return nil, shared.NewValidationError("Invalid restock movement type")
	}

	before := p.Stock
	p.Stock += quantity
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	movement := NewStockMovement(p.ID, movementType, quantity, before, p.Stock, sourceType, sourceID)

	p.AddDomainEvent(NewStockChangedEvent(p, movement))

	return movement, nil
}

// AdjustStock sets stock to an absolute counted quantity (manual correction)
func (p *Product) AdjustStock(actualQuantity int64, reason string) (*StockMovement, error) {
	if actualQuantity < 0 {
		return nil, shared.NewValidationError("Actual quantity cannot be negative")
	}
	if strings.TrimSpace(reason) == "" {
		return nil, shared.NewValidationError("Adjustment reason is required")
	}

	before := p.Stock
	p.Stock = actualQuantity
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	movement := NewStockMovement(p.ID, MovementTypeAdjustment, actualQuantity-before, before, p.Stock, MovementSourceManual, "")
	movement.Remark = reason

	p.AddDomainEvent(NewStockChangedEvent(p, movement))
	if p.MinStock > 0 && p.Stock < p.MinStock {
		p.AddDomainEvent(NewLowStockEvent(p))
	}

	return movement, nil
}

// IsLowStock returns true if stock has fallen below the alert threshold
func (p *Product) IsLowStock() bool {
	return p.MinStock > 0 && p.Stock < p.MinStock
}

// CanFulfill returns true if stock covers the requested quantity
func (p *Product) CanFulfill(quantity int64) bool {
	return p.Stock >= quantity
}
