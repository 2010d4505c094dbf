package catalog

import (
	"github.com/google/uuid"
	"github.com/salesdesk/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeProduct = "Product"

// Event type constants
const (
	EventTypeProductCreated = "ProductCreated"
	EventTypeStockChanged   = "StockChanged"
	EventTypeLowStock       = "LowStock"
)

// ProductCreatedEvent is published when a new product is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Stock     int64     `json:"stock"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(product *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		Name:            product.Name,
		Stock:           product.Stock,
	}
}

// StockChangedEvent is published for every stock movement
type StockChangedEvent struct {
	shared.BaseDomainEvent
	ProductID    uuid.UUID    `json:"product_id"`
	MovementType MovementType `json:"movement_type"`
	Quantity     int64        `json:"quantity"`
	StockBefore  int64        `json:"stock_before"`
	StockAfter   int64        `json:"stock_after"`
}

// NewStockChangedEvent creates a new StockChangedEvent
func NewStockChangedEvent(product *Product, movement *StockMovement) *StockChangedEvent {
	return &StockChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockChanged, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		MovementType:    movement.MovementType,
		Quantity:        movement.Quantity,
		StockBefore:     movement.StockBefore,
		StockAfter:      movement.StockAfter,
	}
}

// LowStockEvent is published when stock falls below the alert threshold
type LowStockEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Stock     int64     `json:"stock"`
	MinStock  int64     `json:"min_stock"`
}

// NewLowStockEvent creates a new LowStockEvent
func NewLowStockEvent(product *Product) *LowStockEvent {
	return &LowStockEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLowStock, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		Name:            product.Name,
		Stock:           product.Stock,
		MinStock:        product.MinStock,
	}
}
