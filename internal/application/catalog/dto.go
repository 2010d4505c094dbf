package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/salesdesk/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Name     string           `json:"name" binding:"required,min=1,max=200"`
	Price    decimal.Decimal  `json:"price" binding:"required"`
	Cost     *decimal.Decimal `json:"cost"`
	Stock    int64            `json:"stock" binding:"gte=0"`
	MinStock int64            `json:"min_stock" binding:"gte=0"`
}

// UpdateProductRequest represents a request to update a product.
// Stock is deliberately absent; it only moves through stock operations.
type UpdateProductRequest struct {
	Name     string           `json:"name" binding:"required,min=1,max=200"`
	Price    decimal.Decimal  `json:"price" binding:"required"`
	Cost     *decimal.Decimal `json:"cost"`
	MinStock int64            `json:"min_stock" binding:"gte=0"`
}

// AdjustStockRequest represents a manual stock correction to a counted quantity
type AdjustStockRequest struct {
	ActualQuantity int64  `json:"actual_quantity" binding:"gte=0"`
	Reason         string `json:"reason" binding:"required,min=1,max=500"`
}

// ProductListFilter represents filtering options for listing products
type ProductListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Search   string `form:"search"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
	LowStock bool   `form:"low_stock"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID        uuid.UUID        `json:"id"`
	Name      string           `json:"name"`
	Price     decimal.Decimal  `json:"price"`
	Cost      *decimal.Decimal `json:"cost,omitempty"`
	Stock     int64            `json:"stock"`
	MinStock  int64            `json:"min_stock"`
	LowStock  bool             `json:"low_stock"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// StockMovementResponse represents a stock ledger row in API responses
type StockMovementResponse struct {
	ID           uuid.UUID `json:"id"`
	ProductID    uuid.UUID `json:"product_id"`
	MovementType string    `json:"movement_type"`
	Quantity     int64     `json:"quantity"`
	StockBefore  int64     `json:"stock_before"`
	StockAfter   int64     `json:"stock_after"`
	SourceType   string    `json:"source_type"`
	SourceID     string    `json:"source_id,omitempty"`
	Remark       string    `json:"remark,omitempty"`
	MovementDate time.Time `json:"movement_date"`
}

// ToProductResponse converts a Product to ProductResponse
func ToProductResponse(product *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:        product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Cost:      product.Cost,
		Stock:     product.Stock,
		MinStock:  product.MinStock,
		LowStock:  product.IsLowStock(),
		CreatedAt: product.CreatedAt,
		UpdatedAt: product.UpdatedAt,
	}
}

// ToProductResponses converts a slice of Products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}

// ToStockMovementResponse converts a StockMovement to its response
func ToStockMovementResponse(movement *catalog.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		ID:           movement.ID,
		ProductID:    movement.ProductID,
		MovementType: string(movement.MovementType),
		Quantity:     movement.Quantity,
		StockBefore:  movement.StockBefore,
		StockAfter:   movement.StockAfter,
		SourceType:   string(movement.SourceType),
		SourceID:     movement.SourceID,
		Remark:       movement.Remark,
		MovementDate: movement.MovementDate,
	}
}

// ToStockMovementResponses converts a slice of StockMovements
func ToStockMovementResponses(movements []catalog.StockMovement) []StockMovementResponse {
	responses := make([]StockMovementResponse, len(movements))
	for i := range movements {
		responses[i] = ToStockMovementResponse(&movements[i])
	}
	return responses
}
