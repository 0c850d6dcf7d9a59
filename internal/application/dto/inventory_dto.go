package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateInventoryItemRequest alta manual de una fila de inventario de farmacia.
type CreateInventoryItemRequest struct {
	Name          string          `json:"name" validate:"required,max=200"`
	Category      string          `json:"category" validate:"required,max=255"`
	GenericName   string          `json:"generic_name"`
	Manufacturer  string          `json:"manufacturer"`
	Description   string          `json:"description"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	CurrentStock  int             `json:"current_stock" validate:"min=0"`
	MinStockLevel int             `json:"min_stock_level" validate:"min=0"`
	ExpiryDate    *time.Time      `json:"expiry_date"`
	BatchNumber   *string         `json:"batch_number"`
	ImageURL      string          `json:"image_url"`
}

// UpdateInventoryItemRequest actualización parcial (solo campos enviados).
type UpdateInventoryItemRequest struct {
	Name          *string          `json:"name"`
	Category      *string          `json:"category"`
	GenericName   *string          `json:"generic_name"`
	Manufacturer  *string          `json:"manufacturer"`
	Description   *string          `json:"description"`
	UnitPrice     *decimal.Decimal `json:"unit_price"`
	CurrentStock  *int             `json:"current_stock"`
	MinStockLevel *int             `json:"min_stock_level"`
	ExpiryDate    *time.Time       `json:"expiry_date"`
	BatchNumber   *string          `json:"batch_number"`
	ImageURL      *string          `json:"image_url"`
}

// InventoryItemResponse fila del inventario de reventa.
type InventoryItemResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	GenericName   string          `json:"generic_name,omitempty"`
	Manufacturer  string          `json:"manufacturer,omitempty"`
	Description   string          `json:"description,omitempty"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	CurrentStock  int             `json:"current_stock"`
	MinStockLevel int             `json:"min_stock_level"`
	ExpiryDate    *time.Time      `json:"expiry_date,omitempty"`
	BatchNumber   *string         `json:"batch_number,omitempty"`
	ImageURL      string          `json:"image_url,omitempty"`
	Source        string          `json:"source"`
	OrderID       *string         `json:"order_id,omitempty"`
	OrderItemID   *string         `json:"order_item_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// InventoryStatsResponse métricas del inventario de una farmacia.
type InventoryStatsResponse struct {
	TotalMedicines int `json:"total_medicines"`
	LowStock       int `json:"low_stock"`
	NearExpiry     int `json:"near_expiry"`
	Expired        int `json:"expired"`
}

// SyncResult resultado de sincronizar órdenes entregadas al inventario.
type SyncResult struct {
	OrdersProcessed int    `json:"orders_processed"`
	ItemsAdded      int    `json:"items_added"`
	Message         string `json:"message"`
}
