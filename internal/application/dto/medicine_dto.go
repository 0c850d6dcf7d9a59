package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateMedicineRequest entrada para crear un medicamento del catálogo.
type CreateMedicineRequest struct {
	Name          string          `json:"name" validate:"required,min=1,max=200"`
	Category      string          `json:"category" validate:"required,max=255"`
	GenericName   string          `json:"generic_name" validate:"required,max=200"`
	Manufacturer  string          `json:"manufacturer" validate:"required,max=200"`
	Description   string          `json:"description"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	CurrentStock  int             `json:"current_stock" validate:"min=0"`
	MinStockLevel int             `json:"min_stock_level" validate:"min=0"`
	ExpiryDate    time.Time       `json:"expiry_date"`
	BatchNumber   string          `json:"batch_number" validate:"required,max=100"`
	ImageURL      string          `json:"image_url"`
	// SupplierID solo lo envía un admin; un proveedor siempre crea para sí mismo.
	SupplierID string `json:"supplier_id"`
}

// UpdateMedicineRequest entrada para actualizar (campos opcionales).
// El estado derivado no se acepta: se recalcula desde stock/umbral.
type UpdateMedicineRequest struct {
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

// MedicineResponse salida de un medicamento.
type MedicineResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	GenericName   string          `json:"generic_name"`
	Manufacturer  string          `json:"manufacturer"`
	Description   string          `json:"description,omitempty"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	CurrentStock  int             `json:"current_stock"`
	MinStockLevel int             `json:"min_stock_level"`
	ExpiryDate    time.Time       `json:"expiry_date"`
	BatchNumber   string          `json:"batch_number"`
	ImageURL      string          `json:"image_url,omitempty"`
	SupplierID    string          `json:"supplier_id"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// MedicineListResponse lista paginada del catálogo.
type MedicineListResponse struct {
	Items []MedicineResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
