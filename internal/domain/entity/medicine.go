package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Farmacia-api/internal/domain"
)

// Estados derivados de un medicamento según stock vs. umbral mínimo.
const (
	MedicineAvailable  = "AVAILABLE"
	MedicineLowStock   = "LOW_STOCK"
	MedicineOutOfStock = "OUT_OF_STOCK"
)

// Medicine representa un medicamento del catálogo, propiedad de un proveedor.
// Status es una proyección de (CurrentStock, MinStockLevel): se recalcula con
// RecomputeStatus en cada mutación de stock y nunca se asigna directamente.
type Medicine struct {
	ID            string
	Name          string
	Category      string
	GenericName   string
	Manufacturer  string
	Description   string
	UnitPrice     decimal.Decimal
	CurrentStock  int
	MinStockLevel int
	ExpiryDate    time.Time
	BatchNumber   string // único en catálogo
	ImageURL      string
	SupplierID    string
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// RecomputeStatus recalcula el estado derivado a partir del stock actual.
// Llamar siempre antes de persistir una mutación de stock o de umbral.
func (m *Medicine) RecomputeStatus() {
	switch {
	case m.CurrentStock == 0:
		m.Status = MedicineOutOfStock
	case m.CurrentStock <= m.MinStockLevel:
		m.Status = MedicineLowStock
	default:
		m.Status = MedicineAvailable
	}
}

// Debit descuenta qty unidades del stock. Rechaza la operación completa si
// dejaría el stock en negativo; el estado derivado se recalcula en el acto.
func (m *Medicine) Debit(qty int) error {
	if qty <= 0 {
		return domain.ErrInvalidInput
	}
	if m.CurrentStock < qty {
		return domain.ErrInsufficientStock
	}
	m.CurrentStock -= qty
	m.RecomputeStatus()
	return nil
}

// Credit devuelve qty unidades al stock (restauración por cancelación).
func (m *Medicine) Credit(qty int) error {
	if qty <= 0 {
		return domain.ErrInvalidInput
	}
	m.CurrentStock += qty
	m.RecomputeStatus()
	return nil
}
