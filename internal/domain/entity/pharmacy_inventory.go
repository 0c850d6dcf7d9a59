package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Origen de una fila de inventario de farmacia.
const (
	SourceManual    = "MANUAL"    // cargada manualmente por la farmacia
	SourcePurchased = "PURCHASED" // derivada de órdenes entregadas
)

// PharmacyInventory fila del inventario propio de reventa de una farmacia.
// Las filas PURCHASED se crean o incrementan solo cuando una orden de un
// comprador con rol PHARMACY pasa a DELIVERED; este núcleo nunca las
// decrementa (la dispensación queda fuera de alcance).
type PharmacyInventory struct {
	ID            string
	PharmacyID    string
	Name          string
	Category      string
	GenericName   string
	Manufacturer  string
	Description   string
	UnitPrice     decimal.Decimal
	CurrentStock  int
	MinStockLevel int
	ExpiryDate    *time.Time
	BatchNumber   *string // nulo permitido; nulo empareja con nulo en el sync
	ImageURL      string
	Source        string
	// Trazabilidad hacia la orden de origen (solo para filas PURCHASED).
	OrderID     *string
	OrderItemID *string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
