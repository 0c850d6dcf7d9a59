package repository

import (
	"time"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// PharmacyInventoryRepository define el puerto del inventario de reventa.
type PharmacyInventoryRepository interface {
	Create(item *entity.PharmacyInventory) error
	GetByID(id string) (*entity.PharmacyInventory, error)
	Update(item *entity.PharmacyInventory) error
	// UpdateStock persiste solo stock y updated_at (merge del sync).
	UpdateStock(item *entity.PharmacyInventory) error
	// FindPurchased busca la fila activa PURCHASED de la farmacia que
	// empareja por nombre y lote; batchNumber nulo empareja con lote nulo.
	FindPurchased(pharmacyID, name string, batchNumber *string) (*entity.PharmacyInventory, error)
	ListActiveByPharmacy(pharmacyID string) ([]*entity.PharmacyInventory, error)
	ListByPharmacyAndCategory(pharmacyID, category string) ([]*entity.PharmacyInventory, error)
	ListByPharmacyAndSource(pharmacyID, source string) ([]*entity.PharmacyInventory, error)
	ListLowStock(pharmacyID string) ([]*entity.PharmacyInventory, error)
	ListExpiring(pharmacyID string, from, until time.Time) ([]*entity.PharmacyInventory, error)
	ListExpired(pharmacyID string, until time.Time) ([]*entity.PharmacyInventory, error)
	CountActiveByPharmacy(pharmacyID string) (int, error)
	// Deactivate marca la fila como inactiva (borrado lógico).
	Deactivate(id string) error
}
