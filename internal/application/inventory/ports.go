package inventory

import (
	"context"

	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// SyncTxRunner ejecuta el sync de una orden al inventario de farmacia dentro
// de su propia transacción, separada de la transición de estado que lo
// dispara: un rollback aquí nunca toca la orden.
type SyncTxRunner interface {
	RunInventory(ctx context.Context, fn func(
		orderRepo repository.OrderRepository,
		medicineRepo repository.MedicineRepository,
		invRepo repository.PharmacyInventoryRepository,
	) error) error
}
