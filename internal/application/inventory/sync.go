package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

// defaultMinStockLevel umbral por defecto para filas creadas por el sync.
const defaultMinStockLevel = 10

// SyncUseCase deriva el inventario de reventa de una farmacia a partir de sus
// órdenes entregadas. La clave de emparejamiento es (farmacia, nombre, lote,
// source=PURCHASED) sobre filas activas; lote nulo empareja con lote nulo.
type SyncUseCase struct {
	txRunner  SyncTxRunner
	userRepo  repository.UserRepository
	orderRepo repository.OrderRepository
	invRepo   repository.PharmacyInventoryRepository
	log       *logger.Logger
}

// NewSyncUseCase construye el caso de uso de sincronización.
func NewSyncUseCase(
	txRunner SyncTxRunner,
	userRepo repository.UserRepository,
	orderRepo repository.OrderRepository,
	invRepo repository.PharmacyInventoryRepository,
	log *logger.Logger,
) *SyncUseCase {
	return &SyncUseCase{
		txRunner:  txRunner,
		userRepo:  userRepo,
		orderRepo: orderRepo,
		invRepo:   invRepo,
		log:       log,
	}
}

// AddOrderToInventory pliega cada línea de la orden en el inventario de la
// farmacia compradora: incrementa la fila PURCHASED existente que empareja
// por nombre+lote, o crea una nueva copiando los atributos del medicamento.
// No hace nada si el comprador no es farmacia o la orden no está DELIVERED.
func (uc *SyncUseCase) AddOrderToInventory(ctx context.Context, ord *entity.Order) error {
	buyer, err := uc.userRepo.GetByID(ord.UserID)
	if err != nil {
		return err
	}
	if buyer == nil || buyer.Role != entity.RolePharmacy {
		return nil
	}
	if ord.Status != entity.OrderDelivered {
		return nil
	}

	uc.log.Info().Str("order_id", ord.ID).Str("pharmacy_id", buyer.ID).
		Msg("plegando líneas de orden entregada al inventario de farmacia")

	return uc.txRunner.RunInventory(ctx, func(
		orderRepo repository.OrderRepository,
		medicineRepo repository.MedicineRepository,
		invRepo repository.PharmacyInventoryRepository,
	) error {
		items, err := orderRepo.ItemsByOrder(ord.ID)
		if err != nil {
			return err
		}
		now := time.Now()
		for _, item := range items {
			med, err := medicineRepo.GetByID(item.MedicineID)
			if err != nil {
				return err
			}
			if med == nil {
				// Medicamento retirado del catálogo después de la entrega:
				// no hay atributos que copiar, se omite la línea.
				uc.log.Warn().Str("order_item_id", item.ID).Msg("medicamento ausente; línea omitida del sync")
				continue
			}

			batch := nullableBatch(med.BatchNumber)
			existing, err := invRepo.FindPurchased(buyer.ID, med.Name, batch)
			if err != nil {
				return err
			}
			if existing != nil {
				existing.CurrentStock += item.Quantity
				existing.UpdatedAt = now
				if err := invRepo.UpdateStock(existing); err != nil {
					return err
				}
				continue
			}

			expiry := med.ExpiryDate
			orderID, orderItemID := ord.ID, item.ID
			row := &entity.PharmacyInventory{
				ID:            uuid.New().String(),
				PharmacyID:    buyer.ID,
				Name:          med.Name,
				Category:      med.Category,
				GenericName:   med.GenericName,
				Manufacturer:  med.Manufacturer,
				Description:   med.Description,
				UnitPrice:     med.UnitPrice,
				CurrentStock:  item.Quantity,
				MinStockLevel: defaultMinStockLevel,
				ExpiryDate:    &expiry,
				BatchNumber:   batch,
				ImageURL:      med.ImageURL,
				Source:        entity.SourcePurchased,
				OrderID:       &orderID,
				OrderItemID:   &orderItemID,
				Active:        true,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			if err := invRepo.Create(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// SyncDeliveredOrders re-sincroniza todas las órdenes entregadas de la
// farmacia. Cada orden corre en su propia transacción; un fallo se registra
// y se continúa con la siguiente. ItemsAdded cuenta filas nuevas: las líneas
// que emparejan con una fila existente incrementan su stock sin contarse.
// Repetir la operación no crea filas duplicadas mientras los lotes sean
// estables, pero sí vuelve a acreditar stock sobre las filas existentes: la
// clave de emparejamiento es nombre+lote, no una marca de procesado por línea.
func (uc *SyncUseCase) SyncDeliveredOrders(ctx context.Context, pharmacyID string) (*dto.SyncResult, error) {
	pharmacy, err := uc.userRepo.GetByID(pharmacyID)
	if err != nil {
		return nil, err
	}
	if pharmacy == nil {
		return nil, domain.ErrNotFound
	}
	if pharmacy.Role != entity.RolePharmacy {
		return nil, domain.ErrForbidden
	}

	delivered, err := uc.orderRepo.ListByUserAndStatus(pharmacyID, entity.OrderDelivered)
	if err != nil {
		return nil, err
	}

	processed, itemsAdded := 0, 0
	for _, ord := range delivered {
		before, err := uc.invRepo.CountActiveByPharmacy(pharmacyID)
		if err != nil {
			return nil, err
		}
		if err := uc.AddOrderToInventory(ctx, ord); err != nil {
			uc.log.Error().Err(err).Str("order_id", ord.ID).Msg("sync de orden falló; se continúa con la siguiente")
			continue
		}
		after, err := uc.invRepo.CountActiveByPharmacy(pharmacyID)
		if err != nil {
			return nil, err
		}
		itemsAdded += after - before
		processed++
	}

	return &dto.SyncResult{
		OrdersProcessed: processed,
		ItemsAdded:      itemsAdded,
		Message:         fmt.Sprintf("Sincronizadas %d órdenes con %d ítems nuevos", processed, itemsAdded),
	}, nil
}

// nullableBatch normaliza un lote vacío del catálogo a nulo para que el
// emparejamiento nulo-con-nulo del inventario funcione.
func nullableBatch(batch string) *string {
	if batch == "" {
		return nil
	}
	return &batch
}
