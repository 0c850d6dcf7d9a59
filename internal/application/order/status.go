package order

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// UpdateStatus transiciona una orden a targetStatus (admin o proveedor).
// Reglas:
//   - Una orden DELIVERED o CANCELLED no admite más transiciones.
//   - Un proveedor solo puede transicionar órdenes que contengan al menos un
//     medicamento suyo (autorización parcial: afecta la orden completa).
//   - Transicionar a CANCELLED restaura el stock de cada línea antes del commit.
//   - Si el destino es DELIVERED y el comprador es una farmacia, se dispara el
//     sync de inventario después del commit (best-effort: un fallo degrada,
//     nunca revierte el cambio de estado).
func (uc *OrderUseCase) UpdateStatus(ctx context.Context, orderID, targetStatus, actorID, actorRole string) (*dto.OrderResponse, error) {
	newStatus, err := entity.ParseOrderStatus(strings.ToUpper(strings.TrimSpace(targetStatus)))
	if err != nil {
		return nil, err
	}

	var ord *entity.Order
	err = uc.txRunner.Run(ctx, func(
		orderRepo repository.OrderRepository,
		medicineRepo repository.MedicineRepository,
		_ repository.CartRepository,
	) error {
		ord, err = orderRepo.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if ord == nil {
			return domain.ErrNotFound
		}
		if ord.Status.IsFinal() {
			return domain.ErrOrderFinal
		}

		switch actorRole {
		case entity.RoleAdmin:
			// acceso completo
		case entity.RoleSupplier:
			n, err := orderRepo.CountItemsBySupplier(orderID, actorID)
			if err != nil {
				return err
			}
			if n == 0 {
				return domain.ErrForbidden
			}
		default:
			return domain.ErrForbidden
		}

		if newStatus == entity.OrderCancelled {
			if err := restoreStock(orderRepo, medicineRepo, orderID); err != nil {
				return err
			}
		}

		ord.Status = newStatus
		ord.UpdatedAt = time.Now()
		return orderRepo.UpdateStatus(ord)
	})
	if err != nil {
		return nil, err
	}

	buyer, err := uc.userRepo.GetByID(ord.UserID)
	if err != nil {
		uc.log.Warn().Err(err).Str("order_id", ord.ID).Msg("comprador no disponible para efectos post-transición")
	}

	if newStatus == entity.OrderDelivered && buyer != nil && buyer.Role == entity.RolePharmacy {
		if err := uc.syncer.AddOrderToInventory(ctx, ord); err != nil {
			uc.log.Error().Err(err).
				Str("order_id", ord.ID).
				Str("pharmacy_id", buyer.ID).
				Msg("sync de inventario de farmacia falló; la orden queda DELIVERED")
		}
	}

	if buyer != nil {
		if err := uc.notifier.StatusUpdate(buyer.Email, buyer.FullName, ord.ID, statusDisplayName(newStatus)); err != nil {
			uc.log.Warn().Err(err).Str("order_id", ord.ID).Msg("notificación de cambio de estado no enviada")
		}
	}

	items, _ := uc.orderRepo.ItemsByOrder(ord.ID)
	return toOrderResponse(ord, items), nil
}

// restoreStock acredita de vuelta el stock de cada línea de la orden, dentro
// de la transacción en curso y con bloqueo de fila por medicamento.
func restoreStock(orderRepo repository.OrderRepository, medicineRepo repository.MedicineRepository, orderID string) error {
	items, err := orderRepo.ItemsByOrder(orderID)
	if err != nil {
		return err
	}
	for _, item := range items {
		med, err := medicineRepo.GetForUpdate(item.MedicineID)
		if err != nil {
			return err
		}
		if med == nil {
			// El medicamento fue borrado del catálogo: no hay fila que acreditar.
			continue
		}
		if err := med.Credit(item.Quantity); err != nil {
			return err
		}
		if err := medicineRepo.UpdateStock(med); err != nil {
			return err
		}
	}
	return nil
}
