package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// Cancel cancela una orden a pedido del comprador. Además de las reglas de la
// cancelación administrativa exige: que el solicitante sea el dueño, un motivo
// no vacío y que no haya pasado la ventana de cancelación (5 minutos desde la
// creación; exactamente 5m00s todavía se acepta). Crédito de stock, estado,
// motivo y fecha se escriben en una sola transacción; dos cancelaciones
// simultáneas se serializan sobre la fila de la orden y la segunda observa el
// estado terminal.
func (uc *OrderUseCase) Cancel(ctx context.Context, orderID, buyerID, reason string) (*dto.OrderResponse, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, domain.ErrMissingReason
	}

	var ord *entity.Order
	err := uc.txRunner.Run(ctx, func(
		orderRepo repository.OrderRepository,
		medicineRepo repository.MedicineRepository,
		_ repository.CartRepository,
	) error {
		var err error
		ord, err = orderRepo.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if ord == nil {
			return domain.ErrNotFound
		}
		if ord.UserID != buyerID {
			return domain.ErrForbidden
		}
		if ord.Status.IsFinal() {
			return domain.ErrOrderFinal
		}

		now := time.Now()
		if elapsed := now.Sub(ord.CreatedAt); elapsed > uc.cancelWindow {
			return fmt.Errorf("%w: %d minutos transcurridos (límite %d)",
				domain.ErrCancelWindowExpired,
				int64(elapsed.Minutes()),
				int64(uc.cancelWindow.Minutes()))
		}

		if err := restoreStock(orderRepo, medicineRepo, orderID); err != nil {
			return err
		}

		ord.Status = entity.OrderCancelled
		ord.CancellationReason = reason
		ord.CancelledAt = &now
		ord.UpdatedAt = now
		return orderRepo.UpdateStatus(ord)
	})
	if err != nil {
		return nil, err
	}

	buyer, err := uc.userRepo.GetByID(buyerID)
	if err != nil || buyer == nil {
		uc.log.Warn().Err(err).Str("order_id", ord.ID).Msg("comprador no disponible para notificar cancelación")
	} else {
		// Confirmación al comprador y alerta a administradores son
		// independientes: el fallo de una no bloquea la otra.
		if err := uc.notifier.CancellationConfirmation(buyer.Email, buyer.FullName, ord.ID, reason); err != nil {
			uc.log.Warn().Err(err).Str("order_id", ord.ID).Msg("confirmación de cancelación no enviada")
		}
		uc.notifyAdmins(ord.ID, func(admin *entity.User) error {
			return uc.notifier.CancellationAlert(admin.Email, admin.FullName, ord.ID, buyer.FullName, reason)
		})
	}

	items, _ := uc.orderRepo.ItemsByOrder(ord.ID)
	return toOrderResponse(ord, items), nil
}
