package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	orderdomain "github.com/jhoicas/Farmacia-api/internal/domain/order"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

// DefaultCancelWindow ventana fija de auto-cancelación del comprador.
const DefaultCancelWindow = 5 * time.Minute

// OrderUseCase motor de órdenes: checkout, transiciones de estado y
// cancelación, con débito/crédito de stock transaccional (SELECT FOR UPDATE)
// y notificaciones best-effort.
type OrderUseCase struct {
	txRunner     TxRunner
	userRepo     repository.UserRepository
	orderRepo    repository.OrderRepository // lecturas fuera de transacción
	notifier     Notifier
	syncer       InventorySyncer
	cancelWindow time.Duration
	log          *logger.Logger
}

// NewOrderUseCase construye el motor. cancelWindow <= 0 usa DefaultCancelWindow.
func NewOrderUseCase(
	txRunner TxRunner,
	userRepo repository.UserRepository,
	orderRepo repository.OrderRepository,
	notifier Notifier,
	syncer InventorySyncer,
	cancelWindow time.Duration,
	log *logger.Logger,
) *OrderUseCase {
	if cancelWindow <= 0 {
		cancelWindow = DefaultCancelWindow
	}
	return &OrderUseCase{
		txRunner:     txRunner,
		userRepo:     userRepo,
		orderRepo:    orderRepo,
		notifier:     notifier,
		syncer:       syncer,
		cancelWindow: cancelWindow,
		log:          log,
	}
}

// PlaceOrder crea la orden desde el carrito del comprador en una sola
// transacción: snapshot de precios, débito de stock por línea (re-validado
// con bloqueo de fila al momento del commit, no al añadir al carrito),
// creación de orden + líneas y vaciado del carrito. Stock insuficiente en
// cualquier línea aborta la unidad completa sin débitos parciales.
func (uc *OrderUseCase) PlaceOrder(ctx context.Context, buyerID string, in dto.PlaceOrderRequest) (*dto.OrderResponse, error) {
	buyer, err := uc.userRepo.GetByID(buyerID)
	if err != nil {
		return nil, err
	}
	if buyer == nil {
		return nil, domain.ErrUserNotFound
	}

	now := time.Now()
	var ord *entity.Order
	var items []*entity.OrderItem

	err = uc.txRunner.Run(ctx, func(
		orderRepo repository.OrderRepository,
		medicineRepo repository.MedicineRepository,
		cartRepo repository.CartRepository,
	) error {
		cartItems, err := cartRepo.ListByUser(buyerID)
		if err != nil {
			return err
		}
		if len(cartItems) == 0 {
			return domain.ErrEmptyCart
		}

		orderID := uuid.New().String()
		subtotal := decimal.Zero
		items = items[:0]

		for _, ci := range cartItems {
			// Bloquea la fila del medicamento: la verificación de stock y el
			// débito son una sola unidad read-modify-write serializada.
			med, err := medicineRepo.GetForUpdate(ci.MedicineID)
			if err != nil {
				return err
			}
			if med == nil {
				return domain.ErrNotFound
			}
			if err := med.Debit(ci.Quantity); err != nil {
				return err
			}
			if err := medicineRepo.UpdateStock(med); err != nil {
				return err
			}

			lineSubtotal := med.UnitPrice.Mul(decimal.NewFromInt(int64(ci.Quantity)))
			subtotal = subtotal.Add(lineSubtotal)
			items = append(items, &entity.OrderItem{
				ID:           uuid.New().String(),
				OrderID:      orderID,
				MedicineID:   med.ID,
				MedicineName: med.Name,
				Quantity:     ci.Quantity,
				UnitPrice:    med.UnitPrice, // snapshot: inmune a cambios de catálogo
				Subtotal:     lineSubtotal,
			})
		}

		deliveryCharge := orderdomain.DeliveryCharge(in.Address)
		ord = &entity.Order{
			ID:             orderID,
			UserID:         buyerID,
			FullName:       in.FullName,
			Email:          buyer.Email,
			Address:        in.Address,
			PhoneNumber:    in.PhoneNumber,
			Subtotal:       subtotal,
			DeliveryCharge: deliveryCharge,
			TotalAmount:    subtotal.Add(deliveryCharge),
			Status:         entity.OrderPending,
			PaymentMethod:  in.PaymentMethod,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := orderRepo.Create(ord); err != nil {
			return err
		}
		for _, item := range items {
			if err := orderRepo.CreateItem(item); err != nil {
				return err
			}
		}
		return cartRepo.ClearByUser(buyerID)
	})
	if err != nil {
		return nil, err
	}

	// Notificaciones best-effort después del commit: un fallo de email jamás
	// revierte la orden ni se reporta como fallo del checkout.
	if err := uc.notifier.OrderConfirmation(
		buyer.Email, buyer.FullName, ord.ID,
		ord.TotalAmount, ord.PaymentMethod, ord.Address, ord.PhoneNumber,
	); err != nil {
		uc.log.Warn().Err(err).Str("order_id", ord.ID).Msg("confirmación de orden no enviada")
	}
	uc.notifyAdmins(ord.ID, func(admin *entity.User) error {
		return uc.notifier.NewOrderAlert(admin.Email, admin.FullName, ord.ID, buyer.FullName)
	})

	return toOrderResponse(ord, items), nil
}

// notifyAdmins envía una alerta a cada administrador de forma independiente:
// el fallo con un destinatario no bloquea a los demás.
func (uc *OrderUseCase) notifyAdmins(orderID string, send func(admin *entity.User) error) {
	admins, err := uc.userRepo.ListAdmins()
	if err != nil {
		uc.log.Warn().Err(err).Str("order_id", orderID).Msg("no se pudieron listar administradores")
		return
	}
	for _, admin := range admins {
		if err := send(admin); err != nil {
			uc.log.Warn().Err(err).
				Str("order_id", orderID).
				Str("admin", admin.Email).
				Msg("alerta a administrador no enviada")
		}
	}
}

func toOrderResponse(ord *entity.Order, items []*entity.OrderItem) *dto.OrderResponse {
	resp := &dto.OrderResponse{
		ID:                 ord.ID,
		UserID:             ord.UserID,
		FullName:           ord.FullName,
		Email:              ord.Email,
		Address:            ord.Address,
		PhoneNumber:        ord.PhoneNumber,
		Subtotal:           ord.Subtotal,
		DeliveryCharge:     ord.DeliveryCharge,
		TotalAmount:        ord.TotalAmount,
		Status:             string(ord.Status),
		PaymentMethod:      ord.PaymentMethod,
		CancellationReason: ord.CancellationReason,
		CancelledAt:        ord.CancelledAt,
		CreatedAt:          ord.CreatedAt,
	}
	for _, item := range items {
		resp.Items = append(resp.Items, dto.OrderItemResponse{
			ID:           item.ID,
			MedicineID:   item.MedicineID,
			MedicineName: item.MedicineName,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			Subtotal:     item.Subtotal,
		})
	}
	return resp
}

// statusDisplayName nombre legible del estado para los emails al comprador.
func statusDisplayName(s entity.OrderStatus) string {
	switch s {
	case entity.OrderPending:
		return "Pending"
	case entity.OrderConfirmed:
		return "Confirmed"
	case entity.OrderProcessing:
		return "Processing/Packaging"
	case entity.OrderShipped:
		return "Shipped/Delivering"
	case entity.OrderDelivered:
		return "Delivered"
	case entity.OrderCancelled:
		return "Cancelled"
	}
	return string(s)
}
