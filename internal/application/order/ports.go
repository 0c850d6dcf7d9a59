package order

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor de órdenes:
// checkout, cancelación y transición de estado son todo-o-nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		orderRepo repository.OrderRepository,
		medicineRepo repository.MedicineRepository,
		cartRepo repository.CartRepository,
	) error) error
}

// Notifier puerto de envío de notificaciones por orden. Un método tipado por
// plantilla: sin campos dinámicos ni reflexión. Los fallos NUNCA se propagan
// a la operación que los dispara; el caller los registra y los descarta.
type Notifier interface {
	OrderConfirmation(email, name, orderID string, total decimal.Decimal, paymentMethod, address, phone string) error
	NewOrderAlert(adminEmail, adminName, orderID, customerName string) error
	StatusUpdate(email, name, orderID, statusDisplay string) error
	CancellationConfirmation(email, name, orderID, reason string) error
	CancellationAlert(adminEmail, adminName, orderID, customerName, reason string) error
}

// InventorySyncer puerta hacia el sync de inventario de farmacia. Se invoca
// después del commit de la transición a DELIVERED; un error aquí degrada el
// resultado pero no revierte el cambio de estado.
type InventorySyncer interface {
	AddOrderToInventory(ctx context.Context, ord *entity.Order) error
}
