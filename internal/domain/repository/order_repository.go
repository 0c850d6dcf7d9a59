package repository

import "github.com/jhoicas/Farmacia-api/internal/domain/entity"

// OrderRepository define el puerto de persistencia de órdenes y sus líneas.
type OrderRepository interface {
	Create(order *entity.Order) error
	CreateItem(item *entity.OrderItem) error
	GetByID(id string) (*entity.Order, error)
	// GetForUpdate bloquea la fila de la orden (SELECT FOR UPDATE): el estado
	// de cada orden es un punto único de exclusión mutua.
	GetForUpdate(id string) (*entity.Order, error)
	// UpdateStatus persiste status, motivo/fecha de cancelación y updated_at.
	UpdateStatus(order *entity.Order) error
	ListByUser(userID string, limit, offset int) ([]*entity.Order, error)
	ListByUserAndStatus(userID string, status entity.OrderStatus) ([]*entity.Order, error)
	ItemsByOrder(orderID string) ([]*entity.OrderItem, error)
	// CountItemsBySupplier cuenta líneas de la orden cuyos medicamentos
	// pertenecen al proveedor (autorización parcial de proveedor).
	CountItemsBySupplier(orderID, supplierID string) (int, error)
	ItemsByOrderAndSupplier(orderID, supplierID string) ([]*entity.OrderItem, error)
	ListBySupplier(supplierID string, limit, offset int) ([]*entity.Order, error)
}
