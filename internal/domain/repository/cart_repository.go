package repository

import "github.com/jhoicas/Farmacia-api/internal/domain/entity"

// CartRepository define el puerto de persistencia del carrito.
type CartRepository interface {
	Create(item *entity.CartItem) error
	GetByUserAndMedicine(userID, medicineID string) (*entity.CartItem, error)
	ListByUser(userID string) ([]*entity.CartItem, error)
	UpdateQuantity(id string, quantity int) error
	Delete(id string) error
	ClearByUser(userID string) error
	// TotalQuantityByUser suma las cantidades del carrito (tope por rol).
	TotalQuantityByUser(userID string) (int, error)
}
