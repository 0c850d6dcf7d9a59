package entity

import "time"

// CartItem línea del carrito de un comprador (intención de compra pendiente).
// El precio NO se congela aquí: el snapshot ocurre al crear la orden.
type CartItem struct {
	ID         string
	UserID     string
	MedicineID string
	Quantity   int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
