package dto

import "github.com/shopspring/decimal"

// AddToCartRequest entrada para añadir un medicamento al carrito.
type AddToCartRequest struct {
	MedicineID string `json:"medicine_id" validate:"required,uuid"`
	Quantity   int    `json:"quantity" validate:"min=1"`
}

// UpdateCartItemRequest entrada para cambiar la cantidad de una línea.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"min=1"`
}

// CartItemResponse línea del carrito con los datos del medicamento al precio
// actual de catálogo (el snapshot ocurre en el checkout).
type CartItemResponse struct {
	ID           string          `json:"id"`
	MedicineID   string          `json:"medicine_id"`
	MedicineName string          `json:"medicine_name"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int             `json:"quantity"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	CurrentStock int             `json:"current_stock"`
}

// CartResponse carrito completo con subtotal estimado.
type CartResponse struct {
	Items    []CartItemResponse `json:"items"`
	Subtotal decimal.Decimal    `json:"subtotal"`
}
