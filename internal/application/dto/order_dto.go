package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlaceOrderRequest entrada del checkout: datos de entrega y método de pago.
// Las líneas salen del carrito del comprador, no del request.
type PlaceOrderRequest struct {
	FullName      string `json:"full_name" validate:"required,max=200"`
	Address       string `json:"address"`
	PhoneNumber   string `json:"phone_number" validate:"required,max=20"`
	PaymentMethod string `json:"payment_method" validate:"required,max=50"`
}

// UpdateOrderStatusRequest entrada para transición de estado (admin/proveedor).
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// CancelOrderRequest entrada para cancelación por el comprador.
type CancelOrderRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// OrderItemResponse línea de una orden con su snapshot de precio.
type OrderItemResponse struct {
	ID           string          `json:"id"`
	MedicineID   string          `json:"medicine_id"`
	MedicineName string          `json:"medicine_name,omitempty"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

// OrderResponse salida de una orden.
type OrderResponse struct {
	ID                 string              `json:"id"`
	UserID             string              `json:"user_id"`
	FullName           string              `json:"full_name"`
	Email              string              `json:"email,omitempty"`
	Address            string              `json:"address"`
	PhoneNumber        string              `json:"phone_number"`
	Subtotal           decimal.Decimal     `json:"subtotal"`
	DeliveryCharge     decimal.Decimal     `json:"delivery_charge"`
	TotalAmount        decimal.Decimal     `json:"total_amount"`
	Status             string              `json:"status"`
	PaymentMethod      string              `json:"payment_method"`
	CancellationReason string              `json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time          `json:"cancelled_at,omitempty"`
	Items              []OrderItemResponse `json:"items,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
}

// OrderListResponse historial paginado de órdenes.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
