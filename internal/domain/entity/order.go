package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Farmacia-api/internal/domain"
)

// OrderStatus estados de la máquina de estados de una orden.
// Camino feliz: PENDING → CONFIRMED → PROCESSING → SHIPPED → DELIVERED.
// CANCELLED es alcanzable desde cualquier estado no final.
type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderConfirmed  OrderStatus = "CONFIRMED"
	OrderProcessing OrderStatus = "PROCESSING"
	OrderShipped    OrderStatus = "SHIPPED"
	OrderDelivered  OrderStatus = "DELIVERED"
	OrderCancelled  OrderStatus = "CANCELLED"
)

// ParseOrderStatus valida un estado recibido como string (case-insensitive en
// la capa HTTP; aquí se espera ya en mayúsculas).
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case OrderPending, OrderConfirmed, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return OrderStatus(s), nil
	}
	return "", domain.ErrInvalidStatus
}

// IsFinal indica si el estado es terminal (no admite más transiciones).
func (s OrderStatus) IsFinal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// Order representa una orden de compra con sus datos de entrega y totales.
// TotalAmount = Subtotal + DeliveryCharge, calculado al crear.
type Order struct {
	ID                 string
	UserID             string
	FullName           string
	Email              string
	Address            string
	PhoneNumber        string
	Subtotal           decimal.Decimal
	DeliveryCharge     decimal.Decimal
	TotalAmount        decimal.Decimal
	Status             OrderStatus
	PaymentMethod      string
	CancellationReason string
	CancelledAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// OrderItem línea de una orden. UnitPrice y Subtotal son snapshot del precio
// al momento de crear la orden: no siguen cambios posteriores del catálogo.
type OrderItem struct {
	ID           string
	OrderID      string
	MedicineID   string
	MedicineName string // denormalizado para respuestas; se llena en el JOIN
	Quantity     int
	UnitPrice    decimal.Decimal
	Subtotal     decimal.Decimal
}
