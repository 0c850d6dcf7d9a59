package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación del puerto OrderRepository sobre PostgreSQL (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador de órdenes. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `id, user_id, full_name, email, address, phone_number, subtotal,
	delivery_charge, total_amount, status, payment_method, cancellation_reason, cancelled_at,
	created_at, updated_at`

// Create persiste la cabecera de una orden.
func (r *OrderRepo) Create(o *entity.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		o.ID, o.UserID, o.FullName, o.Email, o.Address, o.PhoneNumber, o.Subtotal,
		o.DeliveryCharge, o.TotalAmount, string(o.Status), o.PaymentMethod,
		nullIfEmpty(o.CancellationReason), o.CancelledAt, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de orden con su snapshot de precio.
func (r *OrderRepo) CreateItem(it *entity.OrderItem) error {
	query := `
		INSERT INTO order_items (id, order_id, medicine_id, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		it.ID, it.OrderID, it.MedicineID, it.Quantity, it.UnitPrice, it.Subtotal,
	)
	if err != nil {
		return fmt.Errorf("insert order item: %w", err)
	}
	return nil
}

// GetByID obtiene una orden por ID (nil si no existe).
func (r *OrderRepo) GetByID(id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get order")
}

// GetForUpdate obtiene y bloquea la fila de la orden (SELECT FOR UPDATE).
func (r *OrderRepo) GetForUpdate(id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get order for update")
}

// UpdateStatus persiste estado, motivo y fecha de cancelación.
func (r *OrderRepo) UpdateStatus(o *entity.Order) error {
	query := `
		UPDATE orders SET status = $2, cancellation_reason = $3, cancelled_at = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		o.ID, string(o.Status), nullIfEmpty(o.CancellationReason), o.CancelledAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}

// ListByUser órdenes de un comprador, más recientes primero.
func (r *OrderRepo) ListByUser(userID string, limit, offset int) ([]*entity.Order, error) {
	query := `
		SELECT ` + orderColumns + ` FROM orders
		WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders by user: %w", err)
	}
	return r.scanAll(rows)
}

// ListByUserAndStatus órdenes de un comprador en un estado concreto (sync).
func (r *OrderRepo) ListByUserAndStatus(userID string, status entity.OrderStatus) ([]*entity.Order, error) {
	query := `
		SELECT ` + orderColumns + ` FROM orders
		WHERE user_id = $1 AND status = $2 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, userID, string(status))
	if err != nil {
		return nil, fmt.Errorf("list orders by user and status: %w", err)
	}
	return r.scanAll(rows)
}

// ItemsByOrder líneas de una orden con el nombre del medicamento denormalizado.
func (r *OrderRepo) ItemsByOrder(orderID string) ([]*entity.OrderItem, error) {
	query := `
		SELECT oi.id, oi.order_id, oi.medicine_id, COALESCE(m.name, ''), oi.quantity, oi.unit_price, oi.subtotal
		FROM order_items oi
		LEFT JOIN medicines m ON m.id = oi.medicine_id
		WHERE oi.order_id = $1
		ORDER BY oi.id`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	return r.scanItems(rows)
}

// CountItemsBySupplier cuenta líneas de la orden cuyos medicamentos pertenecen
// al proveedor. Autoriza la vista parcial del proveedor sobre la orden.
func (r *OrderRepo) CountItemsBySupplier(orderID, supplierID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM order_items oi
		JOIN medicines m ON m.id = oi.medicine_id
		WHERE oi.order_id = $1 AND m.supplier_id = $2`
	var n int
	if err := r.q.QueryRow(context.Background(), query, orderID, supplierID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count order items by supplier: %w", err)
	}
	return n, nil
}

// ItemsByOrderAndSupplier líneas de la orden que pertenecen al proveedor.
func (r *OrderRepo) ItemsByOrderAndSupplier(orderID, supplierID string) ([]*entity.OrderItem, error) {
	query := `
		SELECT oi.id, oi.order_id, oi.medicine_id, m.name, oi.quantity, oi.unit_price, oi.subtotal
		FROM order_items oi
		JOIN medicines m ON m.id = oi.medicine_id
		WHERE oi.order_id = $1 AND m.supplier_id = $2
		ORDER BY oi.id`
	rows, err := r.q.Query(context.Background(), query, orderID, supplierID)
	if err != nil {
		return nil, fmt.Errorf("list order items by supplier: %w", err)
	}
	return r.scanItems(rows)
}

// ListBySupplier órdenes que contienen al menos una línea del proveedor.
func (r *OrderRepo) ListBySupplier(supplierID string, limit, offset int) ([]*entity.Order, error) {
	query := `
		SELECT DISTINCT ` + prefixedOrderColumns("o") + `
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		JOIN medicines m ON m.id = oi.medicine_id
		WHERE m.supplier_id = $1
		ORDER BY o.created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, supplierID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders by supplier: %w", err)
	}
	return r.scanAll(rows)
}

func prefixedOrderColumns(alias string) string {
	return alias + `.id, ` + alias + `.user_id, ` + alias + `.full_name, ` + alias + `.email, ` +
		alias + `.address, ` + alias + `.phone_number, ` + alias + `.subtotal, ` +
		alias + `.delivery_charge, ` + alias + `.total_amount, ` + alias + `.status, ` +
		alias + `.payment_method, ` + alias + `.cancellation_reason, ` + alias + `.cancelled_at, ` +
		alias + `.created_at, ` + alias + `.updated_at`
}

func (r *OrderRepo) scanOne(row pgx.Row, op string) (*entity.Order, error) {
	var (
		o      entity.Order
		status string
		reason *string
	)
	err := row.Scan(&o.ID, &o.UserID, &o.FullName, &o.Email, &o.Address, &o.PhoneNumber,
		&o.Subtotal, &o.DeliveryCharge, &o.TotalAmount, &status, &o.PaymentMethod,
		&reason, &o.CancelledAt, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	o.Status = entity.OrderStatus(status)
	if reason != nil {
		o.CancellationReason = *reason
	}
	return &o, nil
}

func (r *OrderRepo) scanAll(rows pgx.Rows) ([]*entity.Order, error) {
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		var (
			o      entity.Order
			status string
			reason *string
		)
		if err := rows.Scan(&o.ID, &o.UserID, &o.FullName, &o.Email, &o.Address, &o.PhoneNumber,
			&o.Subtotal, &o.DeliveryCharge, &o.TotalAmount, &status, &o.PaymentMethod,
			&reason, &o.CancelledAt, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		o.Status = entity.OrderStatus(status)
		if reason != nil {
			o.CancellationReason = *reason
		}
		list = append(list, &o)
	}
	return list, rows.Err()
}

func (r *OrderRepo) scanItems(rows pgx.Rows) ([]*entity.OrderItem, error) {
	defer rows.Close()
	var list []*entity.OrderItem
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.MedicineID, &it.MedicineName,
			&it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
