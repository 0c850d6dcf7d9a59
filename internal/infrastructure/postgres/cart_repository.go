package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.CartRepository = (*CartRepo)(nil)

// CartRepo implementación del puerto CartRepository sobre PostgreSQL (usable con pool o tx).
type CartRepo struct {
	q Querier
}

// NewCartRepository construye el adaptador del carrito. Pasar pool o tx (Querier).
func NewCartRepository(q Querier) *CartRepo {
	return &CartRepo{q: q}
}

// Create persiste una línea nueva del carrito.
func (r *CartRepo) Create(it *entity.CartItem) error {
	query := `
		INSERT INTO cart_items (id, user_id, medicine_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		it.ID, it.UserID, it.MedicineID, it.Quantity, it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert cart item: %w", err)
	}
	return nil
}

// GetByUserAndMedicine busca la línea del usuario para un medicamento (nil si no hay).
func (r *CartRepo) GetByUserAndMedicine(userID, medicineID string) (*entity.CartItem, error) {
	query := `
		SELECT id, user_id, medicine_id, quantity, created_at, updated_at
		FROM cart_items WHERE user_id = $1 AND medicine_id = $2`
	var it entity.CartItem
	err := r.q.QueryRow(context.Background(), query, userID, medicineID).Scan(
		&it.ID, &it.UserID, &it.MedicineID, &it.Quantity, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cart item: %w", err)
	}
	return &it, nil
}

// ListByUser líneas del carrito del usuario, en orden de inserción.
func (r *CartRepo) ListByUser(userID string) ([]*entity.CartItem, error) {
	query := `
		SELECT id, user_id, medicine_id, quantity, created_at, updated_at
		FROM cart_items WHERE user_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	defer rows.Close()
	var list []*entity.CartItem
	for rows.Next() {
		var it entity.CartItem
		if err := rows.Scan(&it.ID, &it.UserID, &it.MedicineID, &it.Quantity, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// UpdateQuantity fija la cantidad de una línea.
func (r *CartRepo) UpdateQuantity(id string, quantity int) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE cart_items SET quantity = $2, updated_at = now() WHERE id = $1`, id, quantity)
	if err != nil {
		return fmt.Errorf("update cart quantity: %w", err)
	}
	return nil
}

// Delete elimina una línea por ID.
func (r *CartRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM cart_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	return nil
}

// ClearByUser vacía el carrito del usuario (checkout o limpieza explícita).
func (r *CartRepo) ClearByUser(userID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM cart_items WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// TotalQuantityByUser suma las cantidades del carrito (topes por rol).
func (r *CartRepo) TotalQuantityByUser(userID string) (int, error) {
	var total int
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(quantity), 0) FROM cart_items WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("total cart quantity: %w", err)
	}
	return total, nil
}
