package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.PharmacyInventoryRepository = (*PharmacyInventoryRepo)(nil)

// PharmacyInventoryRepo implementación del puerto PharmacyInventoryRepository
// sobre PostgreSQL (usable con pool o tx).
type PharmacyInventoryRepo struct {
	q Querier
}

// NewPharmacyInventoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPharmacyInventoryRepository(q Querier) *PharmacyInventoryRepo {
	return &PharmacyInventoryRepo{q: q}
}

const pharmacyInventoryColumns = `id, pharmacy_id, name, category, generic_name, manufacturer,
	description, unit_price, current_stock, min_stock_level, expiry_date, batch_number, image_url,
	source, order_id, order_item_id, active, created_at, updated_at`

// Create persiste una fila nueva del inventario de farmacia.
func (r *PharmacyInventoryRepo) Create(it *entity.PharmacyInventory) error {
	query := `
		INSERT INTO pharmacy_inventory (` + pharmacyInventoryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.q.Exec(context.Background(), query,
		it.ID, it.PharmacyID, it.Name, it.Category, it.GenericName, it.Manufacturer,
		it.Description, it.UnitPrice, it.CurrentStock, it.MinStockLevel, it.ExpiryDate,
		it.BatchNumber, it.ImageURL, it.Source, it.OrderID, it.OrderItemID, it.Active,
		it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert pharmacy inventory: %w", err)
	}
	return nil
}

// GetByID obtiene una fila por ID (nil si no existe).
func (r *PharmacyInventoryRepo) GetByID(id string) (*entity.PharmacyInventory, error) {
	query := `SELECT ` + pharmacyInventoryColumns + ` FROM pharmacy_inventory WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get pharmacy inventory")
}

// Update actualiza la fila completa.
func (r *PharmacyInventoryRepo) Update(it *entity.PharmacyInventory) error {
	query := `
		UPDATE pharmacy_inventory SET name = $2, category = $3, generic_name = $4,
			manufacturer = $5, description = $6, unit_price = $7, current_stock = $8,
			min_stock_level = $9, expiry_date = $10, batch_number = $11, image_url = $12,
			updated_at = $13
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		it.ID, it.Name, it.Category, it.GenericName, it.Manufacturer, it.Description,
		it.UnitPrice, it.CurrentStock, it.MinStockLevel, it.ExpiryDate, it.BatchNumber,
		it.ImageURL, it.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update pharmacy inventory: %w", err)
	}
	return nil
}

// UpdateStock persiste solo stock y updated_at (merge del sync).
func (r *PharmacyInventoryRepo) UpdateStock(it *entity.PharmacyInventory) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE pharmacy_inventory SET current_stock = $2, updated_at = now() WHERE id = $1`,
		it.ID, it.CurrentStock,
	)
	if err != nil {
		return fmt.Errorf("update pharmacy inventory stock: %w", err)
	}
	return nil
}

// FindPurchased busca la fila activa PURCHASED que empareja por nombre y lote.
// IS NOT DISTINCT FROM hace que lote nulo empareje con lote nulo.
func (r *PharmacyInventoryRepo) FindPurchased(pharmacyID, name string, batchNumber *string) (*entity.PharmacyInventory, error) {
	query := `
		SELECT ` + pharmacyInventoryColumns + ` FROM pharmacy_inventory
		WHERE pharmacy_id = $1 AND name = $2 AND batch_number IS NOT DISTINCT FROM $3
		  AND source = $4 AND active = true`
	return r.scanOne(
		r.q.QueryRow(context.Background(), query, pharmacyID, name, batchNumber, entity.SourcePurchased),
		"find purchased inventory",
	)
}

// ListActiveByPharmacy filas activas de la farmacia.
func (r *PharmacyInventoryRepo) ListActiveByPharmacy(pharmacyID string) ([]*entity.PharmacyInventory, error) {
	query := `
		SELECT ` + pharmacyInventoryColumns + ` FROM pharmacy_inventory
		WHERE pharmacy_id = $1 AND active = true ORDER BY name`
	rows, err := r.q.Query(context.Background(), query, pharmacyID)
	if err != nil {
		return nil, fmt.Errorf("list pharmacy inventory: %w", err)
	}
	return r.scanAll(rows)
}

// ListByPharmacyAndCategory filas activas filtradas por categoría.
func (r *PharmacyInventoryRepo) ListByPharmacyAndCategory(pharmacyID, category string) ([]*entity.PharmacyInventory, error) {
	query := `
		SELECT ` + pharmacyInventoryColumns + ` FROM pharmacy_inventory
		WHERE pharmacy_id = $1 AND category = $2 AND active = true ORDER BY name`
	rows, err := r.q.Query(context.Background(), query, pharmacyID, category)
	if err != nil {
		return nil, fmt.Errorf("list pharmacy inventory by category: %w", err)
	}
	return r.scanAll(rows)
}

// ListByPharmacyAndSource filas activas filtradas por origen (MANUAL/PURCHASED).
func (r *PharmacyInventoryRepo) ListByPharmacyAndSource(pharmacyID, source string) ([]*entity.PharmacyInventory, error) {
	query := `
		SELECT ` + pharmacyInventoryColumns + ` FROM pharmacy_inventory
		WHERE pharmacy_id = $1 AND source = $2 AND active = true ORDER BY name`
	rows, err := r.q.Query(context.Background(), query, pharmacyID, source)
	if err != nil {
		return nil, fmt.Errorf("list pharmacy inventory by source: %w", err)
	}
	return r.scanAll(rows)
}

// ListLowStock filas activas con stock en o por debajo del umbral.
func (r *PharmacyInventoryRepo) ListLowStock(pharmacyID string) ([]*entity.PharmacyInventory, error) {
	query := `
		SELECT ` + pharmacyInventoryColumns + ` FROM pharmacy_inventory
		WHERE pharmacy_id = $1 AND active = true AND current_stock <= min_stock_level
		ORDER BY current_stock`
	rows, err := r.q.Query(context.Background(), query, pharmacyID)
	if err != nil {
		return nil, fmt.Errorf("list low stock inventory: %w", err)
	}
	return r.scanAll(rows)
}

// ListExpiring filas activas con vencimiento dentro de la ventana [from, until].
func (r *PharmacyInventoryRepo) ListExpiring(pharmacyID string, from, until time.Time) ([]*entity.PharmacyInventory, error) {
	query := `
		SELECT ` + pharmacyInventoryColumns + ` FROM pharmacy_inventory
		WHERE pharmacy_id = $1 AND active = true
		  AND expiry_date IS NOT NULL AND expiry_date >= $2 AND expiry_date <= $3
		ORDER BY expiry_date`
	rows, err := r.q.Query(context.Background(), query, pharmacyID, from, until)
	if err != nil {
		return nil, fmt.Errorf("list expiring inventory: %w", err)
	}
	return r.scanAll(rows)
}

// ListExpired filas activas ya vencidas.
func (r *PharmacyInventoryRepo) ListExpired(pharmacyID string, until time.Time) ([]*entity.PharmacyInventory, error) {
	query := `
		SELECT ` + pharmacyInventoryColumns + ` FROM pharmacy_inventory
		WHERE pharmacy_id = $1 AND active = true
		  AND expiry_date IS NOT NULL AND expiry_date < $2
		ORDER BY expiry_date`
	rows, err := r.q.Query(context.Background(), query, pharmacyID, until)
	if err != nil {
		return nil, fmt.Errorf("list expired inventory: %w", err)
	}
	return r.scanAll(rows)
}

// CountActiveByPharmacy cuenta filas activas (métricas y conteo del sync).
func (r *PharmacyInventoryRepo) CountActiveByPharmacy(pharmacyID string) (int, error) {
	var n int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM pharmacy_inventory WHERE pharmacy_id = $1 AND active = true`,
		pharmacyID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count pharmacy inventory: %w", err)
	}
	return n, nil
}

// Deactivate borrado lógico: la fila deja de aparecer en listados y en el sync.
func (r *PharmacyInventoryRepo) Deactivate(id string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE pharmacy_inventory SET active = false, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate pharmacy inventory: %w", err)
	}
	return nil
}

func (r *PharmacyInventoryRepo) scanOne(row pgx.Row, op string) (*entity.PharmacyInventory, error) {
	var it entity.PharmacyInventory
	err := row.Scan(&it.ID, &it.PharmacyID, &it.Name, &it.Category, &it.GenericName,
		&it.Manufacturer, &it.Description, &it.UnitPrice, &it.CurrentStock, &it.MinStockLevel,
		&it.ExpiryDate, &it.BatchNumber, &it.ImageURL, &it.Source, &it.OrderID, &it.OrderItemID,
		&it.Active, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &it, nil
}

func (r *PharmacyInventoryRepo) scanAll(rows pgx.Rows) ([]*entity.PharmacyInventory, error) {
	defer rows.Close()
	var list []*entity.PharmacyInventory
	for rows.Next() {
		var it entity.PharmacyInventory
		if err := rows.Scan(&it.ID, &it.PharmacyID, &it.Name, &it.Category, &it.GenericName,
			&it.Manufacturer, &it.Description, &it.UnitPrice, &it.CurrentStock, &it.MinStockLevel,
			&it.ExpiryDate, &it.BatchNumber, &it.ImageURL, &it.Source, &it.OrderID, &it.OrderItemID,
			&it.Active, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan pharmacy inventory: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}
