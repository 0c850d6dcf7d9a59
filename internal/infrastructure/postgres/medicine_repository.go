package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.MedicineRepository = (*MedicineRepo)(nil)

// MedicineRepo implementación del puerto MedicineRepository sobre PostgreSQL (usable con pool o tx).
type MedicineRepo struct {
	q Querier
}

// NewMedicineRepository construye el adaptador del catálogo. Pasar pool o tx (Querier).
func NewMedicineRepository(q Querier) *MedicineRepo {
	return &MedicineRepo{q: q}
}

const medicineColumns = `id, name, category, generic_name, manufacturer, description, unit_price,
	current_stock, min_stock_level, expiry_date, batch_number, image_url, supplier_id, status,
	created_at, updated_at`

// Create persiste un nuevo medicamento.
func (r *MedicineRepo) Create(m *entity.Medicine) error {
	query := `
		INSERT INTO medicines (` + medicineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.Name, m.Category, m.GenericName, m.Manufacturer, m.Description, m.UnitPrice,
		m.CurrentStock, m.MinStockLevel, m.ExpiryDate, m.BatchNumber, m.ImageURL, m.SupplierID,
		m.Status, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert medicine: %w", err)
	}
	return nil
}

// GetByID obtiene un medicamento por ID.
func (r *MedicineRepo) GetByID(id string) (*entity.Medicine, error) {
	query := `SELECT ` + medicineColumns + ` FROM medicines WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get medicine")
}

// GetForUpdate obtiene y bloquea la fila (SELECT FOR UPDATE). Solo tiene
// sentido dentro de una transacción; serializa los escritores de stock.
func (r *MedicineRepo) GetForUpdate(id string) (*entity.Medicine, error) {
	query := `SELECT ` + medicineColumns + ` FROM medicines WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get medicine for update")
}

// Update actualiza un medicamento completo (incluido el estado derivado).
func (r *MedicineRepo) Update(m *entity.Medicine) error {
	query := `
		UPDATE medicines SET name = $2, category = $3, generic_name = $4, manufacturer = $5,
			description = $6, unit_price = $7, current_stock = $8, min_stock_level = $9,
			expiry_date = $10, batch_number = $11, image_url = $12, status = $13, updated_at = $14
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.Name, m.Category, m.GenericName, m.Manufacturer, m.Description, m.UnitPrice,
		m.CurrentStock, m.MinStockLevel, m.ExpiryDate, m.BatchNumber, m.ImageURL, m.Status, m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update medicine: %w", err)
	}
	return nil
}

// UpdateStock persiste solo stock y estado derivado (débitos y créditos).
func (r *MedicineRepo) UpdateStock(m *entity.Medicine) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE medicines SET current_stock = $2, status = $3, updated_at = now() WHERE id = $1`,
		m.ID, m.CurrentStock, m.Status,
	)
	if err != nil {
		return fmt.Errorf("update medicine stock: %w", err)
	}
	return nil
}

// Delete elimina un medicamento por ID.
func (r *MedicineRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM medicines WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete medicine: %w", err)
	}
	return nil
}

// List catálogo con filtro opcional por categoría y búsqueda por nombre, paginado.
func (r *MedicineRepo) List(category, search string, limit, offset int) ([]*entity.Medicine, error) {
	query := `
		SELECT ` + medicineColumns + ` FROM medicines
		WHERE ($1 = '' OR category = $1)
		  AND ($2 = '' OR name ILIKE '%' || $2 || '%' OR generic_name ILIKE '%' || $2 || '%')
		ORDER BY name LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, category, search, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list medicines: %w", err)
	}
	return r.scanAll(rows)
}

// ListBySupplier medicamentos de un proveedor, paginados.
func (r *MedicineRepo) ListBySupplier(supplierID string, limit, offset int) ([]*entity.Medicine, error) {
	query := `
		SELECT ` + medicineColumns + ` FROM medicines
		WHERE supplier_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, supplierID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list medicines by supplier: %w", err)
	}
	return r.scanAll(rows)
}

func (r *MedicineRepo) scanOne(row pgx.Row, op string) (*entity.Medicine, error) {
	var m entity.Medicine
	err := row.Scan(&m.ID, &m.Name, &m.Category, &m.GenericName, &m.Manufacturer, &m.Description,
		&m.UnitPrice, &m.CurrentStock, &m.MinStockLevel, &m.ExpiryDate, &m.BatchNumber, &m.ImageURL,
		&m.SupplierID, &m.Status, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &m, nil
}

func (r *MedicineRepo) scanAll(rows pgx.Rows) ([]*entity.Medicine, error) {
	defer rows.Close()
	var list []*entity.Medicine
	for rows.Next() {
		var m entity.Medicine
		if err := rows.Scan(&m.ID, &m.Name, &m.Category, &m.GenericName, &m.Manufacturer, &m.Description,
			&m.UnitPrice, &m.CurrentStock, &m.MinStockLevel, &m.ExpiryDate, &m.BatchNumber, &m.ImageURL,
			&m.SupplierID, &m.Status, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan medicine: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
