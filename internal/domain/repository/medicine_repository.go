package repository

import "github.com/jhoicas/Farmacia-api/internal/domain/entity"

// MedicineRepository define el puerto de persistencia del catálogo.
// Usado dentro de transacciones para débitos/créditos de stock.
type MedicineRepository interface {
	Create(medicine *entity.Medicine) error
	GetByID(id string) (*entity.Medicine, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE). Toda
	// mutación de stock pasa por aquí para serializar escritores por fila.
	GetForUpdate(id string) (*entity.Medicine, error)
	Update(medicine *entity.Medicine) error
	// UpdateStock persiste solo stock y estado derivado (ya recalculado).
	UpdateStock(medicine *entity.Medicine) error
	Delete(id string) error
	List(category, search string, limit, offset int) ([]*entity.Medicine, error)
	ListBySupplier(supplierID string, limit, offset int) ([]*entity.Medicine, error)
}
