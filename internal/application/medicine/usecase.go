package medicine

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// defaultMinStockLevel umbral por defecto cuando el proveedor no envía uno.
const defaultMinStockLevel = 10

// MedicineUseCase CRUD del catálogo de medicamentos. Un proveedor solo toca
// sus propios medicamentos; un admin puede tocar cualquiera.
type MedicineUseCase struct {
	medicineRepo repository.MedicineRepository
}

// NewMedicineUseCase construye el caso de uso.
func NewMedicineUseCase(medicineRepo repository.MedicineRepository) *MedicineUseCase {
	return &MedicineUseCase{medicineRepo: medicineRepo}
}

// Create alta en catálogo. El estado inicial se deriva del stock declarado.
func (uc *MedicineUseCase) Create(ctx context.Context, actorID, actorRole string, in dto.CreateMedicineRequest) (*dto.MedicineResponse, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.BatchNumber) == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.CurrentStock < 0 || in.MinStockLevel < 0 || in.UnitPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	supplierID := actorID
	if actorRole == entity.RoleAdmin && in.SupplierID != "" {
		supplierID = in.SupplierID
	}

	minStock := in.MinStockLevel
	if minStock == 0 {
		minStock = defaultMinStockLevel
	}
	now := time.Now()
	med := &entity.Medicine{
		ID:            uuid.New().String(),
		Name:          in.Name,
		Category:      in.Category,
		GenericName:   in.GenericName,
		Manufacturer:  in.Manufacturer,
		Description:   in.Description,
		UnitPrice:     in.UnitPrice,
		CurrentStock:  in.CurrentStock,
		MinStockLevel: minStock,
		ExpiryDate:    in.ExpiryDate,
		BatchNumber:   in.BatchNumber,
		ImageURL:      in.ImageURL,
		SupplierID:    supplierID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	med.RecomputeStatus()
	if err := uc.medicineRepo.Create(med); err != nil {
		return nil, err
	}
	resp := toMedicineResponse(med)
	return &resp, nil
}

// Get devuelve un medicamento por id.
func (uc *MedicineUseCase) Get(ctx context.Context, id string) (*dto.MedicineResponse, error) {
	med, err := uc.medicineRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if med == nil {
		return nil, domain.ErrNotFound
	}
	resp := toMedicineResponse(med)
	return &resp, nil
}

// List catálogo con filtro por categoría y búsqueda por nombre, paginado.
func (uc *MedicineUseCase) List(ctx context.Context, category, search string, page dto.PageRequest) (*dto.MedicineListResponse, error) {
	page.DefaultPage()
	meds, err := uc.medicineRepo.List(category, search, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toMedicineList(meds, page), nil
}

// ListBySupplier medicamentos de un proveedor, paginados.
func (uc *MedicineUseCase) ListBySupplier(ctx context.Context, supplierID string, page dto.PageRequest) (*dto.MedicineListResponse, error) {
	page.DefaultPage()
	meds, err := uc.medicineRepo.ListBySupplier(supplierID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toMedicineList(meds, page), nil
}

// Update actualización parcial. Si cambian stock o umbral, el estado derivado
// se recalcula; nunca se acepta un estado enviado por el cliente.
func (uc *MedicineUseCase) Update(ctx context.Context, actorID, actorRole, id string, in dto.UpdateMedicineRequest) (*dto.MedicineResponse, error) {
	med, err := uc.medicineRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if med == nil {
		return nil, domain.ErrNotFound
	}
	if actorRole != entity.RoleAdmin && med.SupplierID != actorID {
		return nil, domain.ErrForbidden
	}

	if in.Name != nil {
		med.Name = *in.Name
	}
	if in.Category != nil {
		med.Category = *in.Category
	}
	if in.GenericName != nil {
		med.GenericName = *in.GenericName
	}
	if in.Manufacturer != nil {
		med.Manufacturer = *in.Manufacturer
	}
	if in.Description != nil {
		med.Description = *in.Description
	}
	if in.UnitPrice != nil {
		if in.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		med.UnitPrice = *in.UnitPrice
	}
	if in.CurrentStock != nil {
		if *in.CurrentStock < 0 {
			return nil, domain.ErrInvalidInput
		}
		med.CurrentStock = *in.CurrentStock
	}
	if in.MinStockLevel != nil {
		if *in.MinStockLevel < 0 {
			return nil, domain.ErrInvalidInput
		}
		med.MinStockLevel = *in.MinStockLevel
	}
	if in.ExpiryDate != nil {
		med.ExpiryDate = *in.ExpiryDate
	}
	if in.BatchNumber != nil {
		if strings.TrimSpace(*in.BatchNumber) == "" {
			return nil, domain.ErrInvalidInput
		}
		med.BatchNumber = *in.BatchNumber
	}
	if in.ImageURL != nil {
		med.ImageURL = *in.ImageURL
	}
	med.RecomputeStatus()
	med.UpdatedAt = time.Now()
	if err := uc.medicineRepo.Update(med); err != nil {
		return nil, err
	}
	resp := toMedicineResponse(med)
	return &resp, nil
}

// Delete elimina un medicamento del catálogo (solo dueño o admin).
func (uc *MedicineUseCase) Delete(ctx context.Context, actorID, actorRole, id string) error {
	med, err := uc.medicineRepo.GetByID(id)
	if err != nil {
		return err
	}
	if med == nil {
		return domain.ErrNotFound
	}
	if actorRole != entity.RoleAdmin && med.SupplierID != actorID {
		return domain.ErrForbidden
	}
	return uc.medicineRepo.Delete(id)
}

func toMedicineResponse(m *entity.Medicine) dto.MedicineResponse {
	return dto.MedicineResponse{
		ID:            m.ID,
		Name:          m.Name,
		Category:      m.Category,
		GenericName:   m.GenericName,
		Manufacturer:  m.Manufacturer,
		Description:   m.Description,
		UnitPrice:     m.UnitPrice,
		CurrentStock:  m.CurrentStock,
		MinStockLevel: m.MinStockLevel,
		ExpiryDate:    m.ExpiryDate,
		BatchNumber:   m.BatchNumber,
		ImageURL:      m.ImageURL,
		SupplierID:    m.SupplierID,
		Status:        m.Status,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toMedicineList(meds []*entity.Medicine, page dto.PageRequest) *dto.MedicineListResponse {
	items := make([]dto.MedicineResponse, 0, len(meds))
	for _, m := range meds {
		items = append(items, toMedicineResponse(m))
	}
	return &dto.MedicineListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
}
