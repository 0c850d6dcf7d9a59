package inventory

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

// nearExpiryWindow días hacia adelante para considerar "próximo a vencer".
const nearExpiryWindow = 30 * 24 * time.Hour

// InventoryUseCase CRUD del inventario propio de una farmacia (filas MANUAL
// y lectura de las PURCHASED que produce el sync).
type InventoryUseCase struct {
	invRepo repository.PharmacyInventoryRepository
}

// NewInventoryUseCase construye el caso de uso.
func NewInventoryUseCase(invRepo repository.PharmacyInventoryRepository) *InventoryUseCase {
	return &InventoryUseCase{invRepo: invRepo}
}

// List lista el inventario activo de la farmacia, con filtros opcionales:
// filter (low_stock, near_expiry, expired), categoría u origen.
func (uc *InventoryUseCase) List(ctx context.Context, pharmacyID, filter, category, source string) ([]dto.InventoryItemResponse, error) {
	var (
		rows []*entity.PharmacyInventory
		err  error
	)
	now := time.Now()
	switch {
	case filter == "low_stock":
		rows, err = uc.invRepo.ListLowStock(pharmacyID)
	case filter == "near_expiry":
		rows, err = uc.invRepo.ListExpiring(pharmacyID, now, now.Add(nearExpiryWindow))
	case filter == "expired":
		rows, err = uc.invRepo.ListExpired(pharmacyID, now)
	case category != "":
		rows, err = uc.invRepo.ListByPharmacyAndCategory(pharmacyID, category)
	case source != "":
		src := strings.ToUpper(source)
		if src != entity.SourceManual && src != entity.SourcePurchased {
			return nil, domain.ErrInvalidInput
		}
		rows, err = uc.invRepo.ListByPharmacyAndSource(pharmacyID, src)
	default:
		rows, err = uc.invRepo.ListActiveByPharmacy(pharmacyID)
	}
	if err != nil {
		return nil, err
	}
	out := make([]dto.InventoryItemResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, toInventoryResponse(row))
	}
	return out, nil
}

// Stats métricas agregadas del inventario de la farmacia.
func (uc *InventoryUseCase) Stats(ctx context.Context, pharmacyID string) (*dto.InventoryStatsResponse, error) {
	total, err := uc.invRepo.CountActiveByPharmacy(pharmacyID)
	if err != nil {
		return nil, err
	}
	low, err := uc.invRepo.ListLowStock(pharmacyID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	near, err := uc.invRepo.ListExpiring(pharmacyID, now, now.Add(nearExpiryWindow))
	if err != nil {
		return nil, err
	}
	expired, err := uc.invRepo.ListExpired(pharmacyID, now)
	if err != nil {
		return nil, err
	}
	return &dto.InventoryStatsResponse{
		TotalMedicines: total,
		LowStock:       len(low),
		NearExpiry:     len(near),
		Expired:        len(expired),
	}, nil
}

// Create alta manual: la fila queda con source MANUAL y activa.
func (uc *InventoryUseCase) Create(ctx context.Context, pharmacyID string, in dto.CreateInventoryItemRequest) (*dto.InventoryItemResponse, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Category) == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.CurrentStock < 0 || in.MinStockLevel < 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	minStock := in.MinStockLevel
	if minStock == 0 {
		minStock = defaultMinStockLevel
	}
	row := &entity.PharmacyInventory{
		ID:            uuid.New().String(),
		PharmacyID:    pharmacyID,
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
		Source:        entity.SourceManual,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.invRepo.Create(row); err != nil {
		return nil, err
	}
	resp := toInventoryResponse(row)
	return &resp, nil
}

// Update actualización parcial; solo el dueño puede modificar su fila.
func (uc *InventoryUseCase) Update(ctx context.Context, pharmacyID, id string, in dto.UpdateInventoryItemRequest) (*dto.InventoryItemResponse, error) {
	row, err := uc.invRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, domain.ErrNotFound
	}
	if row.PharmacyID != pharmacyID {
		return nil, domain.ErrForbidden
	}

	if in.Name != nil {
		row.Name = *in.Name
	}
	if in.Category != nil {
		row.Category = *in.Category
	}
	if in.GenericName != nil {
		row.GenericName = *in.GenericName
	}
	if in.Manufacturer != nil {
		row.Manufacturer = *in.Manufacturer
	}
	if in.Description != nil {
		row.Description = *in.Description
	}
	if in.UnitPrice != nil {
		row.UnitPrice = *in.UnitPrice
	}
	if in.CurrentStock != nil {
		if *in.CurrentStock < 0 {
			return nil, domain.ErrInvalidInput
		}
		row.CurrentStock = *in.CurrentStock
	}
	if in.MinStockLevel != nil {
		if *in.MinStockLevel < 0 {
			return nil, domain.ErrInvalidInput
		}
		row.MinStockLevel = *in.MinStockLevel
	}
	if in.ExpiryDate != nil {
		row.ExpiryDate = in.ExpiryDate
	}
	if in.BatchNumber != nil {
		row.BatchNumber = in.BatchNumber
	}
	if in.ImageURL != nil {
		row.ImageURL = *in.ImageURL
	}
	row.UpdatedAt = time.Now()
	if err := uc.invRepo.Update(row); err != nil {
		return nil, err
	}
	resp := toInventoryResponse(row)
	return &resp, nil
}

// Delete borrado lógico (la fila queda inactiva y fuera de los listados).
func (uc *InventoryUseCase) Delete(ctx context.Context, pharmacyID, id string) error {
	row, err := uc.invRepo.GetByID(id)
	if err != nil {
		return err
	}
	if row == nil {
		return domain.ErrNotFound
	}
	if row.PharmacyID != pharmacyID {
		return domain.ErrForbidden
	}
	return uc.invRepo.Deactivate(id)
}

func toInventoryResponse(row *entity.PharmacyInventory) dto.InventoryItemResponse {
	return dto.InventoryItemResponse{
		ID:            row.ID,
		Name:          row.Name,
		Category:      row.Category,
		GenericName:   row.GenericName,
		Manufacturer:  row.Manufacturer,
		Description:   row.Description,
		UnitPrice:     row.UnitPrice,
		CurrentStock:  row.CurrentStock,
		MinStockLevel: row.MinStockLevel,
		ExpiryDate:    row.ExpiryDate,
		BatchNumber:   row.BatchNumber,
		ImageURL:      row.ImageURL,
		Source:        row.Source,
		OrderID:       row.OrderID,
		OrderItemID:   row.OrderItemID,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}
