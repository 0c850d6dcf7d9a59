package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// Topes de compra para compradores con rol USER. Las farmacias compran para
// reabastecerse y no tienen tope.
const (
	maxQuantityPerMedicineUser = 5
	maxTotalItemsUser          = 20
)

// CartUseCase agrega la intención de compra pendiente de un comprador.
// El stock se verifica aquí de forma orientativa; la validación definitiva
// ocurre en el checkout, bajo bloqueo de fila.
type CartUseCase struct {
	cartRepo     repository.CartRepository
	medicineRepo repository.MedicineRepository
}

// NewCartUseCase construye el caso de uso.
func NewCartUseCase(cartRepo repository.CartRepository, medicineRepo repository.MedicineRepository) *CartUseCase {
	return &CartUseCase{cartRepo: cartRepo, medicineRepo: medicineRepo}
}

// Add añade un medicamento al carrito; si ya existe la línea, acumula.
func (uc *CartUseCase) Add(ctx context.Context, userID, role string, in dto.AddToCartRequest) (*dto.CartResponse, error) {
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	med, err := uc.medicineRepo.GetByID(in.MedicineID)
	if err != nil {
		return nil, err
	}
	if med == nil {
		return nil, domain.ErrNotFound
	}

	existing, err := uc.cartRepo.GetByUserAndMedicine(userID, in.MedicineID)
	if err != nil {
		return nil, err
	}
	newQty := in.Quantity
	if existing != nil {
		newQty += existing.Quantity
	}

	if med.CurrentStock < newQty {
		return nil, fmt.Errorf("%w: %s (disponible %d, solicitado %d)",
			domain.ErrInsufficientStock, med.Name, med.CurrentStock, newQty)
	}
	if err := uc.checkCaps(userID, role, in.MedicineID, newQty); err != nil {
		return nil, err
	}

	if existing != nil {
		if err := uc.cartRepo.UpdateQuantity(existing.ID, newQty); err != nil {
			return nil, err
		}
	} else {
		now := time.Now()
		item := &entity.CartItem{
			ID:         uuid.New().String(),
			UserID:     userID,
			MedicineID: in.MedicineID,
			Quantity:   in.Quantity,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := uc.cartRepo.Create(item); err != nil {
			return nil, err
		}
	}
	return uc.Get(ctx, userID)
}

// UpdateItem fija la cantidad de una línea existente.
func (uc *CartUseCase) UpdateItem(ctx context.Context, userID, role, itemID string, in dto.UpdateCartItemRequest) (*dto.CartResponse, error) {
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	items, err := uc.cartRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	var target *entity.CartItem
	for _, it := range items {
		if it.ID == itemID {
			target = it
			break
		}
	}
	if target == nil {
		return nil, domain.ErrNotFound
	}

	med, err := uc.medicineRepo.GetByID(target.MedicineID)
	if err != nil {
		return nil, err
	}
	if med == nil {
		return nil, domain.ErrNotFound
	}
	if med.CurrentStock < in.Quantity {
		return nil, fmt.Errorf("%w: %s (disponible %d, solicitado %d)",
			domain.ErrInsufficientStock, med.Name, med.CurrentStock, in.Quantity)
	}

	if role == entity.RoleUser {
		if in.Quantity > maxQuantityPerMedicineUser {
			return nil, fmt.Errorf("%w: máximo %d unidades por medicamento",
				domain.ErrCartLimit, maxQuantityPerMedicineUser)
		}
		total := 0
		for _, it := range items {
			if it.ID == itemID {
				total += in.Quantity
			} else {
				total += it.Quantity
			}
		}
		if total > maxTotalItemsUser {
			return nil, fmt.Errorf("%w: máximo %d unidades en total",
				domain.ErrCartLimit, maxTotalItemsUser)
		}
	}

	if err := uc.cartRepo.UpdateQuantity(itemID, in.Quantity); err != nil {
		return nil, err
	}
	return uc.Get(ctx, userID)
}

// RemoveItem quita una línea del carrito del comprador.
func (uc *CartUseCase) RemoveItem(ctx context.Context, userID, itemID string) error {
	items, err := uc.cartRepo.ListByUser(userID)
	if err != nil {
		return err
	}
	for _, it := range items {
		if it.ID == itemID {
			return uc.cartRepo.Delete(itemID)
		}
	}
	return domain.ErrNotFound
}

// Clear vacía el carrito del comprador.
func (uc *CartUseCase) Clear(ctx context.Context, userID string) error {
	return uc.cartRepo.ClearByUser(userID)
}

// Get devuelve el carrito con los precios actuales de catálogo.
func (uc *CartUseCase) Get(ctx context.Context, userID string) (*dto.CartResponse, error) {
	items, err := uc.cartRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	resp := &dto.CartResponse{
		Items:    make([]dto.CartItemResponse, 0, len(items)),
		Subtotal: decimal.Zero,
	}
	for _, it := range items {
		med, err := uc.medicineRepo.GetByID(it.MedicineID)
		if err != nil {
			return nil, err
		}
		if med == nil {
			// El medicamento fue eliminado del catálogo; se omite la línea.
			continue
		}
		sub := med.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
		resp.Items = append(resp.Items, dto.CartItemResponse{
			ID:           it.ID,
			MedicineID:   it.MedicineID,
			MedicineName: med.Name,
			UnitPrice:    med.UnitPrice,
			Quantity:     it.Quantity,
			Subtotal:     sub,
			CurrentStock: med.CurrentStock,
		})
		resp.Subtotal = resp.Subtotal.Add(sub)
	}
	return resp, nil
}

// checkCaps aplica los topes de compra del rol USER sobre la cantidad
// resultante de la línea y el total del carrito.
func (uc *CartUseCase) checkCaps(userID, role, medicineID string, newLineQty int) error {
	if role != entity.RoleUser {
		return nil
	}
	if newLineQty > maxQuantityPerMedicineUser {
		return fmt.Errorf("%w: máximo %d unidades por medicamento",
			domain.ErrCartLimit, maxQuantityPerMedicineUser)
	}
	total, err := uc.cartRepo.TotalQuantityByUser(userID)
	if err != nil {
		return err
	}
	existing, err := uc.cartRepo.GetByUserAndMedicine(userID, medicineID)
	if err != nil {
		return err
	}
	if existing != nil {
		total -= existing.Quantity
	}
	if total+newLineQty > maxTotalItemsUser {
		return fmt.Errorf("%w: máximo %d unidades en total",
			domain.ErrCartLimit, maxTotalItemsUser)
	}
	return nil
}
