package order

import (
	"context"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// GetOrder obtiene una orden con sus líneas. Un admin puede ver cualquiera;
// el resto solo las propias.
func (uc *OrderUseCase) GetOrder(ctx context.Context, orderID, actorID, actorRole string) (*dto.OrderResponse, error) {
	ord, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, domain.ErrNotFound
	}
	if actorRole != entity.RoleAdmin && ord.UserID != actorID {
		return nil, domain.ErrForbidden
	}
	items, err := uc.orderRepo.ItemsByOrder(orderID)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(ord, items), nil
}

// ListByBuyer historial de órdenes del comprador (más recientes primero).
func (uc *OrderUseCase) ListByBuyer(ctx context.Context, buyerID string, page dto.PageRequest) (*dto.OrderListResponse, error) {
	page.DefaultPage()
	orders, err := uc.orderRepo.ListByUser(buyerID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toOrderList(orders, page), nil
}

// ListBySupplier órdenes que contienen al menos un medicamento del proveedor.
func (uc *OrderUseCase) ListBySupplier(ctx context.Context, supplierID string, page dto.PageRequest) (*dto.OrderListResponse, error) {
	page.DefaultPage()
	orders, err := uc.orderRepo.ListBySupplier(supplierID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toOrderList(orders, page), nil
}

// GetOrderForSupplier detalle de una orden visto por un proveedor: solo las
// líneas que le pertenecen. Sin líneas propias no hay acceso.
func (uc *OrderUseCase) GetOrderForSupplier(ctx context.Context, orderID, supplierID string) (*dto.OrderResponse, error) {
	ord, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.orderRepo.ItemsByOrderAndSupplier(orderID, supplierID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domain.ErrForbidden
	}
	return toOrderResponse(ord, items), nil
}

func toOrderList(orders []*entity.Order, page dto.PageRequest) *dto.OrderListResponse {
	resp := &dto.OrderListResponse{
		Items: make([]dto.OrderResponse, 0, len(orders)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(orders)},
	}
	for _, ord := range orders {
		resp.Items = append(resp.Items, *toOrderResponse(ord, nil))
	}
	return resp
}
