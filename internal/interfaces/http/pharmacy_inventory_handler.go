package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/domain"
)

// PharmacyInventoryHandler maneja el inventario de reventa de la farmacia
// autenticada (rutas restringidas al rol PHARMACY).
type PharmacyInventoryHandler struct {
	uc   *inventory.InventoryUseCase
	sync *inventory.SyncUseCase
}

// NewPharmacyInventoryHandler construye el handler.
func NewPharmacyInventoryHandler(uc *inventory.InventoryUseCase, sync *inventory.SyncUseCase) *PharmacyInventoryHandler {
	return &PharmacyInventoryHandler{uc: uc, sync: sync}
}

// List godoc
// @Summary      Listar inventario propio
// @Tags         pharmacy-inventory
// @Security     Bearer
// @Produce      json
// @Param        filter    query  string  false  "low_stock | near_expiry | expired"
// @Param        category  query  string  false  "filtrar por categoría"
// @Param        source    query  string  false  "MANUAL | PURCHASED"
// @Success      200  {array}  dto.InventoryItemResponse
// @Router       /api/pharmacy/inventory [get]
func (h *PharmacyInventoryHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), GetUserID(c), c.Query("filter"), c.Query("category"), c.Query("source"))
	if err != nil {
		return inventoryError(c, err)
	}
	return c.JSON(out)
}

// Stats godoc
// @Summary      Métricas del inventario propio
// @Tags         pharmacy-inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.InventoryStatsResponse
// @Router       /api/pharmacy/inventory/stats [get]
func (h *PharmacyInventoryHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.Context(), GetUserID(c))
	if err != nil {
		return inventoryError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Alta manual de una fila de inventario
// @Tags         pharmacy-inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInventoryItemRequest  true  "datos de la fila"
// @Success      201   {object}  dto.InventoryItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/pharmacy/inventory [post]
func (h *PharmacyInventoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInventoryItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return inventoryError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar una fila propia
// @Tags         pharmacy-inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la fila"
// @Param        body  body  dto.UpdateInventoryItemRequest  true  "campos a actualizar"
// @Success      200   {object}  dto.InventoryItemResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/pharmacy/inventory/{id} [put]
func (h *PharmacyInventoryHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateInventoryItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(c.Context(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return inventoryError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Borrado lógico de una fila propia
// @Tags         pharmacy-inventory
// @Security     Bearer
// @Param        id  path  string  true  "ID de la fila"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/pharmacy/inventory/{id} [delete]
func (h *PharmacyInventoryHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), GetUserID(c), c.Params("id")); err != nil {
		return inventoryError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SyncOrders godoc
// @Summary      Sincronizar órdenes entregadas al inventario
// @Description  Recorre las órdenes DELIVERED de la farmacia y crea o incrementa
//	filas PURCHASED por cada línea.
// @Tags         pharmacy-inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SyncResult
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/pharmacy/inventory/sync-orders [post]
func (h *PharmacyInventoryHandler) SyncOrders(c *fiber.Ctx) error {
	out, err := h.sync.SyncDeliveredOrders(c.Context(), GetUserID(c))
	if err != nil {
		return inventoryError(c, err)
	}
	return c.JSON(out)
}

func inventoryError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "fila de inventario no encontrada"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al inventario"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
