package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInsufficientStock  = errors.New("stock insuficiente")

	// Motor de órdenes.
	ErrEmptyCart           = errors.New("el carrito está vacío")
	ErrInvalidStatus       = errors.New("estado de orden inválido")
	ErrOrderFinal          = errors.New("la orden está en un estado final")
	ErrCancelWindowExpired = errors.New("la ventana de cancelación expiró")
	ErrMissingReason       = errors.New("el motivo de cancelación es obligatorio")

	// Carrito.
	ErrCartLimit = errors.New("se superó el límite de compra del carrito")
)
