package entity

import "time"

// Roles válidos para User. Se persisten tal cual en la columna role.
const (
	RoleAdmin    = "ADMIN"
	RoleSupplier = "SUPPLIER"
	RolePharmacy = "PHARMACY"
	RoleUser     = "USER"
)

// User representa un usuario del marketplace: comprador general, farmacia,
// proveedor o administrador.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	FullName     string
	Phone        string
	Role         string // ADMIN, SUPPLIER, PHARMACY, USER
	// Datos de licencia: solo aplican a farmacias registradas.
	LicenseNumber string
	Verified      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsValidRole indica si el rol es uno de los aceptados en registro.
func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleSupplier, RolePharmacy, RoleUser:
		return true
	}
	return false
}
