package repository

import "github.com/jhoicas/Farmacia-api/internal/domain/entity"

// UserRepository define el puerto de persistencia de usuarios.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
	// ListAdmins devuelve los administradores (destinatarios de alertas de órdenes).
	ListAdmins() ([]*entity.User, error)
	SetVerified(id string) error
}
