package repository

import (
	"context"

	"github.com/jhoicas/inventario-consola/internal/domain/entity"
)

// Credentials usuario y contraseña tal como los espera el backend.
type Credentials struct {
	NombreUsuario string `json:"nombreUsuario"`
	Password      string `json:"password"`
}

// Registration alta de usuario en el backend. Roles lleva un único rol
// (ADMIN, SUPERVISOR u OPERADOR).
type Registration struct {
	NombreUsuario string `json:"nombreUsuario"`
	Password      string `json:"password"`
	Correo        string `json:"correo,omitempty"`
	Roles         string `json:"roles"`
}

// AuthRepository puerto hacia /auth del backend. El backend es quien emite y
// firma los tokens; aquí no se guardan credenciales.
type AuthRepository interface {
	Login(ctx context.Context, in Credentials) (*entity.Session, error)
	Register(ctx context.Context, in Registration) (*entity.User, error)
}
