package auth

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-consola/internal/application/dto"
	"github.com/jhoicas/inventario-consola/internal/domain"
	"github.com/jhoicas/inventario-consola/internal/domain/entity"
	"github.com/jhoicas/inventario-consola/internal/domain/repository"
	"github.com/jhoicas/inventario-consola/pkg/jwt"
)

// JWTConfig configuración para leer los tokens del backend. Secret vacío =
// decodificar sin verificar firma.
type JWTConfig struct {
	Secret string
}

// AuthUseCase casos de uso de autenticación: login, registro y usuario actual.
// No guarda sesiones: el backend emite el token y la consola lo reenvía.
type AuthUseCase struct {
	repo   repository.AuthRepository
	jwtCfg JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(repo repository.AuthRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{repo: repo, jwtCfg: jwtCfg}
}

// Login reenvía las credenciales al backend. Si la respuesta no trae el
// usuario, se reconstruye desde los claims del token.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	session, err := uc.repo.Login(ctx, repository.Credentials{NombreUsuario: in.NombreUsuario, Password: in.Password})
	if err != nil {
		return nil, err
	}
	user := session.User
	if user == nil || user.NombreUsuario == "" {
		me, err := uc.Me(session.Token)
		if err != nil {
			return nil, fmt.Errorf("auth: token del backend ilegible: %w", err)
		}
		return &dto.LoginResponse{Token: session.Token, User: *me}, nil
	}
	return &dto.LoginResponse{Token: session.Token, User: toUserResponse(user)}, nil
}

// Register crea el usuario en el backend; el rol por defecto es OPERADOR.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	role := in.Roles
	if role == "" {
		role = entity.RoleOperador
	}
	user, err := uc.repo.Register(ctx, repository.Registration{
		NombreUsuario: in.NombreUsuario,
		Password:      in.Password,
		Correo:        in.Correo,
		Roles:         role,
	})
	if err != nil {
		return nil, err
	}
	out := toUserResponse(user)
	return &out, nil
}

// Me resuelve el usuario a partir del token (claims sub y role).
func (uc *AuthUseCase) Me(token string) (*dto.UserResponse, error) {
	claims, err := jwt.Read(uc.jwtCfg.Secret, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	name := claims.NombreUsuario
	if name == "" {
		name = claims.Subject
	}
	if name == "" {
		return nil, fmt.Errorf("%w: token sin sub", domain.ErrUnauthorized)
	}
	return &dto.UserResponse{NombreUsuario: name, Rol: claims.Role}, nil
}

func toUserResponse(u *entity.User) dto.UserResponse {
	if u == nil {
		return dto.UserResponse{}
	}
	return dto.UserResponse{
		ID:            u.ID,
		NombreUsuario: u.NombreUsuario,
		Correo:        u.Correo,
		Rol:           u.Rol,
	}
}
