package backend

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jhoicas/inventario-consola/internal/domain"
	"github.com/jhoicas/inventario-consola/internal/domain/entity"
	"github.com/jhoicas/inventario-consola/internal/domain/repository"
)

var _ repository.AuthRepository = (*AuthClient)(nil)

// AuthClient adaptador de /auth.
type AuthClient struct{ c *Client }

// NewAuthClient construye el adaptador.
func NewAuthClient(c *Client) *AuthClient { return &AuthClient{c: c} }

// Login POST /auth/login. Una respuesta sin token se trata como no autorizada.
func (a *AuthClient) Login(ctx context.Context, in repository.Credentials) (*entity.Session, error) {
	resp, err := a.c.do(ctx, request{op: "auth.login", method: http.MethodPost, path: "/auth/login", body: in})
	if err != nil {
		return nil, err
	}
	var out entity.Session
	if _, err := decodeJSON("auth.login", resp.body, &out); err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, domain.ErrUnauthorized
	}
	return &out, nil
}

// Register POST /auth/registro. El backend puede responder el usuario creado o
// solo un texto; en ese caso se devuelve lo enviado.
func (a *AuthClient) Register(ctx context.Context, in repository.Registration) (*entity.User, error) {
	resp, err := a.c.do(ctx, request{op: "auth.registro", method: http.MethodPost, path: "/auth/registro", body: in})
	if err != nil {
		return nil, err
	}
	out := entity.User{NombreUsuario: in.NombreUsuario, Correo: in.Correo, Rol: in.Roles}
	var created entity.User
	if json.Unmarshal(resp.body, &created) == nil && created.NombreUsuario != "" {
		out = created
	}
	return &out, nil
}
