package auth

import (
	"context"

	"github.com/jhoicas/inventario-consola/internal/application/ports"
)

var _ ports.CredentialProvider = ContextCredentials{}

// ContextCredentials toma el token del contexto de la petición. Las recargas
// en segundo plano ponen allí el token de servicio.
type ContextCredentials struct{}

// Token devuelve el token del contexto si existe.
func (ContextCredentials) Token(ctx context.Context) (string, bool) {
	return ports.TokenFrom(ctx)
}
