package ports

import "context"

// CredentialProvider entrega el token con el que se llama al backend. Los
// adaptadores salientes lo consultan en cada petición; si no hay token la
// petición sale sin cabecera Authorization.
type CredentialProvider interface {
	Token(ctx context.Context) (string, bool)
}
