package backend

import (
	"context"
	"net/http"

	"github.com/jhoicas/inventario-consola/internal/domain/entity"
	"github.com/jhoicas/inventario-consola/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementClient)(nil)

// MovementClient adaptador de /movimientos.
type MovementClient struct{ c *Client }

// NewMovementClient construye el adaptador.
func NewMovementClient(c *Client) *MovementClient { return &MovementClient{c: c} }

// ListPage GET /movimientos?page&size. La forma de la respuesta (arreglo o
// sobre) se resuelve en entity.DecodePage.
func (m *MovementClient) ListPage(ctx context.Context, page, size int) (entity.Page[entity.Movement], error) {
	resp, err := m.c.do(ctx, request{op: "movimientos.page", method: http.MethodGet, path: "/movimientos", query: pageQuery(page, size)})
	if err != nil {
		return entity.Page[entity.Movement]{}, err
	}
	return entity.DecodePage[entity.Movement](resp.body)
}

// Create POST /movimientos.
func (m *MovementClient) Create(ctx context.Context, in repository.NewMovement) (*entity.Movement, error) {
	resp, err := m.c.do(ctx, request{op: "movimientos.create", method: http.MethodPost, path: "/movimientos", body: in})
	if err != nil {
		return nil, err
	}
	var out entity.Movement
	ok, err := decodeJSON("movimientos.create", resp.body, &out)
	if err != nil {
		return nil, err
	}
	if !ok {
		pid := in.ProductoID
		out = entity.Movement{Tipo: in.Tipo, ProductoID: &pid, Cantidad: in.Cantidad, Observacion: in.Observacion}
	}
	return &out, nil
}
