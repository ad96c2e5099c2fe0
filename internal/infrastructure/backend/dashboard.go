package backend

import (
	"context"
	"net/http"

	"github.com/jhoicas/inventario-consola/internal/domain/entity"
	"github.com/jhoicas/inventario-consola/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardClient)(nil)

// DashboardClient adaptador de /dashboard/resumen.
type DashboardClient struct{ c *Client }

// NewDashboardClient construye el adaptador.
func NewDashboardClient(c *Client) *DashboardClient { return &DashboardClient{c: c} }

// Resumen GET /dashboard/resumen. Un cuerpo vacío es un resumen sin campos.
func (d *DashboardClient) Resumen(ctx context.Context) (*entity.DashboardResumen, error) {
	resp, err := d.c.do(ctx, request{op: "dashboard.resumen", method: http.MethodGet, path: "/dashboard/resumen"})
	if err != nil {
		return nil, err
	}
	var out entity.DashboardResumen
	if _, err := decodeJSON("dashboard.resumen", resp.body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
