package repository

import (
	"context"

	"github.com/jhoicas/inventario-consola/internal/domain/entity"
)

// DashboardRepository puerto hacia /dashboard/resumen del backend.
type DashboardRepository interface {
	Resumen(ctx context.Context) (*entity.DashboardResumen, error)
}
