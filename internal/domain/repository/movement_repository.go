package repository

import (
	"context"

	"github.com/jhoicas/inventario-consola/internal/domain/entity"
)

// NewMovement datos para registrar un movimiento en el backend.
type NewMovement struct {
	Tipo        string  `json:"tipo"`
	ProductoID  string  `json:"productoId"`
	Cantidad    float64 `json:"cantidad"`
	Observacion string  `json:"observacion,omitempty"`
}

// MovementRepository puerto hacia /movimientos del backend (DIP).
type MovementRepository interface {
	// ListPage pide una página (base cero). La respuesta puede ser un arreglo
	// desnudo o un sobre paginado; ambas formas se resuelven en entity.Page.
	ListPage(ctx context.Context, page, size int) (entity.Page[entity.Movement], error)
	Create(ctx context.Context, in NewMovement) (*entity.Movement, error)
}
