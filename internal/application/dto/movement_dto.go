package dto

import "github.com/jhoicas/inventario-consola/internal/domain/entity"

// CreateMovementRequest entrada para registrar una entrada o salida.
type CreateMovementRequest struct {
	Tipo        string  `json:"tipo" validate:"required,oneof=ENTRADA SALIDA"`
	ProductoID  string  `json:"productoId" validate:"required"`
	Cantidad    float64 `json:"cantidad" validate:"gte=1"`
	Observacion string  `json:"observacion" validate:"omitempty,max=500"`
}

// MovementListResponse página de movimientos o, con all=true, el conjunto
// acumulado. Completo es false si el recorrido se cortó por un error.
type MovementListResponse struct {
	Items    []entity.Movement `json:"items"`
	Page     *PageResponse     `json:"page,omitempty"`
	Completo bool              `json:"completo"`
}
