package dto

import "github.com/jhoicas/inventario-consola/internal/domain/entity"

// AlertListResponse alertas derivadas del stock más las recibidas por push.
type AlertListResponse struct {
	Items   []entity.Alert `json:"items"`
	Activas int            `json:"activas"`
}
