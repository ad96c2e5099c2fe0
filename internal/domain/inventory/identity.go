// Package inventory contiene los servicios de dominio puros del inventario:
// identidad de movimientos, distribución de stock y agregaciones para gráficas.
package inventory

import "github.com/jhoicas/inventario-consola/internal/domain/entity"

// MovementKey deriva la clave de deduplicación de un movimiento.
//
// Prioridad: id → codigo → productoId+fecha+tipo. Si no se puede derivar
// devuelve false y el movimiento se trata siempre como nuevo.
func MovementKey(m entity.Movement) (string, bool) {
	if m.ID != nil {
		return "id:" + *m.ID, true
	}
	if m.Codigo != nil {
		return "codigo:" + *m.Codigo, true
	}
	if fecha := m.FechaTexto(); m.ProductoID != nil && fecha != "" {
		return "ref:" + *m.ProductoID + "-" + fecha + "-" + m.Tipo, true
	}
	return "", false
}
