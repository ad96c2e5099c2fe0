package inventory

import (
	"strings"

	"github.com/jhoicas/inventario-consola/internal/domain/entity"
)

// UnknownProductName nombre mostrado cuando el producto de un movimiento no existe.
const UnknownProductName = "—"

// ResolveProducts completa el producto de los movimientos que llegan sin él o
// solo con su id, buscándolo en products. Si no aparece se usa UnknownProductName.
// Devuelve una copia; la entrada no se modifica.
func ResolveProducts(movements []entity.Movement, products []entity.Product) []entity.Movement {
	byID := make(map[string]entity.Product, len(products))
	for _, p := range products {
		if p.ID != "" {
			byID[p.ID] = p
		}
	}
	out := make([]entity.Movement, len(movements))
	for i, m := range movements {
		out[i] = m
		if m.Producto != nil && m.Producto.Nombre != "" {
			continue
		}
		var ids []string
		if m.ProductoID != nil {
			ids = append(ids, *m.ProductoID)
		}
		if m.Producto != nil && m.Producto.ID != "" {
			ids = append(ids, m.Producto.ID)
		}
		ref := &entity.ProductRef{Nombre: UnknownProductName}
		for _, id := range ids {
			if p, ok := byID[id]; ok {
				ref = &entity.ProductRef{ID: p.ID, Nombre: p.Nombre, SKU: p.SKU}
				break
			}
		}
		out[i].Producto = ref
	}
	return out
}

// FilterMovements deja los movimientos cuyo producto contiene el término (sin
// tildes ni mayúsculas). Un término vacío no filtra.
func FilterMovements(movements []entity.Movement, term string) []entity.Movement {
	term = fold(term)
	if term == "" {
		return movements
	}
	out := make([]entity.Movement, 0, len(movements))
	for _, m := range movements {
		if strings.Contains(fold(ProductLabel(m)), term) {
			out = append(out, m)
		}
	}
	return out
}
