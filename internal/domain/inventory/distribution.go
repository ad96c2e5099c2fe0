package inventory

import "github.com/jhoicas/inventario-consola/internal/domain/entity"

// Estados de stock mostrados en el listado de inventario.
const (
	StatusAgotado    = "Agotado"
	StatusBajo       = "Bajo"
	StatusDisponible = "Disponible"
	StatusMaximo     = "En Stock Máximo"
)

// InventoryDistribution conteo de productos por salud de stock. Se recalcula
// completo en cada carga; los cubos son excluyentes.
type InventoryDistribution struct {
	Disponibles int `json:"disponibles"`
	StockBajo   int `json:"stockBajo"`
	Agotados    int `json:"agotados"`
}

// Bucket clasifica un producto: agotado si stock <= 0; bajo si hay umbral y
// stock < umbral; disponible en otro caso. El orden de evaluación es fijo.
func Bucket(p entity.Product) string {
	switch {
	case p.Stock <= 0:
		return StatusAgotado
	case p.Minimo > 0 && p.Stock < p.Minimo:
		return StatusBajo
	default:
		return StatusDisponible
	}
}

// Distribution agrupa los productos en los tres cubos de salud de stock.
func Distribution(products []entity.Product) InventoryDistribution {
	var d InventoryDistribution
	for _, p := range products {
		switch Bucket(p) {
		case StatusAgotado:
			d.Agotados++
		case StatusBajo:
			d.StockBajo++
		default:
			d.Disponibles++
		}
	}
	return d
}

// StockStatus estado de un producto para el listado, distinguiendo además el
// producto que alcanzó su stock máximo.
func StockStatus(p entity.Product) string {
	switch b := Bucket(p); b {
	case StatusDisponible:
		if p.StockMaximo > 0 && p.Stock >= p.StockMaximo {
			return StatusMaximo
		}
		return b
	default:
		return b
	}
}
