package inventory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-consola/internal/domain/entity"
	"github.com/jhoicas/inventario-consola/pkg/coerce"
)

// Ventanas y topes por defecto de las gráficas.
const (
	DefaultDashboardWindow = 7
	DefaultReportWindow    = 8
	DefaultTopProducts     = 6

	fallbackProductLabel = "Producto"
)

// DateSeries agregado por día listo para graficar. Keys son fechas ISO
// ascendentes y Labels su versión corta.
type DateSeries struct {
	Keys     []string  `json:"keys"`
	Labels   []string  `json:"labels"`
	Entradas []float64 `json:"entradas"`
	Salidas  []float64 `json:"salidas"`
}

type dayBucket struct {
	entradas float64
	salidas  float64
}

// GroupByDate agrupa por día (UTC) los movimientos con fecha interpretable.
//
// Cada movimiento fechado abre su día; solo los que coinciden con filterType
// ("" = todos) suman en él: 1 por movimiento, o su cantidad si useQuantity.
// Se conservan los últimos window días en orden ascendente.
func GroupByDate(movements []entity.Movement, filterType string, useQuantity bool, window int) DateSeries {
	buckets := make(map[string]*dayBucket)
	for _, m := range movements {
		t, ok := coerce.ParseDate(m.Fecha)
		if !ok {
			continue
		}
		key := coerce.DayKey(t)
		b, exists := buckets[key]
		if !exists {
			b = &dayBucket{}
			buckets[key] = b
		}
		if filterType != "" && !m.IsType(filterType) {
			continue
		}
		amount := 1.0
		if useQuantity {
			amount = m.Cantidad
		}
		switch m.Tipo {
		case entity.MovementTypeEntrada:
			b.entradas += amount
		case entity.MovementTypeSalida:
			b.salidas += amount
		}
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if window > 0 && len(keys) > window {
		keys = keys[len(keys)-window:]
	}

	out := DateSeries{
		Keys:     keys,
		Labels:   make([]string, len(keys)),
		Entradas: make([]float64, len(keys)),
		Salidas:  make([]float64, len(keys)),
	}
	for i, k := range keys {
		out.Labels[i] = coerce.FormatShortDate(k)
		out.Entradas[i] = buckets[k].entradas
		out.Salidas[i] = buckets[k].salidas
	}
	return out
}

// ProductTotal cantidad acumulada de un producto.
type ProductTotal struct {
	Producto string  `json:"producto"`
	Cantidad float64 `json:"cantidad"`
}

// ProductLabel nombre visible del producto de un movimiento.
func ProductLabel(m entity.Movement) string {
	candidates := []string{m.ProductoNombre}
	if m.Producto != nil {
		candidates = []string{m.Producto.Nombre, m.ProductoNombre, m.Producto.SKU, m.Producto.Codigo}
	}
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return fallbackProductLabel
}

// RankByProduct suma la cantidad por producto para los movimientos del tipo
// dado y devuelve los top de mayor a menor. Los empates conservan el orden de
// aparición.
func RankByProduct(movements []entity.Movement, tipo string, top int) []ProductTotal {
	index := make(map[string]int)
	totals := make([]ProductTotal, 0)
	for _, m := range movements {
		if !m.IsType(tipo) {
			continue
		}
		label := ProductLabel(m)
		i, ok := index[label]
		if !ok {
			i = len(totals)
			index[label] = i
			totals = append(totals, ProductTotal{Producto: label})
		}
		totals[i].Cantidad += m.Cantidad
	}
	sort.SliceStable(totals, func(a, b int) bool {
		return totals[a].Cantidad > totals[b].Cantidad
	})
	if top > 0 && len(totals) > top {
		totals = totals[:top]
	}
	return totals
}

// TypeTotals conteo de movimientos por tipo.
type TypeTotals struct {
	Entradas int `json:"entradas"`
	Salidas  int `json:"salidas"`
}

// CountByType cuenta entradas y salidas; otros tipos se ignoran.
func CountByType(movements []entity.Movement) TypeTotals {
	var t TypeTotals
	for _, m := range movements {
		switch m.Tipo {
		case entity.MovementTypeEntrada:
			t.Entradas++
		case entity.MovementTypeSalida:
			t.Salidas++
		}
	}
	return t
}

// CountOnDay cuenta los movimientos cuya fecha cae en el día ISO dado.
func CountOnDay(movements []entity.Movement, day string) int {
	n := 0
	for _, m := range movements {
		if t, ok := coerce.ParseDate(m.Fecha); ok && coerce.DayKey(t) == day {
			n++
		}
	}
	return n
}

// InventorySummary cabecera del reporte de inventario.
type InventorySummary struct {
	TotalProductos int             `json:"totalProductos"`
	ValorTotal     decimal.Decimal `json:"valorTotal"`
	StockBajo      int             `json:"stockBajo"` // agotados + bajo el mínimo
	Categorias     int             `json:"categorias"`
}

// Summarize calcula el valor del inventario (stock × precio unitario), los
// productos en riesgo y las categorías distintas.
func Summarize(products []entity.Product) InventorySummary {
	s := InventorySummary{TotalProductos: len(products), ValorTotal: decimal.Zero}
	categorias := make(map[string]struct{})
	for _, p := range products {
		if p.Categoria != "" {
			categorias[p.Categoria] = struct{}{}
		}
		if Bucket(p) != StatusDisponible {
			s.StockBajo++
		}
		s.ValorTotal = s.ValorTotal.Add(decimal.NewFromFloat(p.Stock).Mul(p.PrecioUnitario))
	}
	s.Categorias = len(categorias)
	s.ValorTotal = s.ValorTotal.Round(2)
	return s
}
