// Package dashboard arma el tablero de la consola: combina el resumen del
// backend con valores recalculados sobre productos y movimientos, y mantiene
// publicado el último tablero ante eventos push.
package dashboard

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-consola/internal/application/dto"
	"github.com/jhoicas/inventario-consola/internal/application/pagination"
	"github.com/jhoicas/inventario-consola/internal/domain/entity"
	"github.com/jhoicas/inventario-consola/internal/domain/inventory"
	"github.com/jhoicas/inventario-consola/internal/domain/repository"
	"github.com/jhoicas/inventario-consola/pkg/coerce"
)

// Collector reúne el conjunto completo de movimientos.
type Collector interface {
	Collect(ctx context.Context) pagination.Result[entity.Movement]
}

// UseCase carga las tres fuentes del tablero en paralelo y lo arma.
type UseCase struct {
	summary   repository.DashboardRepository
	products  repository.ProductRepository
	movements Collector
	log       zerolog.Logger
	now       func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(summary repository.DashboardRepository, products repository.ProductRepository, movements Collector, log zerolog.Logger) *UseCase {
	return &UseCase{summary: summary, products: products, movements: movements, log: log, now: time.Now}
}

// Sources datos crudos del tablero. Resumen nil = el backend no respondió.
type Sources struct {
	Resumen   *entity.DashboardResumen
	Products  []entity.Product
	Movements pagination.Result[entity.Movement]
	Degraded  bool
}

// Load nunca falla: cada fuente que no carga se reemplaza por vacío y se
// registra en el log.
//
// Tres llamadas en paralelo:
//  1. /dashboard/resumen
//  2. /productos
//  3. /movimientos (todas las páginas)
func (uc *UseCase) Load(ctx context.Context) *dto.DashboardDTO {
	type resumenResult struct {
		r   *entity.DashboardResumen
		err error
	}
	type productsResult struct {
		p   []entity.Product
		err error
	}

	resumenCh := make(chan resumenResult, 1)
	productsCh := make(chan productsResult, 1)
	movementsCh := make(chan pagination.Result[entity.Movement], 1)

	go func() {
		r, err := uc.summary.Resumen(ctx)
		resumenCh <- resumenResult{r, err}
	}()
	go func() {
		p, err := uc.products.List(ctx)
		productsCh <- productsResult{p, err}
	}()
	go func() {
		movementsCh <- uc.movements.Collect(ctx)
	}()

	resumen := <-resumenCh
	products := <-productsCh
	movements := <-movementsCh

	src := Sources{Resumen: resumen.r, Products: products.p, Movements: movements}
	if resumen.err != nil {
		uc.log.Warn().Err(resumen.err).Msg("dashboard: resumen no disponible")
		src.Resumen, src.Degraded = nil, true
	}
	if products.err != nil {
		uc.log.Error().Err(products.err).Msg("dashboard: productos no disponibles")
		src.Products, src.Degraded = nil, true
	}
	if movements.Err != nil {
		uc.log.Warn().Err(movements.Err).Int("items", len(movements.Items)).Msg("dashboard: movimientos incompletos")
		src.Degraded = true
	}
	return Assemble(src, uc.now())
}

// Assemble arma el tablero. Reglas:
//   - totalProductos y movimientos: los del backend si vienen; si no, los conteos locales.
//   - movimientosHoy: movimientos cuya fecha cae hoy (UTC). Si el recorrido falló
//     sin traer nada se usa el valor del backend.
//   - alertasActivas: máximo entre stock bajo calculado y el valor del backend.
//   - disponibles, stock bajo y agotados: siempre calculados.
func Assemble(src Sources, now time.Time) *dto.DashboardDTO {
	r := src.Resumen
	if r == nil {
		r = &entity.DashboardResumen{}
	}
	movs := src.Movements.Items
	dist := inventory.Distribution(src.Products)

	hoy := inventory.CountOnDay(movs, coerce.DayKey(now))
	if len(movs) == 0 && src.Movements.Err != nil && r.MovimientosHoy != nil {
		hoy = *r.MovimientosHoy
	}
	alertas := dist.StockBajo
	if r.AlertasActivas != nil && *r.AlertasActivas > alertas {
		alertas = *r.AlertasActivas
	}

	out := &dto.DashboardDTO{
		TotalProductos:       orDefault(r.TotalProductos, len(src.Products)),
		Movimientos:          orDefault(r.Movimientos, len(movs)),
		MovimientosHoy:       hoy,
		AlertasActivas:       alertas,
		ProductosDisponibles: dist.Disponibles,
		StockBajo:            dist.StockBajo,
		ProductosAgotados:    dist.Agotados,
		Completo:             !src.Degraded && src.Movements.Err == nil,
		GeneradoEn:           now.UTC(),
	}

	actividad := inventory.GroupByDate(movs, "", false, inventory.DefaultDashboardWindow)
	out.Charts = dto.DashboardCharts{
		Totales: dto.ChartData{
			Type:   "bar",
			Labels: []string{"Productos", "Movimientos Hoy", "Alertas"},
			Datasets: []dto.ChartDataset{{
				Label: "Totales",
				Data:  []float64{float64(out.TotalProductos), float64(out.MovimientosHoy), float64(out.AlertasActivas)},
			}},
		},
		Distribucion: dto.ChartData{
			Type:   "pie",
			Labels: []string{"Disponibles", "Stock Bajo", "Agotados"},
			Datasets: []dto.ChartDataset{{
				Label: "Inventario",
				Data:  []float64{float64(dist.Disponibles), float64(dist.StockBajo), float64(dist.Agotados)},
			}},
		},
		Actividad: dto.ChartData{
			Type:   "line",
			Labels: actividad.Labels,
			Datasets: []dto.ChartDataset{
				{Label: "Entradas", Data: actividad.Entradas},
				{Label: "Salidas", Data: actividad.Salidas},
			},
		},
	}
	return out
}

func orDefault(v *int, def int) int {
	if v != nil {
		return *v
	}
	return def
}
