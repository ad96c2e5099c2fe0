// Package reports arma la vista de reportes (gráficas sobre el conjunto
// completo de movimientos y resumen del inventario) y expone las descargas
// PDF/Excel del backend.
package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-consola/internal/application/dto"
	"github.com/jhoicas/inventario-consola/internal/application/pagination"
	"github.com/jhoicas/inventario-consola/internal/application/ports"
	"github.com/jhoicas/inventario-consola/internal/domain"
	"github.com/jhoicas/inventario-consola/internal/domain/entity"
	"github.com/jhoicas/inventario-consola/internal/domain/inventory"
	"github.com/jhoicas/inventario-consola/internal/domain/repository"
)

// Collector reúne el conjunto completo de movimientos.
type Collector interface {
	Collect(ctx context.Context) pagination.Result[entity.Movement]
}

// downloads descargas que el backend ofrece, con su nombre por defecto.
var downloads = map[string]string{
	"inventario/pdf":   "inventario.pdf",
	"movimientos/pdf":  "movimientos.pdf",
	"inventario/excel": "inventario.xlsx",
}

// UseCase reportes de la consola.
type UseCase struct {
	products  repository.ProductRepository
	movements Collector
	files     repository.ReportRepository
	pdf       ports.ReportPDFGenerator
	log       zerolog.Logger
	now       func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	products repository.ProductRepository,
	movements Collector,
	files repository.ReportRepository,
	pdf ports.ReportPDFGenerator,
	log zerolog.Logger,
) *UseCase {
	return &UseCase{products: products, movements: movements, files: files, pdf: pdf, log: log, now: time.Now}
}

// Build recorre todos los movimientos y lista los productos en paralelo. Nunca
// falla: lo que no carga se reporta vacío y Completo queda en false.
func (uc *UseCase) Build(ctx context.Context) *dto.ReportDTO {
	type productsResult struct {
		p   []entity.Product
		err error
	}
	productsCh := make(chan productsResult, 1)
	go func() {
		p, err := uc.products.List(ctx)
		productsCh <- productsResult{p, err}
	}()

	movs := uc.movements.Collect(ctx)
	products := <-productsCh

	completo := true
	if movs.Err != nil {
		uc.log.Warn().Err(movs.Err).Int("items", len(movs.Items)).Msg("reportes: movimientos incompletos")
		completo = false
	}
	if products.err != nil {
		uc.log.Error().Err(products.err).Msg("reportes: productos no disponibles")
		products.p, completo = nil, false
	}
	return Assemble(movs.Items, products.p, completo, uc.now())
}

// Assemble arma el reporte a partir de los datos ya cargados.
func Assemble(movements []entity.Movement, products []entity.Product, completo bool, now time.Time) *dto.ReportDTO {
	totales := inventory.CountByType(movements)
	recepcion := inventory.GroupByDate(movements, entity.MovementTypeEntrada, true, inventory.DefaultReportWindow)
	flujo := inventory.GroupByDate(movements, "", false, inventory.DefaultReportWindow)
	resumen := inventory.Summarize(products)

	return &dto.ReportDTO{
		Totales: dto.ChartData{
			Type:   "bar",
			Labels: []string{"Entradas", "Salidas"},
			Datasets: []dto.ChartDataset{{
				Label: "Movimientos",
				Data:  []float64{float64(totales.Entradas), float64(totales.Salidas)},
			}},
		},
		Recepcion: dto.ChartData{
			Type:     "line",
			Labels:   recepcion.Labels,
			Datasets: []dto.ChartDataset{{Label: "Unidades recibidas", Data: recepcion.Entradas}},
		},
		FlujoDiario: dto.ChartData{
			Type:   "bar",
			Labels: flujo.Labels,
			Datasets: []dto.ChartDataset{
				{Label: "Entradas", Data: flujo.Entradas},
				{Label: "Salidas", Data: flujo.Salidas},
			},
		},
		TopSalidas:  rankingChart("Unidades despachadas", inventory.RankByProduct(movements, entity.MovementTypeSalida, inventory.DefaultTopProducts)),
		TopEntradas: rankingChart("Unidades recibidas", inventory.RankByProduct(movements, entity.MovementTypeEntrada, inventory.DefaultTopProducts)),
		Inventario: dto.InventorySummaryDTO{
			TotalProductos: resumen.TotalProductos,
			ValorTotal:     resumen.ValorTotal,
			StockBajo:      resumen.StockBajo,
			Categorias:     resumen.Categorias,
		},
		Movimientos: len(movements),
		Completo:    completo,
		GeneradoEn:  now.UTC(),
	}
}

func rankingChart(label string, totals []inventory.ProductTotal) dto.ChartData {
	out := dto.ChartData{
		Type:     "bar",
		Labels:   make([]string, len(totals)),
		Datasets: []dto.ChartDataset{{Label: label, Data: make([]float64, len(totals))}},
	}
	for i, t := range totals {
		out.Labels[i] = t.Producto
		out.Datasets[0].Data[i] = t.Cantidad
	}
	return out
}

// PDF renderiza localmente el reporte armado por Build.
func (uc *UseCase) PDF(ctx context.Context) ([]byte, *dto.ReportDTO, error) {
	report := uc.Build(ctx)
	data, err := uc.pdf.GenerateReportPDF(report)
	if err != nil {
		return nil, nil, fmt.Errorf("reportes: generar pdf: %w", err)
	}
	return data, report, nil
}

// Download descarga un archivo del backend. Solo se aceptan las combinaciones
// recurso/formato conocidas; el resto es ErrNotFound.
func (uc *UseCase) Download(ctx context.Context, recurso, formato string) (*repository.ReportFile, error) {
	name, ok := downloads[recurso+"/"+formato]
	if !ok {
		return nil, fmt.Errorf("reporte %s/%s: %w", recurso, formato, domain.ErrNotFound)
	}
	file, err := uc.files.Download(ctx, recurso, formato)
	if err != nil {
		return nil, fmt.Errorf("reporte %s/%s: %w", recurso, formato, err)
	}
	if file.Filename == "" {
		file.Filename = name
	}
	return file, nil
}
