package reports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-consola/internal/application/dto"
	"github.com/jhoicas/inventario-consola/internal/application/pagination"
	"github.com/jhoicas/inventario-consola/internal/domain"
	"github.com/jhoicas/inventario-consola/internal/domain/entity"
	"github.com/jhoicas/inventario-consola/internal/domain/repository"
)

type fakeProducts struct {
	repository.ProductRepository
	items []entity.Product
	err   error
}

func (f fakeProducts) List(context.Context) ([]entity.Product, error) { return f.items, f.err }

type fakeCollector struct {
	res pagination.Result[entity.Movement]
}

func (f fakeCollector) Collect(context.Context) pagination.Result[entity.Movement] { return f.res }

type fakeFiles struct {
	file  *repository.ReportFile
	err   error
	calls []string
}

func (f *fakeFiles) Download(_ context.Context, recurso, formato string) (*repository.ReportFile, error) {
	f.calls = append(f.calls, recurso+"/"+formato)
	if f.err != nil {
		return nil, f.err
	}
	cp := *f.file
	return &cp, nil
}

type fakePDF struct {
	got *dto.ReportDTO
	err error
}

func (f *fakePDF) GenerateReportPDF(r *dto.ReportDTO) ([]byte, error) {
	f.got = r
	return []byte("%PDF-1.4"), f.err
}

var ahora = time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)

func movimiento(tipo, producto string, cantidad float64, fecha string) entity.Movement {
	return entity.Movement{Tipo: tipo, Producto: &entity.ProductRef{Nombre: producto}, Cantidad: cantidad, Fecha: fecha}
}

func TestAssemble_Graficas(t *testing.T) {
	movs := []entity.Movement{
		movimiento(entity.MovementTypeEntrada, "Tornillo", 10, "2024-05-18"),
		movimiento(entity.MovementTypeEntrada, "Tuerca", 4, "2024-05-19"),
		movimiento(entity.MovementTypeSalida, "Tornillo", 3, "2024-05-19"),
		movimiento(entity.MovementTypeSalida, "Tuerca", 5, "2024-05-20"),
		movimiento(entity.MovementTypeEntrada, "Tornillo", 2, "2024-05-20"),
	}
	products := []entity.Product{
		{Nombre: "Tornillo", Categoria: "Ferretería", Stock: 10, PrecioUnitario: decimal.RequireFromString("1.50")},
		{Nombre: "Tuerca", Categoria: "Ferretería", Stock: 0, PrecioUnitario: decimal.RequireFromString("0.20")},
	}

	r := Assemble(movs, products, true, ahora)

	assert.Equal(t, []string{"Entradas", "Salidas"}, r.Totales.Labels)
	assert.Equal(t, []float64{3, 2}, r.Totales.Datasets[0].Data)

	assert.Equal(t, []string{"May 18", "May 19", "May 20"}, r.Recepcion.Labels)
	assert.Equal(t, []float64{10, 4, 2}, r.Recepcion.Datasets[0].Data)
	assert.Equal(t, "Unidades recibidas", r.Recepcion.Datasets[0].Label)

	require.Len(t, r.FlujoDiario.Datasets, 2)
	assert.Equal(t, []float64{1, 1, 1}, r.FlujoDiario.Datasets[0].Data)
	assert.Equal(t, []float64{0, 1, 1}, r.FlujoDiario.Datasets[1].Data)

	assert.Equal(t, []string{"Tuerca", "Tornillo"}, r.TopSalidas.Labels)
	assert.Equal(t, []float64{5, 3}, r.TopSalidas.Datasets[0].Data)
	assert.Equal(t, []string{"Tornillo", "Tuerca"}, r.TopEntradas.Labels)
	assert.Equal(t, []float64{12, 4}, r.TopEntradas.Datasets[0].Data)

	assert.Equal(t, 2, r.Inventario.TotalProductos)
	assert.True(t, decimal.RequireFromString("15").Equal(r.Inventario.ValorTotal))
	assert.Equal(t, 1, r.Inventario.StockBajo)
	assert.Equal(t, 1, r.Inventario.Categorias)
	assert.Equal(t, 5, r.Movimientos)
	assert.True(t, r.Completo)
}

func TestAssemble_TopSeisProductos(t *testing.T) {
	var movs []entity.Movement
	for i, name := range []string{"A", "B", "C", "D", "E", "F", "G", "H"} {
		movs = append(movs, movimiento(entity.MovementTypeSalida, name, float64(i+1), "2024-05-01"))
	}
	r := Assemble(movs, nil, true, ahora)
	assert.Equal(t, []string{"H", "G", "F", "E", "D", "C"}, r.TopSalidas.Labels)
	assert.Empty(t, r.TopEntradas.Labels)
}

func TestBuild_FallosParciales(t *testing.T) {
	uc := NewUseCase(
		fakeProducts{err: domain.ErrBackendUnavailable},
		fakeCollector{res: pagination.Result[entity.Movement]{
			Items: []entity.Movement{movimiento(entity.MovementTypeEntrada, "X", 1, "2024-05-20")},
			Err:   context.DeadlineExceeded,
		}},
		&fakeFiles{}, &fakePDF{}, zerolog.Nop(),
	)
	uc.now = func() time.Time { return ahora }

	r := uc.Build(context.Background())

	assert.False(t, r.Completo)
	assert.Equal(t, 1, r.Movimientos)
	assert.Zero(t, r.Inventario.TotalProductos)
	assert.Equal(t, ahora, r.GeneradoEn)
}

func TestPDF_UsaElReporteArmado(t *testing.T) {
	pdf := &fakePDF{}
	uc := NewUseCase(fakeProducts{}, fakeCollector{}, &fakeFiles{}, pdf, zerolog.Nop())

	data, report, err := uc.PDF(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), data)
	assert.Same(t, report, pdf.got)
}

func TestPDF_ErrorDelGenerador(t *testing.T) {
	uc := NewUseCase(fakeProducts{}, fakeCollector{}, &fakeFiles{}, &fakePDF{err: errors.New("fuente")}, zerolog.Nop())
	_, _, err := uc.PDF(context.Background())
	assert.Error(t, err)
}

func TestDownload(t *testing.T) {
	files := &fakeFiles{file: &repository.ReportFile{ContentType: "application/pdf", Data: []byte("x")}}
	uc := NewUseCase(fakeProducts{}, fakeCollector{}, files, &fakePDF{}, zerolog.Nop())

	f, err := uc.Download(context.Background(), "inventario", "excel")
	require.NoError(t, err)
	assert.Equal(t, "inventario.xlsx", f.Filename)

	files.file.Filename = "backend.pdf"
	f, err = uc.Download(context.Background(), "movimientos", "pdf")
	require.NoError(t, err)
	assert.Equal(t, "backend.pdf", f.Filename)

	_, err = uc.Download(context.Background(), "movimientos", "excel")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, []string{"inventario/excel", "movimientos/pdf"}, files.calls)
}

func TestDownload_PropagaErrorDelBackend(t *testing.T) {
	uc := NewUseCase(fakeProducts{}, fakeCollector{}, &fakeFiles{err: domain.ErrForbidden}, &fakePDF{}, zerolog.Nop())
	_, err := uc.Download(context.Background(), "inventario", "pdf")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
