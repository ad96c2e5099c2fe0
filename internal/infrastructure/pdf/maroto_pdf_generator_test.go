package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-consola/internal/application/dto"
)

func sampleReport() *dto.ReportDTO {
	return &dto.ReportDTO{
		Totales: dto.ChartData{Labels: []string{"Entradas", "Salidas"}, Datasets: []dto.ChartDataset{{Data: []float64{3, 2}}}},
		Recepcion: dto.ChartData{Labels: []string{"May 18", "May 20"}, Datasets: []dto.ChartDataset{{Data: []float64{10, 2}}}},
		FlujoDiario: dto.ChartData{
			Labels:   []string{"May 18", "May 19", "May 20"},
			Datasets: []dto.ChartDataset{{Data: []float64{1, 1, 1}}, {Data: []float64{0, 1, 1}}},
		},
		TopSalidas:  dto.ChartData{Labels: []string{"Tuerca"}, Datasets: []dto.ChartDataset{{Data: []float64{5}}}},
		TopEntradas: dto.ChartData{Labels: []string{"Tornillo", "Tuerca"}, Datasets: []dto.ChartDataset{{Data: []float64{12, 4}}}},
		Inventario: dto.InventorySummaryDTO{
			TotalProductos: 2, ValorTotal: decimal.RequireFromString("1250000.40"), StockBajo: 1, Categorias: 1,
		},
		Movimientos: 5,
		GeneradoEn:  time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC),
	}
}

func TestGenerateReportPDF(t *testing.T) {
	g := NewMarotoPDFGenerator("")

	out, err := g.GenerateReportPDF(sampleReport())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	partial := sampleReport()
	partial.Completo = false
	partial.FlujoDiario = dto.ChartData{}
	out, err = g.GenerateReportPDF(partial)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestGenerateReportPDF_Nil(t *testing.T) {
	_, err := NewMarotoPDFGenerator("x").GenerateReportPDF(nil)
	assert.Error(t, err)
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "950", formatMoney("950"))
	assert.Equal(t, "25.000", formatMoney("25000"))
	assert.Equal(t, "1.250.000", formatMoney("1250000"))
	assert.Equal(t, "-1.000", formatMoney("-1000"))
}

func TestFormatQty(t *testing.T) {
	assert.Equal(t, "12", formatQty(12))
	assert.Equal(t, "2.5", formatQty(2.5))
}
