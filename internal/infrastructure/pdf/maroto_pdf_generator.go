// Package pdf genera el PDF del resumen de reportes de la consola.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + fecha de generación                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  INVENTARIO: productos / valor / stock bajo / categorías    │
//	│  MOVIMIENTOS: entradas y salidas                            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Día | Entradas | Salidas | Unidades recibidas       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOP: productos con más salidas │ con más entradas          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: aviso de datos parciales                           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strconv"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/inventario-consola/internal/application/dto"
	"github.com/jhoicas/inventario-consola/internal/application/ports"
)

var _ ports.ReportPDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 229, Green: 57, Blue: 53}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa ports.ReportPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	author string
}

// NewMarotoPDFGenerator construye el generador. author va en los metadatos.
func NewMarotoPDFGenerator(author string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{author: nonEmpty(author, "Inventario")}
}

// GenerateReportPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateReportPDF(report *dto.ReportDTO) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("pdf: reporte vacío")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de Inventario", true).
		WithAuthor(g.author, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	// Flujo diario
	m.AddRows(sectionTitle("FLUJO DIARIO"))
	m.AddRows(dailyHeaderRow())
	m.AddRows(dailyRows(report)...)

	// Rankings
	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(rankingRows(report)...)

	if !report.Completo {
		m.AddRows(line.NewRow(3))
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Datos parciales: el backend no respondió por completo al generar este reporte.", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorAlert, Top: 2,
			}),
		)))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(r *dto.ReportDTO) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("REPORTE DE INVENTARIO", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Entradas, salidas y estado del stock", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+r.GeneradoEn.Format("02/01/2006 15:04")+" UTC", props.Text{
				Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			}),
		),
	)
}

// summaryRow: cuatro indicadores del inventario y el total de movimientos.
func summaryRow(r *dto.ReportDTO) core.Row {
	entradas, salidas := 0.0, 0.0
	if len(r.Totales.Datasets) > 0 && len(r.Totales.Datasets[0].Data) == 2 {
		entradas, salidas = r.Totales.Datasets[0].Data[0], r.Totales.Datasets[0].Data[1]
	}
	kpi := func(label, value string) core.Col {
		return col.New(2).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 7, Color: colorPrimary, Top: 1, Align: align.Center}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 11, Top: 6, Align: align.Center}),
		)
	}
	inv := r.Inventario
	return row.New(16).Add(
		kpi("PRODUCTOS", strconv.Itoa(inv.TotalProductos)),
		kpi("VALOR TOTAL", "$"+formatMoney(inv.ValorTotal.StringFixed(0))),
		kpi("STOCK BAJO", strconv.Itoa(inv.StockBajo)),
		kpi("CATEGORÍAS", strconv.Itoa(inv.Categorias)),
		kpi("ENTRADAS", formatQty(entradas)),
		kpi("SALIDAS", formatQty(salidas)),
	)
}

func sectionTitle(s string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(s, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
	))
}

func dailyHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
		}))
	}
	return row.New(6).Add(
		h("Día", 3, align.Left),
		h("Entradas", 3, align.Right),
		h("Salidas", 3, align.Right),
		h("Unidades recibidas", 3, align.Right),
	)
}

// dailyRows: una fila por día del flujo diario; las unidades recibidas se
// buscan por etiqueta porque la serie de recepción solo incluye días con
// movimientos.
func dailyRows(r *dto.ReportDTO) []core.Row {
	received := make(map[string]float64, len(r.Recepcion.Labels))
	if len(r.Recepcion.Datasets) > 0 {
		for i, l := range r.Recepcion.Labels {
			if i < len(r.Recepcion.Datasets[0].Data) {
				received[l] = r.Recepcion.Datasets[0].Data[i]
			}
		}
	}
	series := func(i, j int) float64 {
		if i < len(r.FlujoDiario.Datasets) && j < len(r.FlujoDiario.Datasets[i].Data) {
			return r.FlujoDiario.Datasets[i].Data[j]
		}
		return 0
	}

	if len(r.FlujoDiario.Labels) == 0 {
		return []core.Row{row.New(6).Add(col.New(12).Add(
			text.New("Sin movimientos registrados.", props.Text{Size: 8, Color: colorGray, Top: 1, Left: 1}),
		))}
	}
	rows := make([]core.Row, 0, len(r.FlujoDiario.Labels))
	for j, day := range r.FlujoDiario.Labels {
		rows = append(rows, row.New(6).Add(
			col.New(3).Add(text.New(day, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(formatQty(series(0, j)), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(formatQty(series(1, j)), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(formatQty(received[day]), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return rows
}

// rankingRows: top de salidas (izq) y de entradas (der) lado a lado.
func rankingRows(r *dto.ReportDTO) []core.Row {
	rows := []core.Row{row.New(7).Add(
		col.New(6).Add(text.New("PRODUCTOS CON MÁS SALIDAS", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2})),
		col.New(6).Add(text.New("PRODUCTOS CON MÁS ENTRADAS", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2})),
	)}
	n := max(len(r.TopSalidas.Labels), len(r.TopEntradas.Labels))
	for i := 0; i < n; i++ {
		rows = append(rows, row.New(5).Add(rankingCols(r.TopSalidas, i)...).Add(rankingCols(r.TopEntradas, i)...))
	}
	return rows
}

func rankingCols(c dto.ChartData, i int) []core.Col {
	if i >= len(c.Labels) || len(c.Datasets) == 0 || i >= len(c.Datasets[0].Data) {
		return []core.Col{col.New(4), col.New(2)}
	}
	return []core.Col{
		col.New(4).Add(text.New(fmt.Sprintf("%d. %s", i+1, c.Labels[i]), props.Text{Size: 8, Top: 0.5, Left: 1})),
		col.New(2).Add(text.New(formatQty(c.Datasets[0].Data[i]), props.Text{Size: 8, Align: align.Right, Top: 0.5, Right: 2})),
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatQty cantidades sin decimales superfluos: 12 → "12", 2.5 → "2.5".
func formatQty(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "-1000000" → "-1.000.000"
func formatMoney(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	n := len(s)
	if n <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
