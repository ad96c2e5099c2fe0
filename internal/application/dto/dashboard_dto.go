package dto

import "time"

// ChartDataset serie de una gráfica.
type ChartDataset struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
}

// ChartData datos listos para graficar: etiquetas del eje y series alineadas.
type ChartData struct {
	Type     string         `json:"type"` // bar | pie | line
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
}

// DashboardCharts las tres gráficas del tablero.
type DashboardCharts struct {
	Totales      ChartData `json:"totales"`
	Distribucion ChartData `json:"distribucion"`
	Actividad    ChartData `json:"actividad"`
}

// DashboardDTO respuesta de GET /api/dashboard.
type DashboardDTO struct {
	TotalProductos       int             `json:"totalProductos"`
	Movimientos          int             `json:"movimientos"`
	MovimientosHoy       int             `json:"movimientosHoy"`
	AlertasActivas       int             `json:"alertasActivas"`
	ProductosDisponibles int             `json:"productosDisponibles"`
	StockBajo            int             `json:"stockBajo"`
	ProductosAgotados    int             `json:"productosAgotados"`
	Charts               DashboardCharts `json:"charts"`

	Completo   bool      `json:"completo"` // false si alguna fuente falló
	GeneradoEn time.Time `json:"generadoEn"`
}
