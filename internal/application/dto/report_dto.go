package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventorySummaryDTO cabecera del reporte de inventario.
type InventorySummaryDTO struct {
	TotalProductos int             `json:"totalProductos"`
	ValorTotal     decimal.Decimal `json:"valorTotal"`
	StockBajo      int             `json:"stockBajo"`
	Categorias     int             `json:"categorias"`
}

// ReportDTO respuesta de GET /api/reportes/resumen.
type ReportDTO struct {
	Totales     ChartData           `json:"totales"`     // barras Entradas/Salidas (conteo)
	Recepcion   ChartData           `json:"recepcion"`   // unidades recibidas por día
	FlujoDiario ChartData           `json:"flujoDiario"` // entradas/salidas por día (conteo)
	TopSalidas  ChartData           `json:"topSalidas"`
	TopEntradas ChartData           `json:"topEntradas"`
	Inventario  InventorySummaryDTO `json:"inventario"`

	Movimientos int       `json:"movimientos"`
	Completo    bool      `json:"completo"`
	GeneradoEn  time.Time `json:"generadoEn"`
}
