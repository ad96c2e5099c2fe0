package ports

import "github.com/jhoicas/inventario-consola/internal/application/dto"

// ReportPDFGenerator puerto de salida para renderizar el resumen de reportes.
// Cualquier adaptador (maroto, mock) debe implementar esta interfaz.
type ReportPDFGenerator interface {
	GenerateReportPDF(report *dto.ReportDTO) ([]byte, error)
}
