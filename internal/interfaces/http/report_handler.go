package http

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-consola/internal/application/reports"
)

const summaryPDFName = "reporte-inventario.pdf"

// ReportHandler resumen de reportes y descargas.
type ReportHandler struct {
	uc *reports.UseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reports.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Summary godoc
// @Summary      Resumen de reportes
// @Description  KPIs de inventario, flujo diario y rankings de productos.
// @Tags         reportes
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ReportDTO
// @Router       /api/reportes/resumen [get]
func (h *ReportHandler) Summary(c *fiber.Ctx) error {
	return c.JSON(h.uc.Build(c.UserContext()))
}

// SummaryPDF godoc
// @Summary      Resumen de reportes en PDF
// @Tags         reportes
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/reportes/resumen/pdf [get]
func (h *ReportHandler) SummaryPDF(c *fiber.Ctx) error {
	data, _, err := h.uc.PDF(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return sendFile(c, "application/pdf", summaryPDFName, data)
}

// Download godoc
// @Summary      Descargar reporte del backend
// @Tags         reportes
// @Security     Bearer
// @Produce      application/octet-stream
// @Param        recurso  path  string  true  "inventario | movimientos"
// @Param        formato  path  string  true  "pdf | excel"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/reportes/{recurso}/{formato} [get]
func (h *ReportHandler) Download(c *fiber.Ctx) error {
	file, err := h.uc.Download(c.UserContext(), strings.ToLower(c.Params("recurso")), strings.ToLower(c.Params("formato")))
	if err != nil {
		return respondError(c, err)
	}
	return sendFile(c, file.ContentType, file.Filename, file.Data)
}

func sendFile(c *fiber.Ctx, contentType, filename string, data []byte) error {
	if contentType == "" {
		contentType = fiber.MIMEOctetStream
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(data)
}
