package backend

import (
	"context"
	"mime"
	"net/http"
	"net/url"

	"github.com/jhoicas/inventario-consola/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportClient)(nil)

// Tipos MIME que el backend entrega según el formato pedido.
const (
	MimePDF   = "application/pdf"
	MimeExcel = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ReportClient adaptador de /reportes.
type ReportClient struct{ c *Client }

// NewReportClient construye el adaptador.
func NewReportClient(c *Client) *ReportClient { return &ReportClient{c: c} }

// Download GET /reportes/:recurso/:formato con el Accept del formato.
func (r *ReportClient) Download(ctx context.Context, recurso, formato string) (*repository.ReportFile, error) {
	accept := MimePDF
	if formato == "excel" {
		accept = MimeExcel
	}
	path := "/reportes/" + url.PathEscape(recurso) + "/" + url.PathEscape(formato)
	resp, err := r.c.do(ctx, request{op: "reportes.download", method: http.MethodGet, path: path, accept: accept})
	if err != nil {
		return nil, err
	}
	file := &repository.ReportFile{ContentType: accept, Data: resp.body}
	if ct := resp.header.Get("Content-Type"); ct != "" {
		file.ContentType = ct
	}
	if _, params, err := mime.ParseMediaType(resp.header.Get("Content-Disposition")); err == nil {
		file.Filename = params["filename"]
	}
	return file, nil
}
