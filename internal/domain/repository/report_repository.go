package repository

import "context"

// ReportFile archivo binario descargado del backend.
type ReportFile struct {
	ContentType string
	Filename    string
	Data        []byte
}

// ReportRepository puerto hacia /reportes del backend (PDF y Excel).
type ReportRepository interface {
	Download(ctx context.Context, recurso, formato string) (*ReportFile, error)
}
