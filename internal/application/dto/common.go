package dto

// PageRequest paginación para listados (base cero, como el backend).
type PageRequest struct {
	Page int `query:"page" validate:"min=0"`
	Size int `query:"size" validate:"min=0,max=500"`
}

// DefaultPage aplica valores por defecto si Page/Size son cero o negativos.
func (p *PageRequest) DefaultPage() {
	if p.Size <= 0 {
		p.Size = 10
	}
	if p.Page < 0 {
		p.Page = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Page          int  `json:"page"`
	Size          int  `json:"size"`
	TotalElements *int `json:"totalElements,omitempty"`
	TotalPages    *int `json:"totalPages,omitempty"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationErrorResponse error 400 con el detalle por campo.
type ValidationErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}
