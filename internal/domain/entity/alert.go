package entity

import (
	"encoding/json"
	"time"
)

// Severidades y estados de alerta.
const (
	SeverityCritica     = "CRITICA"
	SeverityAdvertencia = "ADVERTENCIA"
	SeverityInformacion = "INFORMACION"

	AlertStateActiva   = "ACTIVA"
	AlertStateResuelta = "RESUELTA"
)

// Alert alerta de inventario, derivada del stock o recibida por el canal push.
type Alert struct {
	ID            string          `json:"id,omitempty"`
	Mensaje       string          `json:"mensaje"`
	Severidad     string          `json:"severidad"`
	Estado        string          `json:"estado"`
	ProductoID    string          `json:"productoId,omitempty"`
	FechaCreacion time.Time       `json:"fechaCreacion"`
	Payload       json.RawMessage `json:"payload,omitempty"` // cuerpo original del evento push
}
