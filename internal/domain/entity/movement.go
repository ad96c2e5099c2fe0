package entity

import (
	"encoding/json"
	"strings"

	"github.com/jhoicas/inventario-consola/pkg/coerce"
)

// Tipos de movimiento tal como los envía el backend.
const (
	MovementTypeEntrada = "ENTRADA" // entrada (inbound)
	MovementTypeSalida  = "SALIDA"  // salida (outbound)
)

// ProductRef referencia embebida de producto dentro de un movimiento.
// El backend puede enviar el objeto completo o solo el identificador.
type ProductRef struct {
	ID     string `json:"id,omitempty"`
	Nombre string `json:"nombre,omitempty"`
	SKU    string `json:"sku,omitempty"`
	Codigo string `json:"codigo,omitempty"`
}

// Movement movimiento de inventario leído del backend. Es inmutable una vez
// decodificado: los campos ya vienen normalizados por UnmarshalJSON.
type Movement struct {
	ID             *string     `json:"id,omitempty"`
	Codigo         *string     `json:"codigo,omitempty"`
	Tipo           string      `json:"tipo"`
	ProductoID     *string     `json:"productoId,omitempty"`
	Producto       *ProductRef `json:"producto,omitempty"`
	ProductoNombre string      `json:"productoNombre,omitempty"`
	Cantidad       float64     `json:"cantidad"`
	Fecha          any         `json:"fecha,omitempty"` // ISO, epoch ms, {year, monthValue, dayOfMonth}
	Usuario        string      `json:"usuarioResponsable,omitempty"`
	Observacion    string      `json:"observacion,omitempty"`

	fechaTexto string
}

type movementWire struct {
	ID              json.RawMessage `json:"id"`
	Codigo          json.RawMessage `json:"codigo"`
	Tipo            json.RawMessage `json:"tipo"`
	ProductoID      json.RawMessage `json:"productoId"`
	Producto        json.RawMessage `json:"producto"`
	ProductoNombre  json.RawMessage `json:"productoNombre"`
	Cantidad        json.RawMessage `json:"cantidad"`
	Fecha           json.RawMessage `json:"fecha"`
	FechaMovimiento json.RawMessage `json:"fechaMovimiento"`
	Usuario         json.RawMessage `json:"usuarioResponsable"`
	Observacion     json.RawMessage `json:"observacion"`
}

// UnmarshalJSON decodifica de forma tolerante: ids numéricos o de texto,
// cantidades como texto, producto como objeto o id, fecha en cualquier forma.
func (m *Movement) UnmarshalJSON(data []byte) error {
	var w movementWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	fecha := w.Fecha
	if scalarText(fecha) == nil {
		fecha = w.FechaMovimiento
	}
	*m = Movement{
		ID:             scalarText(w.ID),
		Codigo:         scalarText(w.Codigo),
		Tipo:           strings.ToUpper(textOf(w.Tipo)),
		ProductoID:     scalarText(w.ProductoID),
		Producto:       decodeProductRef(w.Producto),
		ProductoNombre: textOf(w.ProductoNombre),
		Cantidad:       coerce.ToNumber(looseValue(w.Cantidad), 0),
		Fecha:          looseValue(fecha),
		Usuario:        textOf(w.Usuario),
		Observacion:    textOf(w.Observacion),
	}
	if s := scalarText(fecha); s != nil {
		m.fechaTexto = *s
	}
	return nil
}

// FechaTexto representación textual de la fecha tal como llegó ("" si no vino).
func (m Movement) FechaTexto() string {
	if m.fechaTexto != "" {
		return m.fechaTexto
	}
	switch v := m.Fecha.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// IsType indica si el movimiento es del tipo dado (sin distinguir mayúsculas).
func (m Movement) IsType(tipo string) bool {
	return m.Tipo == strings.ToUpper(tipo)
}

func decodeProductRef(raw json.RawMessage) *ProductRef {
	v := looseValue(raw)
	switch x := v.(type) {
	case map[string]any:
		return &ProductRef{
			ID:     anyText(x["id"]),
			Nombre: anyText(x["nombre"]),
			SKU:    anyText(x["sku"]),
			Codigo: anyText(x["codigo"]),
		}
	case string:
		return &ProductRef{ID: x}
	case json.Number:
		return &ProductRef{ID: x.String()}
	default:
		return nil
	}
}

func anyText(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case json.Number:
		return x.String()
	default:
		return ""
	}
}
