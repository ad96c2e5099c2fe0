package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Page resultado de un endpoint paginado. El backend responde de dos formas y
// ambas se resuelven aquí, una sola vez:
//   - arreglo desnudo [..]            → Envelope=false, sin metadatos
//   - sobre {content|items, totalElements?, totalPages?, number?, size?} → Envelope=true
//
// Los metadatos ausentes (o no numéricos) quedan en nil.
type Page[T any] struct {
	Items         []T
	Envelope      bool
	TotalElements *int
	TotalPages    *int
	Number        *int
	Size          *int
}

// BarePage construye una página sin metadatos.
func BarePage[T any](items []T) Page[T] {
	return Page[T]{Items: items}
}

type pageWire struct {
	Content       json.RawMessage `json:"content"`
	Items         json.RawMessage `json:"items"`
	TotalElements json.RawMessage `json:"totalElements"`
	TotalPages    json.RawMessage `json:"totalPages"`
	Number        json.RawMessage `json:"number"`
	Size          json.RawMessage `json:"size"`
}

// DecodePage interpreta el cuerpo de una respuesta paginada. Un cuerpo vacío o
// null es una página vacía; un objeto sin content ni items es un sobre vacío.
func DecodePage[T any](data []byte) (Page[T], error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return Page[T]{}, nil
	}
	switch data[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return Page[T]{}, fmt.Errorf("página: decodificar arreglo: %w", err)
		}
		return BarePage(items), nil
	case '{':
		var w pageWire
		if err := json.Unmarshal(data, &w); err != nil {
			return Page[T]{}, fmt.Errorf("página: decodificar sobre: %w", err)
		}
		p := Page[T]{
			Envelope:      true,
			TotalElements: optionalInt(w.TotalElements),
			TotalPages:    optionalInt(w.TotalPages),
			Number:        optionalInt(w.Number),
			Size:          optionalInt(w.Size),
		}
		list := w.Content
		if !isArray(list) {
			list = w.Items
		}
		if isArray(list) {
			if err := json.Unmarshal(list, &p.Items); err != nil {
				return Page[T]{}, fmt.Errorf("página: decodificar contenido: %w", err)
			}
		}
		return p, nil
	default:
		return Page[T]{}, nil
	}
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

// optionalInt solo acepta números JSON finitos; cualquier otra cosa es ausencia.
func optionalInt(raw json.RawMessage) *int {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] == '"' || raw[0] == 'n' || raw[0] == '{' || raw[0] == '[' || raw[0] == 't' || raw[0] == 'f' {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	n := int(f)
	return &n
}

// IntPtr atajo para construir metadatos en pruebas y adaptadores.
func IntPtr(n int) *int { return &n }
