package entity

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-consola/pkg/coerce"
)

// Product instantánea de un producto tal como la entrega el backend.
// Stock y umbrales llegan a veces como texto; se normalizan al decodificar.
type Product struct {
	ID             string          `json:"id,omitempty"`
	Nombre         string          `json:"nombre"`
	Categoria      string          `json:"categoria"`
	SKU            string          `json:"sku,omitempty"`
	Descripcion    string          `json:"descripcion,omitempty"`
	Stock          float64         `json:"stock"`
	Minimo         float64         `json:"minimo"`      // umbral mínimo; 0 = sin umbral
	StockMaximo    float64         `json:"stockMaximo"` // 0 = sin máximo
	PrecioUnitario decimal.Decimal `json:"precioUnitario"`
	FechaRegistro  string          `json:"fechaRegistro,omitempty"`
}

type productWire struct {
	ID             json.RawMessage `json:"id"`
	Nombre         json.RawMessage `json:"nombre"`
	Categoria      json.RawMessage `json:"categoria"`
	SKU            json.RawMessage `json:"sku"`
	Descripcion    json.RawMessage `json:"descripcion"`
	Stock          json.RawMessage `json:"stock"`
	Minimo         json.RawMessage `json:"minimo"`
	StockMaximo    json.RawMessage `json:"stockMaximo"`
	PrecioUnitario json.RawMessage `json:"precioUnitario"`
	Precio         json.RawMessage `json:"precio"`
	FechaRegistro  json.RawMessage `json:"fechaRegistro"`
}

// UnmarshalJSON decodifica de forma tolerante (números como texto, id numérico,
// precio en precioUnitario o precio).
func (p *Product) UnmarshalJSON(data []byte) error {
	var w productWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	precio := w.PrecioUnitario
	if scalarText(precio) == nil {
		precio = w.Precio
	}
	*p = Product{
		ID:             textOf(w.ID),
		Nombre:         textOf(w.Nombre),
		Categoria:      textOf(w.Categoria),
		SKU:            textOf(w.SKU),
		Descripcion:    textOf(w.Descripcion),
		Stock:          coerce.ToNumber(looseValue(w.Stock), 0),
		Minimo:         coerce.ToNumber(looseValue(w.Minimo), 0),
		StockMaximo:    coerce.ToNumber(looseValue(w.StockMaximo), 0),
		PrecioUnitario: decimal.NewFromFloat(coerce.ToNumber(looseValue(precio), 0)),
		FechaRegistro:  textOf(w.FechaRegistro),
	}
	return nil
}
