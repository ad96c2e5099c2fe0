package entity

import "encoding/json"

// DashboardResumen respuesta de GET /dashboard/resumen del backend. Todos los
// campos son opcionales: nil significa que el backend no lo informó.
type DashboardResumen struct {
	TotalProductos       *int `json:"totalProductos,omitempty"`
	Movimientos          *int `json:"movimientos,omitempty"`
	MovimientosHoy       *int `json:"movimientosHoy,omitempty"`
	AlertasActivas       *int `json:"alertasActivas,omitempty"`
	ProductosDisponibles *int `json:"productosDisponibles,omitempty"`
	StockBajo            *int `json:"stockBajo,omitempty"`
	ProductosAgotados    *int `json:"productosAgotados,omitempty"`
}

// UnmarshalJSON ignora los campos no numéricos en lugar de fallar.
func (r *DashboardResumen) UnmarshalJSON(data []byte) error {
	var w map[string]json.RawMessage
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*r = DashboardResumen{
		TotalProductos:       optionalInt(w["totalProductos"]),
		Movimientos:          optionalInt(w["movimientos"]),
		MovimientosHoy:       optionalInt(w["movimientosHoy"]),
		AlertasActivas:       optionalInt(w["alertasActivas"]),
		ProductosDisponibles: optionalInt(w["productosDisponibles"]),
		StockBajo:            optionalInt(w["stockBajo"]),
		ProductosAgotados:    optionalInt(w["productosAgotados"]),
	}
	return nil
}
