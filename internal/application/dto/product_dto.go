package dto

import "github.com/shopspring/decimal"

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Nombre         string  `json:"nombre" validate:"required,min=2,max=200"`
	Categoria      string  `json:"categoria" validate:"required"`
	SKU            string  `json:"sku" validate:"omitempty,max=100"`
	Descripcion    string  `json:"descripcion" validate:"omitempty,max=1000"`
	PrecioUnitario float64 `json:"precioUnitario" validate:"gte=0"`
	Stock          float64 `json:"stock" validate:"gte=0"`
	Minimo         float64 `json:"minimo" validate:"gte=0"`
	StockMaximo    float64 `json:"stockMaximo" validate:"gte=0"`
}

// UpdateProductRequest actualización parcial (PATCH): solo viajan los campos presentes.
type UpdateProductRequest struct {
	Nombre         *string  `json:"nombre" validate:"omitempty,min=2,max=200"`
	Categoria      *string  `json:"categoria" validate:"omitempty,min=1"`
	SKU            *string  `json:"sku" validate:"omitempty,max=100"`
	Descripcion    *string  `json:"descripcion" validate:"omitempty,max=1000"`
	PrecioUnitario *float64 `json:"precioUnitario" validate:"omitempty,gte=0"`
	Stock          *float64 `json:"stock" validate:"omitempty,gte=0"`
	Minimo         *float64 `json:"minimo" validate:"omitempty,gte=0"`
	StockMaximo    *float64 `json:"stockMaximo" validate:"omitempty,gte=0"`
}

// Fields devuelve el cuerpo del PATCH con los nombres del backend.
func (r UpdateProductRequest) Fields() map[string]any {
	out := make(map[string]any)
	if r.Nombre != nil {
		out["nombre"] = *r.Nombre
	}
	if r.Categoria != nil {
		out["categoria"] = *r.Categoria
	}
	if r.SKU != nil {
		out["sku"] = *r.SKU
	}
	if r.Descripcion != nil {
		out["descripcion"] = *r.Descripcion
	}
	if r.PrecioUnitario != nil {
		out["precioUnitario"] = *r.PrecioUnitario
	}
	if r.Stock != nil {
		out["stock"] = *r.Stock
	}
	if r.Minimo != nil {
		out["minimo"] = *r.Minimo
	}
	if r.StockMaximo != nil {
		out["stockMaximo"] = *r.StockMaximo
	}
	return out
}

// ProductResponse salida de un producto con su estado de stock.
type ProductResponse struct {
	ID             string          `json:"id"`
	Nombre         string          `json:"nombre"`
	Categoria      string          `json:"categoria"`
	SKU            string          `json:"sku,omitempty"`
	Descripcion    string          `json:"descripcion,omitempty"`
	Stock          float64         `json:"stock"`
	Minimo         float64         `json:"minimo"`
	StockMaximo    float64         `json:"stockMaximo"`
	PrecioUnitario decimal.Decimal `json:"precioUnitario"`
	Estado         string          `json:"estado"` // Agotado | Bajo | Disponible | En Stock Máximo
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
