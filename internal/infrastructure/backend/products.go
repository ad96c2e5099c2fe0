package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/jhoicas/inventario-consola/internal/domain/entity"
	"github.com/jhoicas/inventario-consola/internal/domain/repository"
)

// Verificar en tiempo de compilación que ProductClient implementa el puerto.
var _ repository.ProductRepository = (*ProductClient)(nil)

// ProductClient adaptador de /productos.
type ProductClient struct{ c *Client }

// NewProductClient construye el adaptador.
func NewProductClient(c *Client) *ProductClient { return &ProductClient{c: c} }

// List GET /productos. Acepta arreglo o sobre paginado.
func (p *ProductClient) List(ctx context.Context) ([]entity.Product, error) {
	resp, err := p.c.do(ctx, request{op: "productos.list", method: http.MethodGet, path: "/productos"})
	if err != nil {
		return nil, err
	}
	page, err := entity.DecodePage[entity.Product](resp.body)
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// Page GET /productos/page?page&size.
func (p *ProductClient) Page(ctx context.Context, page, size int) (entity.Page[entity.Product], error) {
	resp, err := p.c.do(ctx, request{op: "productos.page", method: http.MethodGet, path: "/productos/page", query: pageQuery(page, size)})
	if err != nil {
		return entity.Page[entity.Product]{}, err
	}
	return entity.DecodePage[entity.Product](resp.body)
}

// Search GET /productos/search?q.
func (p *ProductClient) Search(ctx context.Context, term string) ([]entity.Product, error) {
	resp, err := p.c.do(ctx, request{op: "productos.search", method: http.MethodGet, path: "/productos/search", query: url.Values{"q": {term}}})
	if err != nil {
		return nil, err
	}
	page, err := entity.DecodePage[entity.Product](resp.body)
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// GetByID GET /productos/:id.
func (p *ProductClient) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	resp, err := p.c.do(ctx, request{op: "productos.get", method: http.MethodGet, path: "/productos/" + url.PathEscape(id)})
	if err != nil {
		return nil, err
	}
	var out entity.Product
	if _, err := decodeJSON("productos.get", resp.body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create POST /productos.
func (p *ProductClient) Create(ctx context.Context, product entity.Product) (*entity.Product, error) {
	resp, err := p.c.do(ctx, request{op: "productos.create", method: http.MethodPost, path: "/productos", body: productPayload(product)})
	if err != nil {
		return nil, err
	}
	out := product
	if _, err := decodeJSON("productos.create", resp.body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update PATCH /productos/:id con los campos indicados.
func (p *ProductClient) Update(ctx context.Context, id string, fields map[string]any) (*entity.Product, error) {
	resp, err := p.c.do(ctx, request{op: "productos.update", method: http.MethodPatch, path: "/productos/" + url.PathEscape(id), body: fields})
	if err != nil {
		return nil, err
	}
	out := entity.Product{ID: id}
	if _, err := decodeJSON("productos.update", resp.body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete DELETE /productos/:id.
func (p *ProductClient) Delete(ctx context.Context, id string) error {
	_, err := p.c.do(ctx, request{op: "productos.delete", method: http.MethodDelete, path: "/productos/" + url.PathEscape(id)})
	return err
}

// productPayload envía el precio como número JSON (decimal se serializa como texto).
func productPayload(p entity.Product) map[string]any {
	out := map[string]any{
		"nombre":         p.Nombre,
		"categoria":      p.Categoria,
		"stock":          p.Stock,
		"minimo":         p.Minimo,
		"stockMaximo":    p.StockMaximo,
		"precioUnitario": json.Number(p.PrecioUnitario.String()),
	}
	if p.SKU != "" {
		out["sku"] = p.SKU
	}
	if p.Descripcion != "" {
		out["descripcion"] = p.Descripcion
	}
	return out
}
