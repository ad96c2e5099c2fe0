package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-consola/internal/application/dto"
	"github.com/jhoicas/inventario-consola/internal/domain"
	"github.com/jhoicas/inventario-consola/internal/domain/entity"
	"github.com/jhoicas/inventario-consola/internal/domain/inventory"
	"github.com/jhoicas/inventario-consola/internal/domain/repository"
)

// ProductUseCase casos de uso de productos. La persistencia es del backend;
// aquí se valida, se deriva el estado de stock y se filtra.
type ProductUseCase struct {
	repo repository.ProductRepository
	log  zerolog.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, log zerolog.Logger) *ProductUseCase {
	return &ProductUseCase{repo: repo, log: log}
}

// List devuelve una página de productos. Con término de búsqueda se usa
// /productos/search; si el backend no lo soporta se filtra localmente sobre la
// lista completa (sin tildes ni mayúsculas, por nombre y categoría).
func (uc *ProductUseCase) List(ctx context.Context, q string, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	if term := strings.TrimSpace(q); term != "" {
		items, err := uc.search(ctx, term)
		if err != nil {
			return nil, err
		}
		total := len(items)
		return &dto.ProductListResponse{
			Items: toProductResponses(items),
			Page:  dto.PageResponse{Page: 0, Size: total, TotalElements: &total},
		}, nil
	}

	p, err := uc.repo.Page(ctx, page.Page, page.Size)
	if err != nil {
		return nil, err
	}
	resp := &dto.ProductListResponse{
		Items: toProductResponses(p.Items),
		Page: dto.PageResponse{
			Page:          page.Page,
			Size:          page.Size,
			TotalElements: p.TotalElements,
			TotalPages:    p.TotalPages,
		},
	}
	if p.Number != nil {
		resp.Page.Page = *p.Number
	}
	if p.Size != nil {
		resp.Page.Size = *p.Size
	}
	return resp, nil
}

func (uc *ProductUseCase) search(ctx context.Context, term string) ([]entity.Product, error) {
	items, err := uc.repo.Search(ctx, term)
	if err == nil {
		return items, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	uc.log.Debug().Str("q", term).Msg("búsqueda no disponible en el backend; se filtra localmente")
	all, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return inventory.FilterProducts(all, term), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	out := toProductResponse(*product)
	return &out, nil
}

// Create crea un producto.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.StockMaximo > 0 && in.Minimo > in.StockMaximo {
		return nil, domain.ErrInvalidInput
	}
	product := entity.Product{
		Nombre:         strings.TrimSpace(in.Nombre),
		Categoria:      strings.TrimSpace(in.Categoria),
		SKU:            in.SKU,
		Descripcion:    in.Descripcion,
		Stock:          in.Stock,
		Minimo:         in.Minimo,
		StockMaximo:    in.StockMaximo,
		PrecioUnitario: decimal.NewFromFloat(in.PrecioUnitario),
	}
	created, err := uc.repo.Create(ctx, product)
	if err != nil {
		return nil, err
	}
	out := toProductResponse(*created)
	return &out, nil
}

// Update actualiza parcialmente un producto. Sin campos es entrada inválida.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	fields := in.Fields()
	if len(fields) == 0 {
		return nil, domain.ErrInvalidInput
	}
	updated, err := uc.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	out := toProductResponse(*updated)
	return &out, nil
}

// Delete elimina un producto.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

func toProductResponse(p entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:             p.ID,
		Nombre:         p.Nombre,
		Categoria:      p.Categoria,
		SKU:            p.SKU,
		Descripcion:    p.Descripcion,
		Stock:          p.Stock,
		Minimo:         p.Minimo,
		StockMaximo:    p.StockMaximo,
		PrecioUnitario: p.PrecioUnitario,
		Estado:         inventory.StockStatus(p),
	}
}

func toProductResponses(list []entity.Product) []dto.ProductResponse {
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toProductResponse(p))
	}
	return out
}
