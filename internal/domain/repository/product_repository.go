package repository

import (
	"context"

	"github.com/jhoicas/inventario-consola/internal/domain/entity"
)

// ProductRepository puerto hacia /productos del backend (DIP).
type ProductRepository interface {
	List(ctx context.Context) ([]entity.Product, error)
	Page(ctx context.Context, page, size int) (entity.Page[entity.Product], error)
	Search(ctx context.Context, term string) ([]entity.Product, error)
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	Create(ctx context.Context, product entity.Product) (*entity.Product, error)
	// Update envía solo los campos presentes en fields (PATCH).
	Update(ctx context.Context, id string, fields map[string]any) (*entity.Product, error)
	Delete(ctx context.Context, id string) error
}
