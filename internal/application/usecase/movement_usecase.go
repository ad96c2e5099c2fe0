package usecase

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-consola/internal/application/dto"
	"github.com/jhoicas/inventario-consola/internal/application/pagination"
	"github.com/jhoicas/inventario-consola/internal/domain/entity"
	"github.com/jhoicas/inventario-consola/internal/domain/inventory"
	"github.com/jhoicas/inventario-consola/internal/domain/repository"
)

// MovementCollector reúne el conjunto completo de movimientos. Lo implementa
// *pagination.Accumulator[entity.Movement].
type MovementCollector interface {
	Collect(ctx context.Context) pagination.Result[entity.Movement]
}

// MovementUseCase listado, acumulado y registro de movimientos.
type MovementUseCase struct {
	repo      repository.MovementRepository
	products  repository.ProductRepository
	collector MovementCollector
	log       zerolog.Logger
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(repo repository.MovementRepository, products repository.ProductRepository, collector MovementCollector, log zerolog.Logger) *MovementUseCase {
	return &MovementUseCase{repo: repo, products: products, collector: collector, log: log}
}

// List devuelve una página del backend con los productos resueltos.
func (uc *MovementUseCase) List(ctx context.Context, q string, page dto.PageRequest) (*dto.MovementListResponse, error) {
	page.DefaultPage()
	p, err := uc.repo.ListPage(ctx, page.Page, page.Size)
	if err != nil {
		return nil, err
	}
	meta := &dto.PageResponse{Page: page.Page, Size: page.Size, TotalElements: p.TotalElements, TotalPages: p.TotalPages}
	if p.Number != nil {
		meta.Page = *p.Number
	}
	if p.Size != nil {
		meta.Size = *p.Size
	}
	return &dto.MovementListResponse{
		Items:    inventory.FilterMovements(uc.enrich(ctx, p.Items), q),
		Page:     meta,
		Completo: true,
	}, nil
}

// All recorre todas las páginas. Un fallo a mitad de camino no es error: se
// devuelve lo reunido con Completo=false.
func (uc *MovementUseCase) All(ctx context.Context, q string) *dto.MovementListResponse {
	res := uc.collector.Collect(ctx)
	if res.Err != nil {
		uc.log.Warn().Err(res.Err).Int("items", len(res.Items)).Msg("movimientos incompletos")
	}
	items := inventory.FilterMovements(uc.enrich(ctx, res.Items), q)
	if items == nil {
		items = []entity.Movement{}
	}
	return &dto.MovementListResponse{Items: items, Completo: res.Complete}
}

// Create registra un movimiento. El tipo se normaliza a mayúsculas.
func (uc *MovementUseCase) Create(ctx context.Context, in dto.CreateMovementRequest) (*entity.Movement, error) {
	return uc.repo.Create(ctx, repository.NewMovement{
		Tipo:        strings.ToUpper(strings.TrimSpace(in.Tipo)),
		ProductoID:  strings.TrimSpace(in.ProductoID),
		Cantidad:    in.Cantidad,
		Observacion: strings.TrimSpace(in.Observacion),
	})
}

// enrich resuelve el producto de cada movimiento. Si la lista de productos no
// se puede cargar los movimientos se devuelven tal cual.
func (uc *MovementUseCase) enrich(ctx context.Context, movements []entity.Movement) []entity.Movement {
	if len(movements) == 0 {
		return movements
	}
	products, err := uc.products.List(ctx)
	if err != nil {
		uc.log.Warn().Err(err).Msg("no se pudieron cargar productos para resolver movimientos")
		return movements
	}
	return inventory.ResolveProducts(movements, products)
}
