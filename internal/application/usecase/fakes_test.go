package usecase_test

import (
	"context"
	"sync"

	"github.com/jhoicas/inventario-consola/internal/application/pagination"
	"github.com/jhoicas/inventario-consola/internal/domain/entity"
	"github.com/jhoicas/inventario-consola/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes de los puertos
// ──────────────────────────────────────────────────────────────────────────────

type fakeProducts struct {
	items     []entity.Product
	page      entity.Page[entity.Product]
	listErr   error
	searchErr error
	searched  []entity.Product
	fields    map[string]any
	created   entity.Product
}

func (f *fakeProducts) List(context.Context) ([]entity.Product, error) {
	return f.items, f.listErr
}

func (f *fakeProducts) Page(context.Context, int, int) (entity.Page[entity.Product], error) {
	return f.page, nil
}

func (f *fakeProducts) Search(context.Context, string) ([]entity.Product, error) {
	return f.searched, f.searchErr
}

func (f *fakeProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	for _, p := range f.items {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeProducts) Create(_ context.Context, p entity.Product) (*entity.Product, error) {
	f.created = p
	p.ID = "nuevo"
	return &p, nil
}

func (f *fakeProducts) Update(_ context.Context, id string, fields map[string]any) (*entity.Product, error) {
	f.fields = fields
	return &entity.Product{ID: id, Nombre: "actualizado", Stock: 1}, nil
}

func (f *fakeProducts) Delete(context.Context, string) error { return nil }

type fakeMovements struct {
	page    entity.Page[entity.Movement]
	created repository.NewMovement
}

func (f *fakeMovements) ListPage(context.Context, int, int) (entity.Page[entity.Movement], error) {
	return f.page, nil
}

func (f *fakeMovements) Create(_ context.Context, in repository.NewMovement) (*entity.Movement, error) {
	f.created = in
	pid := in.ProductoID
	return &entity.Movement{Tipo: in.Tipo, ProductoID: &pid, Cantidad: in.Cantidad}, nil
}

type fakeCollector struct {
	res pagination.Result[entity.Movement]
}

func (f fakeCollector) Collect(context.Context) pagination.Result[entity.Movement] { return f.res }

type fakeReloader struct {
	mu      sync.Mutex
	reasons []string
}

func (f *fakeReloader) Trigger(reason string) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reasons = append(f.reasons, reason)
	return uint64(len(f.reasons))
}

func strPtr(s string) *string { return &s }
