package pagination_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-consola/internal/application/pagination"
	"github.com/jhoicas/inventario-consola/internal/domain/entity"
	"github.com/jhoicas/inventario-consola/internal/domain/inventory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type call struct{ page, size int }

// fakeBackend sirve páginas predefinidas y registra cada petición.
type fakeBackend struct {
	pages  map[int]entity.Page[entity.Movement]
	errAt  map[int]error
	always *entity.Page[entity.Movement] // si no es nil se devuelve para cualquier página
	calls  []call
}

func (f *fakeBackend) fetch(_ context.Context, page, size int) (entity.Page[entity.Movement], error) {
	f.calls = append(f.calls, call{page, size})
	if err, ok := f.errAt[page]; ok {
		return entity.Page[entity.Movement]{}, err
	}
	if f.always != nil {
		return *f.always, nil
	}
	return f.pages[page], nil
}

func mov(id string) entity.Movement {
	return entity.Movement{ID: &id, Tipo: entity.MovementTypeEntrada, Cantidad: 1, Fecha: "2024-01-01"}
}

func ids(items []entity.Movement) []string {
	out := make([]string, 0, len(items))
	for _, m := range items {
		if m.ID == nil {
			out = append(out, "<nil>")
			continue
		}
		out = append(out, *m.ID)
	}
	return out
}

func newAccumulator(f *fakeBackend, size int) *pagination.Accumulator[entity.Movement] {
	return pagination.New(f.fetch, inventory.MovementKey, pagination.Config{
		Resource: "movimientos",
		PageSize: size,
		MaxPages: 20,
	}, zerolog.Nop(), nil)
}

func envelope(items []entity.Movement, totalElements, size, number *int) entity.Page[entity.Movement] {
	return entity.Page[entity.Movement]{
		Items:         items,
		Envelope:      true,
		TotalElements: totalElements,
		Size:          size,
		Number:        number,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Sobre paginado
// ──────────────────────────────────────────────────────────────────────────────

func TestCollect_SobreDosPaginas(t *testing.T) {
	f := &fakeBackend{pages: map[int]entity.Page[entity.Movement]{
		0: envelope([]entity.Movement{mov("m1"), mov("m2")}, entity.IntPtr(3), entity.IntPtr(2), entity.IntPtr(0)),
		1: envelope([]entity.Movement{mov("m3")}, entity.IntPtr(3), entity.IntPtr(2), entity.IntPtr(1)),
	}}

	res := newAccumulator(f, 2).Collect(context.Background())

	require.NoError(t, res.Err)
	assert.True(t, res.Complete)
	assert.Equal(t, []string{"m1", "m2", "m3"}, ids(res.Items))
	assert.Equal(t, 2, res.Fetches)
	assert.Equal(t, []call{{0, 2}, {1, 2}}, f.calls)
}

func TestCollect_SobreUsaTamanoYNumeroDelServidor(t *testing.T) {
	f := &fakeBackend{pages: map[int]entity.Page[entity.Movement]{
		0: {Items: []entity.Movement{mov("a"), mov("b")}, Envelope: true, TotalPages: entity.IntPtr(3), Size: entity.IntPtr(2), Number: entity.IntPtr(0)},
		1: {Items: []entity.Movement{mov("c"), mov("d")}, Envelope: true, TotalPages: entity.IntPtr(3), Size: entity.IntPtr(2), Number: entity.IntPtr(1)},
		2: {Items: []entity.Movement{mov("e")}, Envelope: true, TotalPages: entity.IntPtr(3), Size: entity.IntPtr(2), Number: entity.IntPtr(2)},
	}}

	res := newAccumulator(f, 100).Collect(context.Background())

	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids(res.Items))
	assert.Equal(t, []call{{0, 100}, {1, 2}, {2, 2}}, f.calls, "el tamaño informado por el servidor se reutiliza")
}

func TestCollect_SobreLlenoSoloDuplicadosSinMetadatosTermina(t *testing.T) {
	f := &fakeBackend{pages: map[int]entity.Page[entity.Movement]{
		0: envelope([]entity.Movement{mov("a"), mov("b")}, nil, nil, nil),
		1: envelope([]entity.Movement{mov("a"), mov("b")}, nil, nil, nil),
	}}

	res := newAccumulator(f, 2).Collect(context.Background())

	assert.True(t, res.Complete)
	assert.Equal(t, []string{"a", "b"}, ids(res.Items))
	assert.Equal(t, 2, res.Fetches)
}

func TestCollect_TotalElementsInconsistenteCortaEnTope(t *testing.T) {
	page := envelope([]entity.Movement{mov("a")}, entity.IntPtr(100), entity.IntPtr(1), nil)
	f := &fakeBackend{always: &page}

	res := newAccumulator(f, 1).Collect(context.Background())

	assert.ErrorIs(t, res.Err, pagination.ErrMaxPages)
	assert.False(t, res.Complete)
	assert.Equal(t, 20, res.Fetches)
	assert.Equal(t, []string{"a"}, ids(res.Items))
}

// ──────────────────────────────────────────────────────────────────────────────
// Arreglo desnudo
// ──────────────────────────────────────────────────────────────────────────────

func TestCollect_ArregloDesnudoHastaPaginaIncompleta(t *testing.T) {
	f := &fakeBackend{pages: map[int]entity.Page[entity.Movement]{
		0: entity.BarePage([]entity.Movement{mov("a"), mov("b")}),
		1: entity.BarePage([]entity.Movement{mov("c"), mov("d")}),
		2: entity.BarePage([]entity.Movement{mov("e")}),
	}}

	res := newAccumulator(f, 2).Collect(context.Background())

	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids(res.Items))
	assert.Equal(t, 3, res.Fetches)
}

func TestCollect_ArregloDesnudoIgnoraPaginacionYTermina(t *testing.T) {
	// Backend que ignora page/size y siempre devuelve todo.
	all := entity.BarePage([]entity.Movement{mov("a"), mov("b"), mov("c")})
	f := &fakeBackend{always: &all}

	res := newAccumulator(f, 3).Collect(context.Background())

	assert.True(t, res.Complete)
	assert.Equal(t, []string{"a", "b", "c"}, ids(res.Items))
	assert.LessOrEqual(t, res.Fetches, 3/3+1, "debe terminar en total/size + 1 llamadas")
}

func TestCollect_SinClaveSiempreSeIncluye(t *testing.T) {
	anon := entity.Movement{Tipo: entity.MovementTypeSalida, Cantidad: 2}
	f := &fakeBackend{pages: map[int]entity.Page[entity.Movement]{
		0: entity.BarePage([]entity.Movement{anon, anon}),
		1: entity.BarePage([]entity.Movement{anon}),
	}}

	res := newAccumulator(f, 2).Collect(context.Background())

	assert.Len(t, res.Items, 3)
}

func TestCollect_PaginaVaciaTermina(t *testing.T) {
	f := &fakeBackend{pages: map[int]entity.Page[entity.Movement]{}}

	res := newAccumulator(f, 10).Collect(context.Background())

	assert.True(t, res.Complete)
	assert.Empty(t, res.Items)
	assert.Equal(t, 1, res.Fetches)
}

// ──────────────────────────────────────────────────────────────────────────────
// Errores e idempotencia
// ──────────────────────────────────────────────────────────────────────────────

func TestCollect_ErrorConservaParciales(t *testing.T) {
	boom := errors.New("HTTP 500")
	f := &fakeBackend{
		pages: map[int]entity.Page[entity.Movement]{
			0: entity.BarePage([]entity.Movement{mov("a"), mov("b")}),
		},
		errAt: map[int]error{1: boom},
	}

	res := newAccumulator(f, 2).Collect(context.Background())

	assert.ErrorIs(t, res.Err, boom)
	assert.False(t, res.Complete)
	assert.Equal(t, []string{"a", "b"}, ids(res.Items))
	assert.Equal(t, 2, res.Fetches, "no se reintenta la página fallida")
}

func TestCollect_Idempotente(t *testing.T) {
	fixture := map[int]entity.Page[entity.Movement]{
		0: envelope([]entity.Movement{mov("1"), mov("2"), mov("3")}, entity.IntPtr(7), entity.IntPtr(3), entity.IntPtr(0)),
		1: envelope([]entity.Movement{mov("3"), mov("4"), mov("5")}, entity.IntPtr(7), entity.IntPtr(3), entity.IntPtr(1)),
		2: envelope([]entity.Movement{mov("6"), mov("7")}, entity.IntPtr(7), entity.IntPtr(3), entity.IntPtr(2)),
	}

	first := newAccumulator(&fakeBackend{pages: fixture}, 3).Collect(context.Background())
	second := newAccumulator(&fakeBackend{pages: fixture}, 3).Collect(context.Background())

	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6", "7"}, ids(first.Items))
	assert.Equal(t, ids(first.Items), ids(second.Items))
	assert.Equal(t, first.Fetches, second.Fetches)
}

// ──────────────────────────────────────────────────────────────────────────────
// Métricas
// ──────────────────────────────────────────────────────────────────────────────

type recorderSpy struct {
	mu       sync.Mutex
	pages    []bool
	finished []string
}

func (r *recorderSpy) PageFetched(resource string, ok bool, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pages = append(r.pages, ok)
}

func (r *recorderSpy) WalkFinished(resource string, items int, complete bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished = append(r.finished, fmt.Sprintf("%s:%d:%t", resource, items, complete))
}

func TestCollect_InformaMetricas(t *testing.T) {
	f := &fakeBackend{
		pages: map[int]entity.Page[entity.Movement]{0: entity.BarePage([]entity.Movement{mov("a")})},
	}
	spy := &recorderSpy{}
	acc := pagination.New(f.fetch, inventory.MovementKey, pagination.Config{Resource: "movimientos", PageSize: 5}, zerolog.Nop(), spy)

	acc.Collect(context.Background())

	assert.Equal(t, []bool{true}, spy.pages)
	assert.Equal(t, []string{"movimientos:1:true"}, spy.finished)
}
