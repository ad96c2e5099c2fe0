// Package pagination recorre colecciones paginadas del backend hasta reunir el
// conjunto completo, deduplicando entre páginas.
package pagination

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-consola/internal/domain/entity"
)

// Valores por defecto del recorrido.
const (
	DefaultPageSize = 100
	DefaultMaxPages = 500
)

// ErrMaxPages indica que el recorrido se cortó por el tope de páginas.
var ErrMaxPages = errors.New("paginación: tope de páginas alcanzado")

// FetchFunc pide una página (base cero) de tamaño size.
type FetchFunc[T any] func(ctx context.Context, page, size int) (entity.Page[T], error)

// KeyFunc deriva la clave de deduplicación; false = sin clave (siempre nuevo).
type KeyFunc[T any] func(item T) (string, bool)

// Recorder recibe métricas del recorrido. Las implementaciones deben ser seguras
// para uso concurrente.
type Recorder interface {
	PageFetched(resource string, ok bool, elapsed time.Duration)
	WalkFinished(resource string, items int, complete bool)
}

type nopRecorder struct{}

func (nopRecorder) PageFetched(string, bool, time.Duration) {}
func (nopRecorder) WalkFinished(string, int, bool)          {}

// Config parámetros del recorrido.
type Config struct {
	Resource string // nombre para logs y métricas, ej: "movimientos"
	PageSize int
	MaxPages int
}

// Result conjunto acumulado. Nunca se descarta lo reunido: si una página falla
// Err queda informado, Complete en false e Items conserva lo obtenido hasta ahí.
type Result[T any] struct {
	Items    []T
	Fetches  int
	Complete bool
	Err      error
}

// Accumulator recorre un endpoint paginado. Cada llamada a Collect es
// independiente: el acumulado y el conjunto de claves vistas son locales.
type Accumulator[T any] struct {
	fetch    FetchFunc[T]
	key      KeyFunc[T]
	cfg      Config
	log      zerolog.Logger
	recorder Recorder
}

// New construye el acumulador. recorder puede ser nil.
func New[T any](fetch FetchFunc[T], key KeyFunc[T], cfg Config, log zerolog.Logger, recorder Recorder) *Accumulator[T] {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = DefaultMaxPages
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Accumulator[T]{
		fetch:    fetch,
		key:      key,
		cfg:      cfg,
		log:      log.With().Str("resource", cfg.Resource).Logger(),
		recorder: recorder,
	}
}

// Collect pide páginas de forma secuencial desde la 0 hasta que se cumple la
// condición de término:
//
//   - página vacía → fin.
//   - arreglo desnudo → sigue solo si la página vino llena y aportó algo nuevo.
//   - sobre → sigue si quedan páginas según totalPages, si totalElements supera
//     lo acumulado, o si la página vino llena y aportó algo nuevo.
//
// La siguiente página es number+1 (o la pedida +1) con el size informado por el
// servidor (o el pedido). Los errores no se reintentan.
func (a *Accumulator[T]) Collect(ctx context.Context) Result[T] {
	var (
		res  Result[T]
		seen = make(map[string]struct{})
		page = 0
		size = a.cfg.PageSize
	)
	defer func() {
		a.recorder.WalkFinished(a.cfg.Resource, len(res.Items), res.Complete)
	}()

	for {
		if res.Fetches >= a.cfg.MaxPages {
			res.Err = ErrMaxPages
			a.log.Warn().Int("fetches", res.Fetches).Int("items", len(res.Items)).
				Msg("paginación detenida por tope de páginas; metadatos del backend inconsistentes")
			return res
		}

		start := time.Now()
		p, err := a.fetch(ctx, page, size)
		res.Fetches++
		a.recorder.PageFetched(a.cfg.Resource, err == nil, time.Since(start))
		if err != nil {
			res.Err = err
			a.log.Error().Err(err).Int("page", page).Int("items", len(res.Items)).
				Msg("error cargando página; se conservan los resultados parciales")
			return res
		}

		if len(p.Items) == 0 {
			res.Complete = true
			return res
		}

		added := 0
		for _, item := range p.Items {
			if k, ok := a.key(item); ok {
				if _, dup := seen[k]; dup {
					continue
				}
				seen[k] = struct{}{}
			}
			res.Items = append(res.Items, item)
			added++
		}

		next, more := a.continuation(p, page, size, len(res.Items), added)
		a.log.Debug().Int("page", page).Int("received", len(p.Items)).Int("added", added).
			Bool("more", more).Msg("página acumulada")
		if !more {
			res.Complete = true
			return res
		}
		page = next
		if p.Size != nil && *p.Size > 0 {
			size = *p.Size
		}
	}
}

// continuation decide si hay que pedir otra página y cuál.
func (a *Accumulator[T]) continuation(p entity.Page[T], page, size, accumulated, added int) (int, bool) {
	newItems := added > 0
	if !p.Envelope {
		return page + 1, len(p.Items) == size && newItems
	}

	expected := size
	if p.Size != nil {
		expected = *p.Size
	}

	totalPages := p.TotalPages
	if totalPages == nil && p.TotalElements != nil && *p.TotalElements != 0 && p.Size != nil && *p.Size != 0 {
		n := (*p.TotalElements + *p.Size - 1) / *p.Size
		totalPages = &n
	}

	current := page
	if p.Number != nil {
		current = *p.Number
	}

	morePages := totalPages != nil && current+1 < *totalPages
	missing := p.TotalElements != nil && accumulated < *p.TotalElements
	fullPage := len(p.Items) == expected

	return current + 1, morePages || missing || (fullPage && newItems)
}
