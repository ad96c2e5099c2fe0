package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-consola/internal/application/dto"
	"github.com/jhoicas/inventario-consola/internal/application/ports"
	"github.com/jhoicas/inventario-consola/internal/domain/repository"
)

// Resultados de una recarga, para métricas.
const (
	OutcomePublished   = "publicado"
	OutcomeStale       = "descartado"
	OutcomeCancelled   = "cancelado"
	OutcomeInvalidated = "invalidado"
	OutcomeIncomplete  = "incompleto"
)

// DefaultReloadTimeout tope de una recarga, por push o por petición.
const DefaultReloadTimeout = 60 * time.Second

// epochTimeout tope para avanzar o leer la época en el almacén.
const epochTimeout = 2 * time.Second

// Loader calcula un tablero nuevo. *UseCase lo implementa.
type Loader interface {
	Load(ctx context.Context) *dto.DashboardDTO
}

// ReloadObserver recibe el desenlace de cada recarga.
type ReloadObserver interface {
	ReloadTriggered(reason string)
	ReloadFinished(outcome string, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) ReloadTriggered(string)                {}
func (nopObserver) ReloadFinished(string, time.Duration) {}

// ReloaderConfig parámetros del recargador.
type ReloaderConfig struct {
	// ServiceToken credencial para recargar sin una petición de usuario. Vacío
	// = no se recalcula en segundo plano, solo se invalida el snapshot.
	ServiceToken string
	Timeout      time.Duration
}

// Reloader mantiene el último tablero publicado. Cada evento avanza la época
// del almacén y cancela la recarga en curso; solo la época vigente publica.
// Varias instancias con el mismo almacén comparten la época.
type Reloader struct {
	loader   Loader
	store    repository.SnapshotRepository
	cfg      ReloaderConfig
	log      zerolog.Logger
	observer ReloadObserver

	epoch atomic.Uint64 // última época vista en el almacén

	mu     sync.Mutex
	base   context.Context
	cancel context.CancelFunc

	wg sync.WaitGroup
}

// NewReloader construye el recargador. observer puede ser nil.
func NewReloader(loader Loader, store repository.SnapshotRepository, cfg ReloaderConfig, log zerolog.Logger, observer ReloadObserver) *Reloader {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultReloadTimeout
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &Reloader{
		loader:   loader,
		store:    store,
		cfg:      cfg,
		log:      log,
		observer: observer,
		base:     context.Background(),
	}
}

// Start fija el contexto padre de las recargas en segundo plano; al cancelarse
// ctx se cancelan todas.
func (r *Reloader) Start(ctx context.Context) {
	r.mu.Lock()
	r.base = ctx
	r.mu.Unlock()
}

// Epoch última época vista por esta instancia.
func (r *Reloader) Epoch() uint64 { return r.epoch.Load() }

// seen registra una época leída del almacén; nunca retrocede.
func (r *Reloader) seen(epoch uint64) {
	for {
		cur := r.epoch.Load()
		if epoch <= cur || r.epoch.CompareAndSwap(cur, epoch) {
			return
		}
	}
}

// advance avanza la época en el almacén. Si no responde se avanza solo la
// local: el almacén rechazará lo que se publique con ella.
func (r *Reloader) advance(ctx context.Context) uint64 {
	ctx, cancel := context.WithTimeout(ctx, epochTimeout)
	defer cancel()
	epoch, err := r.store.NextEpoch(ctx)
	if err != nil {
		r.log.Warn().Err(err).Msg("no se pudo avanzar la época en el almacén")
		return r.epoch.Add(1)
	}
	r.seen(epoch)
	return epoch
}

// current época vigente según el almacén.
func (r *Reloader) current(ctx context.Context) uint64 {
	ctx, cancel := context.WithTimeout(ctx, epochTimeout)
	defer cancel()
	epoch, err := r.store.Epoch(ctx)
	if err != nil {
		r.log.Warn().Err(err).Msg("no se pudo leer la época del almacén")
		return r.Epoch()
	}
	r.seen(epoch)
	return epoch
}

// Wait espera a que terminen las recargas lanzadas.
func (r *Reloader) Wait() { r.wg.Wait() }

// Trigger registra un cambio y devuelve la nueva época. Solo espera a que el
// almacén avance la época; la recarga corre en segundo plano.
func (r *Reloader) Trigger(reason string) uint64 {
	r.observer.ReloadTriggered(reason)

	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	epoch := r.advance(r.base)
	ctx, cancel := context.WithTimeout(r.base, r.cfg.Timeout)
	if r.cfg.ServiceToken != "" {
		r.cancel = cancel
	}
	r.wg.Add(1)
	r.mu.Unlock()

	if r.cfg.ServiceToken == "" {
		go func() {
			defer r.wg.Done()
			defer cancel()
			r.invalidate(ctx, epoch, reason)
		}()
		return epoch
	}

	ctx = ports.WithToken(ctx, r.cfg.ServiceToken)
	go func() {
		defer r.wg.Done()
		defer cancel()
		r.reload(ctx, epoch, reason)
	}()
	return epoch
}

func (r *Reloader) reload(ctx context.Context, epoch uint64, reason string) {
	start := time.Now()
	d := r.loader.Load(ctx)
	if ctx.Err() != nil {
		r.log.Debug().Uint64("epoch", epoch).Str("motivo", reason).Msg("recarga cancelada")
		r.observer.ReloadFinished(OutcomeCancelled, time.Since(start))
		return
	}
	outcome := r.publish(ctx, epoch, d)
	r.observer.ReloadFinished(outcome, time.Since(start))
	r.log.Info().Uint64("epoch", epoch).Str("motivo", reason).Str("resultado", outcome).
		Dur("duracion", time.Since(start)).Msg("recarga del tablero")
}

func (r *Reloader) invalidate(ctx context.Context, epoch uint64, reason string) {
	start := time.Now()
	if err := r.store.Invalidate(ctx); err != nil {
		r.log.Warn().Err(err).Uint64("epoch", epoch).Msg("no se pudo invalidar el snapshot")
	}
	r.observer.ReloadFinished(OutcomeInvalidated, time.Since(start))
	r.log.Debug().Uint64("epoch", epoch).Str("motivo", reason).Msg("snapshot invalidado")
}

// publish guarda d solo si epoch sigue vigente y el tablero está completo. La
// comparación de épocas la hace el almacén al guardar.
func (r *Reloader) publish(ctx context.Context, epoch uint64, d *dto.DashboardDTO) string {
	if !d.Completo {
		return OutcomeIncomplete
	}
	data, err := json.Marshal(d)
	if err != nil {
		r.log.Error().Err(err).Msg("no se pudo serializar el tablero")
		return OutcomeIncomplete
	}

	snap := repository.Snapshot{Epoch: epoch, Data: data, UpdatedAt: d.GeneradoEn}
	err = r.store.Save(ctx, snap)
	if errors.Is(err, repository.ErrStaleSnapshot) {
		return OutcomeStale
	}
	if err != nil {
		r.log.Warn().Err(err).Uint64("epoch", epoch).Msg("no se pudo guardar el snapshot")
		return OutcomeIncomplete
	}
	return OutcomePublished
}

// Dashboard devuelve el tablero publicado de la época vigente o, si no hay
// (o fresh), lo calcula con las credenciales de ctx y lo publica si ninguna
// época nueva empezó mientras tanto. El cálculo tiene el mismo tope que una
// recarga: el contexto de la petición no se cancela solo.
func (r *Reloader) Dashboard(ctx context.Context, fresh bool) *dto.DashboardDTO {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	epoch := r.current(ctx)
	if !fresh {
		if d := r.cached(ctx, epoch); d != nil {
			return d
		}
	}
	d := r.loader.Load(ctx)
	if ctx.Err() == nil {
		r.publish(ctx, epoch, d)
	}
	return d
}

func (r *Reloader) cached(ctx context.Context, epoch uint64) *dto.DashboardDTO {
	snap, err := r.store.Latest(ctx)
	if err != nil {
		r.log.Warn().Err(err).Msg("snapshot no disponible")
		return nil
	}
	if snap == nil || snap.Epoch != epoch {
		return nil
	}
	var d dto.DashboardDTO
	if err := json.Unmarshal(snap.Data, &d); err != nil {
		r.log.Warn().Err(err).Msg("snapshot ilegible")
		return nil
	}
	return &d
}
