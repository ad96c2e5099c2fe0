package backend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/jhoicas/inventario-consola/internal/domain"
)

// BreakerConfig configuración del circuit breaker.
type BreakerConfig struct {
	Name             string
	FailureThreshold uint32        // fallos consecutivos para abrir
	OpenTimeout      time.Duration // tiempo abierto antes de pasar a half-open
	MaxRequests      uint32        // peticiones permitidas en half-open
}

// StateObserver recibe los cambios de estado (métricas).
type StateObserver func(name string, state gobreaker.State)

// Breaker envuelve gobreaker con logging. Los 4xx no cuentan como fallo: el
// backend está vivo y respondió. Tampoco cuenta la cancelación del llamador.
type Breaker struct {
	cb   *gobreaker.CircuitBreaker
	name string
	log  zerolog.Logger
}

// NewBreaker construye el breaker. observer puede ser nil.
func NewBreaker(cfg BreakerConfig, log zerolog.Logger, observer StateObserver) *Breaker {
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	if cfg.MaxRequests == 0 {
		cfg.MaxRequests = 1
	}
	b := &Breaker{name: cfg.Name, log: log}
	b.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			b.log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker cambió de estado")
			if observer != nil {
				observer(name, to)
			}
		},
	})
	return b
}

// Execute ejecuta fn bajo el breaker. Si está abierto devuelve un error que
// cumple errors.Is(err, domain.ErrBackendUnavailable).
//
// ctx es el contexto del llamador: si ya terminó cuando fn falla, el error no
// cuenta como fallo del backend. El timeout propio de cada petición (un
// contexto derivado) sí cuenta.
func (b *Breaker) Execute(ctx context.Context, fn func() error) error {
	var passErr error
	_, err := b.cb.Execute(func() (interface{}, error) {
		err := fn()
		if err != nil && (clientError(err) || ctx.Err() != nil) {
			passErr = err
			return nil, nil
		}
		return nil, err
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: circuit breaker %s: %v", domain.ErrBackendUnavailable, b.name, err)
	}
	if err != nil {
		return err
	}
	return passErr
}

// State estado actual.
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}
