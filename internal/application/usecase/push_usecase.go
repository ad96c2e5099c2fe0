package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-consola/internal/application/ports"
)

// Reloader recalcula el tablero ante un cambio. Trigger no bloquea.
type Reloader interface {
	Trigger(reason string) uint64
}

// PushUseCase reparte los eventos del canal push: las alertas van al feed y
// cualquier evento dispara la recarga del tablero.
type PushUseCase struct {
	alerts   *AlertUseCase
	reloader Reloader
	log      zerolog.Logger
}

// NewPushUseCase construye el caso de uso.
func NewPushUseCase(alerts *AlertUseCase, reloader Reloader, log zerolog.Logger) *PushUseCase {
	return &PushUseCase{alerts: alerts, reloader: reloader, log: log}
}

// Handle implementa ports.PushHandler.
func (uc *PushUseCase) Handle(_ context.Context, ev ports.PushEvent) {
	if ev.Kind == ports.PushAlerta {
		a := uc.alerts.Ingest(ev.Payload)
		uc.log.Info().Str("alerta", a.ID).Str("severidad", a.Severidad).Msg("alerta recibida")
	}
	epoch := uc.reloader.Trigger(ev.Kind)
	uc.log.Debug().Str("kind", ev.Kind).Str("topic", ev.Topic).Uint64("epoch", epoch).Msg("evento push")
}
