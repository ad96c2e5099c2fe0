package ports

import (
	"context"
	"time"
)

// Tipos de evento del canal push.
const (
	PushProducto = "producto"
	PushAlerta   = "alerta"
)

// PushEvent mensaje recibido por el canal push (STOMP o Kafka).
type PushEvent struct {
	Kind       string // PushProducto | PushAlerta
	Topic      string
	Payload    []byte
	ReceivedAt time.Time
}

// PushHandler procesa un evento. Debe volver rápido: el listener lo llama
// desde su bucle de lectura.
type PushHandler func(ctx context.Context, ev PushEvent)

// PushListener puerto de entrada del canal push. Run bloquea hasta que ctx se
// cancela.
type PushListener interface {
	Run(ctx context.Context, handle PushHandler) error
}
