package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrStaleSnapshot Save rechazó un snapshot cuya época ya no es la vigente.
var ErrStaleSnapshot = errors.New("snapshot de una época superada")

// Snapshot último tablero calculado, serializado, con su época de recarga.
type Snapshot struct {
	Epoch     uint64          `json:"epoch"`
	Data      json.RawMessage `json:"data"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// SnapshotRepository almacén del último tablero publicado (memoria o Redis).
// La época vive en el almacén para que todas las instancias que lo comparten
// la vean avanzar.
//
// Latest devuelve nil, nil si no hay nada guardado. Save devuelve
// ErrStaleSnapshot si snap.Epoch no es la época vigente.
type SnapshotRepository interface {
	Save(ctx context.Context, snap Snapshot) error
	Latest(ctx context.Context) (*Snapshot, error)
	Invalidate(ctx context.Context) error
	// NextEpoch avanza la época y devuelve la nueva.
	NextEpoch(ctx context.Context) (uint64, error)
	// Epoch época vigente; 0 si nunca avanzó.
	Epoch(ctx context.Context) (uint64, error)
}
