// Package cache guarda el último tablero publicado: en memoria para una sola
// instancia o en Redis para compartirlo entre réplicas.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/inventario-consola/internal/domain/repository"
)

var _ repository.SnapshotRepository = (*MemorySnapshotStore)(nil)

// MemorySnapshotStore snapshot en memoria con vencimiento opcional (ttl 0 = no vence).
// La época solo se comparte entre los recargadores del mismo proceso.
type MemorySnapshotStore struct {
	mu    sync.RWMutex
	epoch uint64
	snap  *repository.Snapshot
	at    time.Time
	ttl   time.Duration
	now   func() time.Time
}

// NewMemorySnapshotStore construye el almacén.
func NewMemorySnapshotStore(ttl time.Duration) *MemorySnapshotStore {
	return &MemorySnapshotStore{ttl: ttl, now: time.Now}
}

func (s *MemorySnapshotStore) Save(_ context.Context, snap repository.Snapshot) error {
	data := append([]byte(nil), snap.Data...)
	snap.Data = data

	s.mu.Lock()
	defer s.mu.Unlock()
	if snap.Epoch != s.epoch {
		return repository.ErrStaleSnapshot
	}
	s.snap = &snap
	s.at = s.now()
	return nil
}

func (s *MemorySnapshotStore) Latest(context.Context) (*repository.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return nil, nil
	}
	if s.ttl > 0 && s.now().Sub(s.at) >= s.ttl {
		return nil, nil
	}
	cp := *s.snap
	return &cp, nil
}

func (s *MemorySnapshotStore) Invalidate(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = nil
	return nil
}

func (s *MemorySnapshotStore) NextEpoch(context.Context) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	return s.epoch, nil
}

func (s *MemorySnapshotStore) Epoch(context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch, nil
}
