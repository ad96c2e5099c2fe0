package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-consola/internal/domain/repository"
)

func TestMemorySnapshotStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySnapshotStore(0)

	snap, err := s.Latest(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap)

	for i := 0; i < 2; i++ {
		_, err = s.NextEpoch(ctx)
		require.NoError(t, err)
	}
	data := []byte(`{"totalProductos":3}`)
	require.NoError(t, s.Save(ctx, repository.Snapshot{Epoch: 2, Data: data}))
	data[0] = 'X' // el almacén guarda su propia copia

	snap, err = s.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, uint64(2), snap.Epoch)
	assert.JSONEq(t, `{"totalProductos":3}`, string(snap.Data))

	require.NoError(t, s.Invalidate(ctx))
	snap, _ = s.Latest(ctx)
	assert.Nil(t, snap)
}

func TestMemorySnapshotStore_Vence(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	s := NewMemorySnapshotStore(time.Minute)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Save(ctx, repository.Snapshot{Epoch: 0, Data: []byte(`{}`)}))

	now = now.Add(59 * time.Second)
	snap, _ := s.Latest(ctx)
	assert.NotNil(t, snap)

	now = now.Add(time.Second)
	snap, _ = s.Latest(ctx)
	assert.Nil(t, snap)
}

func TestMemorySnapshotStore_EpocaCompartida(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySnapshotStore(0)

	epoch, err := s.NextEpoch(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(1), epoch)
	require.NoError(t, s.Save(ctx, repository.Snapshot{Epoch: 1, Data: []byte(`{"totalProductos":1}`)}))

	// Otro recargador avanza la época: el snapshot de la época 1 ya no entra.
	_, err = s.NextEpoch(ctx)
	require.NoError(t, err)
	err = s.Save(ctx, repository.Snapshot{Epoch: 1, Data: []byte(`{"totalProductos":9}`)})
	assert.ErrorIs(t, err, repository.ErrStaleSnapshot)

	current, err := s.Epoch(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), current)
	snap, _ := s.Latest(ctx)
	require.NotNil(t, snap)
	assert.JSONEq(t, `{"totalProductos":1}`, string(snap.Data))
}

func TestRedisSnapshotStore_SinServidor(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	defer rdb.Close()
	s := NewRedisSnapshotStore(rdb, "", time.Minute)

	_, err := s.Latest(context.Background())
	assert.Error(t, err)
	err = s.Save(context.Background(), repository.Snapshot{Epoch: 1})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrStaleSnapshot)
	_, err = s.NextEpoch(context.Background())
	assert.Error(t, err)
	_, err = s.Epoch(context.Background())
	assert.Error(t, err)
	assert.Equal(t, DefaultSnapshotKey, s.key)
	assert.Equal(t, DefaultSnapshotKey+":epoch", s.epochKey)
}

func TestNewRedisClient_PingFalla(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	_, err := NewRedisClient(ctx, RedisConfig{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}
