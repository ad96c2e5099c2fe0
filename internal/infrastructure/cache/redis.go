package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/inventario-consola/internal/domain/repository"
)

// DefaultSnapshotKey clave del tablero en Redis. La época va en
// DefaultSnapshotKey + epochSuffix.
const DefaultSnapshotKey = "inventario-consola:dashboard:snapshot"

const epochSuffix = ":epoch"

// saveIfCurrent guarda el snapshot solo si su época sigue siendo la vigente.
// KEYS: snapshot, época. ARGV: época del snapshot, JSON, ttl en ms (0 = sin ttl).
var saveIfCurrent = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[2]) or '0')
if current ~= tonumber(ARGV[1]) then
	return 0
end
local ttl = tonumber(ARGV[3])
if ttl > 0 then
	redis.call('SET', KEYS[1], ARGV[2], 'PX', ttl)
else
	redis.call('SET', KEYS[1], ARGV[2])
end
return 1
`)

var _ repository.SnapshotRepository = (*RedisSnapshotStore)(nil)

// RedisConfig conexión a Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient abre el cliente y verifica la conexión con PING.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}

// RedisSnapshotStore snapshot serializado en JSON bajo una sola clave con TTL,
// más un contador de época compartido por todas las instancias.
type RedisSnapshotStore struct {
	rdb      redis.Cmdable
	key      string
	epochKey string
	ttl      time.Duration
}

// NewRedisSnapshotStore construye el almacén. key vacío usa DefaultSnapshotKey.
func NewRedisSnapshotStore(rdb redis.Cmdable, key string, ttl time.Duration) *RedisSnapshotStore {
	if key == "" {
		key = DefaultSnapshotKey
	}
	return &RedisSnapshotStore{rdb: rdb, key: key, epochKey: key + epochSuffix, ttl: ttl}
}

func (s *RedisSnapshotStore) Save(ctx context.Context, snap repository.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("redis: serializar snapshot: %w", err)
	}
	saved, err := saveIfCurrent.Run(ctx, s.rdb, []string{s.key, s.epochKey},
		snap.Epoch, data, s.ttl.Milliseconds()).Int()
	if err != nil {
		return fmt.Errorf("redis: guardar snapshot: %w", err)
	}
	if saved == 0 {
		return repository.ErrStaleSnapshot
	}
	return nil
}

func (s *RedisSnapshotStore) Latest(ctx context.Context) (*repository.Snapshot, error) {
	data, err := s.rdb.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis: leer snapshot: %w", err)
	}
	var snap repository.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("redis: snapshot ilegible: %w", err)
	}
	return &snap, nil
}

func (s *RedisSnapshotStore) Invalidate(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis: invalidar snapshot: %w", err)
	}
	return nil
}

func (s *RedisSnapshotStore) NextEpoch(ctx context.Context) (uint64, error) {
	n, err := s.rdb.Incr(ctx, s.epochKey).Uint64()
	if err != nil {
		return 0, fmt.Errorf("redis: avanzar época: %w", err)
	}
	return n, nil
}

func (s *RedisSnapshotStore) Epoch(ctx context.Context) (uint64, error) {
	n, err := s.rdb.Get(ctx, s.epochKey).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis: leer época: %w", err)
	}
	return n, nil
}
