package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/darkstore-backend/internal/ops"
	"github.com/redis/go-redis/v9"
)

// SnapshotStore persists whole dashboard snapshots.
type SnapshotStore interface {
	Load(ctx context.Context) (ops.State, bool, error)
	Save(ctx context.Context, state ops.State) error
}

type snapshotClient interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	SnapshotKey(name string) string
}

// RedisSnapshotStore keeps the snapshot as one JSON document without expiry.
type RedisSnapshotStore struct {
	client snapshotClient
	key    string
}

func NewRedisSnapshotStore(client snapshotClient, name string) (*RedisSnapshotStore, error) {
	if client == nil {
		return nil, errors.New("redis client required")
	}
	if name == "" {
		return nil, errors.New("snapshot name required")
	}
	return &RedisSnapshotStore{client: client, key: client.SnapshotKey(name)}, nil
}

func (s *RedisSnapshotStore) Load(ctx context.Context) (ops.State, bool, error) {
	raw, err := s.client.Get(ctx, s.key)
	if errors.Is(err, redis.Nil) {
		return ops.State{}, false, nil
	}
	if err != nil {
		return ops.State{}, false, fmt.Errorf("read snapshot: %w", err)
	}
	var state ops.State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return ops.State{}, false, fmt.Errorf("decode snapshot: %w", err)
	}
	if state.Carts == nil {
		state.Carts = map[string][]ops.CartItem{}
	}
	return state, true, nil
}

func (s *RedisSnapshotStore) Save(ctx context.Context, state ops.State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.client.Set(ctx, s.key, payload, 0); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}
