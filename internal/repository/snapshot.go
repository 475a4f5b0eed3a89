package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"crew_loyalty/internal/model"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// SnapshotStore persists full per-user session snapshots in Redis. The core
// hands snapshots out and takes them back unchanged; this store only moves
// bytes.
type SnapshotStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSnapshotStore(cfg RedisConfig, ttl time.Duration) (*SnapshotStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &SnapshotStore{client: client, ttl: ttl}, nil
}

func (s *SnapshotStore) Close() error {
	return s.client.Close()
}

func snapshotKey(userID string) string {
	return fmt.Sprintf("loyalty:%s:snapshot", userID)
}

func (s *SnapshotStore) Save(ctx context.Context, snapshot *model.SessionSnapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	return s.client.Set(ctx, snapshotKey(snapshot.UserID), payload, s.ttl).Err()
}

func (s *SnapshotStore) Load(ctx context.Context, userID string) (*model.SessionSnapshot, error) {
	payload, err := s.client.Get(ctx, snapshotKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var snapshot model.SessionSnapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snapshot, nil
}

func (s *SnapshotStore) Delete(ctx context.Context, userID string) error {
	return s.client.Del(ctx, snapshotKey(userID)).Err()
}
