package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/IonImpulse/fivec-scheduler-server/pkg/config"
	"github.com/IonImpulse/fivec-scheduler-server/pkg/course"
)

// RedisBackend keeps each document as a JSON string under Prefix
type RedisBackend struct {
	rdb    *goredis.Client
	prefix string
	logger *zap.Logger
}

// NewRedisBackend connects and pings the server
func NewRedisBackend(cfg *config.RedisConfig, logger *zap.Logger) (*RedisBackend, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	logger.Info("connected to redis", zap.String("addr", cfg.Addr))

	return &RedisBackend{rdb: rdb, prefix: cfg.Prefix, logger: logger}, nil
}

func (r *RedisBackend) SaveSnapshot(ctx context.Context, snap course.Snapshot) error {
	return r.set(ctx, "snapshot", snap)
}

func (r *RedisBackend) LoadSnapshot(ctx context.Context) (course.Snapshot, error) {
	var snap course.Snapshot
	if err := r.get(ctx, "snapshot", &snap); err != nil {
		return course.Snapshot{}, err
	}
	return snap, nil
}

func (r *RedisBackend) SaveCodes(ctx context.Context, codes map[string]course.SharedCourseList) error {
	return r.set(ctx, "codes", codes)
}

func (r *RedisBackend) LoadCodes(ctx context.Context) (map[string]course.SharedCourseList, error) {
	codes := make(map[string]course.SharedCourseList)
	if err := r.get(ctx, "codes", &codes); err != nil {
		return map[string]course.SharedCourseList{}, err
	}
	return codes, nil
}

// Close closes the connection
func (r *RedisBackend) Close() error {
	return r.rdb.Close()
}

func (r *RedisBackend) set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", key, err)
	}
	if err := r.rdb.Set(ctx, r.prefix+key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	r.logger.Debug("persisted document", zap.String("key", r.prefix+key), zap.Int("bytes", len(data)))
	return nil
}

// get leaves v untouched when the key does not exist
func (r *RedisBackend) get(ctx context.Context, key string, v any) error {
	data, err := r.rdb.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorrupt, r.prefix+key, err)
	}
	return nil
}
