// Package redisstore keeps the persistent tier in a Redis hash, so several
// client processes or machines share one remembered session. Every failure
// to reach Redis matches ErrStorageUnavailable.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	cxerrors "github.com/connectexe/connectexe-client/internal/errors"
	"github.com/connectexe/connectexe-client/storage"
	"github.com/redis/go-redis/v9"
)

var _ storage.Tier = (*Tier)(nil)

const defaultOpTimeout = 3 * time.Second

type Tier struct {
	client    *redis.Client
	hashKey   string
	opTimeout time.Duration
}

// NewClient connects and pings Redis.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w: %w", cxerrors.ErrStorageUnavailable, err)
	}

	return client, nil
}

// New stores every key of the tier as a field of the hash "connectexe:local:<namespace>".
func New(client *redis.Client, namespace string) *Tier {
	return &Tier{
		client:    client,
		hashKey:   "connectexe:local:" + namespace,
		opTimeout: defaultOpTimeout,
	}
}

func (t *Tier) Get(key string) (string, bool, error) {
	ctx, cancel := t.ctx()
	defer cancel()

	v, err := t.client.HGet(ctx, t.hashKey, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis hget %s: %w: %w", key, cxerrors.ErrStorageUnavailable, err)
	}
	return v, true, nil
}

func (t *Tier) Set(key, value string) error {
	ctx, cancel := t.ctx()
	defer cancel()

	if err := t.client.HSet(ctx, t.hashKey, key, value).Err(); err != nil {
		return fmt.Errorf("redis hset %s: %w: %w", key, cxerrors.ErrStorageUnavailable, err)
	}
	return nil
}

func (t *Tier) Remove(key string) error {
	ctx, cancel := t.ctx()
	defer cancel()

	if err := t.client.HDel(ctx, t.hashKey, key).Err(); err != nil {
		return fmt.Errorf("redis hdel %s: %w: %w", key, cxerrors.ErrStorageUnavailable, err)
	}
	return nil
}

func (t *Tier) Clear() error {
	ctx, cancel := t.ctx()
	defer cancel()

	if err := t.client.Del(ctx, t.hashKey).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w: %w", t.hashKey, cxerrors.ErrStorageUnavailable, err)
	}
	return nil
}

func (t *Tier) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), t.opTimeout)
}
