package grace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "ease:grace:"
	maxTxRetries   = 3
	// kept a day past month end so late readers still see the old month and reset it
	expiryGrace = 24 * time.Hour
)

// RedisStore keeps one JSON value per holder, expiring after its month ends.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func redisKey(holder string) string { return redisKeyPrefix + holder }

func (s *RedisStore) Load(ctx context.Context, holder string) (State, error) {
	return load(ctx, s.rdb, redisKey(holder))
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func load(ctx context.Context, g getter, key string) (State, error) {
	raw, err := g.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return State{}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("redis get %s: %w", key, err)
	}
	var st State
	if err := json.Unmarshal(raw, &st); err != nil {
		// a corrupt value is treated as absent and overwritten on the next update
		return State{}, nil
	}
	return st, nil
}

// Update runs fn inside WATCH/MULTI and retries when another client raced it.
func (s *RedisStore) Update(ctx context.Context, holder string, fn func(State) (State, error)) (State, error) {
	key := redisKey(holder)
	var out State

	txf := func(tx *redis.Tx) error {
		cur, err := load(ctx, tx, key)
		if err != nil {
			return err
		}
		next, err := fn(cur)
		out = next
		if err != nil {
			return err
		}
		b, err := json.Marshal(next)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, b, 0)
			if end := monthEnd(next.Month); !end.IsZero() {
				pipe.ExpireAt(ctx, key, end.Add(expiryGrace))
			}
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := s.rdb.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return out, err
	}
	return State{}, fmt.Errorf("redis update %s: too much contention", key)
}
