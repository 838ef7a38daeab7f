package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/srgjo27/stay_engine/internal/core/domain"
)

const pendingMarker = "pending"

// IdempotencyStore reserves Idempotency-Key values with SETNX. The value is
// a pending marker until the order commits, then the order id.
type IdempotencyStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewIdempotencyStore(rdb *redis.Client, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{rdb: rdb, ttl: ttl}
}

func idempotencyKey(key string) string {
	return fmt.Sprintf("idempotency:order:%s", key)
}

func (s *IdempotencyStore) Claim(ctx context.Context, key string) (uuid.UUID, bool, error) {
	ok, err := s.rdb.SetNX(ctx, idempotencyKey(key), pendingMarker, s.ttl).Result()
	if err != nil {
		return uuid.Nil, false, err
	}

	if ok {
		return uuid.Nil, true, nil
	}

	val, err := s.rdb.Get(ctx, idempotencyKey(key)).Result()
	if err != nil {
		// released between SETNX and GET; the client may simply retry
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, false, domain.ErrRequestInProgress
		}
		return uuid.Nil, false, err
	}

	if val == pendingMarker {
		return uuid.Nil, false, domain.ErrRequestInProgress
	}

	orderID, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("corrupt idempotency record %q: %w", key, err)
	}

	return orderID, false, nil
}

func (s *IdempotencyStore) Complete(ctx context.Context, key string, orderID uuid.UUID) error {
	return s.rdb.Set(ctx, idempotencyKey(key), orderID.String(), s.ttl).Err()
}

func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, idempotencyKey(key)).Err()
}
