package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/srgjo27/stay_engine/internal/core/domain"
)

// AvailabilityCache keeps one hash per room; each field is a queried range
// and holds the ranges that were occupied inside it. Any booking write for
// the room drops the whole hash.
type AvailabilityCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewAvailabilityCache(rdb *redis.Client, ttl time.Duration) *AvailabilityCache {
	return &AvailabilityCache{rdb: rdb, ttl: ttl}
}

type heldRange struct {
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
}

func roomKey(roomID uuid.UUID) string {
	return fmt.Sprintf("availability:%s", roomID)
}

func rangeField(rng domain.DateRange) string {
	return rng.CheckIn.Format(domain.DateLayout) + ":" + rng.CheckOut.Format(domain.DateLayout)
}

func (c *AvailabilityCache) GetCalendar(ctx context.Context, roomID uuid.UUID, rng domain.DateRange) ([]domain.DateRange, bool, error) {
	raw, err := c.rdb.HGet(ctx, roomKey(roomID), rangeField(rng)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var stored []heldRange
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, false, fmt.Errorf("decode cached calendar: %w", err)
	}

	held := make([]domain.DateRange, 0, len(stored))
	for _, h := range stored {
		r, err := domain.ParseDateRange(h.CheckIn, h.CheckOut)
		if err != nil {
			return nil, false, fmt.Errorf("decode cached calendar: %w", err)
		}
		held = append(held, r)
	}

	return held, true, nil
}

func (c *AvailabilityCache) SetCalendar(ctx context.Context, roomID uuid.UUID, rng domain.DateRange, held []domain.DateRange) error {
	stored := make([]heldRange, 0, len(held))
	for _, r := range held {
		stored = append(stored, heldRange{
			CheckIn:  r.CheckIn.Format(domain.DateLayout),
			CheckOut: r.CheckOut.Format(domain.DateLayout),
		})
	}

	raw, err := json.Marshal(stored)
	if err != nil {
		return err
	}

	key := roomKey(roomID)
	if err := c.rdb.HSet(ctx, key, rangeField(rng), raw).Err(); err != nil {
		return err
	}

	return c.rdb.Expire(ctx, key, c.ttl).Err()
}

func (c *AvailabilityCache) Invalidate(ctx context.Context, roomID uuid.UUID) error {
	return c.rdb.Del(ctx, roomKey(roomID)).Err()
}
