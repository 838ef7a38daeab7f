package cache_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/srgjo27/stay_engine/internal/adapter/cache"
	"github.com/srgjo27/stay_engine/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailabilityCache_Miss(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	c := cache.NewAvailabilityCache(db, time.Minute)
	roomID := uuid.New()
	rng, _ := domain.ParseDateRange("2024-06-01", "2024-07-01")

	mockRedis.ExpectHGet(fmt.Sprintf("availability:%s", roomID), "2024-06-01:2024-07-01").RedisNil()

	held, ok, err := c.GetCalendar(context.Background(), roomID, rng)

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, held)
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestAvailabilityCache_SetThenHit(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	c := cache.NewAvailabilityCache(db, time.Minute)
	roomID := uuid.New()
	key := fmt.Sprintf("availability:%s", roomID)
	rng, _ := domain.ParseDateRange("2024-06-01", "2024-07-01")
	held, _ := domain.ParseDateRange("2024-06-10", "2024-06-12")

	payload := []byte(`[{"check_in":"2024-06-10","check_out":"2024-06-12"}]`)
	mockRedis.ExpectHSet(key, "2024-06-01:2024-07-01", payload).SetVal(1)
	mockRedis.ExpectExpire(key, time.Minute).SetVal(true)
	mockRedis.ExpectHGet(key, "2024-06-01:2024-07-01").SetVal(string(payload))

	require.NoError(t, c.SetCalendar(context.Background(), roomID, rng, []domain.DateRange{held}))

	got, ok, err := c.GetCalendar(context.Background(), roomID, rng)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []domain.DateRange{held}, got)
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestAvailabilityCache_Invalidate(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	c := cache.NewAvailabilityCache(db, time.Minute)
	roomID := uuid.New()

	mockRedis.ExpectDel(fmt.Sprintf("availability:%s", roomID)).SetVal(1)

	require.NoError(t, c.Invalidate(context.Background(), roomID))
	if err := mockRedis.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestIdempotencyStore_ClaimFresh(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	s := cache.NewIdempotencyStore(db, time.Hour)

	mockRedis.ExpectSetNX("idempotency:order:k-1", "pending", time.Hour).SetVal(true)

	_, claimed, err := s.Claim(context.Background(), "k-1")
	require.NoError(t, err)
	assert.True(t, claimed)
}

func TestIdempotencyStore_ClaimInProgress(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	s := cache.NewIdempotencyStore(db, time.Hour)

	mockRedis.ExpectSetNX("idempotency:order:k-1", "pending", time.Hour).SetVal(false)
	mockRedis.ExpectGet("idempotency:order:k-1").SetVal("pending")

	_, claimed, err := s.Claim(context.Background(), "k-1")
	assert.False(t, claimed)
	assert.ErrorIs(t, err, domain.ErrRequestInProgress)
}

func TestIdempotencyStore_ClaimCompleted(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	s := cache.NewIdempotencyStore(db, time.Hour)
	orderID := uuid.New()

	mockRedis.ExpectSetNX("idempotency:order:k-1", "pending", time.Hour).SetVal(false)
	mockRedis.ExpectGet("idempotency:order:k-1").SetVal(orderID.String())

	existing, claimed, err := s.Claim(context.Background(), "k-1")
	require.NoError(t, err)
	assert.False(t, claimed)
	assert.Equal(t, orderID, existing)
}

func TestIdempotencyStore_CompleteAndRelease(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	s := cache.NewIdempotencyStore(db, time.Hour)
	orderID := uuid.New()

	mockRedis.ExpectSet("idempotency:order:k-1", orderID.String(), time.Hour).SetVal("OK")
	mockRedis.ExpectDel("idempotency:order:k-2").SetVal(1)

	require.NoError(t, s.Complete(context.Background(), "k-1", orderID))
	require.NoError(t, s.Release(context.Background(), "k-2"))
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestIdempotencyStore_RedisDown(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	s := cache.NewIdempotencyStore(db, time.Hour)

	mockRedis.ExpectSetNX("idempotency:order:k-1", "pending", time.Hour).SetErr(errors.New("connection refused"))

	_, _, err := s.Claim(context.Background(), "k-1")
	assert.EqualError(t, err, "connection refused")
}
