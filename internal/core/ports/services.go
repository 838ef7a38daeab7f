package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/srgjo27/stay_engine/internal/core/domain"
)

type SessionVerifier interface {
	VerifyGuestToken(ctx context.Context, token string) (domain.GuestSession, error)
}

type IntentPublisher interface {
	Publish(ctx context.Context, intents []domain.Intent) error
}

// IdempotencyStore remembers which order a client-supplied key produced.
type IdempotencyStore interface {
	// Claim returns claimed=true when the caller owns the key. Otherwise
	// existing is the order already created for it, or the error is
	// domain.ErrRequestInProgress while the first request is still running.
	Claim(ctx context.Context, key string) (existing uuid.UUID, claimed bool, err error)
	Complete(ctx context.Context, key string, orderID uuid.UUID) error
	Release(ctx context.Context, key string) error
}

type AvailabilityCache interface {
	GetCalendar(ctx context.Context, roomID uuid.UUID, rng domain.DateRange) ([]domain.DateRange, bool, error)
	SetCalendar(ctx context.Context, roomID uuid.UUID, rng domain.DateRange, held []domain.DateRange) error
	Invalidate(ctx context.Context, roomID uuid.UUID) error
}
