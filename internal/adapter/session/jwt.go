package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/srgjo27/stay_engine/internal/core/domain"
)

// GuestClaims are issued to a guest when they open their stay link.
type GuestClaims struct {
	BookingID  string `json:"booking_id"`
	PropertyID string `json:"property_id"`
	StayCode   string `json:"stay_code"`
	Tier       string `json:"tier"`
	jwt.RegisteredClaims
}

type JWTVerifier struct {
	secret []byte
	now    func() time.Time
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret), now: time.Now}
}

// Issue signs a session for a booking. It backs the stay link flow and tests.
func (v *JWTVerifier) Issue(s domain.GuestSession, ttl time.Duration) (string, error) {
	now := v.now()
	claims := GuestClaims{
		BookingID:  s.BookingID.String(),
		PropertyID: s.PropertyID.String(),
		StayCode:   s.StayCode,
		Tier:       string(s.Tier),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.BookingID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

func (v *JWTVerifier) VerifyGuestToken(_ context.Context, token string) (domain.GuestSession, error) {
	var claims GuestClaims

	_, err := jwt.ParseWithClaims(strings.TrimSpace(token), &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithTimeFunc(v.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.GuestSession{}, domain.ErrSessionExpired
		}
		return domain.GuestSession{}, domain.ErrAccessDenied
	}

	bookingID, err := uuid.Parse(claims.BookingID)
	if err != nil {
		return domain.GuestSession{}, domain.ErrAccessDenied
	}

	propertyID, err := uuid.Parse(claims.PropertyID)
	if err != nil {
		return domain.GuestSession{}, domain.ErrAccessDenied
	}

	tier := domain.AccessTier(claims.Tier)
	if tier != domain.TierFull {
		tier = domain.TierBrowse
	}

	return domain.GuestSession{
		BookingID:  bookingID,
		PropertyID: propertyID,
		StayCode:   claims.StayCode,
		Tier:       tier,
	}, nil
}
