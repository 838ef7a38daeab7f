package domain

import "github.com/google/uuid"

type AccessTier string

const (
	TierBrowse AccessTier = "browse"
	TierFull   AccessTier = "full"
)

// GuestSession is issued by the guest-auth service; this module only reads it.
type GuestSession struct {
	BookingID  uuid.UUID
	PropertyID uuid.UUID
	StayCode   string
	Tier       AccessTier
}

func (s GuestSession) HasFullAccess() bool {
	return s.Tier == TierFull
}
