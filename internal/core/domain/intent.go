package domain

import (
	"time"

	"github.com/google/uuid"
)

type IntentKind string

const (
	IntentNotifyOwnerWhatsApp IntentKind = "notify_owner_whatsapp"
	IntentNotifyOwner         IntentKind = "notify_owner"
	IntentNotifyGuest         IntentKind = "notify_guest"
	IntentRequestPayment      IntentKind = "request_payment"
	IntentReleaseRoom         IntentKind = "release_room"
	IntentReconcileMinibar    IntentKind = "reconcile_minibar"
)

// Intent is a side effect requested by a status change. Whoever drives the
// transition is responsible for carrying it out.
type Intent struct {
	Kind       IntentKind        `json:"kind"`
	Entity     string            `json:"entity"`
	EntityID   uuid.UUID         `json:"entity_id"`
	PropertyID uuid.UUID         `json:"property_id"`
	Status     string            `json:"status,omitempty"`
	Data       map[string]string `json:"data,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}
