package domain

import (
	"time"

	"github.com/google/uuid"
)

type AutomationLevel string

const (
	AutomationAutoConfirm    AutomationLevel = "auto_confirm"
	AutomationWhatsAppNotify AutomationLevel = "whatsapp_notify"
	AutomationSelfService    AutomationLevel = "self_service"
	AutomationManual         AutomationLevel = "manual"
)

// AutoConfirms reports whether a line of this level needs no human approval.
func (l AutomationLevel) AutoConfirms() bool {
	switch l {
	case AutomationAutoConfirm, AutomationWhatsAppNotify, AutomationSelfService:
		return true
	}

	return false
}

type ServiceItem struct {
	ID                uuid.UUID
	PropertyID        uuid.UUID
	CategoryID        uuid.UUID
	CategoryTag       string
	Automation        AutomationLevel
	Name              string
	Price             Money
	InStock           bool
	IsAlwaysAvailable bool
	AvailableFrom     string
	AvailableUntil    string
}

func (i ServiceItem) Window() TimeWindow {
	return TimeWindow{From: i.AvailableFrom, Until: i.AvailableUntil}
}

type ServiceOrderStatus string

const (
	OrderPending   ServiceOrderStatus = "pending"
	OrderConfirmed ServiceOrderStatus = "confirmed"
	OrderRejected  ServiceOrderStatus = "rejected"
)

const (
	MinLineQuantity = 1
	MaxLineQuantity = 10
)

type ServiceOrder struct {
	ID                   uuid.UUID
	BookingID            uuid.UUID
	PropertyID           uuid.UUID
	Status               ServiceOrderStatus
	Lines                []ServiceOrderLine
	Subtotal             Money
	Tax                  Money
	Total                Money
	IsMinibarConsumption bool
	// OwnerConfirmed is nil while a minibar order awaits reconciliation.
	OwnerConfirmed *bool
	RequestedTime  *time.Time
	DeliveryNotes  string
	StatusReason   string
	Version        int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ServiceOrderLine is a price snapshot taken from the catalog when the order
// was created. It is never re-derived from the catalog afterwards.
type ServiceOrderLine struct {
	ID            uuid.UUID
	OrderID       uuid.UUID
	ServiceItemID uuid.UUID
	Name          string
	Quantity      int
	UnitPrice     Money
	LineTotal     Money
	CategoryTag   string
	Automation    AutomationLevel
	Notes         string
}
