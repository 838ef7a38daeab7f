package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/stay_engine/internal/core/domain"
)

type orderLineResponse struct {
	ID            uuid.UUID    `json:"id"`
	ServiceItemID uuid.UUID    `json:"serviceItemId"`
	Name          string       `json:"name"`
	Quantity      int          `json:"quantity"`
	UnitPrice     domain.Money `json:"unitPrice"`
	LineTotal     domain.Money `json:"lineTotal"`
	CategoryTag   string       `json:"categoryTag,omitempty"`
	Notes         string       `json:"notes,omitempty"`
}

type orderResponse struct {
	ID                   uuid.UUID           `json:"id"`
	BookingID            uuid.UUID           `json:"bookingId"`
	Status               string              `json:"status"`
	Items                []orderLineResponse `json:"items"`
	Subtotal             domain.Money        `json:"subtotal"`
	Tax                  domain.Money        `json:"tax"`
	Total                domain.Money        `json:"total"`
	IsMinibarConsumption bool                `json:"isMinibarConsumption"`
	OwnerConfirmed       *bool               `json:"ownerConfirmed"`
	RequestedTime        *time.Time          `json:"requestedTime,omitempty"`
	DeliveryNotes        string              `json:"deliveryNotes,omitempty"`
	StatusReason         string              `json:"statusReason,omitempty"`
	CreatedAt            time.Time           `json:"createdAt"`
}

func toOrderResponse(o *domain.ServiceOrder) orderResponse {
	items := make([]orderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		items = append(items, orderLineResponse{
			ID:            l.ID,
			ServiceItemID: l.ServiceItemID,
			Name:          l.Name,
			Quantity:      l.Quantity,
			UnitPrice:     l.UnitPrice,
			LineTotal:     l.LineTotal,
			CategoryTag:   l.CategoryTag,
			Notes:         l.Notes,
		})
	}

	return orderResponse{
		ID:                   o.ID,
		BookingID:            o.BookingID,
		Status:               string(o.Status),
		Items:                items,
		Subtotal:             o.Subtotal,
		Tax:                  o.Tax,
		Total:                o.Total,
		IsMinibarConsumption: o.IsMinibarConsumption,
		OwnerConfirmed:       o.OwnerConfirmed,
		RequestedTime:        o.RequestedTime,
		DeliveryNotes:        o.DeliveryNotes,
		StatusReason:         o.StatusReason,
		CreatedAt:            o.CreatedAt,
	}
}

type bookingResponse struct {
	ID            uuid.UUID        `json:"id"`
	PropertyID    uuid.UUID        `json:"property_id"`
	RoomID        uuid.UUID        `json:"room_id"`
	StayCode      string           `json:"stay_code"`
	CheckIn       string           `json:"check_in"`
	CheckOut      string           `json:"check_out"`
	NumGuests     int              `json:"num_guests"`
	Status        string           `json:"status"`
	StatusReason  string           `json:"status_reason,omitempty"`
	PaymentMethod string           `json:"payment_method"`
	PaymentStatus string           `json:"payment_status"`
	Quote         domain.StayQuote `json:"quote"`
	Version       int              `json:"version"`
	CreatedAt     time.Time        `json:"created_at"`
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		ID:            b.ID,
		PropertyID:    b.PropertyID,
		RoomID:        b.RoomID,
		StayCode:      b.StayCode,
		CheckIn:       b.Range.CheckIn.Format(domain.DateLayout),
		CheckOut:      b.Range.CheckOut.Format(domain.DateLayout),
		NumGuests:     b.NumGuests,
		Status:        string(b.Status),
		StatusReason:  b.StatusReason,
		PaymentMethod: b.PaymentMethod,
		PaymentStatus: string(b.PaymentStatus),
		Quote:         b.Quote,
		Version:       b.Version,
		CreatedAt:     b.CreatedAt,
	}
}

type dateRangeResponse struct {
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
}

type calendarResponse struct {
	RoomID uuid.UUID           `json:"room_id"`
	From   string              `json:"from"`
	To     string              `json:"to"`
	Held   []dateRangeResponse `json:"held"`
}

type actionRequest struct {
	Action string `json:"action" validate:"required,oneof=confirm decline checkin checkout cancel reject"`
	Reason string `json:"reason,omitempty" validate:"max=500"`
}
