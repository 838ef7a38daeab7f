package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/srgjo27/stay_engine/internal/core/availability"
	"github.com/srgjo27/stay_engine/internal/core/domain"
	"github.com/srgjo27/stay_engine/internal/core/ports"
	"github.com/srgjo27/stay_engine/internal/core/pricing"
	"github.com/srgjo27/stay_engine/internal/core/status"
	"github.com/srgjo27/stay_engine/internal/core/validation"
)

// OrderItemRequest has no price field. Prices and totals sent by a client
// are dropped by the JSON decoder.
type OrderItemRequest struct {
	ServiceItemID string `json:"serviceItemId" validate:"required,uuid"`
	Quantity      int    `json:"quantity" validate:"min=1,max=10"`
	Notes         string `json:"notes,omitempty" validate:"max=500"`
}

type CreateOrderRequest struct {
	Items          []OrderItemRequest `json:"items" validate:"min=1,dive"`
	RequestedTime  *string            `json:"requestedTime,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	DeliveryNotes  string             `json:"deliveryNotes,omitempty" validate:"max=1000"`
	IdempotencyKey string             `json:"-" validate:"max=128"`
}

// normalize trims free text so length limits apply to what is stored.
func (r CreateOrderRequest) normalize() CreateOrderRequest {
	items := make([]OrderItemRequest, len(r.Items))
	for i, it := range r.Items {
		it.ServiceItemID = strings.ToLower(strings.TrimSpace(it.ServiceItemID))
		it.Notes = strings.TrimSpace(it.Notes)
		items[i] = it
	}
	r.Items = items

	if r.RequestedTime != nil {
		t := strings.TrimSpace(*r.RequestedTime)
		r.RequestedTime = &t
		if t == "" {
			r.RequestedTime = nil
		}
	}

	r.DeliveryNotes = strings.TrimSpace(r.DeliveryNotes)
	r.IdempotencyKey = strings.TrimSpace(r.IdempotencyKey)

	return r
}

type OrderServiceDeps struct {
	Properties  ports.PropertyRepository
	Bookings    ports.BookingRepository
	Items       ports.ServiceItemRepository
	Orders      ports.ServiceOrderRepository
	Idempotency ports.IdempotencyStore
	Publisher   ports.IntentPublisher
	Pricing     *pricing.Engine
	Defaults    domain.Defaults
	Logger      *logrus.Logger
	Clock       func() time.Time
}

type OrderService struct {
	properties  ports.PropertyRepository
	bookings    ports.BookingRepository
	items       ports.ServiceItemRepository
	orders      ports.ServiceOrderRepository
	idempotency ports.IdempotencyStore
	publisher   ports.IntentPublisher
	pricing     *pricing.Engine
	defaults    domain.Defaults
	log         *logrus.Logger
	now         func() time.Time
}

func NewOrderService(deps OrderServiceDeps) *OrderService {
	s := &OrderService{
		properties:  deps.Properties,
		bookings:    deps.Bookings,
		items:       deps.Items,
		orders:      deps.Orders,
		idempotency: deps.Idempotency,
		publisher:   deps.Publisher,
		pricing:     deps.Pricing,
		defaults:    deps.Defaults,
		log:         deps.Logger,
		now:         deps.Clock,
	}

	if s.pricing == nil {
		s.pricing = pricing.NewEngine()
	}
	if s.log == nil {
		s.log = logrus.StandardLogger()
	}
	if s.now == nil {
		s.now = time.Now
	}

	return s
}

// CreateOrder validates a guest's order against server-side truth and
// persists it. It stops at the first invalid item.
func (s *OrderService) CreateOrder(ctx context.Context, session domain.GuestSession, req CreateOrderRequest) (order *domain.ServiceOrder, err error) {
	if !session.HasFullAccess() {
		return nil, domain.ErrAccessDenied
	}

	req = req.normalize()

	lines, requestedTime, err := parseOrderRequest(req)
	if err != nil {
		return nil, err
	}

	// scoped per stay
	idemKey := ""
	if req.IdempotencyKey != "" && s.idempotency != nil {
		idemKey = session.BookingID.String() + ":" + req.IdempotencyKey

		var (
			existingID uuid.UUID
			claimed    bool
		)
		existingID, claimed, err = s.idempotency.Claim(ctx, idemKey)
		if err != nil {
			return nil, err
		}

		if !claimed {
			return s.replay(ctx, session, existingID)
		}

		defer func() {
			if err != nil {
				if relErr := s.idempotency.Release(context.WithoutCancel(ctx), idemKey); relErr != nil {
					s.log.WithError(relErr).Warn("failed to release idempotency key")
				}
			}
		}()
	}

	if err := s.requireActiveStay(ctx, session); err != nil {
		return nil, err
	}

	property, err := s.properties.GetProperty(ctx, session.PropertyID)
	if err != nil {
		return nil, fmt.Errorf("load property: %w", err)
	}

	if err := property.Resolve(s.defaults); err != nil {
		return nil, err
	}

	catalog, err := s.loadItems(ctx, lines, property)
	if err != nil {
		return nil, err
	}

	localNow := availability.LocalNow(s.now(), property.Location())
	for _, l := range lines {
		if err := availability.CheckItem(catalog[l.ServiceItemID], localNow); err != nil {
			return nil, err
		}
	}

	price, err := s.pricing.PriceOrder(property.Currency, lines, catalog)
	if err != nil {
		return nil, err
	}

	start := status.InitialOrder(price.Lines)

	now := s.now().UTC()
	order = &domain.ServiceOrder{
		ID:                   uuid.New(),
		BookingID:            session.BookingID,
		PropertyID:           session.PropertyID,
		Status:               start.Status,
		Lines:                price.Lines,
		Subtotal:             price.Subtotal,
		Tax:                  price.Tax,
		Total:                price.Total,
		IsMinibarConsumption: start.IsMinibarConsumption,
		OwnerConfirmed:       start.OwnerConfirmed,
		RequestedTime:        requestedTime,
		DeliveryNotes:        req.DeliveryNotes,
		Version:              1,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	for i := range order.Lines {
		order.Lines[i].ID = uuid.New()
		order.Lines[i].OrderID = order.ID
	}

	if err := s.orders.InsertOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	if idemKey != "" {
		if err := s.idempotency.Complete(context.WithoutCancel(ctx), idemKey, order.ID); err != nil {
			s.log.WithError(err).WithField("order_id", order.ID).Warn("failed to record idempotency key")
		}
	}

	s.log.WithFields(logrus.Fields{
		"order_id":    order.ID,
		"booking_id":  order.BookingID,
		"property_id": order.PropertyID,
		"status":      order.Status,
		"total":       order.Total.String(),
	}).Info("service order created")

	publishIntents(ctx, s.publisher, s.log, buildIntents(start.Intents, "service_order", order.ID, order.PropertyID, string(order.Status), now))

	return order, nil
}

func parseOrderRequest(req CreateOrderRequest) ([]pricing.LineRequest, *time.Time, error) {
	if err := validation.Struct(req); err != nil {
		return nil, nil, err
	}

	lines := make([]pricing.LineRequest, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, pricing.LineRequest{
			ServiceItemID: uuid.MustParse(it.ServiceItemID),
			Quantity:      it.Quantity,
			Notes:         it.Notes,
		})
	}

	var requestedTime *time.Time
	if req.RequestedTime != nil {
		t, err := time.Parse(time.RFC3339, *req.RequestedTime)
		if err != nil {
			return nil, nil, domain.Invalid("requestedTime must be an RFC 3339 timestamp")
		}
		t = t.UTC()
		requestedTime = &t
	}

	return lines, requestedTime, nil
}

func (s *OrderService) requireActiveStay(ctx context.Context, session domain.GuestSession) error {
	booking, err := s.bookings.GetBooking(ctx, session.BookingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrStayNotActive
		}
		return fmt.Errorf("load booking: %w", err)
	}

	if booking.PropertyID != session.PropertyID {
		return domain.ErrAccessDenied
	}

	if booking.Status != domain.BookingConfirmed && booking.Status != domain.BookingCheckedIn {
		return domain.ErrStayNotActive
	}

	return nil
}

func (s *OrderService) loadItems(ctx context.Context, lines []pricing.LineRequest, property *domain.Property) (map[uuid.UUID]domain.ServiceItem, error) {
	ids := make([]uuid.UUID, 0, len(lines))
	seen := make(map[uuid.UUID]struct{}, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.ServiceItemID]; ok {
			continue
		}
		seen[l.ServiceItemID] = struct{}{}
		ids = append(ids, l.ServiceItemID)
	}

	items, err := s.items.FindServiceItems(ctx, ids, property.ID)
	if err != nil {
		return nil, fmt.Errorf("load service items: %w", err)
	}

	catalog := make(map[uuid.UUID]domain.ServiceItem, len(items))
	for _, it := range items {
		if _, ok := seen[it.ID]; ok && it.PropertyID == property.ID {
			it.Price = property.Price(it.Price.Amount)
			catalog[it.ID] = it
		}
	}

	// covers ids from another tenant as well as deleted items
	if len(catalog) != len(ids) {
		return nil, domain.ErrItemNotFound
	}

	return catalog, nil
}

func (s *OrderService) replay(ctx context.Context, session domain.GuestSession, orderID uuid.UUID) (*domain.ServiceOrder, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("load replayed order: %w", err)
	}

	if order.BookingID != session.BookingID {
		return nil, domain.ErrAccessDenied
	}

	return order, nil
}

// GetOrder returns an order belonging to the session's stay.
func (s *OrderService) GetOrder(ctx context.Context, session domain.GuestSession, orderID uuid.UUID) (*domain.ServiceOrder, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.BookingID != session.BookingID {
		return nil, domain.ErrNotFound
	}

	return order, nil
}

// ApplyAction moves an order through the ServiceOrder table on behalf of the
// property owner.
func (s *OrderService) ApplyAction(ctx context.Context, orderID uuid.UUID, action, reason string) (*domain.ServiceOrder, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	to, err := status.ServiceOrder.Target(action)
	if err != nil {
		return nil, err
	}

	res, err := status.ServiceOrder.Transition(order.Status, to, reason)
	if err != nil {
		return nil, err
	}

	ownerConfirmed := res.To == domain.OrderConfirmed
	reason = strings.TrimSpace(reason)

	if err := s.orders.UpdateOrderStatus(ctx, order.ID, res.From, res.To, reason, &ownerConfirmed, order.Version); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	order.Status = res.To
	order.StatusReason = reason
	order.OwnerConfirmed = &ownerConfirmed
	order.Version++
	order.UpdatedAt = now

	s.log.WithFields(logrus.Fields{
		"order_id": order.ID,
		"from":     res.From,
		"to":       res.To,
	}).Info("service order status changed")

	publishIntents(ctx, s.publisher, s.log, buildIntents(res.Intents, "service_order", order.ID, order.PropertyID, string(order.Status), now))

	return order, nil
}
