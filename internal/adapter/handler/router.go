package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/srgjo27/stay_engine/internal/core/ports"
	"github.com/srgjo27/stay_engine/internal/platform/metrics"
	"github.com/ulule/limiter/v3"
)

type RouterDeps struct {
	Bookings     *BookingHandler
	Orders       *OrderHandler
	Verifier     ports.SessionVerifier
	AdminKey     string
	LimiterStore limiter.Store
	OrderRate    limiter.Rate
	Metrics      *metrics.Metrics
	Logger       *logrus.Logger
}

func NewRouter(d RouterDeps) http.Handler {
	mux := http.NewServeMux()

	guest := GuestSession(d.Verifier, d.Logger)
	admin := AdminKey(d.AdminKey)
	perStay := RateLimit(d.LimiterStore, d.OrderRate, stayCodeKey, d.Logger)
	perIP := RateLimit(d.LimiterStore, d.OrderRate, nil, d.Logger)

	route := func(pattern, name string, h http.HandlerFunc, mws ...func(http.Handler) http.Handler) {
		mux.Handle(pattern, d.Metrics.Instrument(name, chain(h, mws...)))
	}

	route("POST /stay/{code}/orders", "create_order", d.Orders.CreateOrder, perStay, guest)
	route("GET /stay/{code}/orders/{id}", "get_order", d.Orders.GetOrder, guest)
	route("POST /orders/{id}/actions", "order_action", d.Orders.Action, admin)

	route("POST /properties/{propertyID}/bookings", "create_booking", d.Bookings.CreateBooking, perIP)
	route("GET /properties/{propertyID}/rooms/{roomID}/quote", "quote", d.Bookings.Quote)
	route("GET /rooms/{roomID}/availability", "availability", d.Bookings.Availability)
	route("GET /bookings/{id}", "get_booking", d.Bookings.GetBooking, admin)
	route("POST /bookings/{id}/actions", "booking_action", d.Bookings.Action, admin)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /metrics", d.Metrics.Handler())

	return mux
}
