package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/srgjo27/stay_engine/internal/core/domain"
	"github.com/srgjo27/stay_engine/internal/core/services"
	"github.com/srgjo27/stay_engine/internal/platform/metrics"
)

type OrderHandler struct {
	svc     *services.OrderService
	log     *logrus.Logger
	metrics *metrics.Metrics
}

func NewOrderHandler(svc *services.OrderService, log *logrus.Logger, m *metrics.Metrics) *OrderHandler {
	return &OrderHandler{svc: svc, log: log, metrics: m}
}

func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(r.Context())
	if !ok {
		writeError(w, r, h.log, domain.ErrSessionExpired)
		return
	}

	var req services.CreateOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	req.IdempotencyKey = r.Header.Get("Idempotency-Key")

	order, err := h.svc.CreateOrder(r.Context(), session, req)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	h.metrics.Orders.WithLabelValues(string(order.Status)).Inc()
	writeJSON(w, http.StatusCreated, toOrderResponse(order))
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(r.Context())
	if !ok {
		writeError(w, r, h.log, domain.ErrSessionExpired)
		return
	}

	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	order, err := h.svc.GetOrder(r.Context(), session, id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *OrderHandler) Action(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	var req actionRequest
	if err := decodeAction(r, &req); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	order, err := h.svc.ApplyAction(r.Context(), id, req.Action, req.Reason)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	h.metrics.Transitions.WithLabelValues("service_order", string(order.Status)).Inc()
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}
