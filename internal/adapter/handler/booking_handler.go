package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/srgjo27/stay_engine/internal/core/domain"
	"github.com/srgjo27/stay_engine/internal/core/services"
	"github.com/srgjo27/stay_engine/internal/platform/metrics"
)

type BookingHandler struct {
	svc     *services.BookingService
	log     *logrus.Logger
	metrics *metrics.Metrics
}

func NewBookingHandler(svc *services.BookingService, log *logrus.Logger, m *metrics.Metrics) *BookingHandler {
	return &BookingHandler{svc: svc, log: log, metrics: m}
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, domain.Invalid("invalid %s", name)
	}

	return id, nil
}

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req services.CreateBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	req.PropertyID = r.PathValue("propertyID")

	booking, err := h.svc.CreateBooking(r.Context(), req)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	h.metrics.Bookings.WithLabelValues(string(booking.Status)).Inc()
	writeJSON(w, http.StatusCreated, toBookingResponse(booking))
}

func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	booking, err := h.svc.GetBooking(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toBookingResponse(booking))
}

func (h *BookingHandler) Quote(w http.ResponseWriter, r *http.Request) {
	propertyID, err := pathUUID(r, "propertyID")
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	roomID, err := pathUUID(r, "roomID")
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	rng, err := domain.ParseDateRange(r.URL.Query().Get("check_in"), r.URL.Query().Get("check_out"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	quote, err := h.svc.Quote(r.Context(), propertyID, roomID, rng)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, quote)
}

func (h *BookingHandler) Availability(w http.ResponseWriter, r *http.Request) {
	roomID, err := pathUUID(r, "roomID")
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	rng, err := domain.ParseDateRange(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	held, err := h.svc.Calendar(r.Context(), roomID, rng)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	resp := calendarResponse{
		RoomID: roomID,
		From:   rng.CheckIn.Format(domain.DateLayout),
		To:     rng.CheckOut.Format(domain.DateLayout),
		Held:   make([]dateRangeResponse, 0, len(held)),
	}
	for _, d := range held {
		resp.Held = append(resp.Held, dateRangeResponse{
			CheckIn:  d.CheckIn.Format(domain.DateLayout),
			CheckOut: d.CheckOut.Format(domain.DateLayout),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *BookingHandler) Action(w http.ResponseWriter, r *http.Request) {
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

	booking, err := h.svc.ApplyAction(r.Context(), id, req.Action, req.Reason)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	h.metrics.Transitions.WithLabelValues("booking", string(booking.Status)).Inc()
	writeJSON(w, http.StatusOK, toBookingResponse(booking))
}
