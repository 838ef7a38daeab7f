package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/srgjo27/stay_engine/internal/core/domain"
	"github.com/srgjo27/stay_engine/internal/core/validation"
)

type errorResponse struct {
	Error   string         `json:"error"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.Invalid("invalid json body")
	}

	return nil
}

func decodeAction(r *http.Request, req *actionRequest) error {
	if err := decodeJSON(r, req); err != nil {
		return err
	}

	req.Action = strings.ToLower(strings.TrimSpace(req.Action))
	req.Reason = strings.TrimSpace(req.Reason)

	return validation.Struct(req)
}

// writeError is the single place where errors become HTTP statuses.
// Anything unrecognized is logged and hidden behind internal_error.
func writeError(w http.ResponseWriter, r *http.Request, log *logrus.Logger, err error) {
	status, body := mapError(err)

	if status == http.StatusInternalServerError {
		log.WithError(err).WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Error("request failed")
	}

	writeJSON(w, status, body)
}

func mapError(err error) (int, errorResponse) {
	var (
		unavailable *domain.ItemUnavailableError
		conflict    *domain.DateConflictError
		transition  *domain.InvalidTransitionError
		nights      *domain.NightsOutOfRangeError
		validation  *domain.ValidationError
	)

	switch {
	case errors.As(err, &unavailable):
		body := errorResponse{
			Error:   "out_of_stock",
			Message: unavailable.Error(),
			Details: map[string]any{"serviceItemId": unavailable.ItemID, "name": unavailable.Name},
		}
		if unavailable.Window != nil {
			body.Error = "outside_availability_window"
			body.Details["window"] = unavailable.Window
		}
		return http.StatusBadRequest, body

	case errors.As(err, &conflict):
		return http.StatusConflict, errorResponse{
			Error:   "date_conflict",
			Message: conflict.Error(),
			Details: map[string]any{
				"check_in":  conflict.Range.CheckIn.Format(domain.DateLayout),
				"check_out": conflict.Range.CheckOut.Format(domain.DateLayout),
			},
		}

	case errors.As(err, &transition):
		return http.StatusConflict, errorResponse{
			Error:   "invalid_transition",
			Message: transition.Error(),
			Details: map[string]any{"from": transition.From, "to": transition.To},
		}

	case errors.As(err, &nights):
		return http.StatusBadRequest, errorResponse{
			Error:   "nights_out_of_range",
			Message: nights.Error(),
			Details: map[string]any{"nights": nights.Nights, "min": nights.Min, "max": nights.Max},
		}

	case errors.As(err, &validation):
		return http.StatusBadRequest, errorResponse{Error: "invalid_request", Message: validation.Reason}
	}

	for _, m := range simpleErrors {
		if errors.Is(err, m.err) {
			return m.status, errorResponse{Error: m.code, Message: m.message}
		}
	}

	return http.StatusInternalServerError, errorResponse{Error: "internal_error"}
}

var simpleErrors = []struct {
	err     error
	status  int
	code    string
	message string
}{
	{domain.ErrInvalidRequest, http.StatusBadRequest, "invalid_request", ""},
	{domain.ErrItemNotFound, http.StatusBadRequest, "item_not_found", "one or more items are not available at this property"},
	{domain.ErrBookingDisabled, http.StatusBadRequest, "booking_disabled", "this property does not take bookings"},
	{domain.ErrPaymentMethodNotAccepted, http.StatusBadRequest, "payment_method_not_accepted", ""},
	{domain.ErrCapacityExceeded, http.StatusBadRequest, "capacity_exceeded", ""},
	{domain.ErrRoomInactive, http.StatusBadRequest, "room_inactive", ""},
	{domain.ErrSessionExpired, http.StatusUnauthorized, "session_expired", ""},
	{domain.ErrAccessDenied, http.StatusForbidden, "verification_required", ""},
	{domain.ErrStayNotActive, http.StatusForbidden, "stay_not_active", ""},
	{domain.ErrNotFound, http.StatusNotFound, "not_found", ""},
	{domain.ErrStaleVersion, http.StatusConflict, "stale_version", "the record was changed by another request, reload and retry"},
	{domain.ErrRequestInProgress, http.StatusConflict, "request_in_progress", ""},
}
