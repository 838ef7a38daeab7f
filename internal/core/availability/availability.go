// Package availability decides whether a room or a service item can be taken
// at a given moment. It performs no I/O; callers load bookings and catalog rows
// and pass them in.
package availability

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/stay_engine/internal/core/domain"
)

// Overlaps reports whether two half-open ranges share at least one night.
// A check-out on day D and a check-in on day D do not conflict.
func Overlaps(a, b domain.DateRange) bool {
	return a.Overlaps(b)
}

// HasConflict reports whether any booking that holds roomID overlaps requested.
func HasConflict(roomID uuid.UUID, requested domain.DateRange, existing []domain.Booking) bool {
	for _, b := range existing {
		if b.RoomID != roomID || !b.Status.HoldsRoom() {
			continue
		}

		if Overlaps(b.Range, requested) {
			return true
		}
	}

	return false
}

// CheckRoom is HasConflict with a structured rejection.
func CheckRoom(roomID uuid.UUID, requested domain.DateRange, existing []domain.Booking) error {
	if HasConflict(roomID, requested, existing) {
		return &domain.DateConflictError{RoomID: roomID, Range: requested}
	}

	return nil
}

// LocalNow formats now on the property's wall clock.
func LocalNow(now time.Time, loc *time.Location) time.Time {
	return now.In(loc)
}

// IsWithinHours reports whether localNow falls inside [from, until). Windows
// whose start is later than their end wrap past midnight, so "22:00"-"02:00"
// covers late evening and early morning. A zero-length window is never open.
func IsWithinHours(localNow time.Time, from, until string) (bool, error) {
	start, err := minuteOfDay(from)
	if err != nil {
		return false, err
	}

	end, err := minuteOfDay(until)
	if err != nil {
		return false, err
	}

	m := localNow.Hour()*60 + localNow.Minute()

	switch {
	case start < end:
		return start <= m && m < end, nil
	case start > end:
		return m >= start || m < end, nil
	}

	return false, nil
}

// CheckItem rejects an item that is out of stock or closed at localNow.
func CheckItem(item domain.ServiceItem, localNow time.Time) error {
	if !item.InStock {
		return domain.OutOfStock(item.ID, item.Name)
	}

	if item.IsAlwaysAvailable {
		return nil
	}

	open, err := IsWithinHours(localNow, item.AvailableFrom, item.AvailableUntil)
	if err != nil {
		return fmt.Errorf("service item %s: %w", item.ID, err)
	}

	if !open {
		return domain.OutsideWindow(item.ID, item.Name, item.Window())
	}

	return nil
}

func minuteOfDay(hhmm string) (int, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(hhmm), ":")
	if !ok || len(h) != 2 || len(m) < 2 {
		return 0, fmt.Errorf("invalid time of day %q", hhmm)
	}

	// tolerate "HH:MM:SS" as stored by Postgres TIME columns
	m = m[:2]

	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid time of day %q", hhmm)
	}

	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid time of day %q", hhmm)
	}

	return hour*60 + minute, nil
}
