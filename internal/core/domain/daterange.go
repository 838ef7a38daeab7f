package domain

import (
	"time"
)

const DateLayout = "2006-01-02"

// DateRange is a half-open interval of calendar days [CheckIn, CheckOut).
// Both ends are normalized to midnight UTC.
type DateRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

func NewDateRange(checkIn, checkOut time.Time) (DateRange, error) {
	in := truncateDay(checkIn)
	out := truncateDay(checkOut)

	if !in.Before(out) {
		return DateRange{}, Invalid("check-out must be after check-in")
	}

	return DateRange{CheckIn: in, CheckOut: out}, nil
}

func ParseDateRange(checkIn, checkOut string) (DateRange, error) {
	in, err := time.Parse(DateLayout, checkIn)
	if err != nil {
		return DateRange{}, Invalid("invalid check-in date %q", checkIn)
	}

	out, err := time.Parse(DateLayout, checkOut)
	if err != nil {
		return DateRange{}, Invalid("invalid check-out date %q", checkOut)
	}

	return NewDateRange(in, out)
}

func (r DateRange) Nights() int {
	return int(r.CheckOut.Sub(r.CheckIn).Hours() / 24)
}

func (r DateRange) Overlaps(other DateRange) bool {
	return r.CheckIn.Before(other.CheckOut) && other.CheckIn.Before(r.CheckOut)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TimeWindow is a daily opening window in property-local "HH:MM".
type TimeWindow struct {
	From  string `json:"from"`
	Until string `json:"until"`
}
