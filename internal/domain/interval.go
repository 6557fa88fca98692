package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	BookingDateLayout = "2006-01-02"
	BookingTimeLayout = "15:04"

	// Một lần đặt chỗ dài tối đa một năm
	MaxBookingHours = 24 * 365
)

var ErrBookingTimeRequired = errors.New("Booking Time Required")
var ErrInvalidBookingTime = errors.New("ngày/giờ đặt chỗ không hợp lệ")

// InvalidIntervalError is returned when an interval does not satisfy start < end.
type InvalidIntervalError struct {
	Start time.Time
	End   time.Time
}

func (e *InvalidIntervalError) Error() string {
	return fmt.Sprintf("khoảng thời gian không hợp lệ: start %s phải trước end %s",
		e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339))
}

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func NewInterval(start, end time.Time) (Interval, error) {
	if !start.Before(end) {
		return Interval{}, &InvalidIntervalError{Start: start, End: end}
	}
	return Interval{Start: start, End: end}, nil
}

func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// BookingTimeDTO carries the booking-form fields, either from the query string or a JSON body.
type BookingTimeDTO struct {
	Date          string `form:"date" json:"date"`
	StartTime     string `form:"start_time" json:"start_time"`
	DurationHours int    `form:"duration_hours" json:"duration_hours"`
}

func (b BookingTimeDTO) IsEmpty() bool {
	return strings.TrimSpace(b.Date) == "" && strings.TrimSpace(b.StartTime) == "" && b.DurationHours == 0
}

// DesiredInterval builds the interval the user is trying to book. It returns
// (nil, nil) when no booking time was supplied at all and ErrBookingTimeRequired
// when only part of it was.
func (b BookingTimeDTO) DesiredInterval(loc *time.Location) (*Interval, error) {
	if b.IsEmpty() {
		return nil, nil
	}
	if strings.TrimSpace(b.Date) == "" || strings.TrimSpace(b.StartTime) == "" {
		return nil, ErrBookingTimeRequired
	}
	if b.DurationHours <= 0 {
		return nil, fmt.Errorf("%w: duration_hours phải lớn hơn 0", ErrBookingTimeRequired)
	}
	if b.DurationHours > MaxBookingHours {
		return nil, fmt.Errorf("%w: duration_hours không được vượt quá %d", ErrInvalidBookingTime, MaxBookingHours)
	}
	if loc == nil {
		loc = time.UTC
	}
	start, err := time.ParseInLocation(BookingDateLayout+" "+BookingTimeLayout,
		strings.TrimSpace(b.Date)+" "+strings.TrimSpace(b.StartTime), loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBookingTime, err)
	}
	interval, err := NewInterval(start, start.Add(time.Duration(b.DurationHours)*time.Hour))
	if err != nil {
		return nil, err
	}
	return &interval, nil
}
