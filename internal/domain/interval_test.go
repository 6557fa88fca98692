package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, minute int) time.Time {
	return time.Date(2024, 1, 1, hour, minute, 0, 0, time.UTC)
}

func TestNewInterval_RejectsEmptyAndNegative(t *testing.T) {
	_, err := NewInterval(at(10, 0), at(10, 0))
	var invalid *InvalidIntervalError
	require.Error(t, err)
	assert.True(t, errors.As(err, &invalid))

	_, err = NewInterval(at(11, 0), at(10, 0))
	assert.True(t, errors.As(err, &invalid))

	iv, err := NewInterval(at(9, 0), at(10, 0))
	require.NoError(t, err)
	assert.Equal(t, time.Hour, iv.Duration())
}

func TestBookingTime_DesiredInterval(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	require.NoError(t, err)

	iv, err := BookingTimeDTO{Date: "2024-01-01", StartTime: "09:30", DurationHours: 2}.DesiredInterval(loc)
	require.NoError(t, err)
	require.NotNil(t, iv)
	assert.True(t, iv.Start.Equal(time.Date(2024, 1, 1, 9, 30, 0, 0, loc)))
	assert.True(t, iv.End.Equal(time.Date(2024, 1, 1, 11, 30, 0, 0, loc)))
}

func TestBookingTime_EmptyMeansNoInterval(t *testing.T) {
	iv, err := BookingTimeDTO{}.DesiredInterval(time.UTC)
	assert.NoError(t, err)
	assert.Nil(t, iv)
}

func TestBookingTime_PartialInput(t *testing.T) {
	_, err := BookingTimeDTO{Date: "2024-01-01"}.DesiredInterval(time.UTC)
	assert.ErrorIs(t, err, ErrBookingTimeRequired)

	_, err = BookingTimeDTO{Date: "2024-01-01", StartTime: "09:00"}.DesiredInterval(time.UTC)
	assert.ErrorIs(t, err, ErrBookingTimeRequired)

	_, err = BookingTimeDTO{Date: "01/01/2024", StartTime: "09:00", DurationHours: 1}.DesiredInterval(time.UTC)
	assert.ErrorIs(t, err, ErrInvalidBookingTime)
}

func TestBookingTime_RejectsOversizedDuration(t *testing.T) {
	for _, hours := range []int{MaxBookingHours + 1, 5124096, 7686143, 1 << 40} {
		iv, err := BookingTimeDTO{Date: "2024-01-01", StartTime: "09:00", DurationHours: hours}.DesiredInterval(time.UTC)
		assert.ErrorIs(t, err, ErrInvalidBookingTime, "duration_hours=%d", hours)
		assert.Nil(t, iv)
	}

	iv, err := BookingTimeDTO{Date: "2024-01-01", StartTime: "09:00", DurationHours: MaxBookingHours}.DesiredInterval(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Duration(MaxBookingHours)*time.Hour, iv.Duration())
}
