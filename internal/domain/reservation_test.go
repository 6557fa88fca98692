package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveStatus(t *testing.T) {
	start, end := at(9, 0), at(11, 0)

	assert.Equal(t, ReservationUpcoming, DeriveStatus(at(8, 59), start, end))
	assert.Equal(t, ReservationActive, DeriveStatus(start, start, end))
	assert.Equal(t, ReservationActive, DeriveStatus(at(10, 59), start, end))
	assert.Equal(t, ReservationCompleted, DeriveStatus(end, start, end))
	assert.Equal(t, ReservationCompleted, DeriveStatus(at(12, 0), start, end))
}

func TestDeriveStatus_SameNowSameResult(t *testing.T) {
	r := Reservation{StartTime: at(9, 0), EndTime: at(11, 0)}
	now := at(10, 0)
	assert.Equal(t, r.Status(now), r.Status(now))
}

func TestNewReservationDTO_StatusAsOfRead(t *testing.T) {
	r := Reservation{ID: "r1", StartTime: at(9, 0), EndTime: at(11, 0)}
	assert.Equal(t, ReservationActive, NewReservationDTO(r, at(10, 0)).Status)
	assert.Equal(t, ReservationCompleted, NewReservationDTO(r, at(11, 0)).Status)
}
