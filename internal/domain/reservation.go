package domain

import (
	"time"
)

type ReservationStatus string

const (
	ReservationUpcoming  ReservationStatus = "upcoming"
	ReservationActive    ReservationStatus = "active"
	ReservationCompleted ReservationStatus = "completed"
)

// DeriveStatus computes the lifecycle status of [start, end) at instant now.
func DeriveStatus(now, start, end time.Time) ReservationStatus {
	switch {
	case !now.Before(end):
		return ReservationCompleted
	case !now.Before(start):
		return ReservationActive
	default:
		return ReservationUpcoming
	}
}

type Reservation struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	SlotID       string    `json:"slot_id"`
	VehiclePlate string    `json:"vehicle_plate"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Interval validates the stored bounds; a reservation with start >= end is rejected.
func (r Reservation) Interval() (Interval, error) {
	return NewInterval(r.StartTime, r.EndTime)
}

func (r Reservation) Status(now time.Time) ReservationStatus {
	return DeriveStatus(now, r.StartTime, r.EndTime)
}

// ReservationDTO is what the API returns: the stored fields plus the status as of the read.
type ReservationDTO struct {
	Reservation
	Status ReservationStatus `json:"status"`
}

func NewReservationDTO(r Reservation, now time.Time) ReservationDTO {
	return ReservationDTO{Reservation: r, Status: r.Status(now)}
}

type CreateReservationDTO struct {
	SlotID       string `json:"slot_id" binding:"required"`
	VehiclePlate string `json:"vehicle_plate" binding:"required"`
	BookingTimeDTO
}

type ReservationEvent struct {
	Type        string      `json:"type"` // "reservation.created" hoặc "reservation.cancelled"
	Reservation Reservation `json:"reservation"`
	ActorID     string      `json:"actor_id"`
	OccurredAt  time.Time   `json:"occurred_at"`
}

const (
	EventReservationCreated   = "reservation.created"
	EventReservationCancelled = "reservation.cancelled"
)

// WriteFailure is pushed to the error-reporting channel when a write is rejected.
type WriteFailure struct {
	Path         string `json:"path"`
	Operation    string `json:"operation"` // "create" | "delete"
	UserID       string `json:"-"`
	Message      string `json:"message"`
	ResourceData any    `json:"resource_data,omitempty"`
}
