package domain

type VehicleType string

const (
	VehicleCar  VehicleType = "car"
	VehicleBike VehicleType = "bike"
)

func (v VehicleType) Valid() bool {
	return v == VehicleCar || v == VehicleBike
}

// Slot is a fixed parking space from the static inventory.
type Slot struct {
	ID          string      `json:"id" yaml:"id"`
	VehicleType VehicleType `json:"vehicle_type" yaml:"vehicle_type"`
}

type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotOccupied  SlotStatus = "occupied"
	SlotReserved  SlotStatus = "reserved"
)

type ReservedBy string

const (
	ReservedByNone  ReservedBy = "none"
	ReservedByUser  ReservedBy = "user"
	ReservedByOther ReservedBy = "other"
)

// SlotView is the render-ready occupancy of one slot for one user and desired interval.
type SlotView struct {
	SlotID        string      `json:"slot_id"`
	VehicleType   VehicleType `json:"vehicle_type"`
	Status        SlotStatus  `json:"status"`
	ReservedBy    ReservedBy  `json:"reserved_by"`
	ReservationID string      `json:"reservation_id,omitempty"`
}

type SlotMapResponseDTO struct {
	Interval            *Interval  `json:"interval,omitempty"`
	BookingTimeRequired bool       `json:"booking_time_required"`
	Slots               []SlotView `json:"slots"`
}
