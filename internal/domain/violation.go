package domain

import (
	"time"

	"gopkg.in/guregu/null.v4"
)

type ViolationKind string

const (
	ViolationNone             ViolationKind = "none"
	ViolationWrongVehicleType ViolationKind = "wrong_vehicle_type"
	ViolationUnauthorized     ViolationKind = "unauthorized"
)

type Violation struct {
	ID                  string        `json:"id"`
	SlotID              string        `json:"slot_id"`
	ReporterID          string        `json:"reporter_id"`
	Description         string        `json:"description,omitempty"`
	DetectedPlate       null.String   `json:"detected_plate"`
	PlateConfidence     null.Float    `json:"plate_confidence"`
	DetectedVehicleType null.String   `json:"detected_vehicle_type"`
	Labels              []string      `json:"labels"`
	Kind                ViolationKind `json:"kind"`
	ReservationID       null.String   `json:"reservation_id"` // reservation đang active tại slot (nếu có)
	ReportedAt          time.Time     `json:"reported_at"`
	CreatedAt           time.Time     `json:"created_at"`
}

type ViolationReportDTO struct {
	SlotID      string `json:"slot_id" binding:"required"`
	ImageBase64 string `json:"image_base64" binding:"required"`
	Description string `json:"description"`
	// ReporterID chỉ dùng cho báo cáo đến từ SQS; với HTTP lấy từ token
	ReporterID string `json:"reporter_id,omitempty"`
}
