package service

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"parking_reservation/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var carSlot = domain.Slot{ID: "C1", VehicleType: domain.VehicleCar}

func TestClassifyViolation(t *testing.T) {
	active := []domain.Reservation{{ID: "r1", SlotID: "C1", VehiclePlate: "KA 01 AB 1234"}}

	tests := []struct {
		name       string
		info       domain.VehicleInfo
		active     []domain.Reservation
		wantKind   domain.ViolationKind
		wantResvID string
	}{
		{"plate matches active reservation", domain.VehicleInfo{Plate: "KA01AB1234", VehicleType: domain.VehicleCar}, active, domain.ViolationNone, "r1"},
		{"plate differs", domain.VehicleInfo{Plate: "KA02ZZ9999", VehicleType: domain.VehicleCar}, active, domain.ViolationUnauthorized, "r1"},
		{"no active reservation", domain.VehicleInfo{Plate: "KA01AB1234", VehicleType: domain.VehicleCar}, nil, domain.ViolationUnauthorized, ""},
		{"bike in car slot", domain.VehicleInfo{Plate: "KA01AB1234", VehicleType: domain.VehicleBike}, active, domain.ViolationWrongVehicleType, "r1"},
		{"unknown type and unreadable plate", domain.VehicleInfo{}, active, domain.ViolationNone, "r1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, resvID := ClassifyViolation(carSlot, tt.info, tt.active)
			assert.Equal(t, tt.wantKind, kind)
			assert.Equal(t, tt.wantResvID, resvID)
		})
	}
}

func newViolationFixture(info *domain.VehicleInfo, seed ...domain.Reservation) (*ViolationService, *mockViolationRepo) {
	violations := &mockViolationRepo{}
	svc := NewViolationService(&stubAnalyzer{info: info}, newFakeReservationRepo(seed...), violations, testInventory)
	svc.now = func() time.Time { return at(10) }
	return svc, violations
}

var fakeImage = base64.StdEncoding.EncodeToString([]byte("jpeg-bytes"))

func TestViolationService_Report(t *testing.T) {
	r1 := seedR1()
	svc, repo := newViolationFixture(&domain.VehicleInfo{
		Plate:           "KA05MN4321",
		PlateConfidence: 97.5,
		VehicleType:     domain.VehicleCar,
		Labels:          []string{"Car", "Vehicle"},
	}, r1)

	v, err := svc.Report(context.Background(), "u7", domain.ViolationReportDTO{SlotID: "C1", ImageBase64: fakeImage, Description: " xe lạ "})

	require.NoError(t, err)
	require.Len(t, repo.created, 1)
	assert.Equal(t, domain.ViolationUnauthorized, v.Kind)
	assert.Equal(t, "r1", v.ReservationID.String)
	assert.Equal(t, "KA05MN4321", v.DetectedPlate.String)
	assert.InDelta(t, 97.5, v.PlateConfidence.Float64, 0.001)
	assert.Equal(t, "car", v.DetectedVehicleType.String)
	assert.Equal(t, "xe lạ", v.Description)
	assert.Equal(t, "u7", v.ReporterID)
	assert.True(t, v.ReportedAt.Equal(at(10)))
}

func TestViolationService_ReportWithoutPlate(t *testing.T) {
	svc, _ := newViolationFixture(&domain.VehicleInfo{VehicleType: domain.VehicleBike})

	v, err := svc.Report(context.Background(), "u7", domain.ViolationReportDTO{SlotID: "C1", ImageBase64: fakeImage})

	require.NoError(t, err)
	assert.Equal(t, domain.ViolationWrongVehicleType, v.Kind)
	assert.False(t, v.DetectedPlate.Valid)
	assert.False(t, v.ReservationID.Valid)
}

func TestViolationService_ReportValidation(t *testing.T) {
	svc, repo := newViolationFixture(&domain.VehicleInfo{})

	_, err := svc.Report(context.Background(), "u7", domain.ViolationReportDTO{SlotID: "Z9", ImageBase64: fakeImage})
	assert.ErrorIs(t, err, ErrUnknownSlot)

	_, err = svc.Report(context.Background(), "u7", domain.ViolationReportDTO{SlotID: "C1", ImageBase64: "%%%"})
	assert.ErrorIs(t, err, ErrInvalidImage)

	assert.Empty(t, repo.created)
}

func TestViolationService_AnalyzerError(t *testing.T) {
	violations := &mockViolationRepo{}
	svc := NewViolationService(&stubAnalyzer{err: errors.New("rekognition down")}, newFakeReservationRepo(), violations, testInventory)

	_, err := svc.Report(context.Background(), "u7", domain.ViolationReportDTO{SlotID: "C1", ImageBase64: fakeImage})

	assert.Error(t, err)
	assert.Empty(t, violations.created)
}

func TestViolationService_HandleQueueMessage(t *testing.T) {
	svc, repo := newViolationFixture(&domain.VehicleInfo{Plate: "KA05MN4321", VehicleType: domain.VehicleCar})

	err := svc.HandleQueueMessage(context.Background(), `{"slot_id":"C1","image_base64":"`+fakeImage+`"}`)
	require.NoError(t, err)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "camera", repo.created[0].ReporterID)

	err = svc.HandleQueueMessage(context.Background(), `{"slot_id":"C1","image_base64":"`+fakeImage+`","reporter_id":"cam-3"}`)
	require.NoError(t, err)
	assert.Equal(t, "cam-3", repo.created[1].ReporterID)

	assert.Error(t, svc.HandleQueueMessage(context.Background(), "not json"))
}
