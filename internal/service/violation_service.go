package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"parking_reservation/internal/domain"
	"parking_reservation/internal/repository"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/guregu/null.v4"
)

var ErrInvalidImage = errors.New("dữ liệu ảnh không hợp lệ")

type ViolationService struct {
	analyzer     ImageAnalyzer
	reservations repository.ReservationRepository
	violations   repository.ViolationRepository
	slotsByID    map[string]domain.Slot
	now          func() time.Time
}

func NewViolationService(
	analyzer ImageAnalyzer,
	reservations repository.ReservationRepository,
	violations repository.ViolationRepository,
	inventory []domain.Slot,
) *ViolationService {
	slotsByID := make(map[string]domain.Slot, len(inventory))
	for _, s := range inventory {
		slotsByID[s.ID] = s
	}
	return &ViolationService{
		analyzer:     analyzer,
		reservations: reservations,
		violations:   violations,
		slotsByID:    slotsByID,
		now:          time.Now,
	}
}

// ClassifyViolation quyết định loại vi phạm từ loại slot, thông tin xe trong ảnh
// và các reservation đang active của slot tại thời điểm báo cáo.
func ClassifyViolation(slot domain.Slot, info domain.VehicleInfo, active []domain.Reservation) (domain.ViolationKind, string) {
	var activeID string
	if len(active) > 0 {
		activeID = active[0].ID
	}
	if info.VehicleType != "" && info.VehicleType != slot.VehicleType {
		return domain.ViolationWrongVehicleType, activeID
	}
	if len(active) == 0 {
		return domain.ViolationUnauthorized, ""
	}
	if info.Plate == "" {
		// Không đọc được biển số nhưng slot đang có người đặt: không kết luận vi phạm
		return domain.ViolationNone, activeID
	}
	plate := NormalizePlate(info.Plate)
	for _, r := range active {
		if NormalizePlate(r.VehiclePlate) == plate {
			return domain.ViolationNone, r.ID
		}
	}
	return domain.ViolationUnauthorized, activeID
}

func (s *ViolationService) Report(ctx context.Context, reporterID string, dto domain.ViolationReportDTO) (*domain.Violation, error) {
	slotID := strings.TrimSpace(dto.SlotID)
	slot, ok := s.slotsByID[slotID]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownSlot, slotID)
	}
	imageBytes, err := base64.StdEncoding.DecodeString(dto.ImageBase64)
	if err != nil || len(imageBytes) == 0 {
		return nil, ErrInvalidImage
	}

	reportedAt := s.now().UTC()
	info, err := s.analyzer.AnalyzeVehicle(ctx, imageBytes)
	if err != nil {
		return nil, fmt.Errorf("lỗi phân tích ảnh: %w", err)
	}
	active, err := s.reservations.FindActiveBySlot(ctx, slot.ID, reportedAt)
	if err != nil {
		return nil, fmt.Errorf("lỗi khi lấy reservation đang active: %w", err)
	}

	kind, reservationID := ClassifyViolation(slot, *info, active)
	v := &domain.Violation{
		ID:            uuid.NewString(),
		SlotID:        slot.ID,
		ReporterID:    reporterID,
		Description:   strings.TrimSpace(dto.Description),
		Labels:        info.Labels,
		Kind:          kind,
		ReservationID: null.NewString(reservationID, reservationID != ""),
		ReportedAt:    reportedAt,
	}
	if info.Plate != "" {
		v.DetectedPlate = null.StringFrom(info.Plate)
		v.PlateConfidence = null.FloatFrom(float64(info.PlateConfidence))
	}
	if info.VehicleType != "" {
		v.DetectedVehicleType = null.StringFrom(string(info.VehicleType))
	}

	created, err := s.violations.Create(ctx, v)
	if err != nil {
		return nil, fmt.Errorf("lỗi khi lưu báo cáo vi phạm: %w", err)
	}
	log.Printf("ViolationService: Báo cáo %s cho slot %s: %s (biển số: '%s')", created.ID, created.SlotID, created.Kind, info.Plate)
	return created, nil
}

// HandleQueueMessage xử lý báo cáo vi phạm gửi qua SQS.
func (s *ViolationService) HandleQueueMessage(ctx context.Context, body string) error {
	var dto domain.ViolationReportDTO
	if err := json.Unmarshal([]byte(body), &dto); err != nil {
		return fmt.Errorf("lỗi unmarshal báo cáo vi phạm: %w", err)
	}
	reporter := dto.ReporterID
	if reporter == "" {
		reporter = "camera"
	}
	_, err := s.Report(ctx, reporter, dto)
	return err
}

func (s *ViolationService) List(ctx context.Context) ([]domain.Violation, error) {
	return s.violations.FindAll(ctx)
}
