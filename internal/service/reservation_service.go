package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"parking_reservation/internal/availability"
	"parking_reservation/internal/domain"
	"parking_reservation/internal/repository"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrIdentityRequired = errors.New("cần đăng nhập để thực hiện thao tác này")
var ErrUnknownSlot = errors.New("slot không tồn tại")
var ErrForbidden = errors.New("không có quyền thực hiện thao tác này")
var ErrVehiclePlateRequired = errors.New("biển số xe không được để trống")

// EventPublisher phát sự kiện reservation ra message broker.
type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

type ReservationService struct {
	repo      repository.ReservationRepository
	inventory []domain.Slot
	slotsByID map[string]domain.Slot
	feed      *ReservationFeed
	reporter  ErrorReporter
	publisher EventPublisher
	loc       *time.Location
	now       func() time.Time
}

func NewReservationService(
	repo repository.ReservationRepository,
	inventory []domain.Slot,
	feed *ReservationFeed,
	reporter ErrorReporter,
	publisher EventPublisher, // có thể nil
	loc *time.Location,
) *ReservationService {
	slotsByID := make(map[string]domain.Slot, len(inventory))
	for _, s := range inventory {
		slotsByID[s.ID] = s
	}
	if loc == nil {
		loc = time.UTC
	}
	if reporter == nil {
		reporter = NewErrorReporter(nil)
	}
	return &ReservationService{
		repo:      repo,
		inventory: inventory,
		slotsByID: slotsByID,
		feed:      feed,
		reporter:  reporter,
		publisher: publisher,
		loc:       loc,
		now:       time.Now,
	}
}

func (s *ReservationService) Inventory() []domain.Slot {
	return s.inventory
}

func (s *ReservationService) Slot(id string) (domain.Slot, bool) {
	slot, ok := s.slotsByID[id]
	return slot, ok
}

func (s *ReservationService) Location() *time.Location {
	return s.loc
}

func (s *ReservationService) Feed() *ReservationFeed {
	return s.feed
}

// SlotMap đọc toàn bộ reservation và tính SlotView cho người dùng hiện tại.
func (s *ReservationService) SlotMap(ctx context.Context, identity domain.Identity, desired *domain.Interval) ([]domain.SlotView, error) {
	reservations, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("lỗi khi lấy danh sách reservation: %w", err)
	}
	return s.ProjectSnapshot(identity, reservations, desired)
}

// ProjectSnapshot tính SlotView từ một snapshot có sẵn (ví dụ snapshot từ feed).
func (s *ReservationService) ProjectSnapshot(identity domain.Identity, reservations []domain.Reservation, desired *domain.Interval) ([]domain.SlotView, error) {
	for _, r := range availability.UnknownSlotReferences(s.inventory, reservations) {
		log.Printf("ReservationService: Cảnh báo dữ liệu: reservation %s trỏ tới slot '%s' không có trong inventory", r.ID, r.SlotID)
	}
	views, err := availability.Project(s.inventory, reservations, identity.UserID, desired)
	if err != nil {
		return nil, fmt.Errorf("lỗi tính trạng thái slot: %w", err)
	}
	return views, nil
}

func (s *ReservationService) CreateReservation(ctx context.Context, identity domain.Identity, dto domain.CreateReservationDTO) (*domain.ReservationDTO, error) {
	if identity.UserID == "" {
		return nil, ErrIdentityRequired
	}
	desired, err := dto.DesiredInterval(s.loc)
	if err != nil {
		return nil, err
	}
	if desired == nil {
		return nil, domain.ErrBookingTimeRequired
	}
	slotID := strings.TrimSpace(dto.SlotID)
	if _, ok := s.slotsByID[slotID]; !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownSlot, slotID)
	}
	plate := strings.TrimSpace(dto.VehiclePlate)
	if plate == "" {
		return nil, ErrVehiclePlateRequired
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("lỗi tạo reservation id: %w", err)
	}
	reservation := &domain.Reservation{
		ID:           id.String(),
		UserID:       identity.UserID,
		SlotID:       slotID,
		VehiclePlate: plate,
		StartTime:    desired.Start.UTC(),
		EndTime:      desired.End.UTC(),
	}

	created, err := s.repo.CreateIfNoConflict(ctx, reservation)
	if err != nil {
		s.reporter.Report(domain.WriteFailure{
			Path:         "reservations/" + reservation.ID,
			Operation:    "create",
			UserID:       identity.UserID,
			Message:      err.Error(),
			ResourceData: reservation,
		})
		return nil, err
	}
	log.Printf("ReservationService: Người dùng %s đã đặt slot %s (%s - %s), reservation %s",
		identity.UserID, created.SlotID, created.StartTime.Format(time.RFC3339), created.EndTime.Format(time.RFC3339), created.ID)

	s.afterWrite(ctx, domain.EventReservationCreated, *created, identity)
	dtoOut := domain.NewReservationDTO(*created, s.now())
	return &dtoOut, nil
}

// CancelReservation xóa hẳn reservation. Chỉ chủ reservation hoặc owner được hủy.
func (s *ReservationService) CancelReservation(ctx context.Context, identity domain.Identity, reservationID string) error {
	if identity.UserID == "" {
		return ErrIdentityRequired
	}
	failure := domain.WriteFailure{
		Path:      "reservations/" + reservationID,
		Operation: "delete",
		UserID:    identity.UserID,
	}

	reservation, err := s.repo.FindByID(ctx, reservationID)
	if err != nil {
		failure.Message = err.Error()
		s.reporter.Report(failure)
		return err
	}
	failure.ResourceData = reservation

	if reservation.UserID != identity.UserID && !identity.IsOwner() {
		failure.Message = ErrForbidden.Error()
		s.reporter.Report(failure)
		return ErrForbidden
	}

	if err := s.repo.Delete(ctx, reservationID); err != nil {
		failure.Message = err.Error()
		s.reporter.Report(failure)
		return err
	}
	log.Printf("ReservationService: Reservation %s (slot %s) đã bị hủy bởi %s", reservation.ID, reservation.SlotID, identity.UserID)

	s.afterWrite(ctx, domain.EventReservationCancelled, *reservation, identity)
	return nil
}

func (s *ReservationService) ListForUser(ctx context.Context, identity domain.Identity) ([]domain.ReservationDTO, error) {
	if identity.UserID == "" {
		return nil, ErrIdentityRequired
	}
	reservations, err := s.repo.FindByUserID(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("lỗi khi lấy reservation của người dùng: %w", err)
	}
	return s.toDTOs(reservations), nil
}

func (s *ReservationService) ListAll(ctx context.Context, identity domain.Identity) ([]domain.ReservationDTO, error) {
	if !identity.IsOwner() {
		return nil, ErrForbidden
	}
	reservations, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("lỗi khi lấy danh sách reservation: %w", err)
	}
	return s.toDTOs(reservations), nil
}

func (s *ReservationService) toDTOs(reservations []domain.Reservation) []domain.ReservationDTO {
	now := s.now()
	out := make([]domain.ReservationDTO, 0, len(reservations))
	for _, r := range reservations {
		out = append(out, domain.NewReservationDTO(r, now))
	}
	return out
}

// afterWrite cập nhật feed và phát sự kiện; lỗi ở đây chỉ ghi log vì thao tác ghi đã thành công.
func (s *ReservationService) afterWrite(ctx context.Context, eventType string, r domain.Reservation, actor domain.Identity) {
	ctx = context.WithoutCancel(ctx)
	if s.feed != nil {
		if err := s.feed.Refresh(ctx); err != nil {
			log.Printf("ReservationService: Không thể cập nhật feed sau %s: %v", eventType, err)
		}
	}
	if s.publisher != nil {
		event := domain.ReservationEvent{
			Type:        eventType,
			Reservation: r,
			ActorID:     actor.UserID,
			OccurredAt:  s.now().UTC(),
		}
		if err := s.publisher.Publish(eventType, event); err != nil {
			log.Printf("ReservationService: Lỗi publish sự kiện %s cho reservation %s: %v", eventType, r.ID, err)
		}
	}
}
