package repository

import (
	"context"
	"errors"
	"parking_reservation/internal/domain"
	"time"
)

var ErrNotFound = errors.New("không tìm thấy bản ghi")
var ErrDuplicateEntry = errors.New("bản ghi đã tồn tại")

// ErrSlotConflict: slot đã được người khác đặt trong khoảng thời gian chồng lấn
var ErrSlotConflict = errors.New("slot đã được người khác đặt trong khoảng thời gian này")

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id int) (*domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
}

type ReservationRepository interface {
	// CreateIfNoConflict kiểm tra và tạo reservation trong cùng một transaction.
	// Trả về ErrSlotConflict nếu reservation của người dùng khác chồng lấn.
	CreateIfNoConflict(ctx context.Context, r *domain.Reservation) (*domain.Reservation, error)
	FindByID(ctx context.Context, id string) (*domain.Reservation, error)
	FindAll(ctx context.Context) ([]domain.Reservation, error)
	FindByUserID(ctx context.Context, userID string) ([]domain.Reservation, error)
	// FindActiveBySlot trả về các reservation của slot có start <= at < end.
	FindActiveBySlot(ctx context.Context, slotID string, at time.Time) ([]domain.Reservation, error)
	Delete(ctx context.Context, id string) error
}

type FeedbackRepository interface {
	Create(ctx context.Context, f *domain.Feedback) (*domain.Feedback, error)
	FindAll(ctx context.Context) ([]domain.Feedback, error)
}

type ViolationRepository interface {
	Create(ctx context.Context, v *domain.Violation) (*domain.Violation, error)
	FindAll(ctx context.Context) ([]domain.Violation, error)
}
