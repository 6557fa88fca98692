package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"parking_reservation/internal/domain"
	"parking_reservation/internal/repository"
	"time"
)

const reservationColumns = `id, user_id, slot_id, vehicle_plate, start_time, end_time, created_at, updated_at`

type pgReservationRepository struct {
	db *sql.DB
}

func NewPgReservationRepository(db *sql.DB) repository.ReservationRepository {
	return &pgReservationRepository{db: db}
}

func (r *pgReservationRepository) CreateIfNoConflict(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("ReservationRepository.CreateIfNoConflict (begin): %w", err)
	}
	defer tx.Rollback()

	// Khóa theo slot để các yêu cầu đặt cùng slot chạy tuần tự
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, res.SlotID); err != nil {
		return nil, fmt.Errorf("ReservationRepository.CreateIfNoConflict (lock slot): %w", err)
	}

	var conflictID string
	err = tx.QueryRowContext(ctx, `SELECT id FROM reservations 
	           WHERE slot_id = $1 AND user_id <> $2 AND start_time < $4 AND end_time > $3 
	           ORDER BY start_time LIMIT 1`,
		res.SlotID, res.UserID, res.StartTime, res.EndTime,
	).Scan(&conflictID)
	if err == nil {
		return nil, fmt.Errorf("%w: slot '%s' (reservation %s)", repository.ErrSlotConflict, res.SlotID, conflictID)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("ReservationRepository.CreateIfNoConflict (check overlap): %w", err)
	}

	query := `INSERT INTO reservations (id, user_id, slot_id, vehicle_plate, start_time, end_time, created_at, updated_at) 
	           VALUES ($1, $2, $3, $4, $5, $6, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP) 
	           RETURNING created_at, updated_at`
	err = tx.QueryRowContext(ctx, query,
		res.ID, res.UserID, res.SlotID, res.VehiclePlate, res.StartTime, res.EndTime,
	).Scan(&res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		if isExclusionViolation(err, "reservations_no_double_booking") {
			return nil, fmt.Errorf("%w: slot '%s'", repository.ErrSlotConflict, res.SlotID)
		}
		if isUniqueViolation(err, "reservations_pkey") {
			return nil, fmt.Errorf("%w: reservation '%s'", repository.ErrDuplicateEntry, res.ID)
		}
		return nil, fmt.Errorf("ReservationRepository.CreateIfNoConflict: %w", err)
	}

	if err := tx.Commit(); err != nil {
		if isExclusionViolation(err, "") {
			return nil, fmt.Errorf("%w: slot '%s'", repository.ErrSlotConflict, res.SlotID)
		}
		return nil, fmt.Errorf("ReservationRepository.CreateIfNoConflict (commit): %w", err)
	}
	normalizeReservation(res)
	return res, nil
}

func (r *pgReservationRepository) FindByID(ctx context.Context, id string) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	res, err := scanReservation(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("ReservationRepository.FindByID: %w", err)
	}
	return res, nil
}

func (r *pgReservationRepository) FindAll(ctx context.Context) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations ORDER BY start_time, id`
	return r.list(ctx, "FindAll", query)
}

func (r *pgReservationRepository) FindByUserID(ctx context.Context, userID string) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE user_id = $1 ORDER BY start_time, id`
	return r.list(ctx, "FindByUserID", query, userID)
}

func (r *pgReservationRepository) FindActiveBySlot(ctx context.Context, slotID string, at time.Time) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations 
	           WHERE slot_id = $1 AND start_time <= $2 AND end_time > $2 
	           ORDER BY start_time, id`
	return r.list(ctx, "FindActiveBySlot", query, slotID, at)
}

func (r *pgReservationRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ReservationRepository.Delete: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ReservationRepository.Delete (checking rows affected): %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *pgReservationRepository) list(ctx context.Context, op, query string, args ...any) ([]domain.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ReservationRepository.%s: %w", op, err)
	}
	defer rows.Close()

	reservations := []domain.Reservation{}
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("ReservationRepository.%s (scanning row): %w", op, err)
		}
		reservations = append(reservations, *res)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("ReservationRepository.%s (rows error): %w", op, err)
	}
	return reservations, nil
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	res := &domain.Reservation{}
	if err := row.Scan(&res.ID, &res.UserID, &res.SlotID, &res.VehiclePlate,
		&res.StartTime, &res.EndTime, &res.CreatedAt, &res.UpdatedAt); err != nil {
		return nil, err
	}
	normalizeReservation(res)
	return res, nil
}

func normalizeReservation(res *domain.Reservation) {
	res.StartTime = res.StartTime.In(time.UTC)
	res.EndTime = res.EndTime.In(time.UTC)
	res.CreatedAt = res.CreatedAt.In(time.UTC)
	res.UpdatedAt = res.UpdatedAt.In(time.UTC)
}
