package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"parking_reservation/internal/domain"
	"parking_reservation/internal/repository"
	"time"

	"github.com/lib/pq"
)

type pgViolationRepository struct {
	db *sql.DB
}

func NewPgViolationRepository(db *sql.DB) repository.ViolationRepository {
	return &pgViolationRepository{db: db}
}

func (r *pgViolationRepository) Create(ctx context.Context, v *domain.Violation) (*domain.Violation, error) {
	query := `INSERT INTO violations 
	           (id, slot_id, reporter_id, description, detected_plate, plate_confidence, detected_vehicle_type, 
	            labels, kind, reservation_id, reported_at, created_at) 
	           VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, CURRENT_TIMESTAMP) 
	           RETURNING created_at`
	labels := v.Labels
	if labels == nil {
		labels = []string{}
	}
	err := r.db.QueryRowContext(ctx, query,
		v.ID, v.SlotID, v.ReporterID, sql.NullString{String: v.Description, Valid: v.Description != ""},
		v.DetectedPlate, v.PlateConfidence, v.DetectedVehicleType,
		pq.Array(labels), v.Kind, v.ReservationID, v.ReportedAt,
	).Scan(&v.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("ViolationRepository.Create: %w", err)
	}
	v.CreatedAt = v.CreatedAt.In(time.UTC)
	return v, nil
}

func (r *pgViolationRepository) FindAll(ctx context.Context) ([]domain.Violation, error) {
	query := `SELECT id, slot_id, reporter_id, description, detected_plate, plate_confidence, detected_vehicle_type, 
	                 labels, kind, reservation_id, reported_at, created_at 
	           FROM violations ORDER BY reported_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ViolationRepository.FindAll: %w", err)
	}
	defer rows.Close()

	items := []domain.Violation{}
	for rows.Next() {
		var v domain.Violation
		var description sql.NullString
		if err := rows.Scan(&v.ID, &v.SlotID, &v.ReporterID, &description, &v.DetectedPlate, &v.PlateConfidence,
			&v.DetectedVehicleType, pq.Array(&v.Labels), &v.Kind, &v.ReservationID, &v.ReportedAt, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("ViolationRepository.FindAll (scanning row): %w", err)
		}
		if description.Valid {
			v.Description = description.String
		}
		v.ReportedAt = v.ReportedAt.In(time.UTC)
		v.CreatedAt = v.CreatedAt.In(time.UTC)
		items = append(items, v)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("ViolationRepository.FindAll (rows error): %w", err)
	}
	return items, nil
}
