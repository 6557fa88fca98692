package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"parking_reservation/internal/domain"
	"parking_reservation/internal/repository"
	"time"
)

type pgFeedbackRepository struct {
	db *sql.DB
}

func NewPgFeedbackRepository(db *sql.DB) repository.FeedbackRepository {
	return &pgFeedbackRepository{db: db}
}

func (r *pgFeedbackRepository) Create(ctx context.Context, f *domain.Feedback) (*domain.Feedback, error) {
	query := `INSERT INTO feedback (id, user_id, message, rating, created_at) 
	           VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP) 
	           RETURNING created_at`
	if err := r.db.QueryRowContext(ctx, query, f.ID, f.UserID, f.Message, f.Rating).Scan(&f.CreatedAt); err != nil {
		return nil, fmt.Errorf("FeedbackRepository.Create: %w", err)
	}
	f.CreatedAt = f.CreatedAt.In(time.UTC)
	return f, nil
}

func (r *pgFeedbackRepository) FindAll(ctx context.Context) ([]domain.Feedback, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, user_id, message, rating, created_at FROM feedback ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("FeedbackRepository.FindAll: %w", err)
	}
	defer rows.Close()

	items := []domain.Feedback{}
	for rows.Next() {
		var f domain.Feedback
		if err := rows.Scan(&f.ID, &f.UserID, &f.Message, &f.Rating, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("FeedbackRepository.FindAll (scanning row): %w", err)
		}
		f.CreatedAt = f.CreatedAt.In(time.UTC)
		items = append(items, f)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("FeedbackRepository.FindAll (rows error): %w", err)
	}
	return items, nil
}
