package service

import (
	"context"
	"parking_reservation/internal/domain"
	"parking_reservation/internal/repository"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/guregu/null.v4"
)

type FeedbackService struct {
	repo repository.FeedbackRepository
}

func NewFeedbackService(repo repository.FeedbackRepository) *FeedbackService {
	return &FeedbackService{repo: repo}
}

func (s *FeedbackService) Submit(ctx context.Context, identity domain.Identity, dto domain.CreateFeedbackDTO) (*domain.Feedback, error) {
	if identity.UserID == "" {
		return nil, ErrIdentityRequired
	}
	f := &domain.Feedback{
		ID:      uuid.NewString(),
		UserID:  identity.UserID,
		Message: strings.TrimSpace(dto.Message),
	}
	if dto.Rating != nil {
		f.Rating = null.IntFrom(int64(*dto.Rating))
	}
	return s.repo.Create(ctx, f)
}

func (s *FeedbackService) List(ctx context.Context) ([]domain.Feedback, error) {
	return s.repo.FindAll(ctx)
}
