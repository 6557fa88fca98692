package domain

import (
	"time"

	"gopkg.in/guregu/null.v4"
)

type Feedback struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Message   string    `json:"message"`
	Rating    null.Int  `json:"rating"` // 1-5, tùy chọn
	CreatedAt time.Time `json:"created_at"`
}

type CreateFeedbackDTO struct {
	Message string `json:"message" binding:"required,max=2000"`
	Rating  *int   `json:"rating" binding:"omitempty,min=1,max=5"`
}
