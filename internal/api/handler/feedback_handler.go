package handler

import (
	"net/http"
	"parking_reservation/internal/api/middleware"
	"parking_reservation/internal/domain"
	"parking_reservation/internal/service"

	"github.com/gin-gonic/gin"
)

type FeedbackHandler struct {
	feedbackService *service.FeedbackService
}

func NewFeedbackHandler(fs *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: fs}
}

// POST /api/v1/feedback
func (h *FeedbackHandler) SubmitFeedback(c *gin.Context) {
	var dto domain.CreateFeedbackDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	feedback, err := h.feedbackService.Submit(c.Request.Context(), middleware.IdentityFromContext(c), dto)
	if err != nil {
		respondError(c, err, "Không thể gửi phản hồi")
		return
	}
	c.JSON(http.StatusCreated, feedback)
}

// GET /api/v1/feedback (owner)
func (h *FeedbackHandler) ListFeedback(c *gin.Context) {
	feedback, err := h.feedbackService.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Lỗi khi lấy danh sách phản hồi")
		return
	}
	c.JSON(http.StatusOK, feedback)
}
