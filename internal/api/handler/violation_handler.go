package handler

import (
	"net/http"
	"parking_reservation/internal/api/middleware"
	"parking_reservation/internal/domain"
	"parking_reservation/internal/service"

	"github.com/gin-gonic/gin"
)

type ViolationHandler struct {
	violationService *service.ViolationService
}

func NewViolationHandler(vs *service.ViolationService) *ViolationHandler {
	return &ViolationHandler{violationService: vs}
}

// POST /api/v1/violations
func (h *ViolationHandler) ReportViolation(c *gin.Context) {
	var dto domain.ViolationReportDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payload không hợp lệ: " + err.Error()})
		return
	}
	// Người báo cáo luôn lấy từ token
	reporterID := middleware.IdentityFromContext(c).UserID
	violation, err := h.violationService.Report(c.Request.Context(), reporterID, dto)
	if err != nil {
		respondError(c, err, "Lỗi xử lý báo cáo vi phạm")
		return
	}
	c.JSON(http.StatusCreated, violation)
}

// GET /api/v1/violations (owner)
func (h *ViolationHandler) ListViolations(c *gin.Context) {
	violations, err := h.violationService.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Lỗi khi lấy danh sách vi phạm")
		return
	}
	c.JSON(http.StatusOK, violations)
}
