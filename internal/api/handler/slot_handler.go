package handler

import (
	"net/http"
	"parking_reservation/internal/api/middleware"
	"parking_reservation/internal/domain"
	"parking_reservation/internal/service"

	"github.com/gin-gonic/gin"
)

type SlotHandler struct {
	reservationService *service.ReservationService
}

func NewSlotHandler(rs *service.ReservationService) *SlotHandler {
	return &SlotHandler{reservationService: rs}
}

// GET /api/v1/slots?date=&start_time=&duration_hours=
// Không có thời gian đặt chỗ thì mọi slot đều available và booking_time_required = true.
func (h *SlotHandler) GetSlotMap(c *gin.Context) {
	var bt domain.BookingTimeDTO
	if err := c.ShouldBindQuery(&bt); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tham số truy vấn không hợp lệ: " + err.Error()})
		return
	}
	desired, err := bt.DesiredInterval(h.reservationService.Location())
	if err != nil {
		respondError(c, err, "Lỗi khi tính trạng thái slot")
		return
	}

	views, err := h.reservationService.SlotMap(c.Request.Context(), middleware.IdentityFromContext(c), desired)
	if err != nil {
		respondError(c, err, "Lỗi khi tính trạng thái slot")
		return
	}
	c.JSON(http.StatusOK, domain.SlotMapResponseDTO{
		Interval:            desired,
		BookingTimeRequired: desired == nil,
		Slots:               views,
	})
}
