package handler

import (
	"net/http"
	"parking_reservation/internal/api/middleware"
	"parking_reservation/internal/domain"
	"parking_reservation/internal/service"

	"github.com/gin-gonic/gin"
)

type ReservationHandler struct {
	reservationService *service.ReservationService
}

func NewReservationHandler(rs *service.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservationService: rs}
}

// POST /api/v1/reservations
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	var dto domain.CreateReservationDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dữ liệu không hợp lệ: " + err.Error()})
		return
	}

	reservation, err := h.reservationService.CreateReservation(c.Request.Context(), middleware.IdentityFromContext(c), dto)
	if err != nil {
		respondError(c, err, "Không thể tạo reservation")
		return
	}
	c.JSON(http.StatusCreated, reservation)
}

// DELETE /api/v1/reservations/:id
func (h *ReservationHandler) CancelReservation(c *gin.Context) {
	id := c.Param("id")
	if err := h.reservationService.CancelReservation(c.Request.Context(), middleware.IdentityFromContext(c), id); err != nil {
		respondError(c, err, "Không thể hủy reservation")
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/v1/reservations/me
func (h *ReservationHandler) ListMyReservations(c *gin.Context) {
	reservations, err := h.reservationService.ListForUser(c.Request.Context(), middleware.IdentityFromContext(c))
	if err != nil {
		respondError(c, err, "Lỗi khi lấy danh sách reservation")
		return
	}
	c.JSON(http.StatusOK, reservations)
}

// GET /api/v1/reservations (owner)
func (h *ReservationHandler) ListAllReservations(c *gin.Context) {
	reservations, err := h.reservationService.ListAll(c.Request.Context(), middleware.IdentityFromContext(c))
	if err != nil {
		respondError(c, err, "Lỗi khi lấy danh sách reservation")
		return
	}
	c.JSON(http.StatusOK, reservations)
}
