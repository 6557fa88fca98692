package handler

import (
	"errors"
	"log"
	"net/http"
	"parking_reservation/internal/domain"
	"parking_reservation/internal/repository"
	"parking_reservation/internal/service"

	"github.com/gin-gonic/gin"
)

// respondError ánh xạ lỗi từ service sang HTTP status.
func respondError(c *gin.Context, err error, fallback string) {
	var invalidInterval *domain.InvalidIntervalError
	switch {
	case errors.Is(err, domain.ErrBookingTimeRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrBookingTimeRequired.Error(), "details": err.Error()})
	case errors.Is(err, domain.ErrInvalidBookingTime),
		errors.As(err, &invalidInterval),
		errors.Is(err, service.ErrUnknownSlot),
		errors.Is(err, service.ErrVehiclePlateRequired),
		errors.Is(err, service.ErrInvalidImage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrIdentityRequired),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrTokenInvalid):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrSlotConflict),
		errors.Is(err, service.ErrUserAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Printf("Handler: %s: %v", fallback, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback, "details": err.Error()})
	}
}
