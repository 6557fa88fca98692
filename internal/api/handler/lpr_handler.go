package handler

import (
	"encoding/base64"
	"log"
	"net/http"
	"parking_reservation/internal/domain"
	"parking_reservation/internal/service"

	"github.com/gin-gonic/gin"
)

type LPRHandler struct {
	lprService *service.LPRService
}

func NewLPRHandler(lprService *service.LPRService) *LPRHandler {
	return &LPRHandler{lprService: lprService}
}

// POST /api/v1/lpr/process-image
func (h *LPRHandler) ProcessImage(c *gin.Context) {
	var req domain.LPRRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payload không hợp lệ: " + err.Error()})
		return
	}

	imageBytes, err := base64.StdEncoding.DecodeString(req.ImageBase64)
	if err != nil {
		log.Printf("LPRHandler: Lỗi giải mã ảnh base64: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dữ liệu ảnh không hợp lệ"})
		return
	}
	if len(imageBytes) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dữ liệu ảnh rỗng"})
		return
	}
	log.Printf("LPRHandler: Đã nhận %d bytes ảnh để xử lý LPR.", len(imageBytes))

	info, err := h.lprService.AnalyzeVehicle(c.Request.Context(), imageBytes)
	if err != nil {
		log.Printf("LPRHandler: Lỗi từ LPRService: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi xử lý ảnh LPR", "details": err.Error()})
		return
	}

	resp := domain.LPRResponseDTO{
		DetectedPlate: info.Plate,
		Confidence:    info.PlateConfidence,
		VehicleType:   info.VehicleType,
	}
	if info.Plate == "" {
		resp.ErrorMessage = "Không nhận dạng được biển số."
	}
	c.JSON(http.StatusOK, resp)
}
