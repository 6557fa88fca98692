package domain

// LPRRequestDTO dùng khi frontend gửi ảnh lên
type LPRRequestDTO struct {
	ImageBase64 string `json:"image_base64" binding:"required"`
}

// LPRResponseDTO trả về biển số và loại xe đã nhận dạng
type LPRResponseDTO struct {
	DetectedPlate string      `json:"detected_plate"`
	Confidence    float32     `json:"confidence,omitempty"`
	VehicleType   VehicleType `json:"vehicle_type,omitempty"`
	ErrorMessage  string      `json:"error_message,omitempty"`
}

// VehicleInfo là kết quả phân tích ảnh của một phương tiện.
type VehicleInfo struct {
	Plate           string
	PlateConfidence float32
	VehicleType     VehicleType // rỗng nếu không xác định được
	Labels          []string
}
