package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"parking_reservation/internal/domain"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

// RekognitionAPI là phần của *rekognition.Client mà LPRService dùng.
type RekognitionAPI interface {
	DetectText(ctx context.Context, params *rekognition.DetectTextInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectTextOutput, error)
	DetectLabels(ctx context.Context, params *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error)
}

// ImageAnalyzer trích xuất thông tin phương tiện từ ảnh.
type ImageAnalyzer interface {
	AnalyzeVehicle(ctx context.Context, imageBytes []byte) (*domain.VehicleInfo, error)
}

const minLabelConfidence float32 = 60

var ErrNoPlateDetected = errors.New("không nhận dạng được biển số từ ảnh")

// Biển số Ấn Độ (KA01AB1234) và Việt Nam (51G12345); ảnh đã bỏ khoảng trắng, dấu chấm, gạch ngang
var platePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^[A-Z]{2}[0-9]{1,2}[A-Z]{0,3}[0-9]{4}$`),
	regexp.MustCompile(`^[0-9]{2}[A-Z]{1,2}[0-9]{3,6}$`),
}

var vehicleLabels = map[string]domain.VehicleType{
	"car":          domain.VehicleCar,
	"sedan":        domain.VehicleCar,
	"suv":          domain.VehicleCar,
	"van":          domain.VehicleCar,
	"pickup truck": domain.VehicleCar,
	"jeep":         domain.VehicleCar,
	"motorcycle":   domain.VehicleBike,
	"motorbike":    domain.VehicleBike,
	"scooter":      domain.VehicleBike,
	"moped":        domain.VehicleBike,
	"bicycle":      domain.VehicleBike,
	"bike":         domain.VehicleBike,
}

type LPRService struct {
	rekognitionClient RekognitionAPI
}

func NewLPRService(rekClient RekognitionAPI) *LPRService {
	return &LPRService{rekognitionClient: rekClient}
}

// NormalizePlate viết hoa và bỏ khoảng trắng, dấu chấm, gạch ngang.
func NormalizePlate(plate string) string {
	r := strings.NewReplacer(" ", "", ".", "", "-", "")
	return strings.ToUpper(r.Replace(strings.TrimSpace(plate)))
}

func isPlate(text string) bool {
	for _, p := range platePatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// ProcessImageForLPR nhận ảnh dưới dạng bytes, gọi Rekognition và cố gắng trích xuất biển số
func (s *LPRService) ProcessImageForLPR(ctx context.Context, imageBytes []byte) (string, float32, error) {
	if s.rekognitionClient == nil {
		return "", 0, fmt.Errorf("Rekognition client chưa được khởi tạo")
	}

	result, err := s.rekognitionClient.DetectText(ctx, &rekognition.DetectTextInput{
		Image: &types.Image{Bytes: imageBytes},
	})
	if err != nil {
		log.Printf("LPRService: Lỗi khi gọi Rekognition DetectText: %v", err)
		return "", 0, fmt.Errorf("lỗi Rekognition: %w", err)
	}

	var detectedTexts []string
	var bestPlate string
	var maxConfidence float32
	for _, td := range result.TextDetections {
		if td.Type != types.TextTypesLine && td.Type != types.TextTypesWord {
			continue
		}
		if td.DetectedText == nil || td.Confidence == nil {
			continue
		}
		txt := NormalizePlate(*td.DetectedText)
		detectedTexts = append(detectedTexts, fmt.Sprintf("%s (%.2f)", txt, *td.Confidence))
		if isPlate(txt) && *td.Confidence > maxConfidence {
			maxConfidence = *td.Confidence
			bestPlate = txt
		}
	}

	if bestPlate != "" {
		log.Printf("LPRService: Biển số được chọn: '%s' với độ tin cậy: %.2f", bestPlate, maxConfidence)
		return bestPlate, maxConfidence, nil
	}
	log.Printf("LPRService: Không có văn bản nào khớp biển số. Văn bản: %s", strings.Join(detectedTexts, ", "))
	return "", 0, fmt.Errorf("%w (Văn bản: %s)", ErrNoPlateDetected, strings.Join(detectedTexts, ", "))
}

// DetectVehicleType dùng DetectLabels để đoán loại xe trong ảnh. Trả về "" nếu không chắc chắn.
func (s *LPRService) DetectVehicleType(ctx context.Context, imageBytes []byte) (domain.VehicleType, []string, error) {
	if s.rekognitionClient == nil {
		return "", nil, fmt.Errorf("Rekognition client chưa được khởi tạo")
	}

	result, err := s.rekognitionClient.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: imageBytes},
		MaxLabels:     aws.Int32(25),
		MinConfidence: aws.Float32(minLabelConfidence),
	})
	if err != nil {
		log.Printf("LPRService: Lỗi khi gọi Rekognition DetectLabels: %v", err)
		return "", nil, fmt.Errorf("lỗi Rekognition: %w", err)
	}

	var labels []string
	var best domain.VehicleType
	var bestConfidence float32
	for _, l := range result.Labels {
		if l.Name == nil || l.Confidence == nil {
			continue
		}
		labels = append(labels, *l.Name)
		vt, ok := vehicleLabels[strings.ToLower(*l.Name)]
		if ok && *l.Confidence >= minLabelConfidence && *l.Confidence > bestConfidence {
			best, bestConfidence = vt, *l.Confidence
		}
	}
	return best, labels, nil
}

// AnalyzeVehicle kết hợp nhận dạng biển số và loại xe. Không có biển số không phải lỗi.
func (s *LPRService) AnalyzeVehicle(ctx context.Context, imageBytes []byte) (*domain.VehicleInfo, error) {
	vehicleType, labels, err := s.DetectVehicleType(ctx, imageBytes)
	if err != nil {
		return nil, err
	}
	plate, confidence, err := s.ProcessImageForLPR(ctx, imageBytes)
	if err != nil && !errors.Is(err, ErrNoPlateDetected) {
		return nil, err
	}
	return &domain.VehicleInfo{
		Plate:           plate,
		PlateConfidence: confidence,
		VehicleType:     vehicleType,
		Labels:          labels,
	}, nil
}
