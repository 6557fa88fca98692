package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	JWTSecret          string        // Secret key cho JWT
	JWTExpirationHours time.Duration // Thời gian hết hạn của JWT
	// Username đăng ký với tên trong danh sách này sẽ có role "owner".
	// Mặc định rỗng: role owner chỉ được cấp khi cấu hình rõ ràng.
	OwnerUsernames []string

	// Múi giờ của bãi xe, dùng để hiểu ngày/giờ nhập từ form đặt chỗ
	Location          *time.Location
	SlotInventoryFile string

	AWSRegion            string
	SQSViolationQueueURL string

	RabbitMQURL string

	RedisAddr         string
	ReserveRateLimit  int
	ReserveRateWindow time.Duration
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		log.Printf("Cảnh báo: Không thể tải file .env: %v", err)
	}

	dbPort, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	jwtExpHours, _ := strconv.Atoi(getEnv("JWT_EXPIRATION_HOURS", "24"))
	rateLimit, _ := strconv.Atoi(getEnv("RESERVE_RATE_LIMIT", "30"))
	rateWindow, _ := strconv.Atoi(getEnv("RESERVE_RATE_WINDOW_SECONDS", "60"))

	tzName := getEnv("PARKING_TIMEZONE", "UTC")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		log.Printf("Cảnh báo: múi giờ '%s' không hợp lệ (%v), dùng UTC", tzName, err)
		loc = time.UTC
	}

	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     dbPort,
		DBUser:     getEnv("DB_USER", "parking"),
		DBPassword: getEnv("DB_PASSWORD", "parking"),
		DBName:     getEnv("DB_NAME", "parking_reservation"),
		DBSslMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:          getEnv("JWT_SECRET", "change-me-in-production"),
		JWTExpirationHours: time.Duration(jwtExpHours) * time.Hour,
		OwnerUsernames:     splitList(getEnv("OWNER_USERNAMES", "")),

		Location:          loc,
		SlotInventoryFile: getEnv("SLOT_INVENTORY_FILE", "config/slots.yaml"),

		AWSRegion:            getEnv("AWS_REGION", "ap-southeast-1"),
		SQSViolationQueueURL: getEnv("SQS_VIOLATION_QUEUE_URL", ""),

		RabbitMQURL: getEnv("RABBITMQ_URL", ""),

		RedisAddr:         getEnv("REDIS_ADDR", ""),
		ReserveRateLimit:  rateLimit,
		ReserveRateWindow: time.Duration(rateWindow) * time.Second,
	}
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Biến môi trường '%s' không được đặt, sử dụng giá trị mặc định: '%s'", key, fallback)
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
