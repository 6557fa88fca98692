package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"parking_reservation/internal/api"
	"parking_reservation/internal/api/handler"
	"parking_reservation/internal/api/middleware"
	"parking_reservation/internal/config"
	"parking_reservation/internal/events"
	"parking_reservation/internal/queue"
	"parking_reservation/internal/repository/postgresql"
	"parking_reservation/internal/service"
	"sync"
	"syscall"
	"time"

	awsgo_config "github.com/aws/aws-sdk-go-v2/config" // Alias để tránh trùng tên
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/redis/go-redis/v9"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	log.Println("Cấu hình đã được tải.")

	inventory, err := config.LoadSlotInventory(cfg.SlotInventoryFile)
	if err != nil {
		log.Fatalf("Không thể tải danh sách slot: %v", err)
	}
	log.Printf("Đã tải %d slot từ inventory.", len(inventory))

	// 2. Setup Database Connection
	db, err := postgresql.NewDB(cfg)
	if err != nil {
		log.Fatalf("Không thể kết nối database: %v", err)
	}
	defer db.Close()
	log.Println("Đã kết nối database thành công!")

	// 3. Initialize Repositories
	userRepo := postgresql.NewPgUserRepository(db)
	reservationRepo := postgresql.NewPgReservationRepository(db)
	feedbackRepo := postgresql.NewPgFeedbackRepository(db)
	violationRepo := postgresql.NewPgViolationRepository(db)

	// 4. WebSocket manager nhận cả bản đồ slot lẫn thông báo lỗi ghi
	webSocketManager := handler.NewWebSocketManager()
	errorReporter := service.NewErrorReporter(webSocketManager)
	feed := service.NewReservationFeed(reservationRepo.FindAll)

	// 5. Event publisher (tùy chọn)
	var publisher service.EventPublisher
	if cfg.RabbitMQURL == "" {
		log.Println("CẢNH BÁO: RABBITMQ_URL chưa được cấu hình. Sự kiện reservation sẽ không được publish.")
	} else {
		rabbit, err := events.NewPublisher(cfg.RabbitMQURL)
		if err != nil {
			log.Printf("CẢNH BÁO: Không thể kết nối RabbitMQ: %v", err)
		} else {
			defer rabbit.Close()
			publisher = rabbit
			log.Println("Đã kết nối RabbitMQ, exchange:", events.ExchangeName)
		}
	}

	// 6. Initialize Services
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpirationHours, cfg.OwnerUsernames)
	reservationService := service.NewReservationService(reservationRepo, inventory, feed, errorReporter, publisher, cfg.Location)
	feedbackService := service.NewFeedbackService(feedbackRepo)

	// 7. AWS: Rekognition cho LPR/vi phạm, SQS cho báo cáo từ camera
	var lprService *service.LPRService
	var violationService *service.ViolationService
	var sqsClient *sqs.Client
	awsSDKCfg, err := awsgo_config.LoadDefaultConfig(context.TODO(), awsgo_config.WithRegion(cfg.AWSRegion))
	if err != nil {
		log.Printf("CẢNH BÁO: Không thể tải AWS SDK config: %v. LPR và báo cáo vi phạm bị tắt.", err)
	} else {
		log.Println("Đã tải AWS SDK config thành công cho region:", cfg.AWSRegion)
		lprService = service.NewLPRService(rekognition.NewFromConfig(awsSDKCfg))
		violationService = service.NewViolationService(lprService, reservationRepo, violationRepo, inventory)
		sqsClient = sqs.NewFromConfig(awsSDKCfg)
	}

	// 8. Rate limit cho thao tác đặt/hủy chỗ
	var reserveLimiter *middleware.RateLimiter
	if cfg.RedisAddr == "" {
		log.Println("CẢNH BÁO: REDIS_ADDR chưa được cấu hình. Không giới hạn tần suất đặt chỗ.")
	} else {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Printf("CẢNH BÁO: Không thể ping Redis %s: %v", cfg.RedisAddr, err)
		}
		cancelPing()
		reserveLimiter = middleware.NewRedisRateLimiter(rdb, cfg.ReserveRateLimit, cfg.ReserveRateWindow, "reserve")
	}

	authMiddleware := middleware.NewAuthMiddleware(authService)

	// 9. Khởi tạo và Chạy SQS Consumer
	var wg sync.WaitGroup
	consumerCtx, cancelConsumer := context.WithCancel(context.Background())

	if cfg.SQSViolationQueueURL == "" || violationService == nil {
		log.Println("CẢNH BÁO: SQS_VIOLATION_QUEUE_URL chưa được cấu hình. SQS Consumer sẽ không chạy.")
	} else {
		sqsConsumer := queue.NewSQSConsumer(sqsClient, cfg.SQSViolationQueueURL, violationService)
		wg.Add(1)
		go func() {
			defer wg.Done()
			sqsConsumer.Start(consumerCtx)
			log.Println("SQS Consumer đã dừng.")
		}()
	}

	// 10. Setup HTTP Router
	router := api.SetupRouter(api.Services{
		Auth:         authService,
		Reservations: reservationService,
		Feedback:     feedbackService,
		Violations:   violationService,
		LPR:          lprService,
	}, authMiddleware, authService, reserveLimiter, webSocketManager)

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server đang chạy trên port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Lỗi ListenAndServe(): %v", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Đang tắt server...")

	cancelConsumer()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	// Shutdown không đóng các kết nối đã hijack
	webSocketManager.CloseAll()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server buộc phải tắt: %v", err)
	}

	log.Println("Đang chờ SQS consumer dừng (tối đa 5 giây)...")
	c := make(chan struct{})
	go func() {
		defer close(c)
		wg.Wait()
	}()
	select {
	case <-c:
	case <-time.After(5 * time.Second):
		log.Println("SQS consumer không dừng trong thời gian chờ.")
	}

	log.Println("Server đã tắt.")
}
