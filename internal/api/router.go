package api

import (
	"parking_reservation/internal/api/handler"
	"parking_reservation/internal/api/middleware"
	"parking_reservation/internal/domain"
	"parking_reservation/internal/service"

	"github.com/gin-gonic/gin"
)

type Services struct {
	Auth         *service.AuthService
	Reservations *service.ReservationService
	Feedback     *service.FeedbackService
	Violations   *service.ViolationService
	LPR          *service.LPRService // nil nếu chưa cấu hình AWS
}

// SetupRouter dựng toàn bộ HTTP API. reserveLimiter có thể nil (không giới hạn).
func SetupRouter(svc Services, authMw *middleware.AuthMiddleware, verifier middleware.TokenVerifier,
	reserveLimiter *middleware.RateLimiter, wsManager *handler.WebSocketManager) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// WebSocket xác thực bằng query param token
	wsHandler := handler.NewWebSocketHandler(wsManager, verifier, svc.Reservations)
	r.GET("/ws", wsHandler.HandleWebSocket)

	authHandler := handler.NewAuthHandler(svc.Auth)
	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
	}

	writeLimit := func(c *gin.Context) { c.Next() }
	if reserveLimiter != nil {
		writeLimit = reserveLimiter.Limit()
	}
	ownerOnly := authMw.AuthorizeRole(domain.RoleOwner)

	v1 := r.Group("/api/v1")
	v1.Use(authMw.Authenticate())
	{
		slotH := handler.NewSlotHandler(svc.Reservations)
		v1.GET("/slots", slotH.GetSlotMap)

		reservationH := handler.NewReservationHandler(svc.Reservations)
		reservationRoutes := v1.Group("/reservations")
		{
			reservationRoutes.POST("", writeLimit, reservationH.CreateReservation)
			reservationRoutes.GET("/me", reservationH.ListMyReservations)
			reservationRoutes.GET("", ownerOnly, reservationH.ListAllReservations)
			reservationRoutes.DELETE("/:id", writeLimit, reservationH.CancelReservation)
		}

		v1.GET("/me", authHandler.Me)
		v1.GET("/users", ownerOnly, authHandler.ListUsers)

		feedbackH := handler.NewFeedbackHandler(svc.Feedback)
		v1.POST("/feedback", feedbackH.SubmitFeedback)
		v1.GET("/feedback", ownerOnly, feedbackH.ListFeedback)

		if svc.LPR != nil {
			lprH := handler.NewLPRHandler(svc.LPR)
			v1.POST("/lpr/process-image", lprH.ProcessImage)
		}

		if svc.Violations != nil {
			violationH := handler.NewViolationHandler(svc.Violations)
			v1.POST("/violations", violationH.ReportViolation)
			v1.GET("/violations", ownerOnly, violationH.ListViolations)
		}
	}
	return r
}
