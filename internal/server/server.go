package server

import (
	"context"
	"net/http"

	"roomnmeal/internal/auth"
	"roomnmeal/internal/booking"
	"roomnmeal/internal/config"
	"roomnmeal/internal/listing"
	"roomnmeal/internal/notify"
	"roomnmeal/internal/payment"
	"roomnmeal/internal/payout"
	"roomnmeal/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config
	notify *notify.Service
}

func New(db *sqlx.DB, cfg *config.Config, notifyService *notify.Service) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(50, 100))

	userRepo := user.NewRepository(db)
	listingRepo := listing.NewRepository(db)
	bookingRepo := booking.NewRepository(db)
	paymentRepo := payment.NewRepository(db)
	payoutRepo := payout.NewRepository(db)
	notifyRepo := notify.NewRepository(db)

	gateway := payment.NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.GatewayTimeout)

	bookingService := booking.NewService(bookingRepo, listingRepo, notifyService)
	paymentService := payment.NewService(paymentRepo, bookingRepo, gateway, cfg.RazorpayKeySecret, cfg.RazorpayWebhookSecret)
	payoutService := payout.NewService(payoutRepo, userRepo, notifyService)

	userHandler := user.NewHandler(db, cfg.JWTSecret)
	listingHandler := listing.NewHandler(db)
	bookingHandler := booking.NewHandler(bookingService)
	paymentHandler := payment.NewHandler(paymentService)
	payoutHandler := payout.NewHandler(payoutService)
	notifyHandler := notify.NewHandler(notifyRepo)

	public := router.Group("/auth")
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.RefreshToken)
	}

	// Browsing approved listings requires no account.
	router.GET("/rooms", listingHandler.ListRooms)
	router.GET("/rooms/:roomID", listingHandler.GetRoom)
	router.GET("/mess-plans", listingHandler.ListMessPlans)
	router.GET("/mess-plans/:planID", listingHandler.GetMessPlan)

	// The gateway authenticates itself with the body signature, not a
	// bearer token.
	router.POST("/webhooks/payment", paymentHandler.Webhook)

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)
		protected.PUT("/me/bank-details", userHandler.UpdateBankDetails)

		protected.POST("/bookings", bookingHandler.CreateBooking)
		protected.GET("/bookings", bookingHandler.ListMyBookings)
		protected.GET("/bookings/:bookingID", bookingHandler.GetBooking)
		protected.POST("/bookings/:bookingID/cancel", bookingHandler.CancelBooking)

		protected.POST("/payments/order", paymentHandler.CreateOrder)
		protected.POST("/payments/verify", paymentHandler.Verify)
		protected.GET("/payments", paymentHandler.ListMyPayments)
		protected.GET("/payments/:paymentID", paymentHandler.GetPayment)

		protected.GET("/notifications", notifyHandler.ListMyNotifications)
		protected.GET("/notifications/unread-count", notifyHandler.UnreadCount)
		protected.POST("/notifications/:notificationID/read", notifyHandler.MarkRead)
	}

	ownerMiddleware := auth.RequireRole(auth.RoleOwner, auth.RoleAdmin)
	owner := router.Group("/")
	owner.Use(authMiddleware, ownerMiddleware)
	{
		owner.POST("/rooms", listingHandler.CreateRoom)
		owner.GET("/rooms/mine", listingHandler.ListMyRooms)
		owner.PUT("/rooms/:roomID", listingHandler.UpdateRoom)
		owner.DELETE("/rooms/:roomID", listingHandler.DeleteRoom)

		owner.POST("/mess-plans", listingHandler.CreateMessPlan)
		owner.GET("/mess-plans/mine", listingHandler.ListMyMessPlans)
		owner.PUT("/mess-plans/:planID", listingHandler.UpdateMessPlan)
		owner.DELETE("/mess-plans/:planID", listingHandler.DeleteMessPlan)

		owner.GET("/bookings/owner", bookingHandler.ListOwnerBookings)
		owner.PATCH("/bookings/:bookingID/status", bookingHandler.UpdateStatus)

		owner.POST("/payouts", payoutHandler.RequestPayout)
		owner.GET("/payouts", payoutHandler.ListMyPayouts)
		owner.GET("/payouts/balance", payoutHandler.GetBalance)
	}

	adminMiddleware := auth.RequireRole(auth.RoleAdmin)
	admin := router.Group("/admin")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.PATCH("/rooms/:roomID/approval", listingHandler.ApproveRoom)
		admin.PATCH("/mess-plans/:planID/approval", listingHandler.ApproveMessPlan)

		admin.POST("/payments/:paymentID/refund", paymentHandler.Refund)

		admin.GET("/payouts", payoutHandler.ListAllPayouts)
		admin.PATCH("/payouts/:payoutID", payoutHandler.UpdatePayout)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	return &Server{
		router: router,
		db:     db,
		config: cfg,
		notify: notifyService,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
