package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tripgo/internal/handler"
	"tripgo/internal/handler/api"
	"tripgo/internal/middleware"
	"tripgo/internal/payment"
	"tripgo/internal/repository"
)

// Setup configures all routes for the Echo server.
func Setup(
	e *echo.Echo,
	db *gorm.DB,
	orchestrator *payment.Orchestrator,
	logger *zap.Logger,
	apiKey string,
	resultURL string,
	callbackDeduper middleware.CallbackDeduper,
) {
	// Global middleware
	e.Use(echomw.Recover())
	e.Use(middleware.CORS())

	// Repositories
	repos := &api.Repos{
		User:    repository.NewUserRepository(db),
		Tour:    repository.NewTourRepository(db),
		Flight:  repository.NewFlightRepository(db),
		Hotel:   repository.NewHotelRepository(db),
		Car:     repository.NewCarRepository(db),
		Driver:  repository.NewDriverRepository(db),
		Booking: repository.NewBookingRepository(db),
		Payment: repository.NewPaymentRepository(db),
	}

	// Handlers
	userHandler := api.NewUserHandler(repos, logger)
	tourHandler := api.NewTourHandler(repos, logger)
	flightHandler := api.NewFlightHandler(repos, logger)
	hotelHandler := api.NewHotelHandler(repos, logger)
	carHandler := api.NewCarHandler(repos, logger)
	driverHandler := api.NewDriverHandler(repos, logger)
	bookingHandler := api.NewBookingHandler(repos, orchestrator, logger)
	paymentHandler := api.NewPaymentHandler(repos, orchestrator, logger)

	callbackRepos := &handler.CallbackRepos{
		Booking: repos.Booking,
		Payment: repos.Payment,
	}
	callbackHandler := handler.NewPaymentCallbackHandler(callbackRepos, orchestrator, resultURL, logger)

	// API group with token auth
	apiGroup := e.Group("/api")
	apiGroup.Use(middleware.APIAuth(apiKey))

	apiGroup.GET("/users", userHandler.List)
	apiGroup.POST("/users", userHandler.Create)
	apiGroup.GET("/users/:id", userHandler.Get)
	apiGroup.GET("/users/:id/bookings", userHandler.Bookings)

	apiGroup.GET("/tours", tourHandler.List)
	apiGroup.POST("/tours", tourHandler.Create)
	apiGroup.GET("/tours/:id", tourHandler.Get)

	apiGroup.GET("/flights", flightHandler.List)
	apiGroup.POST("/flights", flightHandler.Create)
	apiGroup.GET("/flights/:id", flightHandler.Get)

	apiGroup.GET("/hotels", hotelHandler.List)
	apiGroup.POST("/hotels", hotelHandler.Create)
	apiGroup.GET("/hotels/:id", hotelHandler.Get)

	apiGroup.GET("/cars", carHandler.List)
	apiGroup.POST("/cars", carHandler.Create)
	apiGroup.GET("/cars/:id", carHandler.Get)

	apiGroup.GET("/drivers", driverHandler.List)
	apiGroup.POST("/drivers", driverHandler.Create)
	apiGroup.GET("/drivers/:id", driverHandler.Get)

	apiGroup.GET("/bookings", bookingHandler.List)
	apiGroup.POST("/bookings", bookingHandler.Create)
	apiGroup.GET("/bookings/:id", bookingHandler.Get)
	apiGroup.POST("/bookings/:id/cancel", bookingHandler.Cancel)

	apiGroup.GET("/payments", paymentHandler.List)
	apiGroup.GET("/payments/:txn_id", paymentHandler.Get)
	apiGroup.POST("/payments/:txn_id/query", paymentHandler.Query)
	apiGroup.POST("/payments/:txn_id/refund", paymentHandler.Refund)

	// Payment callback routes, deduplicated on raw payload
	paymentGroup := e.Group("/payment")
	paymentGroup.Use(middleware.CallbackDedup(callbackDeduper))
	paymentGroup.GET("/vnpay/callback", callbackHandler.VNPayIPN)
	paymentGroup.GET("/vnpay/return", callbackHandler.VNPayReturn)
	paymentGroup.POST("/momo/callback", callbackHandler.MoMoIPN)
	paymentGroup.GET("/momo/return", callbackHandler.MoMoReturn)
	paymentGroup.POST("/zalopay/callback", callbackHandler.ZaloPayCallback)
	paymentGroup.GET("/onepay/callback", callbackHandler.OnePayIPN)
	paymentGroup.GET("/onepay/return", callbackHandler.OnePayReturn)

	// Health check, exposes the gateway registry state
	e.GET("/health", paymentHandler.Health)

	logger.Info("router configured",
		zap.Any("gateways", orchestrator.AvailableGateways()),
		zap.Bool("development_mode", orchestrator.DevelopmentMode()))
}
