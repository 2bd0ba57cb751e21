package server

import (
	"net/http"

	"bus-ticketing-platform/internal/config"
	"bus-ticketing-platform/internal/handlers"
	"bus-ticketing-platform/internal/middleware"
	"bus-ticketing-platform/internal/monitoring"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter assembles the gin engine: ambient middleware, the booking API,
// the scheduler-facing cleanup endpoint and the metrics endpoint.
func NewRouter(
	cfg *config.Config,
	bookingHandler *handlers.BookingHandler,
	cleanupHandler *handlers.CleanupHandler,
	healthHandler *handlers.HealthHandler,
) *gin.Engine {
	if cfg.Server.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(),
		gin.Recovery(),
		monitoring.RequestMetrics(),
		cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type", "Authorization", "Accept", "Origin", "X-Request-ID"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Disposition"},
			AllowCredentials: true,
		}),
	)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/health", healthHandler.Health)

		api.POST("/trips/:tripId/bookings", bookingHandler.CreateBooking)
		api.GET("/trips/:tripId/bookings/:id", bookingHandler.GetBooking)

		api.POST("/bookings/:id/payment", bookingHandler.ConfirmPayment)
		api.GET("/bookings/:id/eticket", bookingHandler.GetETicket)

		api.GET("/cron/cleanup-bookings", cleanupHandler.CleanupBookings)
	}

	return r
}
