package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/mindbridge-api/internal/config"
	"github.com/BruksfildServices01/mindbridge-api/internal/handlers"
	"github.com/BruksfildServices01/mindbridge-api/internal/middleware"
	"github.com/BruksfildServices01/mindbridge-api/internal/models"
	ucBooking "github.com/BruksfildServices01/mindbridge-api/internal/usecase/booking"
)

// Deps carries the singletons built in main.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Booking  ucBooking.Deps
	Inbox    handlers.NotificationInbox
	HealthFn func() error
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	// ======================================================
	// USE CASES
	// ======================================================
	getAvailabilityUC := ucBooking.NewGetAvailability(d.Booking)
	getWeeklyUC := ucBooking.NewGetWeeklyAvailability(d.Booking)
	setWeeklyUC := ucBooking.NewSetWeeklyAvailability(d.Booking)

	createBookingUC := ucBooking.NewCreateBooking(d.Booking)
	changeStatusUC := ucBooking.NewChangeStatus(d.Booking)
	rescheduleUC := ucBooking.NewReschedule(d.Booking)
	listBookingsUC := ucBooking.NewListBookings(d.Booking)
	getBookingUC := ucBooking.NewGetBooking(d.Booking)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(d.DB, cfg)
	meHandler := handlers.NewMeHandler(d.DB)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB)
	notificationHandler := handlers.NewNotificationHandler(d.Inbox)

	availabilityHandler := handlers.NewAvailabilityHandler(
		getAvailabilityUC,
		getWeeklyUC,
		setWeeklyUC,
	)

	bookingHandler := handlers.NewBookingHandler(
		createBookingUC,
		changeStatusUC,
		rescheduleUC,
		listBookingsUC,
		getBookingUC,
	)

	// ======================================================
	// HEALTH
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		if d.HealthFn != nil {
			if err := d.HealthFn(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ======================================================
	// API
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		auth := api.Group("/auth")
		auth.Use(middleware.RateLimitMiddleware(cfg.RateLimitPerMinute))
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// ------------------------------
		// PRIVATE
		// ------------------------------
		secured := api.Group("")
		secured.Use(
			middleware.AuthMiddleware(cfg),
			middleware.RateLimitMiddleware(cfg.RateLimitPerMinute),
		)
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/me/notifications", notificationHandler.List)
			secured.PATCH("/me/notifications/:id/read", notificationHandler.MarkRead)

			counsellorOnly := middleware.RequireRole(models.RoleCounsellor)
			secured.GET("/me/availability", counsellorOnly, availabilityHandler.GetMine)
			secured.PUT("/me/availability", counsellorOnly, availabilityHandler.ReplaceMine)

			secured.GET("/counsellors/:id/availability", availabilityHandler.Slots)

			// ------------------------------
			// BOOKINGS
			// ------------------------------
			secured.POST("/bookings", middleware.RequireRole(models.RoleStudent), bookingHandler.Create)
			secured.GET("/bookings", bookingHandler.List)
			secured.GET("/bookings/:id", bookingHandler.Get)
			secured.PATCH("/bookings/:id/status", bookingHandler.ChangeStatus)
			secured.POST("/bookings/:id/reschedule", bookingHandler.Reschedule)

			// ------------------------------
			// ADMIN
			// ------------------------------
			secured.GET("/admin/audit-logs", middleware.RequireRole(models.RoleAdmin), auditLogsHandler.List)
		}
	}
}
