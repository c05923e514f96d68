package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/MartinRAM24/app-gestion-citas/internal/audit"
	appCache "github.com/MartinRAM24/app-gestion-citas/internal/cache"
	"github.com/MartinRAM24/app-gestion-citas/internal/config"
	"github.com/MartinRAM24/app-gestion-citas/internal/handlers"
	infraRepo "github.com/MartinRAM24/app-gestion-citas/internal/infra/repository"
	"github.com/MartinRAM24/app-gestion-citas/internal/middleware"
	"github.com/MartinRAM24/app-gestion-citas/internal/notification"
	ucBooking "github.com/MartinRAM24/app-gestion-citas/internal/usecase/booking"
)

// RegisterRoutes wires the whole surface and returns the reminder use case
// so main can also put it on the cron schedule.
func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	rdb *redis.Client,
	cfg *config.Config,
) *ucBooking.SendReminders {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(db)
	availabilityCache := appCache.NewAvailability(rdb)
	whatsapp := notification.NewWhatsAppSender(cfg.WhatsApp)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	// ======================================================
	// USE CASES — BOOKING
	// ======================================================
	getAvailabilityUC := ucBooking.NewGetAvailability(
		bookingRepo,
		availabilityCache,
	)

	createAppointmentUC := ucBooking.NewCreateAppointment(
		bookingRepo,
		availabilityCache,
		cfg.MinLeadDays,
	)

	nextAppointmentUC := ucBooking.NewNextAppointment(bookingRepo)

	listByDateUC := ucBooking.NewListAppointmentsByDate(bookingRepo)

	adminCreateUC := ucBooking.NewAdminCreateAppointment(
		bookingRepo,
		availabilityCache,
		auditDispatcher,
	)

	adminUpdateUC := ucBooking.NewAdminUpdateAppointment(
		bookingRepo,
		auditDispatcher,
	)

	adminDeleteUC := ucBooking.NewAdminDeleteAppointment(
		bookingRepo,
		availabilityCache,
		auditDispatcher,
	)

	sendRemindersUC := ucBooking.NewSendReminders(
		bookingRepo,
		whatsapp,
		auditDispatcher,
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)

	bookingHandler := handlers.NewBookingHandler(
		getAvailabilityUC,
		createAppointmentUC,
		nextAppointmentUC,
	)

	adminHandler := handlers.NewAdminHandler(
		listByDateUC,
		adminCreateUC,
		adminUpdateUC,
		adminDeleteUC,
		sendRemindersUC,
	)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		api.GET("/public/availability", bookingHandler.Availability)

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/admin/login", authHandler.AdminLogin)

		// ------------------------------
		// PATIENT (session required)
		// ------------------------------
		me := api.Group("/me")
		me.Use(middleware.AuthMiddleware(cfg))
		{
			me.POST("/appointments", bookingHandler.Create)
			me.GET("/appointments/next", bookingHandler.Next)
		}

		// ------------------------------
		// ADMIN
		// ------------------------------
		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(cfg), middleware.RequireAdmin())
		{
			admin.GET("/appointments", adminHandler.ListByDate)
			admin.POST("/appointments", adminHandler.Create)
			admin.PATCH("/appointments/:id", adminHandler.Update)
			admin.DELETE("/appointments/:id", adminHandler.Delete)

			admin.POST("/reminders", adminHandler.SendReminders)
		}
	}

	return sendRemindersUC
}
