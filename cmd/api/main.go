package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	appCache "github.com/MartinRAM24/app-gestion-citas/internal/cache"
	"github.com/MartinRAM24/app-gestion-citas/internal/config"
	dbpkg "github.com/MartinRAM24/app-gestion-citas/internal/db"
	"github.com/MartinRAM24/app-gestion-citas/internal/middleware"
	"github.com/MartinRAM24/app-gestion-citas/internal/routes"
)

func main() {

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)
	rdb := appCache.NewClient(cfg)

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	sendReminders := routes.RegisterRoutes(r, db, rdb, cfg)

	// Daily reminder sweep for tomorrow's appointments. A failed row only
	// shows up in the summary; the sweep itself never aborts the process.
	sched := cron.New()
	if _, err := sched.AddFunc(cfg.ReminderCron, func() {
		summary, err := sendReminders.Execute(context.Background(), false)
		if err != nil {
			log.Printf("reminder sweep failed: %v", err)
			return
		}
		log.Printf("reminder sweep: total=%d sent=%d failed=%d",
			summary.Total, summary.Sent, summary.Failed)
	}); err != nil {
		log.Fatalf("invalid REMINDER_CRON %q: %v", cfg.ReminderCron, err)
	}
	sched.Start()

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
