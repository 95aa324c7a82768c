package main

import (
	"context"
	"fmt"
	"log"
	"medreminder/internal/application/service"
	"medreminder/internal/config"
	"medreminder/internal/infrastructure/database/sqlite"
	lineClient "medreminder/internal/infrastructure/line"
	"medreminder/internal/infrastructure/notifier"
	"medreminder/internal/infrastructure/scheduler"
	"medreminder/internal/interfaces/api/handler"
	"medreminder/internal/interfaces/api/router"
	appLogger "medreminder/internal/pkg/logger"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload" // Automatically load .env file
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// notificationBackend is a NotificationService that also accepts permission
// changes from the LINE webhook.
type notificationBackend interface {
	service.NotificationService
	handler.PermissionRecorder
}

func gracefulShutdown(apiServer *http.Server, cronScheduler *scheduler.Scheduler, db *gorm.DB, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Println("Shutting down gracefully, press Ctrl+C again to force")

	// Stop the scheduler first so no reminder fires against a closed database
	if cronScheduler != nil {
		log.Println("Stopping scheduler...")
		cronScheduler.Stop()
		log.Println("Scheduler stopped.")
	}

	log.Println("Closing database connection...")
	if err := sqlite.CloseDB(db); err != nil {
		log.Printf("Error closing database: %v", err)
	} else {
		log.Println("Database connection closed.")
	}

	// The server has 5 seconds to finish the requests it is currently handling
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown with error: %v", err)
	}

	log.Println("Server exiting")
	done <- true
}

func main() {
	// --- Initialization ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	appLog := appLogger.New(cfg.LogLevel)
	appLog.Info("Logger initialized.")

	loc, err := cfg.Location()
	if err != nil {
		appLog.Error("Invalid TIMEZONE", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := notifier.NewMetrics(registry)

	// --- Infrastructure ---
	db, err := sqlite.NewDB(cfg.DBURL, appLog)
	if err != nil {
		appLog.Error("Failed to open database", err)
		os.Exit(1)
	}
	medicationRepo := sqlite.NewMedicationRepository(db)
	appLog.Info("Database and repositories initialized.")

	var line *lineClient.Client
	var deliverer notifier.Deliverer = notifier.NewLogDeliverer(appLog)
	if cfg.Line.Enabled() {
		line, err = lineClient.NewClient(cfg.Line.ChannelSecret, cfg.Line.ChannelToken, cfg.Line.RecipientID, cfg.Line.PushPerSecond, appLog)
		if err != nil {
			appLog.Error("Failed to create LINE client", err)
			os.Exit(1)
		}
		deliverer = line
	} else {
		appLog.Warn("LINE credentials not set, notifications will only be logged")
	}

	var backend notificationBackend
	var cronScheduler *scheduler.Scheduler
	switch cfg.NotifierBackend {
	case config.BackendMemory:
		backend = notifier.NewMemory(true, appLog)
		appLog.Info("Using in-memory notification backend.")
	default:
		cronScheduler = scheduler.NewScheduler(loc, appLog)
		local := notifier.NewLocal(
			sqlite.NewNotificationRepository(db),
			sqlite.NewChannelRepository(db),
			sqlite.NewPermissionRepository(db),
			cronScheduler,
			deliverer,
			metrics,
			appLog,
		)
		if err := local.Restore(context.Background()); err != nil {
			// Log the error but continue starting the server
			appLog.Error("Failed to restore pending notifications", err)
		}
		backend = local
	}

	// --- Application Services ---
	reminderSvc := service.NewReminderService(backend, cfg.PlatformFamily(), appLog,
		service.WithClock(func() time.Time { return time.Now().In(loc) }))
	medicationSvc := service.NewMedicationService(medicationRepo, reminderSvc, appLog)
	appLog.Info("Application services initialized.")

	// --- Initialize Notifications ---
	if _, ok := reminderSvc.Initialize(context.Background()); !ok {
		appLog.Warn("Notifications are not permitted yet; reminders will be stored but not delivered")
	}
	if err := medicationSvc.ResyncAll(context.Background()); err != nil {
		appLog.Error("Failed to resync medication reminders on startup", err)
	}

	// --- API Handlers ---
	routerCfg := &router.Config{
		MedicationHandler:   handler.NewMedicationHandler(medicationSvc, appLog),
		NotificationHandler: handler.NewNotificationHandler(backend, reminderSvc, appLog),
		MetricsHandler:      promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Logger:              appLog,
	}
	if line != nil {
		routerCfg.LineHandler = handler.NewLineHandler(line, backend, medicationSvc, appLog)
	}
	echoRouter := router.NewRouter(routerCfg)

	// --- HTTP Server ---
	apiServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      echoRouter,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// --- Start Server & Shutdown Handling ---
	done := make(chan bool, 1)
	go gracefulShutdown(apiServer, cronScheduler, db, done)

	appLog.Info(fmt.Sprintf("Server starting on port %d", cfg.Port))
	err = apiServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		appLog.Error("HTTP server ListenAndServe error", err)
		panic(fmt.Sprintf("http server error: %s", err))
	}

	<-done
	appLog.Info("Graceful shutdown complete.")
}
