package router

import (
	"fmt"
	"medreminder/internal/interfaces/api/handler"
	"medreminder/internal/pkg/logger"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Config holds the dependencies for the router.
type Config struct {
	MedicationHandler   *handler.MedicationHandler
	NotificationHandler *handler.NotificationHandler
	LineHandler         *handler.LineHandler // nil when LINE is not configured
	MetricsHandler      http.Handler
	Logger              logger.Logger
}

// NewRouter creates and configures a new Echo router.
func NewRouter(cfg *Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			cfg.Logger.Info(fmt.Sprintf("REQUEST: method=%s, uri=%s, status=%d, latency=%s, req_id=%s",
				v.Method, v.URI, v.Status, v.Latency, v.RequestID,
			))
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		MaxAge:       300,
	}))

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	meds := e.Group("/medications")
	meds.POST("", cfg.MedicationHandler.Create)
	meds.GET("", cfg.MedicationHandler.List)
	meds.GET("/:id", cfg.MedicationHandler.Get)
	meds.PUT("/:id", cfg.MedicationHandler.Update)
	meds.DELETE("/:id", cfg.MedicationHandler.Delete)
	meds.POST("/:id/doses", cfg.MedicationHandler.RecordDose)

	e.GET("/notifications", cfg.NotificationHandler.List)
	e.POST("/notifications/initialize", cfg.NotificationHandler.Initialize)

	if cfg.LineHandler != nil {
		// LINE Platform requires POST for webhook
		e.POST("/callback", cfg.LineHandler.HandleWebhook)
	}
	if cfg.MetricsHandler != nil {
		e.GET("/metrics", echo.WrapHandler(cfg.MetricsHandler))
	}

	cfg.Logger.Debug("Router initialized with routes.")
	return e
}
