package main

import (
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/clinic/clinic/internal/config"
	"github.com/clinic/clinic/internal/domain/billing"
	"github.com/clinic/clinic/internal/domain/note"
	"github.com/clinic/clinic/internal/domain/overview"
	"github.com/clinic/clinic/internal/domain/patient"
	"github.com/clinic/clinic/internal/domain/session"
	"github.com/clinic/clinic/internal/platform/db"
	"github.com/clinic/clinic/internal/platform/invalidate"
	"github.com/clinic/clinic/internal/platform/middleware"
	"github.com/clinic/clinic/internal/platform/notification"
)

// newLogger builds the process logger. A nil cfg gives the plain JSON logger
// used before configuration is loaded.
func newLogger(cfg *config.Config) zerolog.Logger {
	if cfg == nil {
		return zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
	level := zerolog.DebugLevel
	if cfg.IsProduction() {
		level = zerolog.InfoLevel
	}
	if cfg.IsDev() {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).Level(level).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
}

// newServer wires the services of b into an echo instance.
func newServer(cfg *config.Config, b *backend, inv invalidate.Invalidator, logger zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.ErrorHandler(logger)

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Content-Type", middleware.RequestIDHeader},
	}))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.BodyLimit("1M"))
	e.Use(middleware.RequestTimeout(cfg.StoreTimeout))

	api := e.Group("/api/v1")

	patientSvc := patient.NewService(b.patients, inv, logger)
	patient.NewHandler(patientSvc).RegisterRoutes(api)

	sessionSvc := session.NewService(b.sessions, b.notes, b.patients, b.tx, inv, logger)
	session.NewHandler(sessionSvc, cfg.HistoryPageSize).RegisterRoutes(api)

	noteSvc := note.NewService(b.notes, inv, logger)
	note.NewHandler(noteSvc).RegisterRoutes(api)

	billingSvc := billing.NewService(b.payments, inv, logger)
	billing.NewHandler(billingSvc).RegisterRoutes(api)

	overviewSvc := overview.NewService(b.patients, b.sessions, b.notes, b.payments, logger)
	overview.NewHandler(overviewSvc).RegisterRoutes(api)

	notifier := notification.NewManager(notification.NewLogSender(logger), notification.NewTemplates(), logger)
	notification.NewHandler(notifier).RegisterRoutes(api)
	overview.NewReminder(overviewSvc, notifier, logger).RegisterRoutes(api)

	api.POST("/admin/bootstrap", func(c echo.Context) error {
		res := b.Bootstrap(c.Request().Context(), logger)
		status := http.StatusOK
		if !res.Success {
			status = http.StatusServiceUnavailable
		}
		return c.JSON(status, res)
	})

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "backend": b.name})
	})
	if b.pool != nil {
		e.GET("/health/db", db.HealthHandler(b.pool))
	}
	return e
}
