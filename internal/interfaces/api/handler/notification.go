package handler

import (
	"medreminder/internal/application/dto"
	"medreminder/internal/application/service"
	appErrors "medreminder/internal/pkg/errors"
	"medreminder/internal/pkg/logger"
	"net/http"

	"github.com/labstack/echo/v4"
)

// NotificationHandler exposes the notification store and setup.
type NotificationHandler struct {
	notifier    service.NotificationService
	reminderSvc service.ReminderService
	log         logger.Logger
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notifier service.NotificationService, reminderSvc service.ReminderService, log logger.Logger) *NotificationHandler {
	return &NotificationHandler{notifier: notifier, reminderSvc: reminderSvc, log: log}
}

// List handles GET /notifications.
func (h *NotificationHandler) List(c echo.Context) error {
	pending, err := h.notifier.ListScheduled(c.Request().Context())
	if err != nil {
		h.log.Error("Failed to list scheduled notifications", err)
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto.ToNotificationResponseList(pending))
}

// Initialize handles POST /notifications/initialize.
func (h *NotificationHandler) Initialize(c echo.Context) error {
	token, ok := h.reminderSvc.Initialize(c.Request().Context())
	if !ok {
		return respondError(c, appErrors.ErrPermissionDenied)
	}
	return c.JSON(http.StatusOK, dto.InitializeResponse{Token: token})
}
