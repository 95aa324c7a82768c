package service

import (
	"context"
	"medreminder/internal/domain/constant"
	"medreminder/internal/domain/entity"
)

// NotificationService is the notification capability reminders are built on:
// permission, delivery channels and the store of pending notifications.
type NotificationService interface {
	// GetPermissionStatus returns the current permission state.
	GetPermissionStatus(ctx context.Context) (constant.PermissionStatus, error)
	// RequestPermission asks for permission and returns the resulting state.
	RequestPermission(ctx context.Context) (constant.PermissionStatus, error)
	// ConfigureChannel creates or replaces a named delivery channel.
	ConfigureChannel(ctx context.Context, channel *entity.NotificationChannel) error
	// Schedule registers a notification and returns its identifier.
	Schedule(ctx context.Context, content entity.NotificationContent, trigger entity.Trigger) (string, error)
	// ListScheduled returns every pending notification.
	ListScheduled(ctx context.Context) ([]*entity.ScheduledNotification, error)
	// Cancel removes a pending notification by identifier.
	Cancel(ctx context.Context, identifier string) error
}
