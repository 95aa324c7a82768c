package repository

import (
	"context"
	"medreminder/internal/domain/constant"
	"medreminder/internal/domain/entity"
	"time"
)

// NotificationRepository stores pending scheduled notifications.
type NotificationRepository interface {
	// Create stores a new pending notification.
	Create(ctx context.Context, notification *entity.ScheduledNotification) error
	// FindByIdentifier retrieves a pending notification by identifier.
	FindByIdentifier(ctx context.Context, identifier string) (*entity.ScheduledNotification, error)
	// FindAll retrieves every pending notification in creation order.
	FindAll(ctx context.Context) ([]*entity.ScheduledNotification, error)
	// Delete removes a pending notification. Deleting a missing identifier
	// returns an error wrapping gorm.ErrRecordNotFound.
	Delete(ctx context.Context, identifier string) error
	// DeleteDateTriggersBefore removes one-off entries whose time has passed.
	DeleteDateTriggersBefore(ctx context.Context, threshold time.Time) (int64, error)
}

// ChannelRepository stores delivery channel configuration.
type ChannelRepository interface {
	// Upsert creates or replaces the channel with the same name.
	Upsert(ctx context.Context, channel *entity.NotificationChannel) error
	// FindByName retrieves a channel by name.
	FindByName(ctx context.Context, name string) (*entity.NotificationChannel, error)
}

// PermissionRepository stores the notification permission state.
type PermissionRepository interface {
	// Get returns the stored status, or PermissionUndetermined if none was saved.
	Get(ctx context.Context) (constant.PermissionStatus, error)
	// Save stores the status.
	Save(ctx context.Context, status constant.PermissionStatus) error
}
