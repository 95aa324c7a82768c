package sqlite

import (
	"context"
	"errors"
	"fmt"
	"medreminder/internal/domain/constant"
	"medreminder/internal/domain/entity"
	"medreminder/internal/domain/repository"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new instance of NotificationRepository.
func NewNotificationRepository(db *gorm.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

// Create stores a new pending notification.
func (r *notificationRepository) Create(ctx context.Context, notification *entity.ScheduledNotification) error {
	if err := r.db.WithContext(ctx).Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification %s: %w", notification.Identifier, err)
	}
	return nil
}

// FindByIdentifier retrieves a pending notification by identifier.
func (r *notificationRepository) FindByIdentifier(ctx context.Context, identifier string) (*entity.ScheduledNotification, error) {
	var notification entity.ScheduledNotification
	if err := r.db.WithContext(ctx).Where("identifier = ?", identifier).First(&notification).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("notification %s not found: %w", identifier, err)
		}
		return nil, fmt.Errorf("failed to find notification %s: %w", identifier, err)
	}
	return &notification, nil
}

// FindAll retrieves every pending notification in creation order.
func (r *notificationRepository) FindAll(ctx context.Context) ([]*entity.ScheduledNotification, error) {
	var notifications []*entity.ScheduledNotification
	if err := r.db.WithContext(ctx).Order("created_at asc").Order("rowid asc").Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("failed to find notifications: %w", err)
	}
	return notifications, nil
}

// Delete removes a pending notification by identifier.
func (r *notificationRepository) Delete(ctx context.Context, identifier string) error {
	res := r.db.WithContext(ctx).Where("identifier = ?", identifier).Delete(&entity.ScheduledNotification{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete notification %s: %w", identifier, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("notification %s not found: %w", identifier, gorm.ErrRecordNotFound)
	}
	return nil
}

// DeleteDateTriggersBefore removes one-off entries scheduled before threshold.
// Stored times keep their zone offset as text, so the comparison is made on
// the decoded instants rather than in SQL.
func (r *notificationRepository) DeleteDateTriggersBefore(ctx context.Context, threshold time.Time) (int64, error) {
	var dated []*entity.ScheduledNotification
	if err := r.db.WithContext(ctx).Where("trigger_type = ?", constant.TriggerDate).Find(&dated).Error; err != nil {
		return 0, fmt.Errorf("failed to find one-off notifications: %w", err)
	}

	var expired []string
	for _, n := range dated {
		if n.Trigger.At.Before(threshold) {
			expired = append(expired, n.Identifier)
		}
	}
	if len(expired) == 0 {
		return 0, nil
	}

	res := r.db.WithContext(ctx).Where("identifier IN ?", expired).Delete(&entity.ScheduledNotification{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete notifications older than %v: %w", threshold, res.Error)
	}
	return res.RowsAffected, nil
}

type channelRepository struct {
	db *gorm.DB
}

// NewChannelRepository creates a new instance of ChannelRepository.
func NewChannelRepository(db *gorm.DB) repository.ChannelRepository {
	return &channelRepository{db: db}
}

// Upsert creates or replaces the channel with the same name.
func (r *channelRepository) Upsert(ctx context.Context, channel *entity.NotificationChannel) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		UpdateAll: true,
	}).Create(channel).Error
	if err != nil {
		return fmt.Errorf("failed to upsert channel %s: %w", channel.Name, err)
	}
	return nil
}

// FindByName retrieves a channel by name.
func (r *channelRepository) FindByName(ctx context.Context, name string) (*entity.NotificationChannel, error) {
	var channel entity.NotificationChannel
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&channel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("channel %s not found: %w", name, err)
		}
		return nil, fmt.Errorf("failed to find channel %s: %w", name, err)
	}
	return &channel, nil
}

type permissionRepository struct {
	db *gorm.DB
}

// NewPermissionRepository creates a new instance of PermissionRepository.
func NewPermissionRepository(db *gorm.DB) repository.PermissionRepository {
	return &permissionRepository{db: db}
}

// Get returns the stored status, or PermissionUndetermined if none was saved.
func (r *permissionRepository) Get(ctx context.Context) (constant.PermissionStatus, error) {
	var permission entity.NotificationPermission
	err := r.db.WithContext(ctx).First(&permission, entity.PermissionRowID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return constant.PermissionUndetermined, nil
		}
		return constant.PermissionUndetermined, fmt.Errorf("failed to read notification permission: %w", err)
	}
	return permission.Status, nil
}

// Save stores the status.
func (r *permissionRepository) Save(ctx context.Context, status constant.PermissionStatus) error {
	permission := &entity.NotificationPermission{ID: entity.PermissionRowID, Status: status}
	if err := r.db.WithContext(ctx).Save(permission).Error; err != nil {
		return fmt.Errorf("failed to save notification permission: %w", err)
	}
	return nil
}
