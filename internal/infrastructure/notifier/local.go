package notifier

import (
	"context"
	"errors"
	"fmt"
	"medreminder/internal/domain/constant"
	"medreminder/internal/domain/entity"
	"medreminder/internal/domain/repository"
	"medreminder/internal/infrastructure/scheduler"
	appErrors "medreminder/internal/pkg/errors"
	"medreminder/internal/pkg/logger"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

const fireTimeout = 30 * time.Second

// Local is a notification service that keeps pending notifications in the
// database and fires them from a cron scheduler.
type Local struct {
	notifications repository.NotificationRepository
	channels      repository.ChannelRepository
	permissions   repository.PermissionRepository
	cron          *scheduler.Scheduler
	deliverer     Deliverer
	metrics       *Metrics
	log           logger.Logger
	now           func() time.Time

	mu   sync.Mutex
	jobs map[string]cron.EntryID // identifier -> cron entry
}

// NewLocal creates a Local notifier. Call Restore once at startup to
// re-register notifications persisted by a previous run.
func NewLocal(
	notifications repository.NotificationRepository,
	channels repository.ChannelRepository,
	permissions repository.PermissionRepository,
	cronScheduler *scheduler.Scheduler,
	deliverer Deliverer,
	metrics *Metrics,
	log logger.Logger,
) *Local {
	return &Local{
		notifications: notifications,
		channels:      channels,
		permissions:   permissions,
		cron:          cronScheduler,
		deliverer:     deliverer,
		metrics:       metrics,
		log:           log,
		now:           time.Now,
		jobs:          make(map[string]cron.EntryID),
	}
}

// GetPermissionStatus returns the stored permission state.
func (n *Local) GetPermissionStatus(ctx context.Context) (constant.PermissionStatus, error) {
	status, err := n.permissions.Get(ctx)
	if err != nil {
		return constant.PermissionUndetermined, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	return status, nil
}

// RequestPermission probes the deliverer and stores the outcome.
func (n *Local) RequestPermission(ctx context.Context) (constant.PermissionStatus, error) {
	status := constant.PermissionGranted
	if err := n.deliverer.Reachable(ctx); err != nil {
		n.log.Warn(fmt.Sprintf("Notification recipient not reachable: %v", err))
		status = constant.PermissionDenied
	}
	if err := n.SetPermission(ctx, status); err != nil {
		return constant.PermissionUndetermined, err
	}
	return status, nil
}

// SetPermission records a permission change, e.g. from a follow event.
func (n *Local) SetPermission(ctx context.Context, status constant.PermissionStatus) error {
	if err := n.permissions.Save(ctx, status); err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	n.log.Info(fmt.Sprintf("Notification permission set to %s", status))
	return nil
}

// ConfigureChannel creates or replaces a delivery channel.
func (n *Local) ConfigureChannel(ctx context.Context, channel *entity.NotificationChannel) error {
	if err := n.channels.Upsert(ctx, channel); err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	n.log.Debug(fmt.Sprintf("Configured notification channel %q", channel.Name))
	return nil
}

// Schedule registers a notification. Immediate triggers, and date triggers
// that are already due, are delivered right away and never become pending.
func (n *Local) Schedule(ctx context.Context, content entity.NotificationContent, trigger entity.Trigger) (string, error) {
	if err := validateTrigger(trigger); err != nil {
		return "", err
	}
	if trigger.Type == constant.TriggerDate {
		trigger.At = trigger.At.UTC()
	}
	record := &entity.ScheduledNotification{
		Identifier: uuid.NewString(),
		Title:      content.Title,
		Body:       content.Body,
		Payload:    content.Payload,
		Trigger:    trigger,
		Channel:    constant.DefaultChannelName,
	}
	n.metrics.observeScheduled(trigger.Type)

	if trigger.Type == constant.TriggerImmediate ||
		(trigger.Type == constant.TriggerDate && !trigger.At.After(n.now())) {
		n.deliver(ctx, record)
		return record.Identifier, nil
	}

	if err := n.notifications.Create(ctx, record); err != nil {
		return "", fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	if err := n.register(record); err != nil {
		if delErr := n.notifications.Delete(ctx, record.Identifier); delErr != nil {
			n.log.Error(fmt.Sprintf("Failed to remove unregistered notification %s", record.Identifier), delErr)
		}
		return "", err
	}
	return record.Identifier, nil
}

// ListScheduled returns every pending notification in creation order.
func (n *Local) ListScheduled(ctx context.Context) ([]*entity.ScheduledNotification, error) {
	notifications, err := n.notifications.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	return notifications, nil
}

// Cancel removes a pending notification and its cron job.
func (n *Local) Cancel(ctx context.Context, identifier string) error {
	if err := n.notifications.Delete(ctx, identifier); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", appErrors.ErrNotificationNotFound, identifier)
		}
		return fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	n.unregister(identifier)
	n.metrics.observeCancelled()
	n.log.Debug(fmt.Sprintf("Cancelled notification %s", identifier))
	return nil
}

// Restore drops one-off notifications whose time passed while the process
// was down and registers cron jobs for the rest.
func (n *Local) Restore(ctx context.Context) error {
	expired, err := n.notifications.DeleteDateTriggersBefore(ctx, n.now())
	if err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	pending, err := n.notifications.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}

	restored := 0
	for _, record := range pending {
		if err := n.register(record); err != nil {
			n.log.Error(fmt.Sprintf("Failed to restore notification %s", record.Identifier), err)
			continue
		}
		restored++
	}
	n.log.Info(fmt.Sprintf("Notification restore complete. Restored: %d, Dropped expired: %d", restored, expired))
	return nil
}

func validateTrigger(trigger entity.Trigger) error {
	switch trigger.Type {
	case constant.TriggerImmediate:
		return nil
	case constant.TriggerDate:
		if trigger.At.IsZero() {
			return fmt.Errorf("%w: date trigger without a time", appErrors.ErrScheduling)
		}
		return nil
	case constant.TriggerDaily:
		if trigger.Hour < 0 || trigger.Hour > 23 || trigger.Minute < 0 || trigger.Minute > 59 {
			return fmt.Errorf("%w: invalid daily trigger %02d:%02d", appErrors.ErrScheduling, trigger.Hour, trigger.Minute)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown trigger type %q", appErrors.ErrScheduling, trigger.Type)
	}
}

func (n *Local) register(record *entity.ScheduledNotification) error {
	var spec string
	switch record.Trigger.Type {
	case constant.TriggerDate:
		spec = n.cron.OnceAt(record.Trigger.At)
	case constant.TriggerDaily:
		spec = scheduler.DailyAt(record.Trigger.Hour, record.Trigger.Minute)
	default:
		return fmt.Errorf("%w: trigger %q cannot be registered", appErrors.ErrScheduling, record.Trigger.Type)
	}

	identifier := record.Identifier
	entryID, err := n.cron.AddJob(spec, func() { n.fire(identifier) })
	if err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrScheduling, err)
	}

	n.mu.Lock()
	n.jobs[identifier] = entryID
	n.mu.Unlock()
	return nil
}

func (n *Local) unregister(identifier string) {
	n.mu.Lock()
	entryID, ok := n.jobs[identifier]
	delete(n.jobs, identifier)
	n.mu.Unlock()
	if ok {
		n.cron.RemoveJob(entryID)
	}
}

// fire runs from the cron goroutine. One-off entries are removed before
// delivery so they never fire twice.
func (n *Local) fire(identifier string) {
	ctx, cancel := context.WithTimeout(context.Background(), fireTimeout)
	defer cancel()

	record, err := n.notifications.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			n.log.Debug(fmt.Sprintf("Notification %s no longer pending, skipping", identifier))
			n.unregister(identifier)
			return
		}
		n.log.Error(fmt.Sprintf("Failed to load notification %s for delivery", identifier), err)
		return
	}

	if record.Trigger.Type == constant.TriggerDate {
		n.unregister(identifier)
		if err := n.notifications.Delete(ctx, identifier); err != nil {
			n.log.Error(fmt.Sprintf("Failed to remove fired notification %s", identifier), err)
		}
	}
	n.deliver(ctx, record)
}

func (n *Local) deliver(ctx context.Context, record *entity.ScheduledNotification) {
	status, err := n.permissions.Get(ctx)
	if err != nil {
		n.log.Error("Failed to read notification permission", err)
		n.metrics.observeDelivery(resultFailed)
		return
	}
	if status != constant.PermissionGranted {
		n.log.Warn(fmt.Sprintf("Notification %s suppressed: permission %s", record.Identifier, status))
		n.metrics.observeDelivery(resultSuppressed)
		return
	}

	var channel *entity.NotificationChannel
	if record.Channel != "" {
		channel, err = n.channels.FindByName(ctx, record.Channel)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			n.log.Error(fmt.Sprintf("Failed to load channel %q", record.Channel), err)
		}
	}

	if err := n.deliverer.Deliver(ctx, record, channel); err != nil {
		n.log.Error(fmt.Sprintf("Failed to deliver notification %s", record.Identifier), err)
		n.metrics.observeDelivery(resultFailed)
		return
	}
	n.metrics.observeDelivery(resultDelivered)
	n.log.Info(fmt.Sprintf("Delivered notification %s: %s", record.Identifier, record.Title))
}
