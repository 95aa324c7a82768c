package notifier

import (
	"context"
	"fmt"
	"medreminder/internal/domain/constant"
	"medreminder/internal/domain/entity"
	appErrors "medreminder/internal/pkg/errors"
	"medreminder/internal/pkg/logger"
	"sync"

	"github.com/google/uuid"
)

// Memory is an in-process notification store. Nothing is delivered and
// nothing survives a restart.
type Memory struct {
	mu         sync.Mutex
	status     constant.PermissionStatus
	grantOnAsk bool
	channels   map[string]*entity.NotificationChannel
	pending    []*entity.ScheduledNotification
	immediate  []*entity.ScheduledNotification
	log        logger.Logger
}

// NewMemory creates a Memory notifier. grantOnRequest decides the outcome
// of RequestPermission.
func NewMemory(grantOnRequest bool, log logger.Logger) *Memory {
	return &Memory{
		status:     constant.PermissionUndetermined,
		grantOnAsk: grantOnRequest,
		channels:   make(map[string]*entity.NotificationChannel),
		log:        log,
	}
}

// GetPermissionStatus returns the current permission state.
func (m *Memory) GetPermissionStatus(ctx context.Context) (constant.PermissionStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status, nil
}

// RequestPermission grants or denies permission as set by NewMemory.
func (m *Memory) RequestPermission(ctx context.Context) (constant.PermissionStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.grantOnAsk {
		m.status = constant.PermissionGranted
	} else {
		m.status = constant.PermissionDenied
	}
	return m.status, nil
}

// SetPermission overrides the permission state.
func (m *Memory) SetPermission(ctx context.Context, status constant.PermissionStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = status
	return nil
}

// ConfigureChannel stores a copy of channel, replacing any with the same name.
func (m *Memory) ConfigureChannel(ctx context.Context, channel *entity.NotificationChannel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *channel
	m.channels[channel.Name] = &cp
	return nil
}

// Channel returns a configured channel, or nil.
func (m *Memory) Channel(name string) *entity.NotificationChannel {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.channels[name]
}

// Schedule stores a pending notification. Immediate triggers are recorded
// as presented and never become pending.
func (m *Memory) Schedule(ctx context.Context, content entity.NotificationContent, trigger entity.Trigger) (string, error) {
	if err := validateTrigger(trigger); err != nil {
		return "", err
	}
	record := &entity.ScheduledNotification{
		Identifier: uuid.NewString(),
		Title:      content.Title,
		Body:       content.Body,
		Payload:    content.Payload,
		Trigger:    trigger,
		Channel:    constant.DefaultChannelName,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if trigger.Type == constant.TriggerImmediate {
		m.immediate = append(m.immediate, record)
		m.log.Debug(fmt.Sprintf("Presented immediate notification %s: %s", record.Identifier, record.Title))
		return record.Identifier, nil
	}
	m.pending = append(m.pending, record)
	return record.Identifier, nil
}

// ListScheduled returns pending notifications in the order they were scheduled.
func (m *Memory) ListScheduled(ctx context.Context) ([]*entity.ScheduledNotification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*entity.ScheduledNotification(nil), m.pending...), nil
}

// Cancel removes a pending notification.
func (m *Memory) Cancel(ctx context.Context, identifier string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, record := range m.pending {
		if record.Identifier == identifier {
			m.pending = append(m.pending[:i], m.pending[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", appErrors.ErrNotificationNotFound, identifier)
}

// Presented returns immediate notifications shown so far.
func (m *Memory) Presented() []*entity.ScheduledNotification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*entity.ScheduledNotification(nil), m.immediate...)
}
