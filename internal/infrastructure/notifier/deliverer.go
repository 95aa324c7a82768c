package notifier

import (
	"context"
	"fmt"
	"medreminder/internal/domain/entity"
	"medreminder/internal/pkg/logger"
)

// Deliverer presents a fired notification to the user.
type Deliverer interface {
	// Deliver shows the notification. channel is nil when the entry's
	// channel has not been configured.
	Deliver(ctx context.Context, notification *entity.ScheduledNotification, channel *entity.NotificationChannel) error
	// Reachable reports whether the user can currently receive notifications.
	Reachable(ctx context.Context) error
}

// LogDeliverer writes notifications to the log. It is used when no push
// transport is configured.
type LogDeliverer struct {
	log logger.Logger
}

// NewLogDeliverer creates a LogDeliverer.
func NewLogDeliverer(log logger.Logger) *LogDeliverer {
	return &LogDeliverer{log: log}
}

func (d *LogDeliverer) Deliver(ctx context.Context, notification *entity.ScheduledNotification, channel *entity.NotificationChannel) error {
	d.log.Info(fmt.Sprintf("NOTIFY [%s] %s: %s", notification.Identifier, notification.Title, notification.Body))
	return nil
}

func (d *LogDeliverer) Reachable(ctx context.Context) error {
	return nil
}
