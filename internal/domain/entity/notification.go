package entity

import (
	"time"

	"medreminder/internal/domain/constant"
)

// Payload is the data attached to a notification. It is the only link
// between a scheduled entry and the medication that owns it.
type Payload struct {
	MedicationID string `json:"medicationId"`
	Type         string `json:"type,omitempty"`
}

// IsRefill reports whether the payload marks a refill reminder.
func (p *Payload) IsRefill() bool {
	return p != nil && p.Type == constant.PayloadTypeRefill
}

// NotificationContent is what the user sees, plus the payload.
type NotificationContent struct {
	Title   string
	Body    string
	Payload *Payload
}

// Trigger describes when a notification fires. At is used by date
// triggers, Hour and Minute by daily triggers.
type Trigger struct {
	Type   constant.TriggerType `gorm:"column:type"`
	At     time.Time            `gorm:"column:at"`
	Hour   int                  `gorm:"column:hour"`
	Minute int                  `gorm:"column:minute"`
}

// AbsoluteTrigger fires once at t.
func AbsoluteTrigger(t time.Time) Trigger {
	return Trigger{Type: constant.TriggerDate, At: t}
}

// DailyTrigger fires every day at hour:minute.
func DailyTrigger(hour, minute int) Trigger {
	return Trigger{Type: constant.TriggerDaily, Hour: hour, Minute: minute}
}

// ImmediateTrigger fires as soon as the notification is registered.
func ImmediateTrigger() Trigger {
	return Trigger{Type: constant.TriggerImmediate}
}

// ScheduledNotification is a pending entry in the notification store.
type ScheduledNotification struct {
	Identifier string    `gorm:"column:identifier;primaryKey"`
	Title      string    `gorm:"column:title"`
	Body       string    `gorm:"column:body;type:text"`
	Payload    *Payload  `gorm:"column:payload;serializer:json"`
	Trigger    Trigger   `gorm:"embedded;embeddedPrefix:trigger_"`
	Channel    string    `gorm:"column:channel"`
	CreatedAt  time.Time `gorm:"column:created_at;index"`
}

// TableName specifies the table name for the ScheduledNotification entity.
func (ScheduledNotification) TableName() string {
	return "scheduled_notifications"
}

// Content returns the user-visible content of the entry.
func (n *ScheduledNotification) Content() NotificationContent {
	return NotificationContent{Title: n.Title, Body: n.Body, Payload: n.Payload}
}

// NotificationChannel holds delivery attributes for a named channel.
type NotificationChannel struct {
	Name             string              `gorm:"column:name;primaryKey"`
	Importance       constant.Importance `gorm:"column:importance"`
	VibrationPattern []int               `gorm:"column:vibration_pattern;serializer:json"`
	LightColor       string              `gorm:"column:light_color"`
	UpdatedAt        time.Time
}

// TableName specifies the table name for the NotificationChannel entity.
func (NotificationChannel) TableName() string {
	return "notification_channels"
}

// NotificationPermission is the persisted permission state. There is a
// single row, keyed by PermissionRowID.
type NotificationPermission struct {
	ID        uint                      `gorm:"primaryKey"`
	Status    constant.PermissionStatus `gorm:"column:status"`
	UpdatedAt time.Time
}

// PermissionRowID is the primary key of the single permission row.
const PermissionRowID = 1

// TableName specifies the table name for the NotificationPermission entity.
func (NotificationPermission) TableName() string {
	return "notification_permission"
}
