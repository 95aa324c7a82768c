package service

import (
	"context"
	"medreminder/internal/domain/entity"
)

// ReminderService keeps the notification store in step with medication records.
// None of its operations return errors: failures are logged and reported as
// an absent result.
type ReminderService interface {
	// Initialize obtains notification permission and configures the default
	// channel. ok is false when permission is not granted or setup failed.
	Initialize(ctx context.Context) (token string, ok bool)
	// ScheduleMedicationReminder schedules dosage reminders and returns their
	// identifiers, or nil when reminders are disabled or scheduling failed.
	ScheduleMedicationReminder(ctx context.Context, medication *entity.Medication) []string
	// ScheduleRefillReminder schedules a low-supply reminder when one is due.
	ScheduleRefillReminder(ctx context.Context, medication *entity.Medication) (identifier string, ok bool)
	// CancelMedicationReminders cancels every pending reminder for the medication.
	CancelMedicationReminders(ctx context.Context, medicationID string)
	// UpdateMedicationReminders replaces the medication's reminders with ones
	// built from its current fields.
	UpdateMedicationReminders(ctx context.Context, medication *entity.Medication)
}
