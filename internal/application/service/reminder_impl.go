package service

import (
	"context"
	"errors"
	"fmt"
	"medreminder/internal/domain/constant"
	"medreminder/internal/domain/entity"
	appErrors "medreminder/internal/pkg/errors"
	"medreminder/internal/pkg/logger"
	"strconv"
	"strings"
	"time"
)

const (
	// LocalNotificationsToken is returned by Initialize on success. Reminders
	// are local, so no push token is obtained.
	LocalNotificationsToken = "local-notifications-enabled"

	defaultLightColor = "#6366F1"

	medicationReminderTitle = "Medication Reminder"
	refillReminderTitle     = "Refill Reminder"
)

var defaultVibrationPattern = []int{0, 250, 250, 250}

type reminderService struct {
	notifier NotificationService
	platform constant.Platform
	now      func() time.Time
	log      logger.Logger
}

// ReminderOption configures a ReminderService.
type ReminderOption func(*reminderService)

// WithClock overrides the time source used to compute next occurrences.
func WithClock(now func() time.Time) ReminderOption {
	return func(s *reminderService) { s.now = now }
}

// NewReminderService creates a new instance of ReminderService implementation.
func NewReminderService(notifier NotificationService, platform constant.Platform, log logger.Logger, opts ...ReminderOption) ReminderService {
	s := &reminderService{
		notifier: notifier,
		platform: platform,
		now:      time.Now,
		log:      log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize obtains notification permission and configures the default channel.
func (s *reminderService) Initialize(ctx context.Context) (string, bool) {
	if err := s.initialize(ctx); err != nil {
		if errors.Is(err, appErrors.ErrPermissionDenied) {
			s.log.Warn("Notification permissions not granted!")
		} else {
			s.log.Error("Error setting up notifications", err)
		}
		return "", false
	}
	return LocalNotificationsToken, true
}

func (s *reminderService) initialize(ctx context.Context) error {
	status, err := s.notifier.GetPermissionStatus(ctx)
	if err != nil {
		return err
	}
	if status != constant.PermissionGranted {
		status, err = s.notifier.RequestPermission(ctx)
		if err != nil {
			return err
		}
	}
	if status != constant.PermissionGranted {
		return appErrors.ErrPermissionDenied
	}

	if s.platform.RequiresChannels() {
		return s.notifier.ConfigureChannel(ctx, &entity.NotificationChannel{
			Name:             constant.DefaultChannelName,
			Importance:       constant.ImportanceMax,
			VibrationPattern: append([]int(nil), defaultVibrationPattern...),
			LightColor:       defaultLightColor,
		})
	}
	return nil
}

// ScheduleMedicationReminder schedules a one-off entry for the next occurrence
// of each time of day, plus a daily repeating entry for every day after.
func (s *reminderService) ScheduleMedicationReminder(ctx context.Context, medication *entity.Medication) []string {
	if !medication.ReminderEnabled || len(medication.Times) == 0 {
		return nil
	}

	identifiers, err := s.scheduleDosage(ctx, medication)
	if err != nil {
		s.log.Error("Error scheduling medication reminder", err)
		return nil
	}
	s.log.Info(fmt.Sprintf("Scheduled %d reminders for %s.", len(identifiers), medication.Name))
	return identifiers
}

// scheduleDosage stops at the first failure. Entries scheduled before it stay
// in the store.
func (s *reminderService) scheduleDosage(ctx context.Context, medication *entity.Medication) ([]string, error) {
	content := entity.NotificationContent{
		Title:   medicationReminderTitle,
		Body:    fmt.Sprintf("Time to take %s (%s)", medication.Name, medication.Dosage),
		Payload: &entity.Payload{MedicationID: medication.ID},
	}

	identifiers := make([]string, 0, 2*len(medication.Times))
	for _, tod := range medication.Times {
		hour, minute, err := ParseTimeOfDay(tod)
		if err != nil {
			return identifiers, err
		}
		next := nextOccurrence(s.now(), hour, minute)

		oneOffID, err := s.notifier.Schedule(ctx, content, entity.AbsoluteTrigger(next))
		if err != nil {
			return identifiers, fmt.Errorf("%w: one-off reminder at %s: %v", appErrors.ErrScheduling, tod, err)
		}
		identifiers = append(identifiers, oneOffID)

		repeatingID, err := s.notifier.Schedule(ctx, content, entity.DailyTrigger(hour, minute))
		if err != nil {
			return identifiers, fmt.Errorf("%w: daily reminder at %s: %v", appErrors.ErrScheduling, tod, err)
		}
		identifiers = append(identifiers, repeatingID)
	}
	return identifiers, nil
}

// ScheduleRefillReminder schedules an immediate reminder when supply is at or
// below the refill threshold.
func (s *reminderService) ScheduleRefillReminder(ctx context.Context, medication *entity.Medication) (string, bool) {
	if !medication.RefillReminder || !medication.NeedsRefill() {
		return "", false
	}

	identifier, err := s.notifier.Schedule(ctx, entity.NotificationContent{
		Title:   refillReminderTitle,
		Body:    fmt.Sprintf("Your %s supply is running low. Current supply: %d", medication.Name, medication.CurrentSupply),
		Payload: &entity.Payload{MedicationID: medication.ID, Type: constant.PayloadTypeRefill},
	}, entity.ImmediateTrigger())
	if err != nil {
		s.log.Error("Error scheduling refill reminder", err)
		return "", false
	}
	return identifier, true
}

// CancelMedicationReminders scans every pending notification and cancels the
// ones whose payload names medicationID. It gives up on the first failure.
func (s *reminderService) CancelMedicationReminders(ctx context.Context, medicationID string) {
	scheduled, err := s.notifier.ListScheduled(ctx)
	if err != nil {
		s.log.Error("Error canceling medication reminders", err)
		return
	}

	for _, notification := range scheduled {
		if notification.Payload == nil || notification.Payload.MedicationID != medicationID {
			continue
		}
		if err := s.notifier.Cancel(ctx, notification.Identifier); err != nil {
			s.log.Error("Error canceling medication reminders", err)
			return
		}
	}
	s.log.Info(fmt.Sprintf("Canceled reminders for medication ID: %s", medicationID))
}

// UpdateMedicationReminders cancels then reschedules. There is no rollback:
// if scheduling fails the medication is left without reminders until the
// next update.
func (s *reminderService) UpdateMedicationReminders(ctx context.Context, medication *entity.Medication) {
	s.CancelMedicationReminders(ctx, medication.ID)
	s.ScheduleMedicationReminder(ctx, medication)
	s.ScheduleRefillReminder(ctx, medication)
	s.log.Info(fmt.Sprintf("Updated all reminders for %s.", medication.Name))
}

// ParseTimeOfDay parses a zero-padded 24-hour "HH:MM" string.
func ParseTimeOfDay(s string) (hour, minute int, err error) {
	h, m, ok := strings.Cut(s, ":")
	if !ok || len(h) != 2 || len(m) != 2 || !isDigits(h) || !isDigits(m) {
		return 0, 0, fmt.Errorf("%w: %q", appErrors.ErrInvalidTimeOfDay, s)
	}
	hour, err = strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: %q", appErrors.ErrInvalidTimeOfDay, s)
	}
	minute, err = strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q", appErrors.ErrInvalidTimeOfDay, s)
	}
	return hour, minute, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// nextOccurrence returns today at hour:minute:00 in now's location, or the
// same time tomorrow if that is not after now.
func nextOccurrence(now time.Time, hour, minute int) time.Time {
	y, mo, d := now.Date()
	next := time.Date(y, mo, d, hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = time.Date(y, mo, d+1, hour, minute, 0, 0, now.Location())
	}
	return next
}
