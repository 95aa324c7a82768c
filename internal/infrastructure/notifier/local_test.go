package notifier

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"medreminder/internal/application/service"
	"medreminder/internal/domain/constant"
	"medreminder/internal/domain/entity"
	"medreminder/internal/infrastructure/database/sqlite"
	"medreminder/internal/infrastructure/scheduler"
	appErrors "medreminder/internal/pkg/errors"
	"medreminder/internal/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ service.NotificationService = (*Local)(nil)
	_ service.NotificationService = (*Memory)(nil)
)

type recordingDeliverer struct {
	mu           sync.Mutex
	delivered    []*entity.ScheduledNotification
	channels     []*entity.NotificationChannel
	reachableErr error
	deliverErr   error
}

func (d *recordingDeliverer) Deliver(ctx context.Context, n *entity.ScheduledNotification, ch *entity.NotificationChannel) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.deliverErr != nil {
		return d.deliverErr
	}
	d.delivered = append(d.delivered, n)
	d.channels = append(d.channels, ch)
	return nil
}

func (d *recordingDeliverer) Reachable(ctx context.Context) error {
	return d.reachableErr
}

type localFixture struct {
	notifier  *Local
	deliverer *recordingDeliverer
	cron      *scheduler.Scheduler
	metrics   *Metrics
}

func newLocalFixture(t *testing.T) *localFixture {
	t.Helper()
	db, err := sqlite.NewDB(filepath.Join(t.TempDir(), "notify.db"), logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.CloseDB(db) })

	cronScheduler := scheduler.NewScheduler(time.UTC, logger.Nop())
	t.Cleanup(cronScheduler.Stop)

	d := &recordingDeliverer{}
	m := NewMetrics(prometheus.NewRegistry())
	n := NewLocal(
		sqlite.NewNotificationRepository(db),
		sqlite.NewChannelRepository(db),
		sqlite.NewPermissionRepository(db),
		cronScheduler,
		d,
		m,
		logger.Nop(),
	)
	return &localFixture{notifier: n, deliverer: d, cron: cronScheduler, metrics: m}
}

func (f *localFixture) grant(t *testing.T) {
	t.Helper()
	require.NoError(t, f.notifier.SetPermission(context.Background(), constant.PermissionGranted))
}

func TestLocalPermission(t *testing.T) {
	ctx := context.Background()
	f := newLocalFixture(t)

	status, err := f.notifier.GetPermissionStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, constant.PermissionUndetermined, status)

	status, err = f.notifier.RequestPermission(ctx)
	require.NoError(t, err)
	assert.Equal(t, constant.PermissionGranted, status)

	f.deliverer.reachableErr = errors.New("not following")
	status, err = f.notifier.RequestPermission(ctx)
	require.NoError(t, err)
	assert.Equal(t, constant.PermissionDenied, status)

	status, err = f.notifier.GetPermissionStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, constant.PermissionDenied, status)
}

func TestLocalScheduleDailyAndCancel(t *testing.T) {
	ctx := context.Background()
	f := newLocalFixture(t)

	id, err := f.notifier.Schedule(ctx, entity.NotificationContent{
		Title:   "Medication Reminder",
		Payload: &entity.Payload{MedicationID: "med-1"},
	}, entity.DailyTrigger(9, 0))
	require.NoError(t, err)

	pending, err := f.notifier.ListScheduled(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, id, pending[0].Identifier)
	assert.Equal(t, "med-1", pending[0].Payload.MedicationID)
	assert.Len(t, f.cron.GetEntries(), 1)

	require.NoError(t, f.notifier.Cancel(ctx, id))
	pending, err = f.notifier.ListScheduled(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
	assert.Empty(t, f.cron.GetEntries())
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.cancelled))

	err = f.notifier.Cancel(ctx, id)
	assert.True(t, errors.Is(err, appErrors.ErrNotificationNotFound))
}

func TestLocalScheduleRejectsInvalidTriggers(t *testing.T) {
	ctx := context.Background()
	f := newLocalFixture(t)

	_, err := f.notifier.Schedule(ctx, entity.NotificationContent{}, entity.DailyTrigger(24, 0))
	assert.True(t, errors.Is(err, appErrors.ErrScheduling))
	_, err = f.notifier.Schedule(ctx, entity.NotificationContent{}, entity.Trigger{Type: constant.TriggerDate})
	assert.True(t, errors.Is(err, appErrors.ErrScheduling))
	_, err = f.notifier.Schedule(ctx, entity.NotificationContent{}, entity.Trigger{Type: "weekly"})
	assert.True(t, errors.Is(err, appErrors.ErrScheduling))
}

func TestLocalImmediateDeliversOnlyWhenGranted(t *testing.T) {
	ctx := context.Background()
	f := newLocalFixture(t)

	_, err := f.notifier.Schedule(ctx, entity.NotificationContent{Title: "Refill Reminder"}, entity.ImmediateTrigger())
	require.NoError(t, err)
	assert.Empty(t, f.deliverer.delivered)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.delivered.WithLabelValues(resultSuppressed)))

	f.grant(t)
	require.NoError(t, f.notifier.ConfigureChannel(ctx, &entity.NotificationChannel{
		Name:       constant.DefaultChannelName,
		Importance: constant.ImportanceMax,
	}))
	_, err = f.notifier.Schedule(ctx, entity.NotificationContent{Title: "Refill Reminder"}, entity.ImmediateTrigger())
	require.NoError(t, err)
	require.Len(t, f.deliverer.delivered, 1)
	require.NotNil(t, f.deliverer.channels[0])
	assert.Equal(t, constant.ImportanceMax, f.deliverer.channels[0].Importance)

	pending, err := f.notifier.ListScheduled(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestLocalFireOneOffRemovesEntry(t *testing.T) {
	ctx := context.Background()
	f := newLocalFixture(t)
	f.grant(t)

	oneOff, err := f.notifier.Schedule(ctx, entity.NotificationContent{Title: "once"}, entity.AbsoluteTrigger(time.Now().Add(time.Hour)))
	require.NoError(t, err)
	daily, err := f.notifier.Schedule(ctx, entity.NotificationContent{Title: "daily"}, entity.DailyTrigger(9, 0))
	require.NoError(t, err)

	f.notifier.fire(oneOff)
	f.notifier.fire(daily)
	f.notifier.fire(oneOff)

	require.Len(t, f.deliverer.delivered, 2)
	assert.Equal(t, "once", f.deliverer.delivered[0].Title)
	assert.Equal(t, "daily", f.deliverer.delivered[1].Title)

	pending, err := f.notifier.ListScheduled(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, daily, pending[0].Identifier)
	assert.Len(t, f.cron.GetEntries(), 1)
}

func TestLocalDeliveryFailureIsCounted(t *testing.T) {
	ctx := context.Background()
	f := newLocalFixture(t)
	f.grant(t)
	f.deliverer.deliverErr = errors.New("push failed")

	id, err := f.notifier.Schedule(ctx, entity.NotificationContent{Title: "x"}, entity.ImmediateTrigger())
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.delivered.WithLabelValues(resultFailed)))
}

func TestLocalRestore(t *testing.T) {
	ctx := context.Background()
	f := newLocalFixture(t)
	repo := f.notifier.notifications

	require.NoError(t, repo.Create(ctx, &entity.ScheduledNotification{Identifier: "past", Trigger: entity.AbsoluteTrigger(time.Now().Add(-time.Hour))}))
	require.NoError(t, repo.Create(ctx, &entity.ScheduledNotification{Identifier: "future", Trigger: entity.AbsoluteTrigger(time.Now().Add(time.Hour))}))
	require.NoError(t, repo.Create(ctx, &entity.ScheduledNotification{Identifier: "daily", Trigger: entity.DailyTrigger(7, 15)}))

	require.NoError(t, f.notifier.Restore(ctx))

	pending, err := f.notifier.ListScheduled(ctx)
	require.NoError(t, err)
	ids := make([]string, len(pending))
	for i, p := range pending {
		ids[i] = p.Identifier
	}
	assert.ElementsMatch(t, []string{"future", "daily"}, ids)
	assert.Len(t, f.cron.GetEntries(), 2)
}

func TestLocalRestoreDropsPastEntryFromOtherZone(t *testing.T) {
	ctx := context.Background()
	f := newLocalFixture(t)
	tokyo := time.FixedZone("JST", 9*60*60)

	require.NoError(t, f.notifier.notifications.Create(ctx, &entity.ScheduledNotification{
		Identifier: "past-tokyo",
		Trigger:    entity.AbsoluteTrigger(time.Now().Add(-time.Hour).In(tokyo)),
	}))

	require.NoError(t, f.notifier.Restore(ctx))

	pending, err := f.notifier.ListScheduled(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
	assert.Empty(t, f.cron.GetEntries())
}

func TestReminderRoundTripOnLocal(t *testing.T) {
	ctx := context.Background()
	f := newLocalFixture(t)
	reminders := service.NewReminderService(f.notifier, constant.PlatformAndroid, logger.Nop())

	_, ok := reminders.Initialize(ctx)
	require.True(t, ok)

	med := &entity.Medication{
		ID:              "med-1",
		Name:            "Aspirin",
		Dosage:          "100mg",
		Times:           []string{"09:00", "21:00"},
		ReminderEnabled: true,
	}
	other := &entity.Medication{ID: "med-2", Name: "Zinc", Times: []string{"12:00"}, ReminderEnabled: true}

	ids := reminders.ScheduleMedicationReminder(ctx, med)
	assert.Len(t, ids, 4)
	assert.Len(t, reminders.ScheduleMedicationReminder(ctx, other), 2)

	reminders.UpdateMedicationReminders(ctx, med)
	reminders.UpdateMedicationReminders(ctx, med)
	pending, err := f.notifier.ListScheduled(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 6)

	reminders.CancelMedicationReminders(ctx, "med-1")
	pending, err = f.notifier.ListScheduled(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	for _, p := range pending {
		assert.Equal(t, "med-2", p.Payload.MedicationID)
	}
	assert.Len(t, f.cron.GetEntries(), 2)
}
