package service

import (
	"context"
	"errors"
	"fmt"
	"medreminder/internal/domain/constant"
	"medreminder/internal/domain/entity"
)

type scheduleCall struct {
	content entity.NotificationContent
	trigger entity.Trigger
}

// fakeNotifier is an in-memory NotificationService that records calls.
type fakeNotifier struct {
	status        constant.PermissionStatus
	requestResult constant.PermissionStatus
	requests      int
	channels      []*entity.NotificationChannel

	pending   []*entity.ScheduledNotification
	scheduled []scheduleCall
	cancelled []string
	seq       int

	permissionErr error
	channelErr    error
	listErr       error
	cancelErr     error
	// failScheduleAt makes the n-th Schedule call (1-based) fail.
	failScheduleAt int
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{status: constant.PermissionGranted, requestResult: constant.PermissionGranted}
}

func (f *fakeNotifier) GetPermissionStatus(ctx context.Context) (constant.PermissionStatus, error) {
	if f.permissionErr != nil {
		return "", f.permissionErr
	}
	return f.status, nil
}

func (f *fakeNotifier) RequestPermission(ctx context.Context) (constant.PermissionStatus, error) {
	f.requests++
	f.status = f.requestResult
	return f.status, nil
}

func (f *fakeNotifier) ConfigureChannel(ctx context.Context, channel *entity.NotificationChannel) error {
	if f.channelErr != nil {
		return f.channelErr
	}
	f.channels = append(f.channels, channel)
	return nil
}

func (f *fakeNotifier) Schedule(ctx context.Context, content entity.NotificationContent, trigger entity.Trigger) (string, error) {
	f.scheduled = append(f.scheduled, scheduleCall{content: content, trigger: trigger})
	if f.failScheduleAt == len(f.scheduled) {
		return "", errors.New("schedule rejected")
	}
	f.seq++
	id := fmt.Sprintf("n%d", f.seq)
	if trigger.Type != constant.TriggerImmediate {
		f.pending = append(f.pending, &entity.ScheduledNotification{
			Identifier: id,
			Title:      content.Title,
			Body:       content.Body,
			Payload:    content.Payload,
			Trigger:    trigger,
		})
	}
	return id, nil
}

func (f *fakeNotifier) ListScheduled(ctx context.Context) ([]*entity.ScheduledNotification, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]*entity.ScheduledNotification(nil), f.pending...), nil
}

func (f *fakeNotifier) Cancel(ctx context.Context, identifier string) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	for i, n := range f.pending {
		if n.Identifier == identifier {
			f.pending = append(f.pending[:i], f.pending[i+1:]...)
			f.cancelled = append(f.cancelled, identifier)
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeNotifier) pendingFor(medicationID string) []*entity.ScheduledNotification {
	var out []*entity.ScheduledNotification
	for _, n := range f.pending {
		if n.Payload != nil && n.Payload.MedicationID == medicationID {
			out = append(out, n)
		}
	}
	return out
}
