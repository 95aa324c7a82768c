package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"medreminder/internal/application/dto"
	"medreminder/internal/domain/constant"
	"medreminder/internal/domain/entity"
	appErrors "medreminder/internal/pkg/errors"
	"medreminder/internal/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/line/line-bot-sdk-go/v7/linebot"
	"github.com/stretchr/testify/assert"
)

type fakeLineAPI struct {
	events   []*linebot.Event
	parseErr error
	replies  []string
}

func (f *fakeLineAPI) ParseRequest(r *http.Request) ([]*linebot.Event, error) {
	return f.events, f.parseErr
}

func (f *fakeLineAPI) SendMessages(replyToken string, messages ...linebot.SendingMessage) error {
	for _, m := range messages {
		if tm, ok := m.(*linebot.TextMessage); ok {
			f.replies = append(f.replies, tm.Text)
		}
	}
	return nil
}

func (f *fakeLineAPI) Recipient() string { return "U1" }

type fakePermissions struct {
	statuses []constant.PermissionStatus
}

func (f *fakePermissions) SetPermission(ctx context.Context, status constant.PermissionStatus) error {
	f.statuses = append(f.statuses, status)
	return nil
}

type stubMedications struct {
	items   []*entity.Medication
	listErr error
}

func (s *stubMedications) Create(ctx context.Context, req dto.MedicationRequest) (*entity.Medication, error) {
	return nil, errors.New("not implemented")
}
func (s *stubMedications) Update(ctx context.Context, id string, req dto.MedicationRequest) (*entity.Medication, error) {
	return nil, errors.New("not implemented")
}
func (s *stubMedications) Delete(ctx context.Context, id string) error { return nil }
func (s *stubMedications) Get(ctx context.Context, id string) (*entity.Medication, error) {
	return nil, appErrors.ErrMedicationNotFound
}
func (s *stubMedications) List(ctx context.Context) ([]*entity.Medication, error) {
	return s.items, s.listErr
}
func (s *stubMedications) RecordDose(ctx context.Context, id string) (*entity.Medication, error) {
	return nil, errors.New("not implemented")
}
func (s *stubMedications) ResyncAll(ctx context.Context) error { return nil }

func serveWebhook(h *LineHandler) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/callback", nil)
	rec := httptest.NewRecorder()
	_ = h.HandleWebhook(e.NewContext(req, rec))
	return rec
}

func event(t linebot.EventType, userID string) *linebot.Event {
	return &linebot.Event{Type: t, ReplyToken: "rt", Source: &linebot.EventSource{Type: linebot.EventSourceTypeUser, UserID: userID}}
}

func TestWebhookFollowAndUnfollow(t *testing.T) {
	api := &fakeLineAPI{events: []*linebot.Event{
		event(linebot.EventTypeFollow, "U1"),
		event(linebot.EventTypeFollow, "U2"),
		event(linebot.EventTypeUnfollow, "U1"),
	}}
	perms := &fakePermissions{}
	h := NewLineHandler(api, perms, &stubMedications{}, logger.Nop())

	rec := serveWebhook(h)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []constant.PermissionStatus{constant.PermissionGranted, constant.PermissionDenied}, perms.statuses)
	assert.Len(t, api.replies, 1)
}

func TestWebhookListMessage(t *testing.T) {
	msg := event(linebot.EventTypeMessage, "U1")
	msg.Message = &linebot.TextMessage{Text: " List "}
	api := &fakeLineAPI{events: []*linebot.Event{msg}}
	meds := &stubMedications{items: []*entity.Medication{
		{Name: "Aspirin", Dosage: "100mg", Times: []string{"09:00"}, ReminderEnabled: true, CurrentSupply: 12},
	}}
	h := NewLineHandler(api, &fakePermissions{}, meds, logger.Nop())

	serveWebhook(h)
	assert.Equal(t, []string{"Aspirin (100mg) at 09:00, supply 12"}, api.replies)
}

func TestWebhookInvalidSignature(t *testing.T) {
	api := &fakeLineAPI{parseErr: linebot.ErrInvalidSignature}
	h := NewLineHandler(api, &fakePermissions{}, &stubMedications{}, logger.Nop())
	assert.Equal(t, http.StatusBadRequest, serveWebhook(h).Code)
}
