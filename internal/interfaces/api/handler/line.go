package handler

import (
	"context"
	"errors"
	"fmt"
	"medreminder/internal/application/service"
	"medreminder/internal/domain/constant"
	"medreminder/internal/pkg/logger"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/line/line-bot-sdk-go/v7/linebot"
)

// LineAPI is the part of the LINE client the webhook needs.
type LineAPI interface {
	ParseRequest(r *http.Request) ([]*linebot.Event, error)
	SendMessages(replyToken string, messages ...linebot.SendingMessage) error
	Recipient() string
}

// PermissionRecorder stores notification permission changes.
type PermissionRecorder interface {
	SetPermission(ctx context.Context, status constant.PermissionStatus) error
}

// LineHandler handles incoming LINE webhook events. Following the bot grants
// notification permission, unfollowing revokes it.
type LineHandler struct {
	lineClient        LineAPI
	permissions       PermissionRecorder
	medicationService service.MedicationService
	log               logger.Logger
}

// NewLineHandler creates a new LineHandler.
func NewLineHandler(
	lineClient LineAPI,
	permissions PermissionRecorder,
	medicationService service.MedicationService,
	log logger.Logger,
) *LineHandler {
	return &LineHandler{
		lineClient:        lineClient,
		permissions:       permissions,
		medicationService: medicationService,
		log:               log,
	}
}

// HandleWebhook is the main entry point for webhook requests.
func (h *LineHandler) HandleWebhook(c echo.Context) error {
	ctx := c.Request().Context()
	events, err := h.lineClient.ParseRequest(c.Request())
	if err != nil {
		if errors.Is(err, linebot.ErrInvalidSignature) {
			h.log.Warn("Invalid LINE signature received")
			return c.String(http.StatusBadRequest, "Invalid signature")
		}
		h.log.Error("Failed to parse LINE webhook request", err)
		return c.String(http.StatusInternalServerError, "Error parsing request")
	}

	for _, event := range events {
		if event.Source == nil || event.Source.UserID != h.lineClient.Recipient() {
			h.log.Debug(fmt.Sprintf("Ignoring %s event from non-recipient", event.Type))
			continue
		}
		switch event.Type {
		case linebot.EventTypeFollow:
			h.setPermission(ctx, constant.PermissionGranted)
			h.reply(event.ReplyToken, "Medication reminders are on. Send \"list\" to see your medications.")
		case linebot.EventTypeUnfollow:
			h.setPermission(ctx, constant.PermissionDenied)
		case linebot.EventTypeMessage:
			h.handleMessageEvent(ctx, event)
		default:
			h.log.Debug(fmt.Sprintf("Unhandled event type: %s", event.Type))
		}
	}

	return c.String(http.StatusOK, "OK")
}

func (h *LineHandler) setPermission(ctx context.Context, status constant.PermissionStatus) {
	if err := h.permissions.SetPermission(ctx, status); err != nil {
		h.log.Error(fmt.Sprintf("Failed to record notification permission %s", status), err)
	}
}

func (h *LineHandler) handleMessageEvent(ctx context.Context, event *linebot.Event) {
	message, ok := event.Message.(*linebot.TextMessage)
	if !ok {
		return
	}
	switch strings.ToLower(strings.TrimSpace(message.Text)) {
	case "list":
		h.reply(event.ReplyToken, h.medicationList(ctx))
	default:
		h.reply(event.ReplyToken, "Send \"list\" to see your medications.")
	}
}

func (h *LineHandler) medicationList(ctx context.Context) string {
	medications, err := h.medicationService.List(ctx)
	if err != nil {
		return "Could not load medications. Please try again later."
	}
	if len(medications) == 0 {
		return "No medications registered."
	}
	var b strings.Builder
	for i, m := range medications {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s (%s)", m.Name, m.Dosage)
		if m.ReminderEnabled && len(m.Times) > 0 {
			fmt.Fprintf(&b, " at %s", strings.Join(m.Times, ", "))
		}
		fmt.Fprintf(&b, ", supply %d", m.CurrentSupply)
	}
	return b.String()
}

func (h *LineHandler) reply(replyToken, text string) {
	if replyToken == "" {
		return
	}
	if err := h.lineClient.SendMessages(replyToken, linebot.NewTextMessage(text)); err != nil {
		h.log.Error("Failed to send LINE reply", err)
	}
}
