package line

import (
	"context"
	"fmt"
	"medreminder/internal/domain/entity"
	appErrors "medreminder/internal/pkg/errors"
	"medreminder/internal/pkg/logger"
	"net/http"

	"github.com/line/line-bot-sdk-go/v7/linebot"
	"golang.org/x/time/rate"
)

// Client wraps the linebot.Client and delivers notifications to a single recipient.
type Client struct {
	*linebot.Client
	recipient string
	limiter   *rate.Limiter
	log       logger.Logger
}

// NewClient creates a LINE Bot client. perSecond caps outgoing pushes;
// zero disables the limit.
func NewClient(channelSecret, channelToken, recipient string, perSecond float64, log logger.Logger, options ...linebot.ClientOption) (*Client, error) {
	bot, err := linebot.New(channelSecret, channelToken, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create LINE Bot client: %w", err)
	}
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	log.Info("Successfully created LINE Bot client.")
	return &Client{
		Client:    bot,
		recipient: recipient,
		limiter:   rate.NewLimiter(limit, 1),
		log:       log,
	}, nil
}

// Deliver pushes the notification text to the recipient.
func (c *Client) Deliver(ctx context.Context, notification *entity.ScheduledNotification, channel *entity.NotificationChannel) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrDelivery, err)
	}
	text := notification.Title
	if notification.Body != "" {
		text += "\n" + notification.Body
	}
	if _, err := c.PushMessage(c.recipient, linebot.NewTextMessage(text)).WithContext(ctx).Do(); err != nil {
		return fmt.Errorf("%w: push to %s: %v", appErrors.ErrDelivery, c.recipient, err)
	}
	channelName := ""
	if channel != nil {
		channelName = channel.Name
	}
	c.log.Debug(fmt.Sprintf("Pushed notification %s to %s (channel %q).", notification.Identifier, c.recipient, channelName))
	return nil
}

// Reachable checks that the recipient can receive pushes, which requires
// them to follow the bot.
func (c *Client) Reachable(ctx context.Context) error {
	if _, err := c.GetProfile(c.recipient).WithContext(ctx).Do(); err != nil {
		return fmt.Errorf("%w: recipient %s unreachable: %v", appErrors.ErrPermissionDenied, c.recipient, err)
	}
	return nil
}

// Recipient returns the user ID notifications are pushed to.
func (c *Client) Recipient() string {
	return c.recipient
}

// ParseRequest parses incoming webhook requests.
func (c *Client) ParseRequest(r *http.Request) ([]*linebot.Event, error) {
	return c.Client.ParseRequest(r)
}

// SendMessages sends one or more messages using the ReplyMessage API.
func (c *Client) SendMessages(replyToken string, messages ...linebot.SendingMessage) error {
	if _, err := c.ReplyMessage(replyToken, messages...).Do(); err != nil {
		return err
	}
	c.log.Debug("Successfully sent reply message.")
	return nil
}
