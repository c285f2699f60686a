package fcm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
)

// ErrTokenNotRegistered marks a device token the gateway will never deliver to again.
var ErrTokenNotRegistered = errors.New("fcm: registration token not registered")

// Client wraps Firebase Cloud Messaging functionality
type Client struct {
	messagingClient *messaging.Client
	logger          *slog.Logger
}

// NewClient creates a new FCM client from an initialised Firebase app
func NewClient(ctx context.Context, app *firebase.App, logger *slog.Logger) (*Client, error) {
	messagingClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}

	logger.Info("fcm client initialized")
	return &Client{
		messagingClient: messagingClient,
		logger:          logger,
	}, nil
}

// NotificationData contains the data to send in a push notification
type NotificationData struct {
	Title string
	Body  string
	Data  map[string]string // Custom data payload, string values only
}

// Send delivers a push notification to a single device token.
// An unregistered token is reported as ErrTokenNotRegistered.
func (c *Client) Send(ctx context.Context, token string, notification NotificationData) error {
	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: notification.Title,
			Body:  notification.Body,
		},
		Data: notification.Data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default"},
			},
		},
	}

	response, err := c.messagingClient.Send(ctx, message)
	if err != nil {
		if messaging.IsUnregistered(err) {
			return fmt.Errorf("%w: %v", ErrTokenNotRegistered, err)
		}
		return fmt.Errorf("failed to send FCM message: %w", err)
	}

	c.logger.Debug("fcm message sent", "message_id", response)
	return nil
}
