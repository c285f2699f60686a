package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	userrepo "rideshare-functions/internal/user/repository"
	"rideshare-functions/pkg/fcm"
	"rideshare-functions/pkg/metrics"
)

// PushGateway sends a notification to a single device token
type PushGateway interface {
	Send(ctx context.Context, token string, notification fcm.NotificationData) error
}

// dispatcher resolves a user's device token, sends, and clears the token when
// the gateway reports it unregistered. Send failures are never returned.
type dispatcher struct {
	profiles userrepo.ProfileRepository
	gateway  PushGateway
}

func (d *dispatcher) notifyUser(ctx context.Context, log *slog.Logger, uid, kind string, n fcm.NotificationData) error {
	profile, err := d.profiles.FindByID(ctx, uid)
	if err != nil {
		return fmt.Errorf("load profile %s: %w", uid, err)
	}
	if profile == nil || profile.FCMToken == "" {
		log.Warn("no push token for recipient", "uid", uid)
		return nil
	}

	err = d.gateway.Send(ctx, profile.FCMToken, n)
	switch {
	case err == nil:
		metrics.NotificationsSent.WithLabelValues(kind).Inc()
		log.Info("notification sent", "uid", uid)
	case errors.Is(err, fcm.ErrTokenNotRegistered):
		metrics.NotificationsFailed.WithLabelValues(kind, "unregistered").Inc()
		log.Warn("push token no longer registered, removing from profile", "uid", uid)
		if err := d.profiles.ClearPushToken(ctx, uid); err != nil {
			log.Error("failed to remove stale push token", "uid", uid, "error", err)
			return nil
		}
		metrics.StaleTokensCleared.Inc()
	default:
		metrics.NotificationsFailed.WithLabelValues(kind, "send").Inc()
		log.Error("failed to send notification", "uid", uid, "error", err)
	}
	return nil
}

// toText renders a document value as a data payload string.
func toText(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
