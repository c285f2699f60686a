package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	ridedomain "rideshare-functions/internal/ride/domain"
	userrepo "rideshare-functions/internal/user/repository"
	"rideshare-functions/pkg/fcm"
)

const (
	RideAcceptedTitle = "Ride Accepted"
	RideAcceptedBody  = "A driver has accepted your ride request. 🎉"
	RideAcceptedType  = "rideAccepted"
)

// RideAcceptedNotifier tells the rider when their ride moves into accepted
type RideAcceptedNotifier struct {
	dispatcher
	logger *slog.Logger
}

func NewRideAcceptedNotifier(profiles userrepo.ProfileRepository, gateway PushGateway, logger *slog.Logger) *RideAcceptedNotifier {
	return &RideAcceptedNotifier{
		dispatcher: dispatcher{profiles: profiles, gateway: gateway},
		logger:     logger.With("component", "ride_accepted_notifier"),
	}
}

// BecameAccepted reports whether the status changed and landed on accepted.
func BecameAccepted(before, after map[string]interface{}) bool {
	prev := toText(before[ridedomain.FieldStatus])
	next := toText(after[ridedomain.FieldStatus])
	return prev != next && next == string(ridedomain.RideStatusAccepted)
}

// OnUpdated handles an update of rides/{rideID}. Every transition other than
// into accepted is ignored.
func (n *RideAcceptedNotifier) OnUpdated(ctx context.Context, rideID string, before, after map[string]interface{}) error {
	if !BecameAccepted(before, after) {
		return nil
	}
	log := n.logger.With("invocation_id", uuid.New().String(), "ride_id", rideID)

	riderID := strings.TrimSpace(toText(after[ridedomain.FieldRiderID]))
	if riderID == "" {
		log.Error("accepted ride has no rider id")
		return nil
	}

	notification := fcm.NotificationData{
		Title: RideAcceptedTitle,
		Body:  RideAcceptedBody,
		Data: map[string]string{
			"rideId": rideID,
			"type":   RideAcceptedType,
		},
	}

	// The rider received the failed send, so a stale token is cleared on the rider.
	return n.notifyUser(ctx, log, riderID, RideAcceptedType, notification)
}
