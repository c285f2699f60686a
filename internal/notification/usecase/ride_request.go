package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	ridedomain "rideshare-functions/internal/ride/domain"
	userrepo "rideshare-functions/internal/user/repository"
	"rideshare-functions/pkg/fcm"
)

const (
	RideRequestTitle = "New Ride Request"
	RideRequestType  = "ride_request"

	defaultRiderName = "A rider"
)

// RideRequestNotifier tells a driver that a rider asked to join their ride
type RideRequestNotifier struct {
	dispatcher
	logger *slog.Logger
}

func NewRideRequestNotifier(profiles userrepo.ProfileRepository, gateway PushGateway, logger *slog.Logger) *RideRequestNotifier {
	return &RideRequestNotifier{
		dispatcher: dispatcher{profiles: profiles, gateway: gateway},
		logger:     logger.With("component", "ride_request_notifier"),
	}
}

// OnCreated handles a newly created ride_requests/{requestID} document.
// Malformed documents and missing recipients are logged and ignored.
func (n *RideRequestNotifier) OnCreated(ctx context.Context, requestID string, data map[string]interface{}) error {
	log := n.logger.With("invocation_id", uuid.New().String(), "request_id", requestID)

	if data == nil {
		log.Error("missing request data")
		return nil
	}

	driverUID := strings.TrimSpace(toText(data[ridedomain.FieldRequestDriverUID]))
	if driverUID == "" {
		log.Error("ride request has no driver uid")
		return nil
	}

	riderName := strings.TrimSpace(toText(data[ridedomain.FieldRequestRiderName]))
	if riderName == "" {
		riderName = defaultRiderName
	}

	notification := fcm.NotificationData{
		Title: RideRequestTitle,
		Body:  fmt.Sprintf("%s has requested to join your ride.", riderName),
		Data: map[string]string{
			"rideId":   toText(data[ridedomain.FieldRequestRideID]),
			"riderUid": toText(data[ridedomain.FieldRequestRiderUID]),
			"type":     RideRequestType,
			"message":  toText(data[ridedomain.FieldRequestMessage]),
		},
	}

	return n.notifyUser(ctx, log, driverUID, RideRequestType, notification)
}
