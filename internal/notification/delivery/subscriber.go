package delivery

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"

	ridedomain "rideshare-functions/internal/ride/domain"
)

// RideRequestHandler reacts to created ride requests
type RideRequestHandler interface {
	OnCreated(ctx context.Context, requestID string, data map[string]interface{}) error
}

// RideUpdateHandler reacts to updated rides
type RideUpdateHandler interface {
	OnUpdated(ctx context.Context, rideID string, before, after map[string]interface{}) error
}

// Router maps document events to the notifier for their path
type Router struct {
	rideRequests RideRequestHandler
	rides        RideUpdateHandler
	logger       *slog.Logger
}

func NewRouter(rideRequests RideRequestHandler, rides RideUpdateHandler, logger *slog.Logger) *Router {
	return &Router{rideRequests: rideRequests, rides: rides, logger: logger.With("component", "event_router")}
}

// Dispatch routes one event. Events no handler is registered for are dropped.
func (r *Router) Dispatch(ctx context.Context, ev *DocumentEvent) error {
	switch {
	case ev.Kind == EventCreated && ev.Collection() == ridedomain.RideRequestsCollection:
		return r.rideRequests.OnCreated(ctx, ev.DocumentID(), ev.After)
	case ev.Kind == EventUpdated && ev.Collection() == ridedomain.RidesCollection:
		return r.rides.OnUpdated(ctx, ev.DocumentID(), ev.Before, ev.After)
	default:
		r.logger.Debug("no handler for event", "event_id", ev.ID, "kind", ev.Kind, "document", ev.Document)
		return nil
	}
}

// Subscriber receives document events from Pub/Sub
type Subscriber struct {
	pubsubClient *pubsub.Client
	router       *Router
	dedup        Deduper
	subName      string
	logger       *slog.Logger
}

func NewSubscriber(ctx context.Context, projectID, subName string, router *Router, logger *slog.Logger, opts ...option.ClientOption) (*Subscriber, error) {
	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}

	return &Subscriber{
		pubsubClient: client,
		router:       router,
		subName:      subName,
		logger:       logger.With("component", "event_subscriber", "subscription", subName),
	}, nil
}

// Start blocks receiving messages until ctx is cancelled
func (s *Subscriber) Start(ctx context.Context) error {
	sub := s.pubsubClient.Subscription(s.subName)
	exists, err := sub.Exists(ctx)
	if err != nil {
		return fmt.Errorf("check subscription %s: %w", s.subName, err)
	}
	if !exists {
		return fmt.Errorf("subscription %s does not exist", s.subName)
	}

	s.logger.Info("listening for document events")
	err = sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		if s.handleMessage(ctx, msg.ID, msg.Data) {
			msg.Ack()
			return
		}
		msg.Nack()
	})
	if err != nil {
		return fmt.Errorf("receive on %s: %w", s.subName, err)
	}
	return nil
}

// WithDeduper skips events whose id was already handled
func (s *Subscriber) WithDeduper(d Deduper) *Subscriber {
	s.dedup = d
	return s
}

func (s *Subscriber) Close() error {
	return s.pubsubClient.Close()
}

// handleMessage reports whether the message should be acked. Only handler
// errors are redelivered; malformed messages would fail again.
func (s *Subscriber) handleMessage(ctx context.Context, msgID string, data []byte) bool {
	ev, err := DecodeEvent(data)
	if err != nil {
		s.logger.Error("dropping malformed document event", "message_id", msgID, "error", err)
		return true
	}

	claimed := false
	if s.dedup != nil && ev.ID != "" {
		first, err := s.dedup.Claim(ctx, ev.ID)
		switch {
		case err != nil:
			s.logger.Warn("event dedup unavailable, handling anyway", "event_id", ev.ID, "error", err)
		case !first:
			s.logger.Info("skipping redelivered document event", "event_id", ev.ID, "document", ev.Document)
			return true
		default:
			claimed = true
		}
	}

	if err := s.router.Dispatch(ctx, ev); err != nil {
		s.logger.Error("document event handler failed", "message_id", msgID, "document", ev.Document, "error", err)
		if claimed {
			if relErr := s.dedup.Release(ctx, ev.ID); relErr != nil {
				s.logger.Warn("failed to release event claim", "event_id", ev.ID, "error", relErr)
			}
		}
		return false
	}
	return true
}
