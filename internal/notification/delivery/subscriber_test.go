package delivery

import (
	"context"
	"errors"
	"testing"

	"rideshare-functions/pkg/logging"
)

type recordingHandlers struct {
	created []string
	updated []string
	before  map[string]interface{}
	err     error
}

func (h *recordingHandlers) OnCreated(ctx context.Context, requestID string, data map[string]interface{}) error {
	h.created = append(h.created, requestID)
	return h.err
}

func (h *recordingHandlers) OnUpdated(ctx context.Context, rideID string, before, after map[string]interface{}) error {
	h.updated = append(h.updated, rideID)
	h.before = before
	return h.err
}

func newTestSubscriber(h *recordingHandlers) *Subscriber {
	return &Subscriber{router: NewRouter(h, h, logging.Discard()), logger: logging.Discard()}
}

func TestDecodeEventValidates(t *testing.T) {
	bad := []string{
		`not json`,
		`{"kind":"deleted","document":"rides/r1"}`,
		`{"kind":"created","document":"rides"}`,
		`{"kind":"created","document":"rides/r1/comments/c1"}`,
	}
	for _, raw := range bad {
		if _, err := DecodeEvent([]byte(raw)); err == nil {
			t.Fatalf("expected error for %s", raw)
		}
	}

	ev, err := DecodeEvent([]byte(`{"id":"e1","kind":"updated","document":"/rides/r1","before":{"status":"requested"},"after":{"status":"accepted"}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ev.Collection() != "rides" || ev.DocumentID() != "r1" {
		t.Fatalf("unexpected path split %q %q", ev.Collection(), ev.DocumentID())
	}
}

func TestHandleMessageRoutesByPathAndKind(t *testing.T) {
	h := &recordingHandlers{}
	s := newTestSubscriber(h)
	ctx := context.Background()

	msgs := []string{
		`{"kind":"created","document":"ride_requests/q1","after":{"driverUid":"d1"}}`,
		`{"kind":"updated","document":"rides/r1","before":{"status":"requested"},"after":{"status":"accepted"}}`,
		`{"kind":"updated","document":"ride_requests/q1"}`,
		`{"kind":"created","document":"rides/r2"}`,
	}
	for _, m := range msgs {
		if !s.handleMessage(ctx, "m", []byte(m)) {
			t.Fatalf("message should be acked: %s", m)
		}
	}
	if len(h.created) != 1 || h.created[0] != "q1" {
		t.Fatalf("created routed to %v", h.created)
	}
	if len(h.updated) != 1 || h.updated[0] != "r1" || h.before["status"] != "requested" {
		t.Fatalf("updated routed to %v with before %v", h.updated, h.before)
	}
}

func TestHandleMessageAckPolicy(t *testing.T) {
	h := &recordingHandlers{err: errors.New("store unavailable")}
	s := newTestSubscriber(h)
	ctx := context.Background()

	if s.handleMessage(ctx, "m1", []byte(`{"kind":"created","document":"ride_requests/q1"}`)) {
		t.Fatalf("handler failure should be nacked for redelivery")
	}
	if !s.handleMessage(ctx, "m2", []byte(`garbage`)) {
		t.Fatalf("malformed message should be acked")
	}
}
