package delivery

import (
	"encoding/json"
	"fmt"
	"strings"
)

// EventKind is the kind of document change
type EventKind string

const (
	EventCreated EventKind = "created"
	EventUpdated EventKind = "updated"
)

// DocumentEvent is the envelope published for every document change
type DocumentEvent struct {
	ID       string                 `json:"id"`
	Kind     EventKind              `json:"kind"`
	Document string                 `json:"document"` // collection/{id}
	Before   map[string]interface{} `json:"before,omitempty"`
	After    map[string]interface{} `json:"after,omitempty"`
}

// DecodeEvent parses and validates an envelope
func DecodeEvent(data []byte) (*DocumentEvent, error) {
	var ev DocumentEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("decode document event: %w", err)
	}
	if ev.Kind != EventCreated && ev.Kind != EventUpdated {
		return nil, fmt.Errorf("unknown event kind %q", ev.Kind)
	}
	if _, _, err := splitPath(ev.Document); err != nil {
		return nil, err
	}
	return &ev, nil
}

// Collection and DocumentID split the document path; DecodeEvent guarantees it is well formed.
func (e *DocumentEvent) Collection() string {
	c, _, _ := splitPath(e.Document)
	return c
}

func (e *DocumentEvent) DocumentID() string {
	_, id, _ := splitPath(e.Document)
	return id
}

func splitPath(path string) (string, string, error) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("document path %q is not collection/{id}", path)
	}
	return parts[0], parts[1], nil
}
