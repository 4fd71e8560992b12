package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lomoval/strikeboard/internal/storage"
)

type Kind string

const (
	KindShare  Kind = "share"
	KindStatus Kind = "status"
)

type Message struct {
	Kind     Kind      `json:"kind"`
	EventID  string    `json:"eventId"`
	Title    string    `json:"title"`
	Location string    `json:"location"`
	Time     time.Time `json:"time"`
	Status   string    `json:"status,omitempty"`
}

func NewShareMessage(e storage.Event) Message {
	return Message{Kind: KindShare, EventID: e.ID, Title: e.Title, Location: e.Location, Time: e.StartTime}
}

func NewStatusMessage(e storage.Event, status string) Message {
	return Message{Kind: KindStatus, EventID: e.ID, Title: e.Title, Location: e.Location, Time: e.StartTime, Status: status}
}

// ParseMessage decodes a queued message and rejects unknown kinds.
func ParseMessage(data []byte) (Message, error) {
	m := Message{}
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, fmt.Errorf("failed to parse message: %w", err)
	}
	switch m.Kind {
	case KindShare, KindStatus:
		return m, nil
	default:
		return Message{}, fmt.Errorf("unknown message kind %q", m.Kind)
	}
}

// Share publishes the event to the share queue.
func (r *Provider) Share(_ context.Context, e storage.Event) error {
	return r.PublishMessage(NewShareMessage(e))
}
