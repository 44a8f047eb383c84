package fabricate

import (
	"context"
	"encoding/json"
)

// EventKind names what happened to an inventory.
type EventKind string

const (
	EventCrafted  EventKind = "crafted"
	EventSalvaged EventKind = "salvaged"
)

// NotificationEvent describes a completed craft or salvage.
type NotificationEvent struct {
	Kind        EventKind   `json:"kind"`
	ActorID     ActorID     `json:"actor_id"`
	RecipeID    RecipeID    `json:"recipe_id,omitempty"`
	Option      string      `json:"option,omitempty"`
	ComponentID ComponentID `json:"component_id,omitempty"`
	Consumed    Record      `json:"consumed"`
	Produced    Record      `json:"produced"`
	Timestamp   int64       `json:"timestamp"`
}

func (ne NotificationEvent) JSON() ([]byte, error) {
	return json.Marshal(ne)
}

// Notifier delivers events to one destination.
type Notifier interface {
	ID() string
	// Type is the registration type, "webhook" or "websocket".
	Type() string
	Notify(ctx context.Context, event NotificationEvent) error
	Close() error
}

// EventSink receives inventory events as they happen.
type EventSink interface {
	Publish(event NotificationEvent)
}
