package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventRoundParsed   EventType = "round_parsed"
	EventSubmitted     EventType = "submitted"
	EventSubmitRefused EventType = "submit_refused"
	EventCancelled     EventType = "cancelled"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// RoundEvent is emitted when a decision round is recognized in a message.
type RoundEvent struct {
	EventBase
	Dialect   string `json:"dialect"`
	Questions int    `json:"questions"`
	Repairs   int    `json:"repairs"`
}

// DialogEvent is emitted when a dialog submits, refuses submission or is cancelled.
type DialogEvent struct {
	EventBase
	ActiveTab int    `json:"active_tab"`
	Reply     string `json:"reply,omitempty"`
	Error     string `json:"error,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnRoundParsed   func(context.Context, *RoundEvent)
	OnSubmitted     func(context.Context, *DialogEvent)
	OnSubmitRefused func(context.Context, *DialogEvent)
	OnCancelled     func(context.Context, *DialogEvent)
}
