package events

import "time"

// Event is anything the service announces on the bus: ingest results,
// completed turns, deletions. Consumers live outside this process.
type Event interface {
	// EventType returns the event code, e.g. "BOOK_INGESTED".
	EventType() string

	// Payload returns the event data as published.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the concrete carrier the constructors in this package
// return.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}
