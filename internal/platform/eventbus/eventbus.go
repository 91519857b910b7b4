// Package eventbus is the process-wide publish/subscribe bus that decouples
// producers of domain events from their consumers.
//
// Dispatch for one emission runs three phases in a fixed order: normal
// listeners, once listeners, then wildcard listeners. Inside the first two
// phases listeners run sequentially by descending priority, with registration
// order breaking ties. A failing listener never stops the batch and never
// becomes the emitter's failure.
package eventbus

import (
	"context"
	"time"
)

// Topic is the type for event topics.
type Topic string

// TopicError receives a synthetic event when the dispatch engine itself faults.
const TopicError Topic = "error"

const (
	// SourceUnknown is the Source of events emitted without WithSource.
	SourceUnknown = "unknown"

	// SourceEventBus is the Source of events synthesized by the bus.
	SourceEventBus = "EventBus"
)

// Event represents a message passed on the bus.
type Event struct {
	ID        string
	Topic     Topic
	Payload   any // The data associated with the event.
	Timestamp time.Time
	Source    string
}

// Handler is a function that processes an event. A returned error or a panic
// counts as a listener failure.
type Handler func(ctx context.Context, event Event) error

// Unsubscribe removes exactly one listener. Calling it more than once is a no-op.
type Unsubscribe func()

// ErrorPayload is the payload of events published on TopicError.
type ErrorPayload struct {
	OriginalEvent Topic
	Err           error
}

// Kind tells which store a listener lives in.
type Kind int

const (
	KindNormal Kind = iota
	KindOnce
	KindWildcard
)

func (k Kind) String() string {
	switch k {
	case KindNormal:
		return "normal"
	case KindOnce:
		return "once"
	case KindWildcard:
		return "wildcard"
	default:
		return "unknown"
	}
}
