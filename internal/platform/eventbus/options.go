package eventbus

import (
	"time"

	"github.com/benbjohnson/clock"
)

// Observer receives dispatch measurements. Implementations must not block.
type Observer interface {
	ListenerDone(topic Topic, kind Kind, err error, elapsed time.Duration)
	EmissionDone(topic Topic, listeners, failures int, elapsed time.Duration)
}

// Option configures a Bus.
type Option func(*Bus)

// WithObserver attaches an Observer to the bus.
func WithObserver(o Observer) Option {
	return func(b *Bus) {
		b.observer = o
	}
}

// WithClock replaces the wall clock used for event timestamps.
func WithClock(c clock.Clock) Option {
	return func(b *Bus) {
		if c != nil {
			b.clock = c
		}
	}
}

// WithDebug sets the initial debug mode.
func WithDebug(enabled bool) Option {
	return func(b *Bus) {
		b.debug.Store(enabled)
	}
}

type listenConfig struct {
	priority int
	receiver any
}

// ListenOption configures a single registration.
type ListenOption func(*listenConfig)

// WithPriority sets the dispatch priority. Higher values run earlier; the default is 0.
func WithPriority(p int) ListenOption {
	return func(c *listenConfig) {
		c.priority = p
	}
}

// WithReceiver binds the listener to a receiver. The receiver is available
// to the handler through ReceiverFromContext and is the key for OffReceiver.
func WithReceiver(receiver any) ListenOption {
	return func(c *listenConfig) {
		c.receiver = receiver
	}
}

type emitConfig struct {
	source string
}

// EmitOption configures a single emission.
type EmitOption func(*emitConfig)

// WithSource labels the provenance of an emitted event.
func WithSource(source string) EmitOption {
	return func(c *emitConfig) {
		if source != "" {
			c.source = source
		}
	}
}
