package eventbus

import (
	"context"
	"reflect"
	"runtime/debug"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/benbjohnson/clock"
	"github.com/casira/connect/internal/platform/logger"
	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// Bus manages subscriptions and event dispatching.
//
// The three listener stores are guarded by mu. Dispatch copies what it needs
// under the lock and runs handlers without it, so handlers may register,
// unsubscribe, clear or emit re-entrantly.
type Bus struct {
	mu       sync.Mutex
	normal   map[Topic][]*listener
	once     map[Topic][]*listener
	wildcard []*listener

	debug    atomic.Bool
	logger   logger.Logger
	observer Observer
	clock    clock.Clock
}

// NewBus creates a new event bus.
func NewBus(log logger.Logger, opts ...Option) *Bus {
	b := &Bus{
		normal: make(map[Topic][]*listener),
		once:   make(map[Topic][]*listener),
		logger: log,
		clock:  clock.New(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// On registers a listener for every emission of topic.
func (b *Bus) On(topic Topic, handler Handler, opts ...ListenOption) Unsubscribe {
	l := newListener(KindNormal, handler, opts)

	b.mu.Lock()
	b.normal[topic] = append(b.normal[topic], l)
	b.mu.Unlock()

	b.trace(context.Background(), "registered listener", "topic", topic, "listener_id", l.id, "priority", l.priority)
	return onceFunc(func() { b.removeFrom(b.normalStore, topic, l) })
}

// Once registers a listener that fires on the next emission of topic only.
// Unsubscribing before that emission prevents it from ever firing.
func (b *Bus) Once(topic Topic, handler Handler, opts ...ListenOption) Unsubscribe {
	l := newListener(KindOnce, handler, opts)

	b.mu.Lock()
	b.once[topic] = append(b.once[topic], l)
	b.mu.Unlock()

	b.trace(context.Background(), "registered once listener", "topic", topic, "listener_id", l.id, "priority", l.priority)
	return onceFunc(func() { b.removeFrom(b.onceStore, topic, l) })
}

// OnPattern registers a listener for every topic matched by pattern, where
// "*" stands for any sequence of characters.
func (b *Bus) OnPattern(pattern string, handler Handler) Unsubscribe {
	l := newListener(KindWildcard, handler, nil)
	l.pattern = compilePattern(pattern)

	b.mu.Lock()
	b.wildcard = append(b.wildcard, l)
	b.mu.Unlock()

	b.trace(context.Background(), "registered pattern listener", "pattern", pattern, "listener_id", l.id)
	return onceFunc(func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if i := slices.Index(b.wildcard, l); i >= 0 {
			b.wildcard = slices.Delete(b.wildcard, i, i+1)
		}
	})
}

// Off removes every normal listener registered for topic.
func (b *Bus) Off(topic Topic) {
	b.mu.Lock()
	delete(b.normal, topic)
	b.mu.Unlock()

	b.trace(context.Background(), "removed all listeners", "topic", topic)
}

// OffReceiver removes every normal and once listener registered with
// WithReceiver(receiver) and reports how many were removed.
func (b *Bus) OffReceiver(receiver any) int {
	if receiver == nil || !reflect.TypeOf(receiver).Comparable() {
		return 0
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	removed := 0
	for _, store := range []map[Topic][]*listener{b.normal, b.once} {
		for topic, ls := range store {
			kept := slices.DeleteFunc(slices.Clone(ls), func(l *listener) bool {
				return l.receiver == receiver
			})
			removed += len(ls) - len(kept)
			if len(kept) == 0 {
				delete(store, topic)
			} else {
				store[topic] = kept
			}
		}
	}
	return removed
}

// Emit publishes payload on topic and returns once every matched listener has
// been invoked. Listener failures are logged, never returned.
func (b *Bus) Emit(ctx context.Context, topic Topic, payload any, opts ...EmitOption) {
	event := b.newEvent(topic, payload, opts)
	b.dispatch(ctx, event, b.normalSnapshot(topic))
}

// EmitAsync is Emit without waiting. The event and the normal listener
// snapshot are taken before it returns; the channel closes when dispatch ends.
func (b *Bus) EmitAsync(ctx context.Context, topic Topic, payload any, opts ...EmitOption) <-chan struct{} {
	event := b.newEvent(topic, payload, opts)
	normal := b.normalSnapshot(topic)

	done := make(chan struct{})
	go func() {
		defer close(done)
		b.dispatch(ctx, event, normal)
	}()
	return done
}

// Clear removes every listener. Emissions already in progress keep dispatching
// to the snapshots they hold.
func (b *Bus) Clear() {
	b.mu.Lock()
	b.normal = make(map[Topic][]*listener)
	b.once = make(map[Topic][]*listener)
	b.wildcard = nil
	b.mu.Unlock()

	b.trace(context.Background(), "all listeners cleared")
}

// SetDebugMode toggles trace logging of registrations and dispatch.
func (b *Bus) SetDebugMode(enabled bool) {
	b.debug.Store(enabled)
}

// DebugMode reports whether trace logging is on.
func (b *Bus) DebugMode() bool {
	return b.debug.Load()
}

func (b *Bus) newEvent(topic Topic, payload any, opts []EmitOption) Event {
	cfg := emitConfig{source: SourceUnknown}
	for _, opt := range opts {
		opt(&cfg)
	}
	return Event{
		ID:        uuid.NewString(),
		Topic:     topic,
		Payload:   payload,
		Timestamp: b.clock.Now(),
		Source:    cfg.source,
	}
}

func (b *Bus) dispatch(ctx context.Context, event Event, normal []*listener) {
	defer func() {
		if r := recover(); r != nil {
			b.engineFault(ctx, event.Topic, r)
		}
	}()

	b.trace(ctx, "emitting event", "topic", event.Topic, "event_id", event.ID, "source", event.Source)

	start := b.clock.Now()
	invoked := 0
	var failures error

	run := func(ls []*listener) {
		for _, l := range ls {
			invoked++
			failures = multierr.Append(failures, b.invoke(ctx, l, event))
		}
	}

	run(normal)
	run(b.takeOnce(event.Topic))
	run(b.wildcardSnapshot(event.Topic))

	failed := len(multierr.Errors(failures))
	if failed > 0 {
		b.logger.Warn(ctx, "emission completed with listener failures",
			"topic", event.Topic,
			"event_id", event.ID,
			"listeners", invoked,
			"failures", failed,
			"error", failures,
		)
	}
	if b.observer != nil {
		b.observer.EmissionDone(event.Topic, invoked, failed, b.clock.Since(start))
	}
}

// invoke runs one handler behind its own recover so a panic is just another
// listener failure.
func (b *Bus) invoke(ctx context.Context, l *listener, event Event) error {
	start := b.clock.Now()

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = &PanicError{Value: r, Stack: string(debug.Stack())}
			}
		}()
		hctx := ctx
		if l.receiver != nil {
			hctx = context.WithValue(ctx, receiverKey{}, l.receiver)
		}
		return l.handler(hctx, event)
	}()

	if err != nil {
		err = &ListenerError{ListenerID: l.id, Topic: event.Topic, Kind: l.kind, Err: err}
		b.logger.Error(ctx, "event listener failed",
			"topic", event.Topic,
			"listener_id", l.id,
			"kind", l.kind.String(),
			"error", err,
		)
	}
	if b.observer != nil {
		b.observer.ListenerDone(event.Topic, l.kind, err, b.clock.Since(start))
	}
	return err
}

// engineFault reports a dispatch fault on TopicError. A fault while
// dispatching TopicError itself is only logged, which bounds the recursion.
func (b *Bus) engineFault(ctx context.Context, topic Topic, value any) {
	err := &DispatchError{Topic: topic, Value: value}
	b.logger.Error(ctx, "event dispatch failed", "topic", topic, "error", err)

	if topic == TopicError {
		return
	}
	b.Emit(ctx, TopicError, ErrorPayload{OriginalEvent: topic, Err: err}, WithSource(SourceEventBus))
}

func (b *Bus) normalSnapshot(topic Topic) []*listener {
	b.mu.Lock()
	ls := slices.Clone(b.normal[topic])
	b.mu.Unlock()

	byPriority(ls)
	return ls
}

// takeOnce removes the topic's once listeners from the store and returns the
// ones this emission won.
func (b *Bus) takeOnce(topic Topic) []*listener {
	b.mu.Lock()
	ls := b.once[topic]
	delete(b.once, topic)
	b.mu.Unlock()

	won := make([]*listener, 0, len(ls))
	for _, l := range ls {
		if l.fired.CompareAndSwap(false, true) {
			won = append(won, l)
		}
	}
	byPriority(won)
	return won
}

func (b *Bus) wildcardSnapshot(topic Topic) []*listener {
	b.mu.Lock()
	all := slices.Clone(b.wildcard)
	b.mu.Unlock()

	matched := all[:0]
	for _, l := range all {
		if l.pattern.MatchString(string(topic)) {
			matched = append(matched, l)
		}
	}
	return matched
}

func (b *Bus) normalStore() map[Topic][]*listener { return b.normal }
func (b *Bus) onceStore() map[Topic][]*listener   { return b.once }

// removeFrom deletes l from the store returned by store. The store is resolved
// under the lock because Clear swaps the maps.
func (b *Bus) removeFrom(store func() map[Topic][]*listener, topic Topic, l *listener) {
	b.mu.Lock()
	defer b.mu.Unlock()

	m := store()
	ls := m[topic]
	i := slices.Index(ls, l)
	if i < 0 {
		return
	}
	if len(ls) == 1 {
		delete(m, topic)
		return
	}
	m[topic] = slices.Delete(slices.Clone(ls), i, i+1)
}

func (b *Bus) trace(ctx context.Context, msg string, args ...any) {
	if b.debug.Load() {
		b.logger.Debug(ctx, "[EventBus] "+msg, args...)
	}
}

func newListener(kind Kind, handler Handler, opts []ListenOption) *listener {
	if handler == nil {
		panic(ErrNilHandler)
	}
	var cfg listenConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return &listener{
		id:       uuid.NewString(),
		handler:  handler,
		priority: cfg.priority,
		receiver: cfg.receiver,
		kind:     kind,
	}
}

func onceFunc(f func()) Unsubscribe {
	return Unsubscribe(sync.OnceFunc(f))
}
