package eventbus

import (
	"cmp"
	"context"
	"regexp"
	"slices"
	"sync/atomic"
)

type listener struct {
	id       string
	handler  Handler
	priority int
	receiver any
	kind     Kind
	pattern  *regexp.Regexp

	// fired guards once listeners against a second invocation.
	fired atomic.Bool
}

// byPriority orders a snapshot by descending priority. The sort is stable so
// equal priorities keep registration order.
func byPriority(ls []*listener) {
	slices.SortStableFunc(ls, func(a, b *listener) int {
		return cmp.Compare(b.priority, a.priority)
	})
}

type receiverKey struct{}

// ReceiverFromContext returns the receiver a listener was registered with.
func ReceiverFromContext(ctx context.Context) (any, bool) {
	r := ctx.Value(receiverKey{})
	return r, r != nil
}

// Bind adapts a method expression into a Handler invoked on receiver.
//
//	bus.On(topic, eventbus.Bind(panel, (*Panel).OnRoleChanged), eventbus.WithReceiver(panel))
func Bind[R any](receiver R, method func(R, context.Context, Event) error) Handler {
	return func(ctx context.Context, event Event) error {
		return method(receiver, ctx, event)
	}
}
