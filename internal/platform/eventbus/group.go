package eventbus

import "sync"

// Group collects the unsubscribe handles of one consumer so they can be
// released together.
type Group struct {
	mu    sync.Mutex
	unsub []Unsubscribe
}

// Add records handles and returns the group for chaining.
func (g *Group) Add(unsub ...Unsubscribe) *Group {
	g.mu.Lock()
	g.unsub = append(g.unsub, unsub...)
	g.mu.Unlock()
	return g
}

// Len returns the number of handles currently held.
func (g *Group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.unsub)
}

// Close calls every handle in reverse order and empties the group.
func (g *Group) Close() {
	g.mu.Lock()
	unsub := g.unsub
	g.unsub = nil
	g.mu.Unlock()

	for i := len(unsub) - 1; i >= 0; i-- {
		unsub[i]()
	}
}
