package eventbus

import "slices"

// Stats is a point-in-time view of the listener stores.
type Stats struct {
	NormalTopics       []Topic `json:"normalEvents"`
	OnceTopics         []Topic `json:"onceEvents"`
	TotalListeners     int     `json:"totalListeners"`
	TotalOnceListeners int     `json:"totalOnceListeners"`
	WildcardListeners  int     `json:"wildcardListeners"`
	TotalTopics        int     `json:"totalEvents"`
}

// Stats returns a snapshot of the registered listeners. Topic lists are sorted.
func (b *Bus) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := Stats{
		NormalTopics:      make([]Topic, 0, len(b.normal)),
		OnceTopics:        make([]Topic, 0, len(b.once)),
		WildcardListeners: len(b.wildcard),
	}
	for topic, ls := range b.normal {
		s.NormalTopics = append(s.NormalTopics, topic)
		s.TotalListeners += len(ls)
	}
	for topic, ls := range b.once {
		s.OnceTopics = append(s.OnceTopics, topic)
		s.TotalOnceListeners += len(ls)
	}
	slices.Sort(s.NormalTopics)
	slices.Sort(s.OnceTopics)
	s.TotalTopics = len(s.NormalTopics) + len(s.OnceTopics)
	return s
}
