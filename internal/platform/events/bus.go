package events

import "sync"

// Topic builders for record lifecycle notifications. Reports subscribe to
// the schemas they read from; the write side (or an external hook) publishes.
func SyncTopic(schema string) string   { return "sync:" + schema }
func DeleteTopic(schema string) string { return "delete:" + schema }

// Bus is a minimal in-process observer registry. Listeners run synchronously
// on the publishing goroutine and are expected to do nothing more than flag
// state; reports use them only to mark cached data stale.
type Bus struct {
	mu        sync.Mutex
	listeners map[string][]func()
}

func NewBus() *Bus {
	return &Bus{listeners: make(map[string][]func())}
}

// On registers fn for the given topic.
func (b *Bus) On(topic string, fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[topic] = append(b.listeners[topic], fn)
}

// Publish invokes every listener registered for the topic.
func (b *Bus) Publish(topic string) {
	b.mu.Lock()
	fns := append([]func(){}, b.listeners[topic]...)
	b.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
