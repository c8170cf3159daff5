package loopback

import (
	"sort"
	"sync"

	"github.com/san-kum/sway/internal/bridge"
)

// Backend is the loopback host's event channel. UI listeners receive
// what the host publishes; events the UI emits go to host handlers.
type Backend struct {
	mu        sync.Mutex
	next      bridge.ListenerID
	listeners map[string]map[bridge.ListenerID]func(any)
	handlers  map[string]func(any)
	emitted   []string
}

func newBackend() *Backend {
	return &Backend{
		listeners: map[string]map[bridge.ListenerID]func(any){},
		handlers:  map[string]func(any){},
	}
}

func (b *Backend) AddEventListener(event string, fn func(any)) (bridge.ListenerID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	if b.listeners[event] == nil {
		b.listeners[event] = map[bridge.ListenerID]func(any){}
	}
	b.listeners[event][b.next] = fn
	return b.next, nil
}

func (b *Backend) RemoveEventListener(event string, id bridge.ListenerID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.listeners[event], id)
	if len(b.listeners[event]) == 0 {
		delete(b.listeners, event)
	}
	return nil
}

// EmitEvent delivers a UI event to the host handler registered for it.
func (b *Backend) EmitEvent(event string, payload any) error {
	b.mu.Lock()
	b.emitted = append(b.emitted, event)
	h := b.handlers[event]
	b.mu.Unlock()
	if h != nil {
		h(payload)
	}
	return nil
}

// Handle registers the host-side handler for a UI event.
func (b *Backend) Handle(event string, fn func(any)) {
	b.mu.Lock()
	b.handlers[event] = fn
	b.mu.Unlock()
}

// Publish delivers payload to every UI listener of event, in
// registration order, on the calling goroutine.
func (b *Backend) Publish(event string, payload any) {
	b.mu.Lock()
	ids := make([]bridge.ListenerID, 0, len(b.listeners[event]))
	for id := range b.listeners[event] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	fns := make([]func(any), len(ids))
	for i, id := range ids {
		fns[i] = b.listeners[event][id]
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(payload)
	}
}

// Listeners counts the UI listeners registered for event.
func (b *Backend) Listeners(event string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners[event])
}

// Emitted returns the names of UI events received so far.
func (b *Backend) Emitted() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.emitted...)
}
