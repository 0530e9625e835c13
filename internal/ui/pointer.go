package ui

import "sync"

// PointerEvent is a pointer-down anywhere on the page. Target names the
// region that received it, e.g. "profile-menu" or "profile-menu/settings".
type PointerEvent struct {
	Target string `json:"target"`
}

// PointerBus fans pointer-down events out to the current subscribers
type PointerBus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(PointerEvent)
}

func NewPointerBus() *PointerBus {
	return &PointerBus{subs: make(map[int]func(PointerEvent))}
}

// Subscribe registers fn and returns the function that removes it. The
// returned function is safe to call more than once.
func (b *PointerBus) Subscribe(fn func(PointerEvent)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
		})
	}
}

// Publish delivers ev to every subscriber. Handlers run without the bus lock
// held, so they may unsubscribe themselves.
func (b *PointerBus) Publish(ev PointerEvent) {
	b.mu.Lock()
	handlers := make([]func(PointerEvent), 0, len(b.subs))
	for _, fn := range b.subs {
		handlers = append(handlers, fn)
	}
	b.mu.Unlock()

	for _, fn := range handlers {
		fn(ev)
	}
}
