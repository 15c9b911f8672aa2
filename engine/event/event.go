// Package event provides typed observer lists used by components to publish notifications.
package event

import (
	"sync"
)

// Listener receives the payload of an emitted event.
type Listener[T any] func(T)

type listenerEntry[T any] struct {
	id uint64
	fn Listener[T]
}

// Event is an ordered list of listeners for one kind of notification.
// Listeners run synchronously on the emitting goroutine in the order they connected.
// Connecting or closing from inside a listener is allowed and takes effect on the next Emit.
// The zero value is ready to use.
type Event[T any] struct {
	mu        sync.Mutex
	nextID    uint64
	listeners []listenerEntry[T]
}

// Connection identifies one connected listener.
type Connection interface {
	// Close disconnects the listener. Closing twice is a no-op.
	Close()

	// Connected reports whether the listener is still connected.
	//
	// Returns:
	//   - bool: true until Close is called or the event is cleared
	Connected() bool
}

type connection[T any] struct {
	event *Event[T]
	id    uint64
}

var _ Connection = &connection[int]{}

// Connect adds a listener.
//
// Parameters:
//   - fn: the listener, must not be nil
//
// Returns:
//   - Connection: the handle used to disconnect the listener
func (e *Event[T]) Connect(fn Listener[T]) Connection {
	if fn == nil {
		panic("event: listener cannot be nil")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextID++
	e.listeners = append(e.listeners, listenerEntry[T]{id: e.nextID, fn: fn})
	return &connection[T]{event: e, id: e.nextID}
}

// Emit calls every connected listener with payload.
//
// Parameters:
//   - payload: the value passed to each listener
func (e *Event[T]) Emit(payload T) {
	e.mu.Lock()
	if len(e.listeners) == 0 {
		e.mu.Unlock()
		return
	}
	snapshot := make([]Listener[T], len(e.listeners))
	for i, l := range e.listeners {
		snapshot[i] = l.fn
	}
	e.mu.Unlock()

	for _, fn := range snapshot {
		fn(payload)
	}
}

// ListenerCount returns the number of connected listeners.
func (e *Event[T]) ListenerCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners)
}

// Clear disconnects every listener.
func (e *Event[T]) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	clear(e.listeners)
	e.listeners = e.listeners[:0]
}

func (e *Event[T]) remove(id uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, l := range e.listeners {
		if l.id == id {
			e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
			return true
		}
	}
	return false
}

func (e *Event[T]) has(id uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, l := range e.listeners {
		if l.id == id {
			return true
		}
	}
	return false
}

func (c *connection[T]) Close() {
	c.event.remove(c.id)
}

func (c *connection[T]) Connected() bool {
	return c.event.has(c.id)
}
