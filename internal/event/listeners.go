// Package event provides the typed callback lists used for in-process
// notifications between services and presenters.
package event

import "sync"

// Listeners is an ordered set of typed callbacks. The zero value is ready to
// use. Callbacks run outside the lock so they may subscribe, unsubscribe or
// call back into whatever emitted them.
type Listeners[T any] struct {
	mu     sync.Mutex
	nextID int
	fns    []listener[T]
}

type listener[T any] struct {
	id int
	fn func(T)
}

// Add registers fn and returns a function that removes it. Removing twice
// is a no-op.
func (l *Listeners[T]) Add(fn func(T)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextID++
	id := l.nextID
	l.fns = append(l.fns, listener[T]{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { l.remove(id) })
	}
}

func (l *Listeners[T]) remove(id int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, ln := range l.fns {
		if ln.id == id {
			l.fns = append(l.fns[:i:i], l.fns[i+1:]...)
			return
		}
	}
}

// Emit calls every registered callback in registration order. Callbacks
// added during Emit are not called for this value.
func (l *Listeners[T]) Emit(v T) {
	l.mu.Lock()
	fns := make([]func(T), len(l.fns))
	for i, ln := range l.fns {
		fns[i] = ln.fn
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}

// Len returns the number of registered callbacks.
func (l *Listeners[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.fns)
}

// Reset drops every callback.
func (l *Listeners[T]) Reset() {
	l.mu.Lock()
	l.fns = nil
	l.mu.Unlock()
}
