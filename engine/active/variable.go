// Package active provides a small publish/subscribe value holder used to expose
// display state (such as the selected object id) to external consumers.
package active

import "sync"

// variable is the implementation of the Variable interface.
type variable[T any] struct {
	mu *sync.Mutex

	value     T
	nextID    int
	listeners map[int]func(value T)
}

// Variable holds a value and notifies subscribers whenever it is updated.
type Variable[T any] interface {
	// Get returns the current value.
	//
	// Returns:
	//   - T: the current value
	Get() T

	// Update replaces the value and notifies every subscriber with the new value.
	//
	// Parameters:
	//   - value: the new value
	Update(value T)

	// OnUpdate subscribes to updates.
	//
	// Parameters:
	//   - callback: invoked with each new value
	//
	// Returns:
	//   - func(): unsubscribes the callback when called
	OnUpdate(callback func(value T)) func()
}

var _ Variable[string] = &variable[string]{}

// NewVariable creates a Variable holding the initial value.
//
// Parameters:
//   - initial: the starting value
//
// Returns:
//   - Variable[T]: the new variable
func NewVariable[T any](initial T) Variable[T] {
	return &variable[T]{
		mu:        &sync.Mutex{},
		value:     initial,
		listeners: make(map[int]func(T)),
	}
}

func (v *variable[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.value
}

func (v *variable[T]) Update(value T) {
	v.mu.Lock()
	v.value = value
	listeners := make([]func(T), 0, len(v.listeners))
	// Subscribers are notified in subscription order.
	for id := 0; id < v.nextID; id++ {
		if l, ok := v.listeners[id]; ok {
			listeners = append(listeners, l)
		}
	}
	v.mu.Unlock()

	for _, l := range listeners {
		l(value)
	}
}

func (v *variable[T]) OnUpdate(callback func(value T)) func() {
	v.mu.Lock()
	defer v.mu.Unlock()

	id := v.nextID
	v.nextID++
	v.listeners[id] = callback

	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		delete(v.listeners, id)
	}
}
