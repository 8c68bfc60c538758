// Package loading tracks outstanding asynchronous load operations, aggregates their
// progress and fires completion listeners once every registered item has finished.
package loading

import (
	"log"
	"sync"
)

// coordinator is the implementation of the Coordinator interface.
type coordinator struct {
	mu *sync.Mutex

	registered map[string]int
	completed  map[string]int
	pending    int
	done       int

	progress map[string]float64

	loadListeners     []func()
	progressListeners []func(fraction float64)

	verbose bool
}

// Coordinator tracks named units of asynchronous work for a single display.
// Every component that starts an asynchronous load registers an item and
// completes it when the load resolves, whether it succeeded or not.
type Coordinator interface {
	// Register adds a loadable item. Registering the same id twice expects two completions.
	//
	// Parameters:
	//   - id: the identifier of the load item
	Register(id string)

	// Complete marks one registration of id as resolved and reports its progress as 1.
	// When every registered item has completed, all load listeners fire exactly once and
	// the coordinator starts a new cycle with no counts, items or listeners of either
	// kind. Completions for ids that have no outstanding registration are ignored.
	//
	// Parameters:
	//   - id: the identifier of the load item
	Complete(id string)

	// ReportProgress records fractional progress for id and notifies progress listeners
	// with the mean progress across all known items.
	//
	// Parameters:
	//   - id: the identifier of the load item
	//   - fraction: progress in [0, 1]
	ReportProgress(id string, fraction float64)

	// OnAllLoaded registers a listener fired when the current cycle completes.
	//
	// Parameters:
	//   - callback: the listener
	OnAllLoaded(callback func())

	// OnAllLoadedWithCheck fires callback immediately if nothing is pending, otherwise
	// registers it like OnAllLoaded.
	//
	// Parameters:
	//   - callback: the listener
	OnAllLoadedWithCheck(callback func())

	// OnProgress registers a listener receiving the mean progress fraction. Like load
	// listeners it is dropped when the cycle completes or on Reset.
	//
	// Parameters:
	//   - callback: the listener
	OnProgress(callback func(fraction float64))

	// Pending returns the number of registrations not yet completed.
	//
	// Returns:
	//   - int: outstanding item count
	Pending() int

	// Reset clears all counts, items and listeners.
	Reset()
}

var _ Coordinator = &coordinator{}

// NewCoordinator creates a new Coordinator with the provided options applied.
//
// Parameters:
//   - options: variadic CoordinatorBuilderOption functions
//
// Returns:
//   - Coordinator: the new coordinator
func NewCoordinator(options ...CoordinatorBuilderOption) Coordinator {
	c := &coordinator{
		mu: &sync.Mutex{},
	}
	c.clear()

	for _, option := range options {
		option(c)
	}

	return c
}

func (c *coordinator) clear() {
	c.registered = make(map[string]int)
	c.completed = make(map[string]int)
	c.progress = make(map[string]float64)
	c.pending = 0
	c.done = 0
	c.loadListeners = nil
	c.progressListeners = nil
}

func (c *coordinator) Register(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.registered[id]++
	c.pending++
	c.progress[id] = 0
}

func (c *coordinator) Complete(id string) {
	c.mu.Lock()
	if c.completed[id] >= c.registered[id] {
		c.mu.Unlock()
		if c.verbose {
			log.Printf("loading: completion for unregistered item %q ignored", id)
		}
		return
	}
	c.completed[id]++
	c.done++
	c.progress[id] = 1

	mean := c.meanProgress()
	progressListeners := append([]func(float64){}, c.progressListeners...)

	var loadListeners []func()
	if c.done == c.pending {
		loadListeners = c.loadListeners
		c.clear()
	}
	c.mu.Unlock()

	for _, listener := range progressListeners {
		listener(mean)
	}
	for _, listener := range loadListeners {
		listener()
	}
}

func (c *coordinator) ReportProgress(id string, fraction float64) {
	c.mu.Lock()
	c.progress[id] = fraction
	mean := c.meanProgress()
	listeners := append([]func(float64){}, c.progressListeners...)
	c.mu.Unlock()

	for _, listener := range listeners {
		listener(mean)
	}
}

func (c *coordinator) meanProgress() float64 {
	if len(c.progress) == 0 {
		return 0
	}
	total := 0.0
	for _, p := range c.progress {
		total += p
	}
	return total / float64(len(c.progress))
}

func (c *coordinator) OnAllLoaded(callback func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loadListeners = append(c.loadListeners, callback)
}

func (c *coordinator) OnAllLoadedWithCheck(callback func()) {
	c.mu.Lock()
	if c.pending > 0 && c.pending != c.done {
		c.loadListeners = append(c.loadListeners, callback)
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()
	callback()
}

func (c *coordinator) OnProgress(callback func(fraction float64)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.progressListeners = append(c.progressListeners, callback)
}

func (c *coordinator) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending - c.done
}

func (c *coordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clear()
}
