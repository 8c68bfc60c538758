package loader

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// DefaultDecoderWorkers is the worker count of the decode pool.
const DefaultDecoderWorkers = 4

// decoder is the implementation of the Decoder interface.
type decoder struct {
	mu *sync.Mutex

	workers int
	pool    worker.DynamicWorkerPool

	refs           int
	disposePending bool
	generation     int
	taskID         int
	verbose        bool
}

// Decoder is the shared resource behind binary mesh decoding. It owns a worker pool
// that fans primitive extraction out across goroutines.
//
// The pool is created lazily by the first Acquire and shared by every concurrent
// decode through ref-counted handles. Dispose releases it once no handle is
// outstanding; an Acquire after that creates a fresh pool.
type Decoder interface {
	// Acquire returns a handle on the shared pool, creating the pool when none is live.
	// Every handle must be released exactly once.
	//
	// Returns:
	//   - DecoderHandle: the handle
	Acquire() DecoderHandle

	// Dispose releases the pool. With handles still outstanding the release is deferred
	// until the last of them is released. Calling Dispose again is a no-op.
	Dispose()

	// Live reports whether a pool currently exists.
	//
	// Returns:
	//   - bool: true between creation and the final release after Dispose
	Live() bool

	// Refs returns the number of outstanding handles.
	//
	// Returns:
	//   - int: the handle count
	Refs() int

	// Generation counts how many pools have been created so far.
	//
	// Returns:
	//   - int: the number of pool creations
	Generation() int
}

// DecoderHandle is one reference on the shared decode pool.
type DecoderHandle interface {
	// Run executes every task on the pool and waits for all of them.
	//
	// Parameters:
	//   - tasks: the work items
	//
	// Returns:
	//   - error: the joined task errors, or nil
	Run(tasks []func() error) error

	// Release drops this reference. Only the first call has an effect.
	Release()
}

var _ Decoder = &decoder{}

// NewDecoder creates a Decoder with no live pool.
//
// Parameters:
//   - workers: worker count for the pool, DefaultDecoderWorkers when <= 0
//   - verbose: log pool creation and disposal
//
// Returns:
//   - Decoder: the decoder
func NewDecoder(workers int, verbose bool) Decoder {
	if workers <= 0 {
		workers = DefaultDecoderWorkers
	}
	return &decoder{
		mu:      &sync.Mutex{},
		workers: workers,
		verbose: verbose,
	}
}

func (d *decoder) Acquire() DecoderHandle {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pool == nil {
		d.pool = worker.NewDynamicWorkerPool(d.workers, 256, 1*time.Second)
		d.generation++
		d.disposePending = false
		d.debugf("created decode pool %d", d.generation)
	}
	d.refs++
	return &decoderHandle{owner: d, pool: d.pool, once: &sync.Once{}}
}

func (d *decoder) Dispose() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pool == nil {
		return
	}
	if d.refs > 0 {
		d.disposePending = true
		return
	}
	d.releasePoolLocked()
}

func (d *decoder) release() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.refs > 0 {
		d.refs--
	}
	if d.refs == 0 && d.disposePending {
		d.releasePoolLocked()
	}
}

// releasePoolLocked drops the pool. Idle workers exit on their own timeout.
func (d *decoder) releasePoolLocked() {
	d.pool = nil
	d.disposePending = false
	d.debugf("disposed decode pool %d", d.generation)
}

func (d *decoder) nextTaskID() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.taskID++
	return d.taskID
}

func (d *decoder) Live() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pool != nil
}

func (d *decoder) Refs() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.refs
}

func (d *decoder) Generation() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.generation
}

func (d *decoder) debugf(format string, args ...any) {
	if d.verbose {
		log.Printf("loader: "+format, args...)
	}
}

// decoderHandle is the implementation of the DecoderHandle interface.
type decoderHandle struct {
	owner *decoder
	pool  worker.DynamicWorkerPool
	once  *sync.Once
}

var _ DecoderHandle = &decoderHandle{}

func (h *decoderHandle) Run(tasks []func() error) error {
	if len(tasks) == 0 {
		return nil
	}
	// pool.Wait blocks until workers idle-exit, so a WaitGroup provides the barrier.
	var wg sync.WaitGroup
	errs := make([]error, len(tasks))
	for i, task := range tasks {
		wg.Add(1)
		h.pool.SubmitTask(worker.Task{
			ID: h.owner.nextTaskID(),
			Do: func() (any, error) {
				defer wg.Done()
				errs[i] = task()
				return nil, errs[i]
			},
		})
	}
	wg.Wait()
	return errors.Join(errs...)
}

func (h *decoderHandle) Release() {
	h.once.Do(h.owner.release)
}
