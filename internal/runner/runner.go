package runner

import (
	"sync"

	errs "tgscraper/pkg/errors"
	"tgscraper/pkg/logger"
)

// DefaultQueueSize bounds the number of boundary requests that may be
// pending at once.
const DefaultQueueSize = 1000

// job is one unit of work submitted to the worker
type job struct {
	fn   func()
	done chan struct{}
}

// Runner is a single-worker execution loop with a bounded request queue.
//
// The boundary layer is synchronous from the caller's point of view while
// the engine underneath runs its own concurrent machinery; the runner is
// the blocking bridge between the two. Every boundary call is submitted
// here and the caller blocks until the worker has executed it, which also
// serializes calls arriving from multiple host threads.
type Runner struct {
	jobQueue chan job
	wg       sync.WaitGroup
	mu       sync.RWMutex
	stopped  bool
	logger   logger.Logger
}

// New creates a runner with the given queue capacity
func New(queueSize int, log logger.Logger) *Runner {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if log == nil {
		log = logger.GetLogger()
	}
	return &Runner{
		jobQueue: make(chan job, queueSize),
		logger:   log,
	}
}

// Start launches the worker goroutine
func (r *Runner) Start() {
	r.wg.Add(1)
	go r.worker()
}

func (r *Runner) worker() {
	defer r.wg.Done()
	for j := range r.jobQueue {
		j.fn()
		close(j.done)
	}
}

// Do submits fn to the worker and blocks until it has run. It fails when
// the runner has been stopped or the request queue is full.
func (r *Runner) Do(fn func()) error {
	r.mu.RLock()
	if r.stopped {
		r.mu.RUnlock()
		return errs.New(errs.ErrorTypeState, "runner is stopped")
	}

	j := job{fn: fn, done: make(chan struct{})}
	select {
	case r.jobQueue <- j:
		r.mu.RUnlock()
	default:
		r.mu.RUnlock()
		return errs.New(errs.ErrorTypeState, "work queue is full")
	}

	<-j.done
	return nil
}

// Stop drains the queue and shuts the worker down. Pending jobs run to
// completion; Do calls after Stop fail.
func (r *Runner) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	close(r.jobQueue)
	r.mu.Unlock()

	r.wg.Wait()
	r.logger.Debug("runner stopped")
}
