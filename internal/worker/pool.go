// Package worker provides the concurrency primitives for batch analysis:
// a bounded job pool and per-host pacing of remote inference calls.
package worker

import (
	"context"
	"sync"
)

// Job is one queued unit of batch work
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is the outcome of one executed job
type Result interface {
	GetError() error
}

// Pool runs submitted jobs on a fixed number of goroutines. The lifecycle
// is Start, any number of Submits, then exactly one Wait; a pool is not
// reusable after Wait returns.
type Pool struct {
	size int
	jobs chan Job

	mu      sync.Mutex
	results []Result
	wg      sync.WaitGroup
}

// NewPool creates a pool running at most size jobs concurrently
func NewPool(size int) *Pool {
	if size <= 0 {
		size = 1
	}
	return &Pool{
		size: size,
		jobs: make(chan Job, size*2),
	}
}

// Start launches the workers. The context flows into every job's Execute,
// so cancelling it aborts in-flight analyses.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go p.run(ctx)
	}
}

func (p *Pool) run(ctx context.Context) {
	defer p.wg.Done()

	for job := range p.jobs {
		res := job.Execute(ctx)
		p.mu.Lock()
		p.results = append(p.results, res)
		p.mu.Unlock()
	}
}

// Submit queues a job. It blocks once all workers are busy and the queue
// is full, which bounds memory on large batch files.
func (p *Pool) Submit(job Job) {
	p.jobs <- job
}

// Wait closes the queue, waits for in-flight jobs to drain and returns
// every result. Results arrive in completion order, not submission order.
func (p *Pool) Wait() []Result {
	close(p.jobs)
	p.wg.Wait()
	return p.results
}
