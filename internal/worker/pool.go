package worker

import (
	"context"
	"sync"
)

// Job represents a unit of work to be executed
type Job interface {
	Execute(ctx context.Context) Result
}

// Result represents the result of a job execution
type Result interface {
	GetError() error
}

type queuedJob struct {
	index int
	job   Job
}

type queuedResult struct {
	index  int
	result Result
}

// Pool runs jobs on a fixed number of workers. Results are drained while
// jobs are still being submitted, so Submit never deadlocks on a full
// result buffer, and Wait returns them in submission order.
type Pool struct {
	workers    int
	jobQueue   chan queuedJob
	results    chan queuedResult
	collected  []queuedResult
	submitted  int
	wg         sync.WaitGroup
	collectWG  sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc
	closeOnce  sync.Once
	mu         sync.Mutex
}

// NewPool creates a new worker pool with the specified number of workers.
// Jobs see a context derived from parent.
func NewPool(parent context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if parent == nil {
		parent = context.Background()
	}

	ctx, cancel := context.WithCancel(parent)

	return &Pool{
		workers:    workers,
		jobQueue:   make(chan queuedJob, workers*2),
		results:    make(chan queuedResult, workers*2),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Start starts the workers and the result collector
func (p *Pool) Start() {
	p.collectWG.Add(1)
	go p.collect()

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case qj, ok := <-p.jobQueue:
			if !ok {
				return
			}
			p.results <- queuedResult{index: qj.index, result: qj.job.Execute(p.ctx)}
		}
	}
}

func (p *Pool) collect() {
	defer p.collectWG.Done()
	for r := range p.results {
		p.collected = append(p.collected, r)
	}
}

// Submit queues a job. It returns false when the pool has been shut down.
func (p *Pool) Submit(job Job) bool {
	if p.ctx.Err() != nil {
		return false
	}

	p.mu.Lock()
	index := p.submitted
	p.submitted++
	p.mu.Unlock()

	select {
	case <-p.ctx.Done():
		return false
	case p.jobQueue <- queuedJob{index: index, job: job}:
		return true
	}
}

// Wait waits for all submitted jobs and returns their results in submission
// order. Jobs dropped by a shutdown have no result.
func (p *Pool) Wait() []Result {
	close(p.jobQueue)
	p.wg.Wait()
	p.closeResults()
	p.collectWG.Wait()

	p.mu.Lock()
	ordered := make([]Result, p.submitted)
	p.mu.Unlock()

	for _, r := range p.collected {
		ordered[r.index] = r.result
	}

	results := ordered[:0]
	for _, r := range ordered {
		if r != nil {
			results = append(results, r)
		}
	}
	p.cancelFunc()
	return results
}

// Shutdown cancels running jobs and stops the workers
func (p *Pool) Shutdown() {
	p.cancelFunc()
	p.wg.Wait()
	p.closeResults()
	p.collectWG.Wait()
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}
