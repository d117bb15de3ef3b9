// Package worker provides the bounded worker pool, batch driver and keyed
// rate limiter shared by the CLI, the fetcher and the generation providers.
package worker

import (
	"context"
	"sync"
)

// Job is a unit of work producing an R
type Job[R any] interface {
	Execute(ctx context.Context) R
}

// JobFunc adapts a function to Job
type JobFunc[R any] func(ctx context.Context) R

// Execute calls f
func (f JobFunc[R]) Execute(ctx context.Context) R { return f(ctx) }

// Pool runs submitted jobs on a fixed number of goroutines
type Pool[R any] struct {
	workers    int
	jobQueue   chan Job[R]
	results    chan R
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc
	closeOnce  sync.Once
}

// NewPool creates a pool whose jobs see a context derived from parent
func NewPool[R any](parent context.Context, workers int) *Pool[R] {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(parent)

	return &Pool[R]{
		workers:    workers,
		jobQueue:   make(chan Job[R], workers*2),
		results:    make(chan R, workers*2),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Start starts the worker goroutines
func (p *Pool[R]) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool[R]) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			result := job.Execute(p.ctx)
			select {
			case p.results <- result:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a job. It blocks while the queue is full and drops the job
// once the pool is shut down. Results must be drained concurrently when more
// than 4×workers jobs are submitted.
func (p *Pool[R]) Submit(job Job[R]) bool {
	if p.ctx.Err() != nil {
		return false
	}
	select {
	case <-p.ctx.Done():
		return false
	case p.jobQueue <- job:
		return true
	}
}

// Results exposes the result stream; it is closed once every worker exits
// after Close or Shutdown
func (p *Pool[R]) Results() <-chan R {
	return p.results
}

// Close stops accepting jobs; workers exit once the queue is drained
func (p *Pool[R]) Close() {
	close(p.jobQueue)
	go func() {
		p.wg.Wait()
		p.closeResults()
	}()
}

// Wait closes the pool and collects every remaining result
func (p *Pool[R]) Wait() []R {
	p.Close()

	var results []R
	for result := range p.results {
		results = append(results, result)
	}
	return results
}

// Shutdown cancels in-flight jobs and stops the workers
func (p *Pool[R]) Shutdown() {
	p.cancelFunc()
	p.wg.Wait()
	p.closeResults()
}

func (p *Pool[R]) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}
