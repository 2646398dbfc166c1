// Package workerpool runs a bounded number of goroutines against a queue of
// jobs, preserving the caller's ordering of results.
//
// A fixed set of workers pull job indices off a shared channel, and each job
// writes its result directly into its own output slot rather than through a
// shared append, so submission order is always preserved regardless of
// completion order.
package workerpool

import "sync"

// Pool bounds how many goroutines each SubmitOrdered call runs its jobs on.
// The bound applies per call: concurrent calls on the same Pool each start
// their own workers.
type Pool struct {
	size int
}

// New creates a Pool whose SubmitOrdered calls each use at most size worker
// goroutines. size is clamped to at least 1.
func New(size int) *Pool {
	if size < 1 {
		size = 1
	}

	return &Pool{size: size}
}

// Job is a unit of work submitted to a Pool. It returns its result and any
// error encountered producing it.
type Job[T any] func() (T, error)

// SubmitOrdered runs jobs across the pool's goroutines and returns their
// results in the same order as jobs, regardless of completion order. The
// first error encountered is returned; other in-flight jobs are still
// allowed to finish; their errors are discarded once the first is captured.
func SubmitOrdered[T any](p *Pool, jobs []Job[T]) ([]T, error) {
	results := make([]T, len(jobs))

	indices := make(chan int)

	go func() {
		defer close(indices)

		for i := range jobs {
			indices <- i
		}
	}()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		firstErr error
	)

	workers := p.size
	if workers > len(jobs) {
		workers = len(jobs)
	}

	if workers < 1 {
		workers = 1
	}

	wg.Add(workers)

	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()

			for i := range indices {
				result, err := jobs[i]()
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()

					continue
				}

				results[i] = result
			}
		}()
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	return results, nil
}
