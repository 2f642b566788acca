package pricing

import (
	"context"
	"sync"
)

// Pool bounds concurrent market fetches. Exceeding the bound queues the
// caller rather than rejecting work.
type Pool struct {
	sem chan struct{}
}

func NewPool(size int) *Pool {
	if size <= 0 {
		size = 4
	}
	return &Pool{sem: make(chan struct{}, size)}
}

// Run executes fn once a slot frees up. It returns early only when the
// context dies while waiting for a slot. Not reentrant: fn must not
// submit to the same pool and wait on the result while holding its slot.
func (p *Pool) Run(ctx context.Context, fn func()) error {
	select {
	case p.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-p.sem }()
	fn()
	return nil
}

// Go runs fn on its own goroutine under the bound, tracked by wg.
// Completion order across submissions is not guaranteed; callers must key
// results, not rely on ordering.
func (p *Pool) Go(ctx context.Context, wg *sync.WaitGroup, fn func()) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = p.Run(ctx, fn)
	}()
}
