package resilience

import (
	"errors"
	"fmt"
	"sync"
)

// ErrCallPanicked is delivered to callers that joined a call whose function
// panicked.
var ErrCallPanicked = errors.New("singleflight: call panicked")

// SingleFlight collapses concurrent calls for the same key into one execution.
// Callers that join an in-flight call receive its result with shared=true.
type SingleFlight[T any] struct {
	mu    sync.Mutex
	calls map[string]*call[T]
}

// Result is what DoChan delivers.
type Result[T any] struct {
	Val    T
	Err    error
	Shared bool
}

type call[T any] struct {
	wg    sync.WaitGroup
	val   T
	err   error
	owner chan<- Result[T]
	chans []chan<- Result[T]
}

func (g *SingleFlight[T]) Do(key string, fn func() (T, error)) (T, error, bool) {
	g.mu.Lock()
	if c, ok := g.lookup(key); ok {
		g.mu.Unlock()
		c.wg.Wait()
		return c.val, c.err, true
	}
	c := g.begin(key, nil)
	g.mu.Unlock()

	returned := false
	defer func() {
		if !returned {
			c.err = ErrCallPanicked
		}
		g.finish(key, c)
	}()

	c.val, c.err = fn()
	returned = true
	return c.val, c.err, false
}

// DoChan is Do without blocking the caller. The function runs on its own
// goroutine, so a caller may stop waiting without affecting the others.
// The channel receives exactly one Result.
func (g *SingleFlight[T]) DoChan(key string, fn func() (T, error)) <-chan Result[T] {
	ch := make(chan Result[T], 1)

	g.mu.Lock()
	if c, ok := g.lookup(key); ok {
		c.chans = append(c.chans, ch)
		g.mu.Unlock()
		return ch
	}
	c := g.begin(key, ch)
	g.mu.Unlock()

	go func() {
		defer func() {
			if r := recover(); r != nil {
				c.err = fmt.Errorf("%w: %v", ErrCallPanicked, r)
			}
			g.finish(key, c)
		}()
		c.val, c.err = fn()
	}()
	return ch
}

// InFlight reports how many keys are currently executing.
func (g *SingleFlight[T]) InFlight() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

// lookup and begin require g.mu.
func (g *SingleFlight[T]) lookup(key string) (*call[T], bool) {
	if g.calls == nil {
		g.calls = make(map[string]*call[T])
	}
	c, ok := g.calls[key]
	return c, ok
}

func (g *SingleFlight[T]) begin(key string, owner chan<- Result[T]) *call[T] {
	c := &call[T]{owner: owner}
	if owner != nil {
		c.chans = append(c.chans, owner)
	}
	c.wg.Add(1)
	g.calls[key] = c
	return c
}

func (g *SingleFlight[T]) finish(key string, c *call[T]) {
	g.mu.Lock()
	delete(g.calls, key)
	chans := c.chans
	g.mu.Unlock()

	c.wg.Done()
	for _, ch := range chans {
		ch <- Result[T]{Val: c.val, Err: c.err, Shared: ch != c.owner}
	}
}
