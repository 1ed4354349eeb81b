// Package debounce coalesces bursts of calls, such as validating a text
// field on every keystroke, into a single call after a quiet period.
package debounce

import (
	"context"
	"errors"
	"sync"
	"time"
)

// DefaultDelay is the quiet period used by interactive validators.
const DefaultDelay = 250 * time.Millisecond

// ErrSuperseded is returned by Do when a newer call for the same key
// replaced this one before it ran. The callback of a superseded call is
// never invoked.
var ErrSuperseded = errors.New("superseded by a newer call")

type result[T any] struct {
	val T
	err error
}

type call[T any] struct {
	timer      *time.Timer
	res        chan result[T]
	superseded chan struct{}
}

// Debouncer runs only the most recent call per key once no newer call has
// arrived for the configured delay. It is safe for concurrent use.
type Debouncer[T any] struct {
	delay time.Duration

	mu      sync.Mutex
	pending map[string]*call[T]
}

// New returns a Debouncer with the given quiet period. A non-positive
// delay selects DefaultDelay.
func New[T any](delay time.Duration) *Debouncer[T] {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer[T]{delay: delay, pending: make(map[string]*call[T])}
}

// Delay returns the quiet period.
func (d *Debouncer[T]) Delay() time.Duration {
	return d.delay
}

// Do schedules fn for key after the quiet period, replacing any call for
// key that has not started yet. It blocks until fn returns, the call is
// superseded (ErrSuperseded), or ctx is done before fn started (ctx.Err()).
func (d *Debouncer[T]) Do(ctx context.Context, key string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	c := &call[T]{
		res:        make(chan result[T], 1),
		superseded: make(chan struct{}),
	}

	d.mu.Lock()
	if prev, ok := d.pending[key]; ok {
		// Stop fails only if prev already fired; it then runs to completion.
		if prev.timer.Stop() {
			close(prev.superseded)
		}
	}
	d.pending[key] = c
	c.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.pending[key] == c {
			delete(d.pending, key)
		}
		d.mu.Unlock()

		v, err := fn(ctx)
		c.res <- result[T]{val: v, err: err}
	})
	d.mu.Unlock()

	select {
	case r := <-c.res:
		return r.val, r.err
	case <-c.superseded:
		return zero, ErrSuperseded
	case <-ctx.Done():
	}

	d.mu.Lock()
	stopped := c.timer.Stop()
	if stopped && d.pending[key] == c {
		delete(d.pending, key)
	}
	d.mu.Unlock()

	if stopped {
		return zero, ctx.Err()
	}
	// Either fn is running or a newer call superseded this one first.
	select {
	case r := <-c.res:
		return r.val, r.err
	case <-c.superseded:
		return zero, ErrSuperseded
	}
}

// Pending reports how many keys have a scheduled call that has not
// started yet.
func (d *Debouncer[T]) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}
