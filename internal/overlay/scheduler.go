// internal/overlay/scheduler.go
package overlay

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Coalescer collapses bursts of frame triggers into one in-flight run.
// Submitting while a run is pending cancels the pending run and replaces
// it, so a storm of pointer or scroll events produces at most one fresh
// recompute instead of a queue of stale ones.
type Coalescer struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// Submit schedules fn on a fresh goroutine, cancelling any run still
// pending. Runs are serialized: fn starts only after the displaced run has
// observed its cancellation and returned.
func (c *Coalescer) Submit(parent context.Context, fn func(context.Context)) {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	c.cancel = cancel
	prev := c.done
	done := make(chan struct{})
	c.done = done
	c.mu.Unlock()

	go func() {
		defer close(done)
		if prev != nil {
			<-prev
		}
		if ctx.Err() != nil {
			return
		}
		fn(ctx)
	}()
}

// Stop cancels the pending run, if any, and waits for it to unwind. The
// coalescer is reusable after Stop.
func (c *Coalescer) Stop() {
	c.mu.Lock()
	cancel := c.cancel
	done := c.done
	c.cancel = nil
	c.done = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// Throttler rate-limits an expensive recompute with both edges covered:
// the first trigger after a quiet period fires immediately, and triggers
// arriving inside the interval coalesce into one trailing run, so the last
// event of a burst is never lost.
type Throttler struct {
	limiter *rate.Limiter
	fn      func()

	mu    sync.Mutex
	timer *time.Timer
	res   *rate.Reservation
}

// NewThrottler builds a throttler invoking fn at most once per interval.
func NewThrottler(interval time.Duration, fn func()) *Throttler {
	return &Throttler{
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		fn:      fn,
	}
}

// Trigger requests a run. Inside the interval the request either rides an
// already scheduled trailing run or books one for when the limiter next
// permits.
func (t *Throttler) Trigger() {
	t.mu.Lock()
	if t.timer != nil {
		t.mu.Unlock()
		return
	}
	res := t.limiter.Reserve()
	delay := res.Delay()
	if delay == 0 {
		t.mu.Unlock()
		t.fn()
		return
	}
	t.res = res
	t.timer = time.AfterFunc(delay, func() {
		t.mu.Lock()
		t.timer = nil
		t.res = nil
		t.mu.Unlock()
		t.fn()
	})
	t.mu.Unlock()
}

// Cancel drops any scheduled trailing run and returns its slot to the
// limiter. Mode switches call this so a stale relayout never fires into
// the new mode.
func (t *Throttler) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	if t.res != nil {
		t.res.Cancel()
		t.res = nil
	}
}
