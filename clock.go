// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root

package chrono

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// defaultCadence is how often the background refresher samples the system
// clock when no explicit cadence is supplied to NewClock.
const defaultCadence = 100 * time.Millisecond

// Clock is a low-overhead source of "milliseconds since the Unix epoch,
// as of the most recent refresh". NowCached never performs a system call;
// NowAccurate performs one and updates the cached value. A background
// refresher keeps the cached value fresh on a fixed cadence.
//
// The zero value is not usable; construct one with NewClock or use
// DefaultClock.
type Clock struct {
	now     atomic.Int64 // milliseconds since epoch, last refreshed value
	cadence time.Duration

	mu      sync.Mutex // guards start/stop of the refresher
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// NewClock returns a Clock that has been stamped with the current time but
// whose refresher has not been started. cadence is the interval the
// refresher will use once started; a non-positive value uses the default
// of 100ms.
func NewClock(cadence time.Duration) *Clock {
	if cadence <= 0 {
		cadence = defaultCadence
	}
	c := &Clock{cadence: cadence}
	c.NowAccurate()
	return c
}

// DefaultClock is a process-wide convenience clock, analogous to the
// teacher's package-level Default scheduler. Its refresher is not started
// automatically; call DefaultClock.StartRefresher() to begin sampling.
var DefaultClock = NewClock(defaultCadence)

// NowCached returns the last-refreshed millisecond value. It performs no
// system call and is safe to call from any number of goroutines.
func (c *Clock) NowCached() int64 {
	return c.now.Load()
}

// NowAccurate samples the system clock, stores the result as the new cached
// value (last writer wins), and returns it.
func (c *Clock) NowAccurate() int64 {
	now := time.Now().UnixMilli()
	c.now.Store(now)
	return now
}

// StartRefresher starts the background refresher if it is not already
// running. It is idempotent: calling it again while the refresher is active
// is a no-op.
func (c *Clock) StartRefresher() {
	c.StartRefresherContext(context.Background())
}

// StartRefresherContext is like StartRefresher, but the refresher also
// exits when ctx is done, mirroring the teacher's Start(ctx) convention on
// Scheduler.
func (c *Clock) StartRefresherContext(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return
	}

	c.stop = make(chan struct{})
	c.done = make(chan struct{})
	c.running = true

	stop, done, cadence := c.stop, c.done, c.cadence
	go func() {
		defer close(done)
		ticker := time.NewTicker(cadence)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.NowAccurate()
			case <-stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// StopRefresher signals the refresher to exit and waits for it to do so. It
// is idempotent: calling it when no refresher is running is a no-op.
func (c *Clock) StopRefresher() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	stop, done := c.stop, c.done
	c.running = false
	c.mu.Unlock()

	close(stop)
	<-done
}

// Running reports whether the background refresher is currently active.
func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Cadence returns the interval the refresher samples at.
func (c *Clock) Cadence() time.Duration {
	return c.cadence
}
