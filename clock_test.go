// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root

package chrono

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNowAccurateUpdatesCache(t *testing.T) {
	c := NewClock(time.Second)
	before := c.NowCached()
	time.Sleep(2 * time.Millisecond)
	after := c.NowAccurate()

	assert.GreaterOrEqual(t, after, before)
	assert.Equal(t, after, c.NowCached())
}

func TestRefresherIdempotentStartStop(t *testing.T) {
	c := NewClock(5 * time.Millisecond)
	assert.False(t, c.Running())

	c.StartRefresher()
	c.StartRefresher() // no-op, must not deadlock or spawn a second goroutine
	assert.True(t, c.Running())

	c.StopRefresher()
	c.StopRefresher() // no-op
	assert.False(t, c.Running())
}

func TestRefresherAdvancesCache(t *testing.T) {
	c := NewClock(5 * time.Millisecond)
	c.StartRefresher()
	defer c.StopRefresher()

	start := c.NowCached()
	deadline := time.Now().Add(500 * time.Millisecond)
	for time.Now().Before(deadline) {
		if c.NowCached() > start {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("cached time did not advance within deadline")
}

func TestNewClockDefaultsNonPositiveCadence(t *testing.T) {
	c := NewClock(0)
	assert.Equal(t, defaultCadence, c.Cadence())

	c = NewClock(-time.Second)
	assert.Equal(t, defaultCadence, c.Cadence())
}

func TestStartRefresherContextStopsOnCancel(t *testing.T) {
	c := NewClock(5 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	c.StartRefresherContext(ctx)
	assert.True(t, c.Running())

	cancel()
	// The refresher goroutine exits on its own; Running() still reports
	// true until StopRefresher is explicitly called to join it, mirroring
	// ManualScheduler's "no implicit lifecycle" stance. Calling Stop here
	// must not block even though the goroutine already returned.
	c.StopRefresher()
	assert.False(t, c.Running())
}
