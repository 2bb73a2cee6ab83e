// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root

package chrono

import "sync/atomic"

// VirtualScheduler shares the manual scheduler's substrate but takes its
// notion of "now" from the caller instead of a wall-clock source, so tests
// can advance time arbitrarily and assert exactly what fired.
type VirtualScheduler struct {
	q   *queue
	now atomic.Int64
}

// NewVirtual returns a VirtualScheduler whose clock starts at time zero.
func NewVirtual() *VirtualScheduler {
	s := &VirtualScheduler{}
	s.q = newQueue(s.now.Load)
	return s
}

// Execute is equivalent to Schedule(task, 0).
func (s *VirtualScheduler) Execute(task Task) error {
	return s.Schedule(task, 0)
}

// Schedule submits task to run once, after delayMs measured from the
// scheduler's current virtual time.
func (s *VirtualScheduler) Schedule(task Task, delayMs int64) error {
	if task == nil {
		return ErrNilTask
	}
	if delayMs < 0 {
		return ErrInvalidDelay
	}
	s.q.insert(newOneShot(task, delayMs))
	return nil
}

// ScheduleAt submits task to run once, at the given absolute virtual-time
// millisecond value.
func (s *VirtualScheduler) ScheduleAt(task Task, atMs int64) error {
	if task == nil {
		return ErrNilTask
	}
	s.q.insert(newOneShotAt(task, atMs))
	return nil
}

// ScheduleWithFixedDelay submits task to run repeatedly, starting
// initialDelayMs from now and recurring every recurringDelayMs after each
// firing. See ManualScheduler.ScheduleWithFixedDelay for the non-positive
// recurringDelayMs rejection rationale.
func (s *VirtualScheduler) ScheduleWithFixedDelay(task Task, initialDelayMs, recurringDelayMs int64) error {
	if task == nil {
		return ErrNilTask
	}
	if initialDelayMs < 0 || recurringDelayMs <= 0 {
		return ErrInvalidDelay
	}
	s.q.insert(newRecurring(task, initialDelayMs, recurringDelayMs))
	return nil
}

// Remove removes the first container whose task equals task, returning
// whether a removal occurred.
func (s *VirtualScheduler) Remove(task Task) bool {
	return s.q.removeByTask(task)
}

// ClearTasks empties the queue without running anything.
func (s *VirtualScheduler) ClearTasks() {
	s.q.clear()
}

// HasTaskReadyToRun reports whether the head of the queue is ready to run
// as of the scheduler's current virtual time.
func (s *VirtualScheduler) HasTaskReadyToRun() bool {
	return s.q.hasReadyHint(s.now.Load())
}

// PendingCount returns the number of tasks currently queued.
func (s *VirtualScheduler) PendingCount() int {
	return s.q.len()
}

// IsShutdown always returns false: VirtualScheduler has no lifecycle of its
// own.
func (s *VirtualScheduler) IsShutdown() bool {
	return false
}

// Now returns the scheduler's current virtual time, in milliseconds.
func (s *VirtualScheduler) Now() int64 {
	return s.now.Load()
}

// SetTime sets the scheduler's virtual time directly, without running any
// tasks. Use Tick to both advance time and dispatch.
func (s *VirtualScheduler) SetTime(nowMs int64) {
	s.now.Store(nowMs)
}

// Advance moves the scheduler's virtual time forward by deltaMs, without
// running any tasks. Use Tick to both advance time and dispatch.
func (s *VirtualScheduler) Advance(deltaMs int64) {
	s.now.Add(deltaMs)
}

// Tick sets the virtual time to now and drains every entry whose fire time
// has elapsed as of now, returning how many ran. Unlike ManualScheduler,
// Tick never blocks: the caller, not a delay expiry, is what advances time.
//
// The dispatched order for a given seed of submissions and sequence of
// Tick(now) calls is a pure function of the inputs (property P7): the
// virtual clock never reads the wall clock.
func (s *VirtualScheduler) Tick(now int64) int {
	s.now.Store(now)
	return s.q.drainReady(now)
}
