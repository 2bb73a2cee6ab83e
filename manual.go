// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root

package chrono

// ManualScheduler never owns a thread of its own; a caller drives progress
// by calling Tick. It is useful when work must run on a specific
// externally-owned thread — a UI event loop, an I/O reactor, or a
// deterministic test driver.
//
// ManualScheduler does not guard against concurrent Tick callers: the
// ready-check and the dequeue/reposition it triggers serialize individually
// inside the queue's mutex, but not as one atomic step across two
// concurrent Tick calls. Callers must ensure at most one Tick runs at a
// time; this keeps the common, single-ticker case lock-light.
type ManualScheduler struct {
	clock *Clock
	q     *queue

	blockUntilAvailable bool
}

// ManualOption configures a ManualScheduler constructed by NewManual.
type ManualOption func(*ManualScheduler)

// WithBlockingTick sets tick_blocks_until_available: when enabled, Tick
// with no ready task blocks until at least one runs; when disabled (the
// default), Tick returns zero immediately.
func WithBlockingTick(enabled bool) ManualOption {
	return func(s *ManualScheduler) { s.blockUntilAvailable = enabled }
}

// WithClock supplies the Clock the scheduler reads "now" from. The default
// is DefaultClock.
func WithClock(c *Clock) ManualOption {
	return func(s *ManualScheduler) { s.clock = c }
}

// NewManual returns a ready-to-use ManualScheduler. Its clock's refresher
// is not started automatically; callers relying on NowCached accuracy
// should call s.Clock().StartRefresher() (or supply a Clock that is
// already refreshing via WithClock).
func NewManual(opts ...ManualOption) *ManualScheduler {
	s := &ManualScheduler{clock: DefaultClock}
	for _, opt := range opts {
		opt(s)
	}
	s.q = newQueue(s.clock.NowCached)
	return s
}

// Clock returns the scheduler's time source.
func (s *ManualScheduler) Clock() *Clock { return s.clock }

// Execute is equivalent to Schedule(task, 0).
func (s *ManualScheduler) Execute(task Task) error {
	return s.Schedule(task, 0)
}

// Schedule submits task to run once, after delayMs. It rejects a nil task
// or a negative delay without modifying the queue.
func (s *ManualScheduler) Schedule(task Task, delayMs int64) error {
	if task == nil {
		return ErrNilTask
	}
	if delayMs < 0 {
		return ErrInvalidDelay
	}
	s.q.insert(newOneShot(task, delayMs))
	return nil
}

// ScheduleAt submits task to run once, at the given absolute millisecond
// timestamp (per the scheduler's clock). A timestamp already in the past
// makes the task immediately ready.
func (s *ManualScheduler) ScheduleAt(task Task, atMs int64) error {
	if task == nil {
		return ErrNilTask
	}
	s.q.insert(newOneShotAt(task, atMs))
	return nil
}

// ScheduleWithFixedDelay submits task to run repeatedly: first after
// initialDelayMs, then every recurringDelayMs after each firing. It rejects
// a nil task, a negative delay, or a non-positive recurring delay (a
// recurring delay of zero would re-queue the task ready-to-run again
// within the same Tick, looping forever) without modifying the queue.
func (s *ManualScheduler) ScheduleWithFixedDelay(task Task, initialDelayMs, recurringDelayMs int64) error {
	if task == nil {
		return ErrNilTask
	}
	if initialDelayMs < 0 || recurringDelayMs <= 0 {
		return ErrInvalidDelay
	}
	s.q.insert(newRecurring(task, initialDelayMs, recurringDelayMs))
	return nil
}

// Remove removes the first container whose task equals task, one-shot or
// recurring, returning whether a removal occurred. A recurring task
// removed between firings does not fire again; after Remove returns true,
// the task will not fire again via this scheduler.
func (s *ManualScheduler) Remove(task Task) bool {
	return s.q.removeByTask(task)
}

// ClearTasks empties the queue without running anything.
func (s *ManualScheduler) ClearTasks() {
	s.q.clear()
}

// HasTaskReadyToRun reports whether the head of the queue is ready to run.
func (s *ManualScheduler) HasTaskReadyToRun() bool {
	now := s.clock.NowCached()
	return s.q.hasReadyHint(now)
}

// PendingCount returns the number of tasks currently queued.
func (s *ManualScheduler) PendingCount() int {
	return s.q.len()
}

// IsShutdown always returns false: ManualScheduler has no lifecycle of its
// own.
func (s *ManualScheduler) IsShutdown() bool {
	return false
}

// Tick drains all ready tasks and returns how many ran. If the task raises
// (panics), the panic propagates out of Tick; the task that panicked has
// already been dequeued or repositioned, so the remaining ready tasks are
// not drained in this call but the queue itself is left consistent.
//
// If WithBlockingTick(true) was set and no task is ready, Tick blocks until
// a submission or a delay expiry makes one ready, then drains.
func (s *ManualScheduler) Tick() int {
	now := s.clock.NowCached()
	count := s.q.drainReady(now)

	if !s.blockUntilAvailable || count > 0 {
		return count
	}

	for {
		s.q.waitForReady()
		now = s.clock.NowCached()
		count = s.q.drainReady(now)
		if count > 0 {
			return count
		}
	}
}
