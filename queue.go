// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root

package chrono

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kelindar/chrono/internal/dq"
)

const noHeadHint int64 = math.MaxInt64

// queue is the ordered delayed queue: a mutable sequence of *taskEntry kept
// sorted ascending by fireAtMs, guarded by a single modification mutex that
// doubles as the condition variable blocking Tick waits on.
//
// now, the scheduler's notion of the current time, is supplied by nowFn.
// During a clock-freeze bracket (begun by insert and by the tick loop's
// reposition step) now() returns a single snapshot instead of re-querying
// nowFn, so a reposition's index search and its new fireAtMs stamp agree —
// see DESIGN.md for why a plain depth counter suffices here in place of
// real thread-local storage.
type queue struct {
	mu    sync.Mutex
	cond  *sync.Cond
	items *dq.Deque[*taskEntry]
	nowFn func() int64

	freezeDepth int
	freezeValue int64

	headHint atomic.Int64 // best-effort fireAtMs of the head, racy by design
}

func newQueue(nowFn func() int64) *queue {
	q := &queue{
		items: dq.New[*taskEntry](64),
		nowFn: nowFn,
	}
	q.cond = sync.NewCond(&q.mu)
	q.headHint.Store(noHeadHint)
	return q
}

func entryKey(e *taskEntry) int64 { return e.fireAtMs }

// now returns the current time, respecting an active freeze bracket. Must
// only be called while holding mu.
func (q *queue) now() int64 {
	if q.freezeDepth > 0 {
		return q.freezeValue
	}
	return q.nowFn()
}

// beginFreeze starts (or extends, if nested) a clock-freeze bracket and
// returns the snapshot value now() will return until endFreeze is called.
// Must only be called while holding mu.
func (q *queue) beginFreeze() int64 {
	if q.freezeDepth == 0 {
		q.freezeValue = q.nowFn()
	}
	q.freezeDepth++
	return q.freezeValue
}

// endFreeze closes one level of a clock-freeze bracket. Must only be
// called while holding mu, and must run even if the bracketed region
// panicked — callers do this with defer.
func (q *queue) endFreeze() {
	q.freezeDepth--
}

// updateHeadHintLocked refreshes the lock-free head snapshot. Must only be
// called while holding mu.
func (q *queue) updateHeadHintLocked() {
	if head, ok := q.items.Front(); ok {
		q.headHint.Store(head.fireAtMs)
	} else {
		q.headHint.Store(noHeadHint)
	}
}

// insert stamps entry's initial fire time and places it in sorted order,
// then wakes any goroutine blocked in a waiting Tick.
func (q *queue) insert(entry *taskEntry) {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.beginFreeze()
	defer q.endFreeze()

	entry.stampInitial(now)
	idx := q.items.UpperBound(entry.fireAtMs, entryKey, -1)
	q.items.Insert(idx, entry)
	q.updateHeadHintLocked()
	q.cond.Broadcast()
}

// removeByTask removes the first entry whose task equals the given task,
// returning whether a removal occurred.
func (q *queue) removeByTask(task Task) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	_, ok := q.items.RemoveFunc(func(e *taskEntry) bool { return e.task == task })
	q.updateHeadHintLocked()
	return ok
}

// clear drops all entries without running them.
func (q *queue) clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items.Clear()
	q.headHint.Store(noHeadHint)
}

// len reports the number of entries currently queued.
func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Len()
}

// hasReadyHint is the fast, lock-free "might have a ready task" check: a
// best-effort snapshot of the head's fire time, compared against the
// caller's own notion of now. The snapshot is updated under mu on every
// mutation, so it can briefly lag a concurrent mutation; callers such as
// HasTaskReadyToRun return it as is.
func (q *queue) hasReadyHint(now int64) bool {
	return q.headHint.Load() <= now
}

// drainReady runs every entry whose fire time has elapsed as of now,
// dequeuing one-shots and repositioning recurring entries before invoking
// their task bodies outside the lock, per the container's run contract.
// It returns the number of tasks run.
//
// If a task panics, drainReady does not recover: the panic propagates to
// the caller (the tick loop), exactly as spec'd — the entry that panicked
// has already been dequeued or repositioned, so queue invariants hold.
func (q *queue) drainReady(now int64) int {
	count := 0
	for {
		entry, ran := q.popReady(now)
		if !ran {
			return count
		}
		entry.task.Run()
		count++
	}
}

// popReady removes (or repositions) the head entry if it is ready as of
// now, returning it so the caller can run its task body outside the lock.
func (q *queue) popReady(now int64) (entry *taskEntry, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	head, present := q.items.Front()
	if !present || head.remainingDelay(now) > 0 {
		return nil, false
	}

	frozen := q.beginFreeze()
	defer q.endFreeze()
	disp := head.prepareForRun(frozen)
	q.items.RemoveAt(0)
	if disp == dispositionReposition {
		idx := q.items.UpperBound(head.fireAtMs, entryKey, -1)
		q.items.Insert(idx, head)
	}
	q.updateHeadHintLocked()

	return head, true
}

// waitForReady blocks until the head entry is ready or the queue is
// non-empty with a computable deadline, per the manual scheduler's
// tick_blocks_until_available contract (spec §4.5 step 3). It returns once
// there may be work to do; the caller must re-check under drainReady.
func (q *queue) waitForReady() {
	q.mu.Lock()
	defer q.mu.Unlock()

	for {
		head, present := q.items.Front()
		if !present {
			q.cond.Wait()
			continue
		}

		remaining := head.remainingDelay(q.now())
		if remaining <= 0 {
			return
		}

		q.timedWaitLocked(remaining)
		return
	}
}

// timedWaitLocked waits on the condition for up to remainingMs,
// milliseconds, or until some other goroutine broadcasts first (a
// submission or another timed wait expiring; removals do not broadcast).
// mu must be held on entry; it is released while waiting and re-acquired
// before return, per sync.Cond.Wait's contract.
//
// sync.Cond has no built-in deadline, so a helper goroutine stands in for
// one: it sleeps, then broadcasts. Before this call returns it is told to
// stop; it then exits after one last broadcast, which it can only make once
// the caller has released mu.
func (q *queue) timedWaitLocked(remainingMs int64) {
	if remainingMs < 0 {
		remainingMs = 0
	}

	timer := time.NewTimer(time.Duration(remainingMs) * time.Millisecond)
	done := make(chan struct{})
	go func() {
		select {
		case <-timer.C:
		case <-done:
			timer.Stop()
		}
		q.mu.Lock()
		q.cond.Broadcast()
		q.mu.Unlock()
	}()

	q.cond.Wait()
	close(done)
}
