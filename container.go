// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root

package chrono

// unstamped marks a taskEntry whose fire time has not yet been computed.
const unstamped int64 = -1

type entryKind uint8

const (
	oneShot entryKind = iota
	recurring
)

// disposition is what the queue's tick loop should do with a taskEntry
// after prepareForRun has run under the modification mutex, replacing the
// cyclic back-reference a container would otherwise need to hold to its
// enclosing scheduler (see DESIGN.md).
type disposition uint8

const (
	dispositionRemove disposition = iota
	dispositionReposition
)

// taskEntry is the delayed-task container: a task, its next fire time, and
// its re-insertion policy. fireAtMs is unstamped until stampInitial runs.
type taskEntry struct {
	task             Task
	fireAtMs         int64
	kind             entryKind
	initialDelayMs   int64
	recurringDelayMs int64
}

func newOneShot(task Task, delayMs int64) *taskEntry {
	return &taskEntry{task: task, fireAtMs: unstamped, kind: oneShot, initialDelayMs: delayMs}
}

func newRecurring(task Task, initialDelayMs, recurringDelayMs int64) *taskEntry {
	return &taskEntry{
		task:             task,
		fireAtMs:         unstamped,
		kind:             recurring,
		initialDelayMs:   initialDelayMs,
		recurringDelayMs: recurringDelayMs,
	}
}

// newOneShotAt constructs a one-shot entry already stamped to fire at an
// absolute time, for ScheduleAt-style submission.
func newOneShotAt(task Task, atMs int64) *taskEntry {
	return &taskEntry{task: task, fireAtMs: atMs, kind: oneShot}
}

func newRecurringAt(task Task, atMs, recurringDelayMs int64) *taskEntry {
	return &taskEntry{task: task, fireAtMs: atMs, kind: recurring, recurringDelayMs: recurringDelayMs}
}

// stampInitial sets fireAtMs from now, for entries constructed with a
// relative delay rather than an absolute time. It is a no-op for entries
// already stamped (the ScheduleAt family).
func (e *taskEntry) stampInitial(now int64) {
	if e.fireAtMs != unstamped {
		return
	}
	e.fireAtMs = now + e.initialDelayMs
}

// remainingDelay returns fireAtMs - now; the entry is ready when this is <= 0.
func (e *taskEntry) remainingDelay(now int64) int64 {
	return e.fireAtMs - now
}

// prepareForRun is called under the queue's modification mutex, inside a
// clock-freeze bracket for recurring entries, immediately before the task
// body runs. It returns the disposition the caller (the queue) must apply:
// a one-shot entry is simply removed; a recurring entry is repositioned and
// re-stamped using the single frozen "now" value so the search for its new
// index and its new fireAtMs agree.
func (e *taskEntry) prepareForRun(now int64) disposition {
	if e.kind == oneShot {
		return dispositionRemove
	}
	e.fireAtMs = now + e.recurringDelayMs
	return dispositionReposition
}
