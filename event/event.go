// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root

// Package event is an external collaborator of the scheduling substrate: it
// is not part of the scheduler's core (see the chrono package doc), but a
// typed pub/sub convenience built on top of a scheduler's public submission
// contract — the same relationship the teacher's own event package had
// with its scheduler.
package event

import (
	"context"
	"time"

	"github.com/kelindar/chrono"
	"github.com/kelindar/event"
)

// Scheduler is the default scheduler used to emit events. It runs on its
// own driver goroutine (see chrono.Drive) so Emit and friends work without
// the caller owning a tick loop.
var Scheduler = func() *chrono.ManualScheduler {
	s := chrono.NewManual(chrono.WithBlockingTick(true))
	s.Clock().StartRefresher()
	chrono.Drive(context.Background(), s)
	return s
}()

// Event wraps a published value with the time it fired and the time
// elapsed since this task's previous firing.
type Event[T event.Event] struct {
	Time    time.Time     // The time at which the event was emitted
	Elapsed time.Duration // The time elapsed since the last event
	Data    T
}

// Type returns the type of the event
func (e Event[T]) Type() uint32 {
	return e.Data.Type()
}

// emitTask builds a Task that publishes ev, tracking elapsed time since its
// own previous firing via a closure-captured timestamp.
func emitTask[T event.Event](ev T) chrono.Task {
	last := time.Now()
	return chrono.NewFuncTask(func() {
		now := time.Now()
		event.Publish(event.Default, Event[T]{
			Data:    ev,
			Time:    now,
			Elapsed: now.Sub(last),
		})
		last = now
	})
}

// On subscribes to an event, the type of the event will be automatically
// inferred from the provided type. Must be constant for this to work. This
// functions same way as Subscribe() but uses the default dispatcher instead.
func On[T event.Event](handler func(Event[T])) context.CancelFunc {
	return event.Subscribe[Event[T]](event.Default, handler)
}

// OnType subscribes to an event with the specified event type. This functions
// same way as SubscribeTo() but uses the default dispatcher instead.
func OnType[T event.Event](eventType uint32, handler func(Event[T])) context.CancelFunc {
	return event.SubscribeTo[Event[T]](event.Default, eventType, handler)
}

// Emit writes an event during the next tick.
func Emit[T event.Event](ev T) {
	_ = Scheduler.Execute(emitTask(ev))
}

// EmitAt writes an event at specific 'at' time.
func EmitAt[T event.Event](ev T, at time.Time) {
	_ = Scheduler.ScheduleAt(emitTask(ev), at.UnixMilli())
}

// EmitAfter writes an event after a 'delay'.
func EmitAfter[T event.Event](ev T, after time.Duration) {
	_ = Scheduler.Schedule(emitTask(ev), after.Milliseconds())
}

// EmitEvery writes an event at 'interval' intervals, the first one 'interval' from now.
func EmitEvery[T event.Event](ev T, interval time.Duration) {
	_ = Scheduler.ScheduleWithFixedDelay(emitTask(ev), interval.Milliseconds(), interval.Milliseconds())
}

// EmitEveryAt writes an event at 'interval' intervals, starting at 'startTime'.
func EmitEveryAt[T event.Event](ev T, interval time.Duration, startTime time.Time) {
	delay := time.Until(startTime)
	if delay < 0 {
		delay = 0
	}
	_ = Scheduler.ScheduleWithFixedDelay(emitTask(ev), delay.Milliseconds(), interval.Milliseconds())
}

// EmitEveryAfter writes an event at 'interval' intervals after a 'delay'.
func EmitEveryAfter[T event.Event](ev T, interval time.Duration, delay time.Duration) {
	_ = Scheduler.ScheduleWithFixedDelay(emitTask(ev), delay.Milliseconds(), interval.Milliseconds())
}
