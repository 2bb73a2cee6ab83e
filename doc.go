// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root

// Package chrono implements the scheduling substrate shared by a family of
// task schedulers: a cached monotonic clock, a delayed-task container, an
// ordered delayed queue kept sorted by fire time, and two scheduler variants
// (a manually-ticked scheduler and a virtual-time scheduler) built over that
// shared queue.
//
// Submitters call Execute, Schedule, or ScheduleWithFixedDelay from any
// goroutine. Exactly one goroutine should drive dispatch, by calling Tick on
// a *ManualScheduler or Tick(now) on a *VirtualScheduler.
package chrono
