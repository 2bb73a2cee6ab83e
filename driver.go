// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root

package chrono

import "context"

// Drive runs s.Tick in a loop on a dedicated goroutine until ctx is done,
// mirroring the teacher's own Start(ctx) context.CancelFunc convention. It
// is a convenience for callers that want an always-on scheduler (as the
// emit and event collaborator packages do) without writing their own tick
// loop; it does not change ManualScheduler's own contract of never owning a
// thread unless a caller — here, the goroutine Drive starts — asks it to.
//
// s should be constructed with WithBlockingTick(true) so the loop parks
// instead of spinning between ready tasks.
func Drive(ctx context.Context, s *ManualScheduler) context.CancelFunc {
	ctx, cancel := context.WithCancel(ctx)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}
			s.Tick()
		}
	}()

	// A blocking Tick only wakes on a submission or a delay expiry; nudge
	// it once on cancellation so the loop above can observe ctx.Done.
	go func() {
		<-ctx.Done()
		_ = s.Execute(NewFuncTask(func() {}))
	}()

	return cancel
}
