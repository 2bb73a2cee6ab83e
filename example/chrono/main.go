package main

import (
	"context"
	"fmt"
	"time"

	"github.com/kelindar/chrono"
)

func main() {
	// Construct a scheduler that blocks its driver goroutine between ready
	// tasks instead of busy-polling, and start its cached-clock refresher.
	scheduler := chrono.NewManual(chrono.WithBlockingTick(true))
	scheduler.Clock().StartRefresher()
	defer scheduler.Clock().StopRefresher()

	cancel := chrono.Drive(context.Background(), scheduler)
	defer cancel() // stop the driver goroutine

	task := chrono.Named("report", func() {
		now := time.Now()
		fmt.Printf("Task executed at %d:%02d.%03d\n",
			now.Hour(), now.Second(), now.UnixMilli()%1000)
	})

	// Run once, right away.
	_ = scheduler.Execute(task)

	// Run every second, forever (until Remove).
	_ = scheduler.ScheduleWithFixedDelay(task, time.Second.Milliseconds(), time.Second.Milliseconds())

	// Run once, after 5 seconds.
	_ = scheduler.Schedule(chrono.Named("delayed", func() {
		fmt.Println("fired after 5 seconds")
	}), (5 * time.Second).Milliseconds())

	// Let the scheduler run for 10 seconds.
	time.Sleep(10 * time.Second)
}
