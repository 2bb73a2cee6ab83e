// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root

package chrono

import "errors"

// ErrNilTask is returned by Schedule and ScheduleWithFixedDelay when task is nil.
var ErrNilTask = errors.New("chrono: task is nil")

// ErrInvalidDelay is returned by Schedule and ScheduleWithFixedDelay when a
// delay argument is negative, and by ScheduleWithFixedDelay also when the
// recurring delay is zero.
var ErrInvalidDelay = errors.New("chrono: delay must not be negative")
