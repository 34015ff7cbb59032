// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import "time"

// Clock blocks the caller for the delays the controller needs.
type Clock interface {
	Sleep(d time.Duration)
}

type sleeper struct{}

func (sleeper) Sleep(d time.Duration) {
	time.Sleep(d)
}

// SystemClock sleeps on the wall clock.
var SystemClock Clock = sleeper{}

// Timing constraints of the controller. The values carry margin over the
// datasheet minimums given in the comments.
const (
	powerOnDelay   = 50 * time.Millisecond   // >= 40ms after Vcc rises to 2.7V
	resetDelayLong = 4500 * time.Microsecond // >= 4.1ms
	resetDelay     = 150 * time.Microsecond  // >= 100us
	pulseDelay     = time.Microsecond        // enable pulse >= 450ns
	settleDelay    = 100 * time.Microsecond  // commands need > 37us
	clearDelay     = 2 * time.Millisecond    // clear and home take 1.52ms
)
