//go:build !windows

package main

import "time"

// readings are taken against the monotonic clock
var clockEpoch = time.Now()

// Timer resolution only needs raising on windows.
func setTimerResolution(period int) {}

func getTimer() int64 {
	return int64(time.Since(clockEpoch))
}

// timerElapsed returns the nanoseconds since a getTimer reading.
func timerElapsed(start int64) int64 {
	return getTimer() - start
}
