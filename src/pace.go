package main

import "time"

const frameDuration = time.Second / 60

// frameClock paces the main loop to a fixed frame period.
type frameClock struct {
	period int64
	last   int64
}

func newFrameClock(period time.Duration) *frameClock {
	return &frameClock{period: int64(period), last: getTimer()}
}

// wait blocks until a full period has passed since the previous call.
func (c *frameClock) wait() {
	for {
		remaining := c.period - timerElapsed(c.last)
		if remaining <= 0 {
			break
		}
		// Only busy wait when we drop under 1ms remaining
		if remaining > int64(time.Millisecond) {
			time.Sleep(time.Millisecond)
		}
	}
	c.last = getTimer()
}
