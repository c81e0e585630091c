package main

import (
	"testing"
	"time"
)

func TestFrameClockWaitsOnePeriod(t *testing.T) {
	const period = 5 * time.Millisecond
	clock := newFrameClock(period)

	start := time.Now()
	clock.wait()
	clock.wait()
	if elapsed := time.Since(start); elapsed < 2*period-time.Millisecond {
		t.Errorf("two waits: expected at least %v, got %v", 2*period, elapsed)
	}
}

func TestFrameClockDoesNotWaitWhenLate(t *testing.T) {
	clock := newFrameClock(time.Millisecond)
	time.Sleep(3 * time.Millisecond)

	start := time.Now()
	clock.wait()
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("late wait: expected to return promptly, got %v", elapsed)
	}
}
