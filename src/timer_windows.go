package main

import (
	"syscall"
	"unsafe"
)

var (
	winmmDLL                      = syscall.NewLazyDLL("winmm.dll")
	procTimeBeginPeriod           = winmmDLL.NewProc("timeBeginPeriod")
	kernel32DLL                   = syscall.NewLazyDLL("kernel32.dll")
	procQueryPerformanceCounter   = kernel32DLL.NewProc("QueryPerformanceCounter")
	procQueryPerformanceFrequency = kernel32DLL.NewProc("QueryPerformanceFrequency")
)

// counter ticks per second, fixed at boot
var qpcFrequency = queryPerformanceFrequency()

// setTimerResolution asks the scheduler for period-millisecond granularity so
// the 1ms sleeps in frameClock.wait do not stretch to 15ms.
func setTimerResolution(period int) {
	procTimeBeginPeriod.Call(uintptr(period))
}

func queryPerformanceFrequency() int64 {
	var freq int64
	procQueryPerformanceFrequency.Call(uintptr(unsafe.Pointer(&freq)))
	if freq <= 0 {
		return 1
	}
	return freq
}

// On Windows time.Now only has 1ms precision, so getTimer reads the
// performance counter. Its readings are counter ticks, not nanoseconds.
func getTimer() int64 {
	var ticks int64
	procQueryPerformanceCounter.Call(uintptr(unsafe.Pointer(&ticks)))
	return ticks
}

// timerElapsed returns the nanoseconds since a getTimer reading.
func timerElapsed(start int64) int64 {
	ticks := getTimer() - start
	secs := ticks / qpcFrequency
	rest := ticks % qpcFrequency
	return secs*1e9 + rest*1e9/qpcFrequency
}
