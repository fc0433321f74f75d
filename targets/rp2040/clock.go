//go:build rp2040

package main

import (
	"runtime/volatile"
	"unsafe"
)

// RP2040 Timer peripheral memory map
const (
	timerBase     = 0x40054000
	timerTIMERAWH = timerBase + 0x08 // Raw timer high word
	timerTIMERAWL = timerBase + 0x0C // Raw timer low word
)

var (
	timerRAWH = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWH)))
	timerRAWL = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWL)))
)

// overflowPeriodUs is the period of the emulated timer overflow.
// 20 overflows per tick keeps the 20 ms tick of the AVR board.
const (
	overflowPeriodUs = 1000
	overflowsPerTick = 19
)

// uptimeMicros reads the full 64-bit microsecond timer
func uptimeMicros() uint64 {
	// Must read high first, then low, then high again to detect rollover
	for {
		high1 := timerRAWH.Get()
		low := timerRAWL.Get()
		high2 := timerRAWH.Get()
		if high1 == high2 {
			return (uint64(high1) << 32) | uint64(low)
		}
	}
}

// overflowDue reports how many overflow periods have passed since *next
// and advances it. Missed periods are delivered, not dropped, unless the
// CPU was asleep; then the schedule restarts from now.
func overflowDue(next *uint64, now uint64, resumed bool) int {
	if resumed || *next == 0 {
		*next = now + overflowPeriodUs
		return 0
	}
	n := 0
	for now >= *next {
		*next += overflowPeriodUs
		n++
	}
	return n
}
