// Package sim runs the firmware core on a hosted Go runtime.
//
// Each hardware interrupt is an Event on a channel. A single goroutine
// takes the events in order and runs the matching handler to completion
// while holding the interrupt lock. The firmware main loop runs in a
// separate goroutine and takes the same lock for its critical sections,
// so a handler never runs inside a critical section and never preempts
// another handler.
package sim

import (
	"sync"

	"potbuzz/core"
)

// EventKind identifies an interrupt source
type EventKind uint8

const (
	EventOverflow    EventKind = iota + 1 // timer overflow
	EventADCComplete                      // conversion done, Value = raw result
	EventPinChange                        // wake pin changed level
)

func (k EventKind) String() string {
	switch k {
	case EventOverflow:
		return "overflow"
	case EventADCComplete:
		return "adc"
	case EventPinChange:
		return "pin-change"
	default:
		return "unknown"
	}
}

// Event is one interrupt request
type Event struct {
	Kind  EventKind
	Value uint16
}

// irqLock implements core.InterruptController with a mutex. Disable
// blocks while a handler runs; the interrupt goroutine blocks while the
// main loop is in a critical section.
type irqLock struct {
	mu sync.Mutex
}

func (l *irqLock) Disable() core.State {
	l.mu.Lock()
	return 0
}

func (l *irqLock) Restore(core.State) {
	l.mu.Unlock()
}
