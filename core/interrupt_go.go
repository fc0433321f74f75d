//go:build !tinygo

package core

import "sync"

// State is the saved interrupt state on regular Go
type State uintptr

// InterruptController masks interrupts on hosted builds.
// Disable must block until no interrupt handler is running, and Restore
// must undo exactly one Disable. The simulator installs one so that its
// interrupt goroutine and the main loop exclude each other.
type InterruptController interface {
	Disable() State
	Restore(state State)
}

var (
	irqMu  sync.RWMutex
	irqCtl InterruptController
)

// SetInterruptController installs the controller used by critical sections.
// Passing nil restores the default no-op behaviour used by unit tests.
func SetInterruptController(c InterruptController) {
	irqMu.Lock()
	irqCtl = c
	irqMu.Unlock()
}

func controller() InterruptController {
	irqMu.RLock()
	defer irqMu.RUnlock()
	return irqCtl
}

// disableInterrupts masks interrupts and returns the previous state
func disableInterrupts() State {
	if c := controller(); c != nil {
		return c.Disable()
	}
	return 0
}

// restoreInterrupts restores the state returned by disableInterrupts
func restoreInterrupts(state State) {
	if c := controller(); c != nil {
		c.Restore(state)
	}
}

// RestoreInterrupts lets a PowerDriver close the critical section that
// Poll hands to Sleep
func RestoreInterrupts(state State) {
	restoreInterrupts(state)
}
