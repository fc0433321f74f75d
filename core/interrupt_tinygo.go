//go:build tinygo

package core

import "runtime/interrupt"

// State is the saved interrupt state
type State = interrupt.State

// disableInterrupts masks every interrupt source (cli on AVR, cpsid on
// Cortex-M) and returns the previous state
func disableInterrupts() State {
	return interrupt.Disable()
}

// restoreInterrupts puts back the state saved by disableInterrupts
func restoreInterrupts(state State) {
	interrupt.Restore(state)
}

// RestoreInterrupts lets a PowerDriver close the critical section that
// Poll hands to Sleep
func RestoreInterrupts(state State) {
	interrupt.Restore(state)
}
