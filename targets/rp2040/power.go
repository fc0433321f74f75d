//go:build rp2040

package main

import (
	"device/arm"
	"machine"
	"runtime/volatile"

	"potbuzz/core"
)

// RPPowerDriver parks the core in wfi until the wake pin toggles. The
// scheduler does not run while parked, so the overflow loop stops like
// timer2 does in standby.
type RPPowerDriver struct {
	fw      *core.Firmware
	enabled volatile.Register8
	woken   volatile.Register8
	resumed volatile.Register8
}

func (d *RPPowerDriver) ConfigureWake(pin core.GPIOPin) error {
	return machine.Pin(pin).SetInterrupt(machine.PinToggle, func(machine.Pin) {
		d.woken.Set(1)
		d.fw.PinChange()
	})
}

// SetStandby has no mode bits to set here, wfi is the only sleep used
func (d *RPPowerDriver) SetStandby() {}

func (d *RPPowerDriver) SleepEnable() {
	d.woken.Set(0)
	d.enabled.Set(1)
}

// Sleep unmasks and parks. The pin handler latches woken, so an edge
// taken between cpsie and wfi still ends the loop.
func (d *RPPowerDriver) Sleep(state core.State) {
	core.RestoreInterrupts(state)
	if d.enabled.Get() == 0 {
		return
	}
	// other interrupts (USB, systick) also end wfi
	for d.woken.Get() == 0 {
		arm.Asm("wfi")
	}
	d.resumed.Set(1)
}

func (d *RPPowerDriver) SleepDisable() {
	d.enabled.Set(0)
}

// takeResumed reports and clears a completed sleep
func (d *RPPowerDriver) takeResumed() bool {
	if d.resumed.Get() == 0 {
		return false
	}
	d.resumed.Set(0)
	return true
}
