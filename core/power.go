package core

// PowerState is the state of the sleep state machine
type PowerState uint8

const (
	PowerRunning PowerState = iota
	PowerEnteringSleep
	PowerSleeping
	PowerResuming
)

func (s PowerState) String() string {
	switch s {
	case PowerRunning:
		return "running"
	case PowerEnteringSleep:
		return "entering-sleep"
	case PowerSleeping:
		return "sleeping"
	case PowerResuming:
		return "resuming"
	default:
		return "unknown"
	}
}

// PowerManager puts the system into standby while the wake pin is low.
// The state field is written by the main loop inside critical sections so
// that observers outside the loop read a consistent value.
type PowerManager struct {
	fw    *Firmware
	state PowerState
}

// State returns the current power state
func (p *PowerManager) State() PowerState {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	return p.state
}

func (p *PowerManager) setState(s PowerState, evt uint8) {
	state := disableInterrupts()
	p.state = s
	if evt != 0 {
		p.fw.events.record(evt, p.fw.ticks.ticks, 0)
	}
	restoreInterrupts(state)
}

// Poll runs at the end of every main-loop iteration, with interrupts
// enabled. If the wake pin reads low it sleeps, and returns true after
// the CPU has been woken up again.
func (p *PowerManager) Poll() bool {
	f := p.fw
	if f.drv.GPIO.ReadPin(f.cfg.WakePin) {
		return false
	}

	// Everything up to the sleep instruction runs masked. The driver
	// unmasks and sleeps in one step, so a wake edge from here on stays
	// pending and ends the sleep.
	state := disableInterrupts()
	p.state = PowerEnteringSleep
	f.stats.Sleeps++
	f.events.record(EvtSleep, f.ticks.ticks, 0)
	f.drv.Power.SetStandby()
	f.drv.Power.SleepEnable()
	p.setLED(false)
	p.state = PowerSleeping

	f.drv.Power.Sleep(state)

	p.setState(PowerResuming, 0)
	f.drv.Power.SleepDisable()
	p.setLED(true)
	p.setState(PowerRunning, EvtResume)
	return true
}

// onPinChange is the wake interrupt body. The wake itself is done by the
// hardware; this only accounts for it.
func (p *PowerManager) onPinChange() {
	f := p.fw
	f.stats.Wakes++
	var asleep uint16
	if p.state == PowerSleeping {
		asleep = 1
	}
	f.events.record(EvtWake, f.ticks.ticks, asleep)
}

func (p *PowerManager) setLED(on bool) {
	f := p.fw
	if !f.cfg.UseLED {
		return
	}
	if err := f.drv.GPIO.SetPin(f.cfg.LEDPin, on); err != nil {
		DebugPrintln("[POWER] led: " + err.Error())
	}
}
