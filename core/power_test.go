package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollStaysAwakeWhilePinHigh(t *testing.T) {
	r := newRig(t, DefaultConfig())
	assert.False(t, r.fw.Power().Poll())
	assert.Empty(t, r.power.calls)
	assert.Equal(t, PowerRunning, r.fw.Power().State())
}

func TestSleepSequence(t *testing.T) {
	irq := installIRQ(t)
	cfg := DefaultConfig()
	r := newRig(t, cfg)
	r.power.irq = irq

	var stateWhileAsleep PowerState
	r.power.onSleep = func() {
		stateWhileAsleep = r.fw.power.state
		// button released: pin change interrupt wakes the CPU
		r.gpio.levels[cfg.WakePin] = true
		r.fw.PinChange()
	}

	before := r.fw.Scheduler().Snapshot()
	r.gpio.levels[cfg.WakePin] = false
	require.True(t, r.fw.Power().Poll())

	assert.Equal(t, []string{"standby", "enable", "sleep", "disable"}, r.power.calls)
	// standby and sleep-enable are armed with interrupts masked, the sleep
	// instruction itself runs with them enabled again
	assert.Equal(t, []bool{true, true, false, false}, r.power.masked)

	assert.Equal(t, PowerSleeping, stateWhileAsleep)
	assert.Equal(t, PowerRunning, r.fw.Power().State())
	assert.Equal(t, before, r.fw.Scheduler().Snapshot())

	st := r.fw.Stats()
	assert.Equal(t, uint32(1), st.Sleeps)
	assert.Equal(t, uint32(1), st.Wakes)

	var types []uint8
	for _, e := range r.fw.Events() {
		types = append(types, e.Type)
	}
	assert.Equal(t, []uint8{EvtSleep, EvtWake, EvtResume}, types)
	assert.Equal(t, uint16(1), r.fw.Events()[1].Value)
}

// A wake edge during sleep entry must stay pending until the sleep
// instruction. If the handler ran before it, nothing would be left to
// end the sleep and the CPU would stay in standby with the button up.
func TestWakeDuringSleepEntryEndsSleep(t *testing.T) {
	irq := installIRQ(t)
	cfg := DefaultConfig()
	cfg.UseLED = true
	r := newRig(t, cfg)
	r.power.irq = irq

	var pending, stuck bool
	r.gpio.onSet = func(pin GPIOPin, value bool) {
		if pin != cfg.LEDPin || value {
			return
		}
		// button released while the LED goes dark
		r.gpio.levels[cfg.WakePin] = true
		if irq.disabled {
			pending = true
		} else {
			r.fw.PinChange()
		}
	}
	r.power.onSleep = func() {
		if !pending {
			stuck = true
			return
		}
		pending = false
		r.fw.PinChange()
	}

	r.gpio.levels[cfg.WakePin] = false
	require.True(t, r.fw.Power().Poll())
	assert.False(t, stuck)
	assert.Equal(t, PowerRunning, r.fw.Power().State())

	var wakes []Event
	for _, e := range r.fw.Events() {
		if e.Type == EvtWake {
			wakes = append(wakes, e)
		}
	}
	require.Len(t, wakes, 1)
	assert.Equal(t, uint16(1), wakes[0].Value)
}

func TestSleepStateSetBeforeUnmask(t *testing.T) {
	irq := installIRQ(t)
	cfg := DefaultConfig()
	cfg.UseLED = true
	r := newRig(t, cfg)
	r.power.irq = irq

	var ledMasked bool
	r.gpio.onSet = func(pin GPIOPin, value bool) {
		if pin == cfg.LEDPin && !value {
			ledMasked = irq.disabled
		}
	}
	var stateAtSleep PowerState
	r.power.onSleep = func() {
		stateAtSleep = r.fw.power.state
		r.gpio.levels[cfg.WakePin] = true
	}
	r.gpio.levels[cfg.WakePin] = false
	require.True(t, r.fw.Power().Poll())

	assert.True(t, ledMasked)
	assert.Equal(t, PowerSleeping, stateAtSleep)
	assert.False(t, irq.disabled)
}

func TestPinChangeWhileRunning(t *testing.T) {
	r := newRig(t, DefaultConfig())
	r.fw.PinChange()

	events := r.fw.Events()
	require.Len(t, events, 1)
	assert.Equal(t, uint8(EvtWake), events[0].Type)
	assert.Equal(t, uint16(0), events[0].Value)
	assert.Equal(t, PowerRunning, r.fw.Power().State())
}

func TestStatusLEDFollowsSleep(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UseLED = true
	r := newRig(t, cfg)
	require.True(t, r.gpio.outputs[cfg.LEDPin])
	require.True(t, r.gpio.levels[cfg.LEDPin])

	var ledAsleep bool
	r.power.onSleep = func() {
		ledAsleep = r.gpio.levels[cfg.LEDPin]
		r.gpio.levels[cfg.WakePin] = true
	}
	r.gpio.levels[cfg.WakePin] = false
	r.fw.Step()

	assert.False(t, ledAsleep)
	assert.True(t, r.gpio.levels[cfg.LEDPin])
}

func TestStepDispatchesBeforeSleeping(t *testing.T) {
	cfg := DefaultConfig()
	r := newRig(t, cfg)
	r.tick(1)

	r.power.onSleep = func() {
		// the ADC task already started its conversion this iteration
		assert.Len(t, r.adc.started, 1)
		r.gpio.levels[cfg.WakePin] = true
	}
	r.gpio.levels[cfg.WakePin] = false
	assert.Equal(t, 1, r.fw.Step())
	assert.Contains(t, r.power.calls, "sleep")
}

func TestPowerStateString(t *testing.T) {
	assert.Equal(t, "running", PowerRunning.String())
	assert.Equal(t, "entering-sleep", PowerEnteringSleep.String())
	assert.Equal(t, "sleeping", PowerSleeping.String())
	assert.Equal(t, "resuming", PowerResuming.String())
}
