package sim

import (
	"time"

	"github.com/golang/glog"

	"potbuzz/core"
)

// ADC

func (m *Machine) ConfigureChannel(ch core.ADCChannelID) error {
	m.mu.Lock()
	m.channel = ch
	m.mu.Unlock()
	return nil
}

// StartConversion samples the potentiometer and raises the completion
// interrupt after the conversion latency.
func (m *Machine) StartConversion(ch core.ADCChannelID) error {
	latency := time.Duration(float64(m.cfg.ADCLatency) / m.speed())
	time.AfterFunc(latency, func() {
		m.Raise(Event{Kind: EventADCComplete, Value: m.Pot()})
	})
	return nil
}

func (m *Machine) speed() float64 {
	if m.cfg.Speed > 0 {
		return m.cfg.Speed
	}
	return 1
}

// SetPot sets the raw 10-bit potentiometer value
func (m *Machine) SetPot(raw uint16) {
	if raw > 1023 {
		raw = 1023
	}
	m.mu.Lock()
	m.pot = raw
	m.mu.Unlock()
}

// Pot returns the raw potentiometer value
func (m *Machine) Pot() uint16 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pot
}

// PWM

func (m *Machine) ConfigureBuzzer(compare uint16) error {
	return m.SetCompare(compare)
}

func (m *Machine) SetCompare(compare uint16) error {
	m.mu.Lock()
	m.compares = append(m.compares, compare)
	m.mu.Unlock()
	return nil
}

// Compares returns every compare value written to the PWM unit
func (m *Machine) Compares() []uint16 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]uint16(nil), m.compares...)
}

// Serial

func (m *Machine) Configure(baud uint32) error {
	m.mu.Lock()
	m.baud = baud
	m.mu.Unlock()
	return nil
}

func (m *Machine) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg.Output.Write(p)
}

// Baud returns the configured serial rate
func (m *Machine) Baud() uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.baud
}

// GPIO

func (m *Machine) ConfigureOutput(pin core.GPIOPin) error {
	return nil
}

func (m *Machine) ConfigureInputPullUp(pin core.GPIOPin) error {
	return nil
}

func (m *Machine) SetPin(pin core.GPIOPin, value bool) error {
	if pin == m.cfg.Firmware.LEDPin {
		m.mu.Lock()
		m.led = value
		m.mu.Unlock()
	}
	return nil
}

func (m *Machine) ReadPin(pin core.GPIOPin) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch pin {
	case m.wakePin:
		return m.button
	case m.cfg.Firmware.LEDPin:
		return m.led
	}
	return false
}

// SetButton drives the wake pin. Low means pressed. A level change raises
// the pin-change interrupt.
func (m *Machine) SetButton(high bool) {
	m.mu.Lock()
	changed := m.button != high
	m.button = high
	m.mu.Unlock()
	if changed {
		glog.V(1).Infof("sim: wake pin -> %v", high)
		m.Raise(Event{Kind: EventPinChange})
	}
}

// Button returns the wake pin level
func (m *Machine) Button() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.button
}

// LED returns the status LED level
func (m *Machine) LED() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.led
}

// Power

func (m *Machine) ConfigureWake(pin core.GPIOPin) error {
	m.mu.Lock()
	m.wakePin = pin
	m.mu.Unlock()
	return nil
}

func (m *Machine) SetStandby() {
	m.mu.Lock()
	m.standby = true
	m.mu.Unlock()
}

// SleepEnable sets the enable flag and drops any wake that arrived before it
func (m *Machine) SleepEnable() {
	m.mu.Lock()
	m.sleepEnabled = true
	m.mu.Unlock()
	select {
	case <-m.wake:
	default:
	}
}

// Sleep unmasks interrupts and blocks until a pin-change interrupt or
// the machine stops. A wake raised after SleepEnable is latched, so the
// unlock before the wait cannot lose it. With the enable flag clear it
// returns at once, like the sleep instruction.
func (m *Machine) Sleep(state core.State) {
	core.RestoreInterrupts(state)
	m.mu.Lock()
	if !m.sleepEnabled {
		m.mu.Unlock()
		return
	}
	m.sleeping = true
	ctx := m.ctx
	m.mu.Unlock()

	var done <-chan struct{}
	if ctx != nil {
		done = ctx.Done()
	}
	select {
	case <-m.wake:
	case <-done:
	}

	m.mu.Lock()
	m.sleeping = false
	m.mu.Unlock()
}

func (m *Machine) SleepDisable() {
	m.mu.Lock()
	m.sleepEnabled = false
	m.mu.Unlock()
}

// Sleeping reports whether the CPU is parked in Sleep
func (m *Machine) Sleeping() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sleeping
}
