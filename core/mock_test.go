package core

import (
	"errors"
	"testing"
)

// recordingIRQ is an InterruptController that tracks the mask state and
// counts critical sections.
type recordingIRQ struct {
	disabled bool
	count    int
}

func (c *recordingIRQ) Disable() State {
	prev := State(0)
	if c.disabled {
		prev = 1
	}
	c.disabled = true
	c.count++
	return prev
}

func (c *recordingIRQ) Restore(state State) {
	c.disabled = state != 0
}

func installIRQ(t *testing.T) *recordingIRQ {
	t.Helper()
	c := &recordingIRQ{}
	SetInterruptController(c)
	t.Cleanup(func() { SetInterruptController(nil) })
	return c
}

type mockADC struct {
	configured []ADCChannelID
	started    []ADCChannelID
	startErr   error
}

func (m *mockADC) ConfigureChannel(ch ADCChannelID) error {
	m.configured = append(m.configured, ch)
	return nil
}

func (m *mockADC) StartConversion(ch ADCChannelID) error {
	if m.startErr != nil {
		return m.startErr
	}
	m.started = append(m.started, ch)
	return nil
}

type mockPWM struct {
	initial uint16
	history []uint16
	err     error
}

func (m *mockPWM) ConfigureBuzzer(compare uint16) error {
	m.initial = compare
	return nil
}

func (m *mockPWM) SetCompare(compare uint16) error {
	m.history = append(m.history, compare)
	return m.err
}

type mockSerial struct {
	baud   uint32
	writes [][]byte
	err    error
}

func (m *mockSerial) Configure(baud uint32) error {
	m.baud = baud
	return nil
}

func (m *mockSerial) Write(p []byte) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.writes = append(m.writes, append([]byte(nil), p...))
	return len(p), nil
}

type mockGPIO struct {
	levels  map[GPIOPin]bool
	outputs map[GPIOPin]bool
	pullups map[GPIOPin]bool
	sets    []bool
	onSet   func(pin GPIOPin, value bool)
}

func newMockGPIO() *mockGPIO {
	return &mockGPIO{
		levels:  make(map[GPIOPin]bool),
		outputs: make(map[GPIOPin]bool),
		pullups: make(map[GPIOPin]bool),
	}
}

func (m *mockGPIO) ConfigureOutput(pin GPIOPin) error {
	m.outputs[pin] = true
	return nil
}

func (m *mockGPIO) ConfigureInputPullUp(pin GPIOPin) error {
	m.pullups[pin] = true
	m.levels[pin] = true
	return nil
}

func (m *mockGPIO) SetPin(pin GPIOPin, value bool) error {
	m.levels[pin] = value
	m.sets = append(m.sets, value)
	if m.onSet != nil {
		m.onSet(pin, value)
	}
	return nil
}

func (m *mockGPIO) ReadPin(pin GPIOPin) bool {
	return m.levels[pin]
}

// mockPower records the sleep sequence together with the interrupt mask
// at each step.
type mockPower struct {
	irq      *recordingIRQ
	wakePin  GPIOPin
	calls    []string
	masked   []bool
	onSleep  func()
	sleeping bool
}

func (m *mockPower) note(call string) {
	m.calls = append(m.calls, call)
	masked := false
	if m.irq != nil {
		masked = m.irq.disabled
	}
	m.masked = append(m.masked, masked)
}

func (m *mockPower) ConfigureWake(pin GPIOPin) error {
	m.wakePin = pin
	return nil
}

func (m *mockPower) SetStandby()  { m.note("standby") }
func (m *mockPower) SleepEnable() { m.note("enable") }
func (m *mockPower) SleepDisable() {
	m.note("disable")
}

func (m *mockPower) Sleep(state State) {
	RestoreInterrupts(state)
	m.note("sleep")
	m.sleeping = true
	if m.onSleep != nil {
		m.onSleep()
	}
	m.sleeping = false
}

type rig struct {
	fw     *Firmware
	adc    *mockADC
	pwm    *mockPWM
	serial *mockSerial
	gpio   *mockGPIO
	power  *mockPower
}

func newRig(t *testing.T, cfg Config) *rig {
	t.Helper()
	r := &rig{
		adc:    &mockADC{},
		pwm:    &mockPWM{},
		serial: &mockSerial{},
		gpio:   newMockGPIO(),
		power:  &mockPower{},
	}
	fw, err := New(cfg, Drivers{
		ADC:    r.adc,
		PWM:    r.pwm,
		Serial: r.serial,
		GPIO:   r.gpio,
		Power:  r.power,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := fw.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	r.fw = fw
	return r
}

// tick delivers n scheduler ticks worth of timer overflows
func (r *rig) tick(n int) {
	per := int(r.fw.cfg.OverflowsPerTick) + 1
	for i := 0; i < n*per; i++ {
		r.fw.Overflow()
	}
}

var errWire = errors.New("wire fault")
