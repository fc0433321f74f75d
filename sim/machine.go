package sim

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/golang/glog"

	"potbuzz/core"
)

const (
	// DefaultADCLatency is 13 ADC clocks at 125 kHz (16 MHz / 128)
	DefaultADCLatency = 104 * time.Microsecond
	// DefaultIdle is the pause between main-loop iterations
	DefaultIdle = 200 * time.Microsecond

	eventQueueSize = 256
)

var ErrRunning = errors.New("machine already running")

// Config describes the simulated board
type Config struct {
	Firmware core.Config

	// OverflowPeriod is the virtual time between timer overflows
	OverflowPeriod time.Duration
	// Speed scales virtual time. Zero stops the clock, overflows are then
	// raised by hand with Overflow.
	Speed float64
	// ADCLatency is the virtual conversion time
	ADCLatency time.Duration
	// Idle is the wall time between main-loop iterations
	Idle time.Duration

	// Output receives everything the firmware writes to the serial port
	Output io.Writer
}

// DefaultConfig models the AVR reference board at real speed
func DefaultConfig() Config {
	return Config{
		Firmware:       core.DefaultConfig(),
		OverflowPeriod: time.Duration(core.OverflowPeriodNano),
		Speed:          1,
		ADCLatency:     DefaultADCLatency,
		Idle:           DefaultIdle,
	}
}

func (c *Config) applyDefaults() {
	if c.OverflowPeriod <= 0 {
		c.OverflowPeriod = time.Duration(core.OverflowPeriodNano)
	}
	if c.ADCLatency <= 0 {
		c.ADCLatency = DefaultADCLatency
	}
	if c.Idle <= 0 {
		c.Idle = DefaultIdle
	}
	if c.Output == nil {
		c.Output = io.Discard
	}
}

// Machine is a simulated board. It implements every core driver
// interface and owns the firmware built on top of them.
type Machine struct {
	cfg Config
	fw  *core.Firmware
	irq irqLock

	events chan Event
	wake   chan struct{}

	mu           sync.Mutex
	ctx          context.Context
	running      bool
	pot          uint16
	button       bool
	led          bool
	compares     []uint16
	baud         uint32
	channel      core.ADCChannelID
	wakePin      core.GPIOPin
	standby      bool
	sleepEnabled bool
	sleeping     bool
	counts       map[EventKind]uint64
}

// New builds the machine and the firmware. The wake button starts
// released and the potentiometer at mid scale.
func New(cfg Config) (*Machine, error) {
	cfg.applyDefaults()
	m := &Machine{
		cfg:    cfg,
		events: make(chan Event, eventQueueSize),
		wake:   make(chan struct{}, 1),
		pot:    512,
		button: true,
		counts: make(map[EventKind]uint64),
	}
	fw, err := core.New(cfg.Firmware, core.Drivers{
		ADC:    m,
		PWM:    m,
		Serial: m,
		GPIO:   m,
		Power:  m,
	})
	if err != nil {
		return nil, err
	}
	m.fw = fw
	return m, nil
}

// Firmware returns the firmware running on the machine
func (m *Machine) Firmware() *core.Firmware {
	return m.fw
}

// Run initialises the firmware, starts the interrupt goroutine and the
// clock, then runs the main loop until ctx is cancelled. Only one machine
// may run at a time since the interrupt controller is process wide.
func (m *Machine) Run(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return ErrRunning
	}
	m.running = true
	m.ctx = ctx
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.running = false
		m.mu.Unlock()
	}()

	if err := m.fw.Init(); err != nil {
		return err
	}

	core.SetInterruptController(&m.irq)
	defer core.SetInterruptController(nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		m.serveInterrupts(ctx)
	}()
	if m.cfg.Speed > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.runClock(ctx)
		}()
	}

	glog.V(1).Infof("sim: running, overflow=%v speed=%v", m.cfg.OverflowPeriod, m.cfg.Speed)
	for ctx.Err() == nil {
		m.fw.Step()
		time.Sleep(m.cfg.Idle)
	}
	wg.Wait()
	return nil
}

// Raise queues an interrupt request. It blocks while the queue is full
// and gives up when the machine stops.
func (m *Machine) Raise(ev Event) {
	m.mu.Lock()
	ctx := m.ctx
	m.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case m.events <- ev:
	case <-ctx.Done():
	}
}

// Overflow raises n timer overflow interrupts
func (m *Machine) Overflow(n int) {
	for i := 0; i < n; i++ {
		m.Raise(Event{Kind: EventOverflow})
	}
}

// serveInterrupts runs handlers one at a time with interrupts masked
func (m *Machine) serveInterrupts(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-m.events:
			m.irq.mu.Lock()
			m.dispatch(ev)
			m.irq.mu.Unlock()
		}
	}
}

func (m *Machine) dispatch(ev Event) {
	m.mu.Lock()
	m.counts[ev.Kind]++
	halted := m.sleeping && m.standby
	m.mu.Unlock()

	switch ev.Kind {
	case EventOverflow:
		// timer2 keeps its clock in power-save only, standby stops it
		if halted {
			return
		}
		m.fw.Overflow()
	case EventADCComplete:
		m.fw.ConversionComplete(ev.Value)
	case EventPinChange:
		m.fw.PinChange()
		m.wakeCPU()
	}
}

// wakeCPU releases a pending Sleep
func (m *Machine) wakeCPU() {
	m.mu.Lock()
	enabled := m.sleepEnabled
	m.mu.Unlock()
	if !enabled {
		return
	}
	select {
	case m.wake <- struct{}{}:
	default:
	}
}

// EventCount returns how many events of kind were handled
func (m *Machine) EventCount(kind EventKind) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[kind]
}
