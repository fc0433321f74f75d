package core

import (
	"errors"

	"potbuzz/protocol"
)

// Drivers bundles the hardware abstraction boundary
type Drivers struct {
	ADC    ADCDriver
	PWM    PWMDriver
	Serial SerialDriver
	GPIO   GPIODriver
	Power  PowerDriver
}

var (
	ErrMissingDriver = errors.New("driver not configured")
	ErrCompareRange  = errors.New("initial compare value out of range")
)

// Firmware owns all state shared between the main loop and the interrupt
// handlers.
//
// Writers and readers:
//   - task table: Register (init), OnTick (timer interrupt), Dispatch (main loop)
//   - compare: ConversionComplete writes, reportTask reads under a critical section
//   - reading: ConversionComplete writes, reportTask reads unguarded
//   - stats, events: interrupt handlers directly, main loop in critical sections
type Firmware struct {
	cfg Config
	drv Drivers

	sched *Scheduler
	ticks *TickGenerator
	power PowerManager

	compare    uint16
	reading    uint16
	converting bool

	stats  Stats
	events EventRing

	out *protocol.ScratchOutput
}

// New validates the configuration and drivers and builds the firmware
// context. Nothing touches the hardware until Init.
func New(cfg Config, drv Drivers) (*Firmware, error) {
	cfg.applyDefaults()
	if drv.ADC == nil || drv.PWM == nil || drv.Serial == nil || drv.GPIO == nil || drv.Power == nil {
		return nil, ErrMissingDriver
	}
	if cfg.InitialCompare < CompareMin || cfg.InitialCompare > CompareMax {
		return nil, ErrCompareRange
	}

	f := &Firmware{
		cfg:     cfg,
		drv:     drv,
		sched:   NewScheduler(),
		compare: cfg.InitialCompare,
		out:     protocol.NewScratchOutput(),
	}
	f.ticks = NewTickGenerator(cfg.OverflowsPerTick, f.sched)
	f.power.fw = f
	return f, nil
}

// Init registers the tasks and configures the peripherals. Call it once,
// before the target enables its interrupts.
func (f *Firmware) Init() error {
	if err := f.sched.Register(0, TaskADC, f.cfg.ADCDelay, f.cfg.ADCInterval); err != nil {
		return err
	}
	if err := f.sched.Register(1, TaskReport, f.cfg.ReportDelay, f.cfg.ReportInterval); err != nil {
		return err
	}

	if err := f.drv.GPIO.ConfigureInputPullUp(f.cfg.WakePin); err != nil {
		return err
	}
	if f.cfg.UseLED {
		if err := f.drv.GPIO.ConfigureOutput(f.cfg.LEDPin); err != nil {
			return err
		}
		if err := f.drv.GPIO.SetPin(f.cfg.LEDPin, true); err != nil {
			return err
		}
	}
	if err := f.drv.Power.ConfigureWake(f.cfg.WakePin); err != nil {
		return err
	}
	if err := f.drv.PWM.ConfigureBuzzer(f.compare); err != nil {
		return err
	}
	if err := f.drv.ADC.ConfigureChannel(f.cfg.ADCChannel); err != nil {
		return err
	}
	return f.drv.Serial.Configure(f.cfg.Baud)
}

// Overflow is the timer overflow interrupt handler
func (f *Firmware) Overflow() {
	f.ticks.Overflow()
}

// PinChange is the wake-pin interrupt handler
func (f *Firmware) PinChange() {
	f.power.onPinChange()
}

// Step runs one main-loop iteration: dispatch every runnable task once,
// then sleep if the wake pin is low. It returns the number of task bodies
// that ran.
func (f *Firmware) Step() int {
	ran := f.sched.Dispatch(f.runTask)
	f.power.Poll()
	return ran
}

// Run is the firmware main loop. It never returns.
func (f *Firmware) Run() {
	for {
		f.Step()
	}
}

// runTask resolves a task id to its body
func (f *Firmware) runTask(id TaskID) {
	switch id {
	case TaskADC:
		f.sampleTask()
	case TaskReport:
		f.reportTask()
	}
}

// Scheduler exposes the task table
func (f *Firmware) Scheduler() *Scheduler {
	return f.sched
}

// Power exposes the sleep state machine
func (f *Firmware) Power() *PowerManager {
	return &f.power
}

// Config returns the configuration the firmware was built with
func (f *Firmware) Config() Config {
	return f.cfg
}

// Compare returns the current frequency control value
func (f *Firmware) Compare() uint16 {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	return f.compare
}

// Reading returns the last clamped ADC reading (0 before the first conversion)
func (f *Firmware) Reading() uint16 {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	return f.reading
}

// Stats returns a copy of the counters
func (f *Firmware) Stats() Stats {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	s := f.stats
	s.Ticks = f.ticks.ticks
	return s
}

// Events returns the event ring, oldest first
func (f *Firmware) Events() []Event {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	return f.events.Events()
}

// DumpTasks writes the task table through the debug writer
func (f *Firmware) DumpTasks() {
	for _, t := range f.sched.Snapshot() {
		debugPrintln("[TASKS] slot=" + utoa(uint32(t.Slot)) +
			" task=" + t.ID.String() +
			" delay=" + itoa(int32(t.Delay)) +
			" interval=" + utoa(uint32(t.Interval)) +
			" pending=" + utoa(uint32(t.Pending)))
	}
}

// DumpState writes the task table, the counters and the event ring
// through the debug writer. Targets call it on a fatal error, the
// simulator on exit.
func (f *Firmware) DumpState() {
	f.DumpTasks()
	st := f.Stats()
	debugPrintln("[STATS] ticks=" + utoa(st.Ticks) +
		" conversions=" + utoa(st.Conversions) +
		" overruns=" + utoa(st.Overruns) +
		" reports=" + utoa(st.Reports) +
		" sleeps=" + utoa(st.Sleeps) +
		" wakes=" + utoa(st.Wakes))
	DumpEvents(f.Events())
}
