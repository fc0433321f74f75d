package core

// ReportSource selects which value the reporting task prints
type ReportSource uint8

const (
	// ReportCompare prints the frequency control (PWM compare) value
	ReportCompare ReportSource = iota
	// ReportReading prints the clamped ADC reading (legacy terminal output)
	ReportReading
)

func (r ReportSource) String() string {
	switch r {
	case ReportCompare:
		return "compare"
	case ReportReading:
		return "reading"
	default:
		return "unknown"
	}
}

// Config is the build-time firmware configuration.
// Delays and intervals are in ticks.
type Config struct {
	OverflowsPerTick uint16 // tick fires when the overflow count before increment reaches this

	ADCChannel  ADCChannelID
	ADCDelay    int16
	ADCInterval uint16

	ReportDelay    int16
	ReportInterval uint16
	Report         ReportSource

	InitialCompare uint16
	Baud           uint32

	WakePin GPIOPin
	LEDPin  GPIOPin
	UseLED  bool
}

// Reference timing for an ATmega328P at 16 MHz
const (
	// OverflowsPerTickAVR gives a 20 ms tick from timer2 (8-bit, prescaler 8)
	OverflowsPerTickAVR = 156

	// DefaultInitialCompare starts the buzzer near 440 Hz
	DefaultInitialCompare = 283

	DefaultBaud = 9600
)

// DefaultConfig returns the configuration of the reference board:
// ADC sampled every 100 ticks starting at once, report every 100 ticks
// starting after 50.
func DefaultConfig() Config {
	return Config{
		OverflowsPerTick: OverflowsPerTickAVR,
		ADCChannel:       0,
		ADCDelay:         0,
		ADCInterval:      100,
		ReportDelay:      50,
		ReportInterval:   100,
		Report:           ReportCompare,
		InitialCompare:   DefaultInitialCompare,
		Baud:             DefaultBaud,
		WakePin:          18, // PD2 / PCINT18
		LEDPin:           21, // PD5
		UseLED:           false,
	}
}

// applyDefaults fills zero values that would leave the firmware inert
func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.OverflowsPerTick == 0 {
		c.OverflowsPerTick = def.OverflowsPerTick
	}
	if c.InitialCompare == 0 {
		c.InitialCompare = def.InitialCompare
	}
	if c.Baud == 0 {
		c.Baud = def.Baud
	}
}
