package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// Event captures a control-loop event for post-mortem analysis
type Event struct {
	Type  uint8  // Event type code
	Tick  uint32 // Tick count at event
	Value uint16 // Context-dependent value
}

// Event type codes
const (
	EvtClampLow    = 1 // reading below range, value = raw
	EvtClampHigh   = 2 // reading above range, value = raw
	EvtOverrun     = 3 // sample skipped, conversion still outstanding
	EvtReport      = 4 // report sent, value = reported number
	EvtReportError = 5 // serial write failed
	EvtSleep       = 6 // entering standby
	EvtWake        = 7 // pin change interrupt, value = 1 if asleep
	EvtResume      = 8 // back to running
)

const EventRingSize = 32 // keep the last 32 events

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	debugEnabled bool
)

// SetDebugWriter sets the platform-specific debug output function
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// Stats are the observability counters of the control loop
type Stats struct {
	Ticks        uint32
	Conversions  uint32
	ClampLow     uint32
	ClampHigh    uint32
	Overruns     uint32
	Reports      uint32
	ReportErrors uint32
	PWMErrors    uint32
	Sleeps       uint32
	Wakes        uint32
}

// EventRing is a fixed ring of recent events. Callers serialize access:
// interrupt handlers write directly, main-loop code inside a critical section.
type EventRing struct {
	buf  [EventRingSize]Event
	head uint8
}

func (r *EventRing) record(typ uint8, tick uint32, value uint16) {
	idx := r.head
	r.buf[idx] = Event{Type: typ, Tick: tick, Value: value}
	r.head = (idx + 1) % EventRingSize
}

// Events returns the recorded events, oldest first
func (r *EventRing) Events() []Event {
	out := make([]Event, 0, EventRingSize)
	for i := uint8(0); i < EventRingSize; i++ {
		evt := r.buf[(r.head+i)%EventRingSize]
		if evt.Type == 0 {
			continue
		}
		out = append(out, evt)
	}
	return out
}

// EventName returns a short label for an event type
func EventName(typ uint8) string {
	switch typ {
	case EvtClampLow:
		return "CLAMP_LOW"
	case EvtClampHigh:
		return "CLAMP_HIGH"
	case EvtOverrun:
		return "OVERRUN"
	case EvtReport:
		return "REPORT"
	case EvtReportError:
		return "REPORT_ERR!"
	case EvtSleep:
		return "SLEEP"
	case EvtWake:
		return "WAKE"
	case EvtResume:
		return "RESUME"
	default:
		return "UNKNOWN"
	}
}

// DumpEvents writes events through the debug writer
func DumpEvents(events []Event) {
	if debugPrintln == nil {
		return
	}
	debugPrintln("[EVENTS] === Event Ring Dump ===")
	for _, evt := range events {
		debugPrintln("[EVENTS] " + EventName(evt.Type) +
			" tick=" + utoa(evt.Tick) +
			" value=" + utoa(uint32(evt.Value)))
	}
	debugPrintln("[EVENTS] === End Dump ===")
}
