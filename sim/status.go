package sim

import (
	"fmt"
	"io"

	"potbuzz/core"
	"potbuzz/protocol"
)

// Status is a snapshot of the board and the firmware
type Status struct {
	Pot     uint16
	Reading uint16
	Compare uint16
	Hz      uint32
	Button  bool
	LED     bool
	Power   core.PowerState
	Stats   core.Stats
	Tasks   [core.TaskMax]core.TaskDescriptor
}

// Status collects a snapshot. Each firmware value is read in its own
// critical section.
func (m *Machine) Status() Status {
	compare := m.fw.Compare()
	return Status{
		Pot:     m.Pot(),
		Reading: m.fw.Reading(),
		Compare: compare,
		Hz:      protocol.CompareToHz(compare),
		Button:  m.Button(),
		LED:     m.LED(),
		Power:   m.fw.Power().State(),
		Stats:   m.fw.Stats(),
		Tasks:   m.fw.Scheduler().Snapshot(),
	}
}

func level(high bool) string {
	if high {
		return "high"
	}
	return "low"
}

// Print writes the snapshot in a human readable form
func (s Status) Print(w io.Writer) {
	fmt.Fprintf(w, "pot=%d reading=%d compare=%d (%d Hz)\n", s.Pot, s.Reading, s.Compare, s.Hz)
	fmt.Fprintf(w, "power=%s button=%s led=%s\n", s.Power, level(s.Button), level(s.LED))
	st := s.Stats
	fmt.Fprintf(w, "ticks=%d conversions=%d overruns=%d reports=%d report_errors=%d\n",
		st.Ticks, st.Conversions, st.Overruns, st.Reports, st.ReportErrors)
	fmt.Fprintf(w, "clamp_low=%d clamp_high=%d pwm_errors=%d sleeps=%d wakes=%d\n",
		st.ClampLow, st.ClampHigh, st.PWMErrors, st.Sleeps, st.Wakes)
}

// PrintTasks writes the task table
func (s Status) PrintTasks(w io.Writer) {
	for _, t := range s.Tasks {
		fmt.Fprintf(w, "slot=%d task=%s delay=%d interval=%d pending=%d\n",
			t.Slot, t.ID, t.Delay, t.Interval, t.Pending)
	}
}
