package core

import "potbuzz/protocol"

// reportTask is the reporting task body. It formats one report line and
// transmits it with a single polled write.
func (f *Firmware) reportTask() {
	var value uint16
	switch f.cfg.Report {
	case ReportReading:
		// Unguarded. On AVR the ADC interrupt may replace the reading
		// halfway through the two byte loads. Only the compare value is
		// snapshotted.
		value = f.reading
	default:
		state := disableInterrupts()
		value = f.compare
		restoreInterrupts(state)
	}

	f.out.Reset()
	protocol.EncodeReport(f.out, value)

	_, err := f.drv.Serial.Write(f.out.Result())

	state := disableInterrupts()
	if err != nil {
		f.stats.ReportErrors++
		f.events.record(EvtReportError, f.ticks.ticks, value)
	} else {
		f.stats.Reports++
		f.events.record(EvtReport, f.ticks.ticks, value)
	}
	restoreInterrupts(state)

	if err != nil {
		DebugPrintln("[REPORT] write failed: " + err.Error())
	}
}
