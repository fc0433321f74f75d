package core

// Reading and compare ranges of the control loop.
//
// The compare range comes from the fast PWM output frequency
// F_CPU / (2*64*(1+OCR1A)): 124 gives 1000 Hz and 2499 gives 50 Hz.
const (
	ReadingMin = 50
	ReadingMax = 1000
	CompareMin = 124
	CompareMax = 2499
)

// ClampReading forces a raw 10-bit sample into [ReadingMin, ReadingMax]
func ClampReading(raw uint16) uint16 {
	if raw < ReadingMin {
		return ReadingMin
	}
	if raw > ReadingMax {
		return ReadingMax
	}
	return raw
}

// MapCompare maps a raw sample to the PWM compare value.
//
// The clamped reading is scaled against ReadingMax without subtracting
// ReadingMin first, so the lowest reachable compare value is 242, not 124.
func MapCompare(raw uint16) uint16 {
	clamped := uint32(ClampReading(raw))
	return CompareMin + uint16((CompareMax-CompareMin)*clamped/ReadingMax)
}

// sampleTask is the ADC task body: select the channel and start a
// conversion. The result arrives later through ConversionComplete.
func (f *Firmware) sampleTask() {
	state := disableInterrupts()
	if f.converting {
		// Previous conversion has not completed; starting another would
		// clobber it.
		f.stats.Overruns++
		f.events.record(EvtOverrun, f.ticks.ticks, 0)
		restoreInterrupts(state)
		return
	}
	f.converting = true
	restoreInterrupts(state)

	if err := f.drv.ADC.StartConversion(f.cfg.ADCChannel); err != nil {
		state = disableInterrupts()
		f.converting = false
		restoreInterrupts(state)
		DebugPrintln("[ADC] start failed: " + err.Error())
	}
}

// ConversionComplete is the ADC completion interrupt handler. It clamps
// the raw sample, maps it, stores the frequency control value and applies
// it to the PWM output at once.
func (f *Firmware) ConversionComplete(raw uint16) {
	f.converting = false
	f.stats.Conversions++

	clamped := ClampReading(raw)
	switch {
	case raw < ReadingMin:
		f.stats.ClampLow++
		f.events.record(EvtClampLow, f.ticks.ticks, raw)
	case raw > ReadingMax:
		f.stats.ClampHigh++
		f.events.record(EvtClampHigh, f.ticks.ticks, raw)
	}
	f.reading = clamped

	compare := MapCompare(raw)
	f.compare = compare
	if err := f.drv.PWM.SetCompare(compare); err != nil {
		f.stats.PWMErrors++
	}
}
