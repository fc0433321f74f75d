package core

// Reference timer2 arithmetic: 16 MHz / 8 prescaler, 256 counts per overflow
const (
	CPUFrequency       = 16000000
	Timer2Prescaler    = 8
	OverflowPeriodNano = 256 * Timer2Prescaler * 1000000000 / CPUFrequency // 128 us
)

// TickGenerator turns hardware timer overflows into scheduler ticks
type TickGenerator struct {
	threshold uint16
	overflows uint16
	ticks     uint32
	sched     *Scheduler
}

// NewTickGenerator returns a generator that ticks sched once every
// threshold+1 overflows.
func NewTickGenerator(threshold uint16, sched *Scheduler) *TickGenerator {
	return &TickGenerator{threshold: threshold, sched: sched}
}

// Overflow is the timer overflow interrupt handler. The counter is compared
// before it is incremented, so the tick lands on overflow threshold+1.
func (g *TickGenerator) Overflow() {
	n := g.overflows
	g.overflows++
	if n >= g.threshold {
		g.overflows = 0
		g.ticks++
		g.sched.OnTick()
	}
}

// Ticks returns the number of ticks fired so far
func (g *TickGenerator) Ticks() uint32 {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	return g.ticks
}

// TickPeriodNano returns the tick period for a given overflow period
func TickPeriodNano(overflowNano uint64, threshold uint16) uint64 {
	return overflowNano * (uint64(threshold) + 1)
}
