package sim

import (
	"context"
	"time"
)

// clockResolution is the wall-clock granularity of the overflow clock
const clockResolution = time.Millisecond

// maxBurst bounds the overflows emitted per clock step so a stalled host
// does not flood the queue.
const maxBurst = 64

// runClock emits overflow events at OverflowPeriod/Speed. Virtual time
// does not advance while the CPU sleeps in standby.
func (m *Machine) runClock(ctx context.Context) {
	ticker := time.NewTicker(clockResolution)
	defer ticker.Stop()

	period := time.Duration(float64(m.cfg.OverflowPeriod) / m.cfg.Speed)
	if period <= 0 {
		period = time.Nanosecond
	}

	var owed time.Duration
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			elapsed := now.Sub(last)
			last = now
			if m.Halted() {
				owed = 0
				continue
			}
			owed += elapsed
			n := int(owed / period)
			owed -= time.Duration(n) * period
			if n > maxBurst {
				n = maxBurst
				owed = 0
			}
			m.Overflow(n)
		}
	}
}

// Halted reports whether the CPU is asleep in standby
func (m *Machine) Halted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sleeping && m.standby
}
