package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickEveryThresholdPlusOneOverflows(t *testing.T) {
	s := NewScheduler()
	g := NewTickGenerator(OverflowsPerTickAVR, s)

	for i := 0; i < OverflowsPerTickAVR; i++ {
		g.Overflow()
	}
	require.Equal(t, uint32(0), g.Ticks())

	g.Overflow()
	assert.Equal(t, uint32(1), g.Ticks())

	for i := 0; i < 10*(OverflowsPerTickAVR+1); i++ {
		g.Overflow()
	}
	assert.Equal(t, uint32(11), g.Ticks())
}

func TestTickDrivesScheduler(t *testing.T) {
	s := NewScheduler()
	require.NoError(t, s.Register(0, TaskADC, 0, 100))
	g := NewTickGenerator(0, s)

	g.Overflow()
	assert.Equal(t, uint8(1), s.Snapshot()[0].Pending)
}

func TestTickPeriod(t *testing.T) {
	assert.Equal(t, 128000, OverflowPeriodNano)
	// 157 overflows of 128 us
	assert.Equal(t, uint64(20096000), TickPeriodNano(OverflowPeriodNano, OverflowsPerTickAVR))
	assert.Equal(t, uint64(20000000), TickPeriodNano(1000000, 19))
}
