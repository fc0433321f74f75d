package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRejectsBadSlot(t *testing.T) {
	s := NewScheduler()
	assert.ErrorIs(t, s.Register(TaskMax, TaskADC, 0, 100), ErrSlotRange)
	assert.ErrorIs(t, s.Register(0, TaskID(9), 0, 100), ErrUnknownTask)
	require.NoError(t, s.Register(1, TaskReport, 50, 100))

	table := s.Snapshot()
	assert.Equal(t, TaskNone, table[0].ID)
	assert.Equal(t, TaskDescriptor{Slot: 1, ID: TaskReport, Delay: 50, Interval: 100}, table[1])
}

func TestRegisterRejectsWideInterval(t *testing.T) {
	s := NewScheduler()
	assert.ErrorIs(t, s.Register(0, TaskADC, 0, 40000), ErrIntervalRange)
	assert.Equal(t, TaskNone, s.Snapshot()[0].ID)

	require.NoError(t, s.Register(0, TaskADC, 0, math.MaxInt16))
	s.OnTick()
	d := s.Snapshot()[0]
	assert.Equal(t, int16(math.MaxInt16), d.Delay)
	assert.Equal(t, uint8(1), d.Pending)
}

func TestEmptySlotNeverDispatched(t *testing.T) {
	s := NewScheduler()
	for i := 0; i < 500; i++ {
		s.OnTick()
	}
	ran := s.Dispatch(func(id TaskID) {
		t.Fatalf("dispatched %v from an empty table", id)
	})
	assert.Equal(t, 0, ran)
	for _, d := range s.Snapshot() {
		assert.Equal(t, uint8(0), d.Pending)
		assert.Equal(t, int16(0), d.Delay)
	}
}

// runTicks ticks s n times, draining after every tick, and returns the
// 1-based tick numbers on which id ran.
func runTicks(s *Scheduler, n int, id TaskID) []int {
	var runs []int
	for tick := 1; tick <= n; tick++ {
		s.OnTick()
		s.Dispatch(func(got TaskID) {
			if got == id {
				runs = append(runs, tick)
			}
		})
	}
	return runs
}

func TestFirstRunAfterDelayPlusOne(t *testing.T) {
	testCases := []struct {
		name     string
		delay    int16
		interval uint16
	}{
		{"adc task", 0, 100},
		{"report task", 50, 100},
		{"short", 3, 5},
		{"interval one", 2, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewScheduler()
			require.NoError(t, s.Register(0, TaskADC, tc.delay, tc.interval))

			runs := runTicks(s, 1000, TaskADC)
			require.NotEmpty(t, runs)
			assert.Equal(t, int(tc.delay)+1, runs[0])

			// Reload to the interval then fire on zero: one extra tick per period
			for i := 1; i < len(runs); i++ {
				assert.Equal(t, int(tc.interval)+1, runs[i]-runs[i-1], "gap before run %d", i)
			}
		})
	}
}

func TestADCPendingAfterHundredTicksWithoutDispatch(t *testing.T) {
	s := NewScheduler()
	require.NoError(t, s.Register(0, TaskADC, 0, 100))

	for i := 0; i < 100; i++ {
		s.OnTick()
	}
	d := s.Snapshot()[0]
	assert.Equal(t, uint8(1), d.Pending)

	ran := s.Dispatch(func(TaskID) {})
	assert.Equal(t, 1, ran)

	d = s.Snapshot()[0]
	assert.Equal(t, uint8(0), d.Pending)
	// Reloaded to 100 on the first tick, decremented on the 99 after it
	assert.Equal(t, int16(1), d.Delay)

	s.OnTick()
	s.OnTick()
	d = s.Snapshot()[0]
	assert.Equal(t, uint8(1), d.Pending)
	assert.Equal(t, int16(100), d.Delay)
}

func TestOneShotKeepsFiringUntilReregistered(t *testing.T) {
	s := NewScheduler()
	require.NoError(t, s.Register(0, TaskReport, 2, 0))

	runs := runTicks(s, 6, TaskReport)
	assert.Equal(t, []int{3, 4, 5, 6}, runs)

	require.NoError(t, s.Register(0, TaskReport, 10, 0))
	assert.Empty(t, runTicks(s, 10, TaskReport))
}

func TestBacklogDrainsOnePerPass(t *testing.T) {
	s := NewScheduler()
	require.NoError(t, s.Register(0, TaskADC, 0, 0))

	for i := 0; i < 3; i++ {
		s.OnTick()
	}
	require.Equal(t, uint8(3), s.Snapshot()[0].Pending)

	runs := 0
	for pass := 0; pass < 3; pass++ {
		assert.Equal(t, 1, s.Dispatch(func(TaskID) { runs++ }))
	}
	assert.Equal(t, 3, runs)
	assert.Equal(t, 0, s.Dispatch(func(TaskID) { runs++ }))
}

func TestPendingSaturates(t *testing.T) {
	s := NewScheduler()
	require.NoError(t, s.Register(0, TaskADC, 0, 0))
	for i := 0; i < 1000; i++ {
		s.OnTick()
	}
	assert.Equal(t, uint8(pendingMax), s.Snapshot()[0].Pending)
}

func TestDispatchFollowsTableOrder(t *testing.T) {
	s := NewScheduler()
	require.NoError(t, s.Register(0, TaskReport, 0, 4))
	require.NoError(t, s.Register(1, TaskADC, 0, 4))

	s.OnTick()
	var order []TaskID
	ran := s.Dispatch(func(id TaskID) { order = append(order, id) })
	assert.Equal(t, 2, ran)
	assert.Equal(t, []TaskID{TaskReport, TaskADC}, order)
}

func TestDispatchUsesCriticalSections(t *testing.T) {
	irq := installIRQ(t)
	s := NewScheduler()
	require.NoError(t, s.Register(0, TaskADC, 0, 10))
	s.OnTick()

	s.Dispatch(func(TaskID) {
		assert.False(t, irq.disabled, "task bodies run with interrupts enabled")
	})
	// read and decrement for the runnable slot, read for nothing else
	assert.Equal(t, 2, irq.count)
	assert.False(t, irq.disabled)
}

func TestTaskIDString(t *testing.T) {
	assert.Equal(t, "adc", TaskADC.String())
	assert.Equal(t, "report", TaskReport.String())
	assert.Equal(t, "none", TaskNone.String())
	assert.Equal(t, "invalid", TaskID(7).String())
}
