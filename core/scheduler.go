package core

import (
	"errors"
	"math"
)

// TaskID names a task body. The set is closed: every value is resolved by
// the switch in Firmware.runTask.
type TaskID uint8

const (
	TaskNone   TaskID = 0 // empty slot, never dispatched
	TaskADC    TaskID = 1
	TaskReport TaskID = 2
)

func (id TaskID) String() string {
	switch id {
	case TaskNone:
		return "none"
	case TaskADC:
		return "adc"
	case TaskReport:
		return "report"
	default:
		return "invalid"
	}
}

// TaskMax is the size of the task table
const TaskMax = 2

// pendingMax caps the backlog so a starved task cannot wrap to zero
const pendingMax = 255

var (
	ErrSlotRange   = errors.New("task slot out of range")
	ErrUnknownTask = errors.New("unknown task id")
	// ErrIntervalRange rejects reloads that do not fit the signed delay
	ErrIntervalRange = errors.New("task interval above 32767 ticks")
)

// TaskDescriptor is one entry of the time-triggered task table
type TaskDescriptor struct {
	Slot     uint8
	ID       TaskID
	Delay    int16  // ticks until the next run
	Interval uint16 // reload value; 0 = one-shot
	Pending  uint8  // runs owed by the dispatcher
}

// Scheduler holds the fixed task table.
//
// OnTick runs in interrupt context and is the only writer of Delay and
// the only incrementer of Pending. Dispatch runs in the main loop and is
// the only decrementer of Pending; it touches Pending inside a critical
// section.
type Scheduler struct {
	table [TaskMax]TaskDescriptor
}

// NewScheduler returns a scheduler whose slots are all empty
func NewScheduler() *Scheduler {
	s := &Scheduler{}
	for i := range s.table {
		s.table[i] = TaskDescriptor{Slot: uint8(i)}
	}
	return s
}

// Register installs a task into slot. Only call during initialization,
// before the tick source is running.
func (s *Scheduler) Register(slot uint8, id TaskID, delay int16, interval uint16) error {
	if int(slot) >= TaskMax {
		return ErrSlotRange
	}
	switch id {
	case TaskNone, TaskADC, TaskReport:
	default:
		return ErrUnknownTask
	}
	if interval > math.MaxInt16 {
		return ErrIntervalRange
	}
	s.table[slot] = TaskDescriptor{
		Slot:     slot,
		ID:       id,
		Delay:    delay,
		Interval: interval,
	}
	return nil
}

// OnTick advances every occupied slot by one tick. A slot whose delay has
// reached zero gets one more pending run and, if periodic, its delay
// reloaded from the interval. One-shot slots stay at zero and keep firing
// until registered again.
//
// The usual description of this table says a one-shot fires once and a
// periodic slot runs every interval ticks. This loop does neither: a
// one-shot repeats every tick and a periodic slot runs every interval+1
// ticks, because the zero tick is spent reloading. Deployed timing
// depends on that, so keep it.
func (s *Scheduler) OnTick() {
	for i := range s.table {
		t := &s.table[i]
		if t.ID == TaskNone {
			continue
		}
		if t.Delay == 0 {
			if t.Pending < pendingMax {
				t.Pending++
			}
			if t.Interval != 0 {
				t.Delay = int16(t.Interval)
			}
		} else {
			t.Delay--
		}
	}
}

// Dispatch runs each slot with a pending run once, in table order, and
// returns how many task bodies ran. A backlog drains one run per call.
func (s *Scheduler) Dispatch(run func(TaskID)) int {
	ran := 0
	for i := range s.table {
		t := &s.table[i]
		if t.ID == TaskNone {
			continue
		}

		state := disableInterrupts()
		pending := t.Pending
		restoreInterrupts(state)
		if pending == 0 {
			continue
		}

		run(t.ID)
		ran++

		state = disableInterrupts()
		t.Pending--
		restoreInterrupts(state)
	}
	return ran
}

// Snapshot copies the table under a critical section
func (s *Scheduler) Snapshot() [TaskMax]TaskDescriptor {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	return s.table
}
