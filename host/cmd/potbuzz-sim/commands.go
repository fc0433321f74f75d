package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"potbuzz/core"
	"potbuzz/sim"
)

var errUsage = errors.New("usage")

// simCommand is one shell command against a running machine
type simCommand struct {
	name  string
	usage string
	help  string
	run   func(m *sim.Machine, w io.Writer, args []string) error
}

var simCommands = []simCommand{
	{"pot", "pot <0-1023>", "Set the raw potentiometer value", cmdPot},
	{"button", "button <high|low>", "Drive the wake pin (low = pressed)", cmdButton},
	{"overflow", "overflow [n]", "Raise n timer overflows by hand", cmdOverflow},
	{"status", "status", "Show board and firmware state", cmdStatus},
	{"tasks", "tasks", "Show the task table", cmdTasks},
	{"events", "events", "Show the event ring", cmdEvents},
	{"wait", "wait <ms>", "Let the simulation run", cmdWait},
}

func findCommand(name string) (simCommand, bool) {
	for _, c := range simCommands {
		if c.name == name {
			return c, true
		}
	}
	return simCommand{}, false
}

// execute runs args[0] with the remaining arguments
func execute(m *sim.Machine, w io.Writer, args []string) error {
	if len(args) == 0 {
		return nil
	}
	c, ok := findCommand(args[0])
	if !ok {
		return fmt.Errorf("unknown command %q", args[0])
	}
	err := c.run(m, w, args[1:])
	if errors.Is(err, errUsage) {
		return fmt.Errorf("usage: %s", c.usage)
	}
	return err
}

func cmdPot(m *sim.Machine, w io.Writer, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	v, err := strconv.ParseUint(args[0], 10, 16)
	if err != nil || v > 1023 {
		return errUsage
	}
	m.SetPot(uint16(v))
	fmt.Fprintf(w, "pot=%d -> compare %d\n", v, core.MapCompare(uint16(v)))
	return nil
}

func cmdButton(m *sim.Machine, w io.Writer, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	switch args[0] {
	case "high", "release", "1":
		m.SetButton(true)
	case "low", "press", "0":
		m.SetButton(false)
	default:
		return errUsage
	}
	return nil
}

func cmdOverflow(m *sim.Machine, w io.Writer, args []string) error {
	n := 1
	if len(args) > 1 {
		return errUsage
	}
	if len(args) == 1 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 1 {
			return errUsage
		}
		n = v
	}
	m.Overflow(n)
	return nil
}

func cmdStatus(m *sim.Machine, w io.Writer, args []string) error {
	m.Status().Print(w)
	return nil
}

func cmdTasks(m *sim.Machine, w io.Writer, args []string) error {
	m.Status().PrintTasks(w)
	return nil
}

func cmdEvents(m *sim.Machine, w io.Writer, args []string) error {
	events := m.Firmware().Events()
	if len(events) == 0 {
		fmt.Fprintln(w, "no events")
		return nil
	}
	for _, ev := range events {
		fmt.Fprintf(w, "%-10s tick=%d value=%d\n", core.EventName(ev.Type), ev.Tick, ev.Value)
	}
	return nil
}

func cmdWait(m *sim.Machine, w io.Writer, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	ms, err := strconv.Atoi(args[0])
	if err != nil || ms < 0 {
		return errUsage
	}
	time.Sleep(time.Duration(ms) * time.Millisecond)
	return nil
}
