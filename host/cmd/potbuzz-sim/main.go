package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"
	"github.com/google/shlex"

	"potbuzz/core"
	"potbuzz/host/config"
	"potbuzz/protocol"
	"potbuzz/sim"
)

var (
	configFile = flag.String("config", "potbuzz.yaml", "Configuration file")
	script     = flag.String("script", "", "Run commands from a file instead of the shell")
	speed      = flag.Float64("speed", -1, "Simulation speed factor, 0 stops the clock (default from config)")
)

func main() {
	flag.Parse()
	defer glog.Flush()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *speed >= 0 {
		cfg.Sim.Speed = *speed
	}

	core.SetDebugWriter(func(msg string) { glog.Info(msg) })
	core.SetDebugEnabled(bool(glog.V(1)))

	var out io.Writer = io.Discard
	if cfg.Sim.Echo {
		out = os.Stdout
	}
	m, err := sim.New(sim.Config{
		Firmware:       cfg.Firmware(),
		OverflowPeriod: cfg.Sim.OverflowPeriod,
		Speed:          cfg.Sim.Speed,
		ADCLatency:     cfg.Sim.ADCLatency,
		Output:         out,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	m.SetPot(cfg.Sim.Pot)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	glog.Infof("potbuzz simulator %s, speed %v", protocol.Version, cfg.Sim.Speed)

	if *script != "" {
		err = runScript(m, *script)
	} else {
		runShell(m)
	}
	cancel()
	if runErr := <-done; runErr != nil && err == nil {
		err = runErr
	}
	if glog.V(1) {
		m.Firmware().DumpState()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		glog.Flush()
		os.Exit(1)
	}
}

// runScript executes one command per line. Blank lines and lines starting
// with # are skipped.
func runScript(m *sim.Machine, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		args, err := shlex.Split(line)
		if err != nil {
			return fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
		if err := execute(m, os.Stdout, args); err != nil {
			return fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
	}
	return scanner.Err()
}

func runShell(m *sim.Machine) {
	shell := ishell.New()
	shell.SetPrompt("potbuzz > ")
	shell.Println("potbuzz simulator, type help for commands")
	for _, c := range simCommands {
		shell.AddCmd(&ishell.Cmd{
			Name: c.name,
			Help: c.help + " (" + c.usage + ")",
			Func: func(ctx *ishell.Context) {
				if err := execute(m, shellWriter{ctx}, append([]string{c.name}, ctx.Args...)); err != nil {
					ctx.Err(err)
				}
			},
		})
	}
	shell.Run()
}

// shellWriter sends command output through the shell
type shellWriter struct {
	c *ishell.Context
}

func (w shellWriter) Write(p []byte) (int, error) {
	w.c.Print(string(p))
	return len(p), nil
}
