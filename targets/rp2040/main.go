//go:build rp2040

package main

import (
	"machine"
	"runtime/interrupt"
	"time"

	"potbuzz/core"
)

const (
	buzzerPin = machine.GPIO15
	wakePin   = machine.GPIO16
)

// buzzer is a PWM driver that may need servicing from the interrupt loop
type buzzer interface {
	core.PWMDriver
	service()
}

var (
	fw        *core.Firmware
	adcDriver *RpAdcDriver
	power     *RPPowerDriver
	buzz      buzzer
)

func main() {
	// Disable watchdog on boot to clear any previous state
	if err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0}); err != nil {
		return
	}

	// Debug output goes to USB CDC, reports go to UART0
	core.SetDebugWriter(func(msg string) {
		machine.Serial.Write([]byte(msg))
		machine.Serial.Write([]byte("\r\n"))
	})

	adcDriver = NewRPAdcDriver()
	power = &RPPowerDriver{}

	b, err := newBuzzer(buzzerPin)
	if err != nil {
		halt(err)
	}
	buzz = b

	cfg := core.DefaultConfig()
	cfg.OverflowsPerTick = overflowsPerTick
	cfg.WakePin = core.GPIOPin(wakePin)
	cfg.LEDPin = core.GPIOPin(machine.LED)
	cfg.UseLED = true

	fw, err = core.New(cfg, core.Drivers{
		ADC:    adcDriver,
		PWM:    buzz,
		Serial: &RPSerialDriver{},
		GPIO:   RPGPIODriver{},
		Power:  power,
	})
	if err != nil {
		halt(err)
	}
	power.fw = fw

	if err := fw.Init(); err != nil {
		halt(err)
	}

	go interruptLoop()

	for {
		fw.Step()
		// Yield to the interrupt loop
		time.Sleep(10 * time.Microsecond)
	}
}

// interruptLoop stands in for the timer overflow and ADC completion
// interrupts. Handlers run with interrupts masked, so they never overlap
// a critical section of the main loop or the wake pin handler.
func interruptLoop() {
	var next uint64
	for {
		n := overflowDue(&next, uptimeMicros(), power.takeResumed())

		state := interrupt.Disable()
		for ; n > 0; n-- {
			fw.Overflow()
		}
		adcDriver.complete(fw)
		interrupt.Restore(state)

		buzz.service()
		time.Sleep(100 * time.Microsecond)
	}
}

// halt reports a fatal init error and blinks the LED forever
func halt(err error) {
	core.SetDebugEnabled(true)
	core.DebugPrintln("[INIT] " + err.Error())
	if fw != nil {
		fw.DumpState()
	}
	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})
	for {
		led.Set(!led.Get())
		time.Sleep(100 * time.Millisecond)
	}
}
