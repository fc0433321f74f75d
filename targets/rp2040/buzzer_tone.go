//go:build rp2040 && !pio

package main

import (
	"errors"
	"machine"

	"tinygo.org/x/drivers/tone"

	"potbuzz/protocol"
)

// toneBuzzer drives the buzzer from a hardware PWM slice. The compare
// value is turned into the period the AVR timer1 would produce.
type toneBuzzer struct {
	speaker tone.Speaker
}

func newBuzzer(pin machine.Pin) (*toneBuzzer, error) {
	pwm := pwmForPin(pin)
	if pwm == nil {
		return nil, errors.New("buzzer pin has no PWM slice")
	}
	speaker, err := tone.New(pwm, pin)
	if err != nil {
		return nil, err
	}
	return &toneBuzzer{speaker: speaker}, nil
}

func (b *toneBuzzer) ConfigureBuzzer(compare uint16) error {
	return b.SetCompare(compare)
}

func (b *toneBuzzer) SetCompare(compare uint16) error {
	b.speaker.SetPeriod(protocol.CompareToPeriodNano(compare))
	return nil
}

// service is a no-op, the PWM slice runs on its own
func (b *toneBuzzer) service() {}

// pwmForPin returns the PWM slice that owns pin
func pwmForPin(pin machine.Pin) tone.PWM {
	slice, err := machine.PWMPeripheral(pin)
	if err != nil {
		return nil
	}
	switch slice {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	case 7:
		return machine.PWM7
	}
	return nil
}
