//go:build rp2040

package main

import (
	"errors"
	"machine"
	"runtime/volatile"

	"potbuzz/core"
)

// RpAdcDriver implements core.ADCDriver with TinyGo's machine.ADC.
//
// The RP2040 converts in 2 us, so StartConversion samples at once and
// parks the result. The interrupt loop hands it to the firmware on its
// next pass, which keeps the completion out of the task body.
type RpAdcDriver struct {
	channels [4]*machine.ADC

	ready  volatile.Register8
	result uint16
}

// NewRPAdcDriver constructs the driver and powers up the ADC block
func NewRPAdcDriver() *RpAdcDriver {
	machine.InitADC()
	return &RpAdcDriver{}
}

// ConfigureChannel sets up ADC0..ADC3.
func (d *RpAdcDriver) ConfigureChannel(ch core.ADCChannelID) error {
	if int(ch) >= len(d.channels) {
		return errors.New("unsupported ADC channel")
	}
	if d.channels[ch] != nil {
		return nil
	}

	var adc machine.ADC
	switch ch {
	case 0:
		adc = machine.ADC{Pin: machine.ADC0}
	case 1:
		adc = machine.ADC{Pin: machine.ADC1}
	case 2:
		adc = machine.ADC{Pin: machine.ADC2}
	case 3:
		adc = machine.ADC{Pin: machine.ADC3}
	}
	if err := adc.Configure(machine.ADCConfig{}); err != nil {
		return err
	}
	d.channels[ch] = &adc
	return nil
}

// StartConversion samples ch. TinyGo scales results to 16 bits, the
// firmware works with the 10-bit range of the AVR converter.
func (d *RpAdcDriver) StartConversion(ch core.ADCChannelID) error {
	if int(ch) >= len(d.channels) || d.channels[ch] == nil {
		return errors.New("ADC channel not configured")
	}
	d.result = d.channels[ch].Get() >> 6
	d.ready.Set(1)
	return nil
}

// complete delivers a parked result. Called from the interrupt loop.
func (d *RpAdcDriver) complete(fw *core.Firmware) {
	if d.ready.Get() == 0 {
		return
	}
	d.ready.Set(0)
	fw.ConversionComplete(d.result)
}
