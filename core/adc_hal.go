package core

// ADCChannelID identifies a logical ADC input channel (ADMUX MUX bits on AVR).
type ADCChannelID uint8

// ADCDriver is the abstract ADC interface that core code uses.
//
// Conversions are asynchronous: StartConversion only triggers the
// hardware, and the target's completion interrupt hands the 10-bit result
// to Firmware.ConversionComplete.
type ADCDriver interface {
	// ConfigureChannel prepares a channel for analog input
	// (reference selection, input buffer disable, completion interrupt).
	ConfigureChannel(ch ADCChannelID) error

	// StartConversion selects ch and starts a single conversion.
	// It must not block waiting for the result.
	StartConversion(ch ADCChannelID) error
}
