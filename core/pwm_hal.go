package core

// PWMDriver drives the buzzer output.
//
// The compare value is the PWM compare threshold (OCR1A on the reference
// hardware). Output frequency falls as the compare value rises.
type PWMDriver interface {
	// ConfigureBuzzer starts the tone generator at the given compare value
	ConfigureBuzzer(compare uint16) error

	// SetCompare updates the live compare threshold.
	// Called from interrupt context; must not block.
	SetCompare(compare uint16) error
}
