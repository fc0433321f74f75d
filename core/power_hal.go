package core

// PowerDriver wraps the sleep controller and the wake interrupt.
type PowerDriver interface {
	// ConfigureWake arms the pin-change interrupt on pin. The target's
	// handler must call Firmware.PinChange.
	ConfigureWake(pin GPIOPin) error

	// SetStandby selects standby as the sleep mode (SMCR SM bits on AVR)
	SetStandby()

	// SleepEnable sets the sleep-enable flag
	SleepEnable()

	// Sleep is called with interrupts masked. It must re-enable them
	// (restoring state) and execute the sleep instruction with no window
	// in which an interrupt can be taken between the two, as sei; sleep
	// does on AVR. It returns once an interrupt has woken the CPU, with
	// interrupts enabled.
	Sleep(state State)

	// SleepDisable clears the sleep-enable flag
	SleepDisable()
}
