// Package protocol implements the text report link between the firmware
// and host tools.
package protocol

// Version represents the firmware version
const Version = "0.1.0"

// Report line framing
const (
	ReportPrefix = "Frequency is "
	ReportSuffix = " Hz\r\n"

	// ReportMaxLen fits the prefix, five digits and the suffix
	ReportMaxLen = len(ReportPrefix) + 5 + len(ReportSuffix)

	// MessageMax is the scratch buffer size used for one report
	MessageMax = 32
)

// Reference clock and timer1 configuration
const (
	ClockHz      = 16000000
	PWMPrescaler = 64
	BaudRate     = 9600
)

// UBRR returns the USART baud rate register value for normal speed mode
func UBRR(clockHz, baud uint32) uint16 {
	return uint16(clockHz/16/baud - 1)
}

// CompareToHz converts a timer1 compare value to the buzzer frequency,
// F_CPU / (2*N*(1+OCR1A)), rounded down.
func CompareToHz(compare uint16) uint32 {
	return ClockHz / (2 * PWMPrescaler * (uint32(compare) + 1))
}

// CompareToPeriodNano returns the period of the buzzer square wave
func CompareToPeriodNano(compare uint16) uint64 {
	return uint64(2*PWMPrescaler) * (uint64(compare) + 1) * 1000000000 / ClockHz
}
