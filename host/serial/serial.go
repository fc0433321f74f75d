package serial

import (
	"io"
	"time"
)

// Port is the host side of the board's UART link. The monitor only reads
// from it; Write is there for tools that poke the port directly.
type Port interface {
	io.ReadWriteCloser

	// Flush flushes any buffered data
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyUSB0", "COM3")
	Device string

	// Baud rate, 9600 for the reference board
	Baud int

	// Read timeout (0 = blocking)
	ReadTimeout time.Duration
}

// DefaultBaud matches the firmware UART setting (UBRR 103 at 16 MHz)
const DefaultBaud = 9600

// DefaultConfig returns the configuration for the reference board
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        DefaultBaud,
		ReadTimeout: 100 * time.Millisecond,
	}
}
