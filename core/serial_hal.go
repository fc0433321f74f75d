package core

// SerialDriver is the transmit side of the report link.
type SerialDriver interface {
	// Configure sets up the transmitter for the given baud rate
	Configure(baud uint32) error

	// Write transmits p, polling the transmitter until every byte is
	// accepted. A single Write is never interleaved with another.
	Write(p []byte) (int, error)
}
