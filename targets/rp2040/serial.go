//go:build rp2040

package main

import (
	"machine"
)

// RPSerialDriver sends reports on UART0 (GPIO0 TX). TinyGo's UART write
// polls the transmit FIFO.
type RPSerialDriver struct {
	uart *machine.UART
}

func (d *RPSerialDriver) Configure(baud uint32) error {
	d.uart = machine.UART0
	return d.uart.Configure(machine.UARTConfig{
		BaudRate: baud,
		TX:       machine.UART0_TX_PIN,
		RX:       machine.UART0_RX_PIN,
	})
}

func (d *RPSerialDriver) Write(p []byte) (int, error) {
	return d.uart.Write(p)
}
