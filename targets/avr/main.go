//go:build avr

package main

import (
	"device/avr"
	"machine"
	"runtime/interrupt"

	"potbuzz/core"
)

var fw *core.Firmware

func main() {
	cfg := core.DefaultConfig()

	var err error
	fw, err = core.New(cfg, core.Drivers{
		ADC:    avrADC{},
		PWM:    avrTimer1{},
		Serial: &avrSerial{},
		GPIO:   avrGPIO{},
		Power:  avrPower{},
	})
	if err != nil {
		halt()
	}

	// Interrupts stay masked until the task table and peripherals are ready
	state := interrupt.Disable()
	if err := fw.Init(); err != nil {
		halt()
	}
	startTimer2()
	interrupt.New(avr.IRQ_TIMER2_OVF, func(interrupt.Interrupt) {
		fw.Overflow()
	})
	interrupt.New(avr.IRQ_ADC, func(interrupt.Interrupt) {
		raw := uint16(avr.ADCL.Get())
		raw |= uint16(avr.ADCH.Get()) << 8
		fw.ConversionComplete(raw)
	})
	interrupt.New(avr.IRQ_PCINT2, func(interrupt.Interrupt) {
		fw.PinChange()
	})
	interrupt.Restore(state)

	fw.Run()
}

// startTimer2 runs timer2 in normal mode at clk/8 with the overflow
// interrupt on: one overflow every 128 us.
func startTimer2() {
	avr.TCCR2A.Set(0)
	avr.TCNT2.Set(0)
	avr.TCCR2B.Set(avr.TCCR2B_CS21)
	avr.TIMSK2.Set(avr.TIMSK2_TOIE2)
}

func halt() {
	interrupt.Disable()
	for {
		avr.Asm("sleep")
	}
}

// avrADC runs single conversions on AVcc reference, clk/128, with the
// completion interrupt enabled.
type avrADC struct{}

func (avrADC) ConfigureChannel(ch core.ADCChannelID) error {
	avr.ADMUX.Set(avr.ADMUX_REFS0 | uint8(ch&0x0f))
	avr.DIDR0.SetBits(1 << (ch & 0x07))
	avr.ADCSRA.Set(avr.ADCSRA_ADEN | avr.ADCSRA_ADIE |
		avr.ADCSRA_ADPS2 | avr.ADCSRA_ADPS1 | avr.ADCSRA_ADPS0)
	return nil
}

func (avrADC) StartConversion(ch core.ADCChannelID) error {
	avr.ADMUX.Set(avr.ADMUX_REFS0 | uint8(ch&0x0f))
	avr.ADCSRA.SetBits(avr.ADCSRA_ADSC)
	return nil
}

// avrTimer1 toggles OC1A (PB1) in CTC mode at clk/64. The output
// frequency is F_CPU / (2*64*(1+OCR1A)).
type avrTimer1 struct{}

func (t avrTimer1) ConfigureBuzzer(compare uint16) error {
	avr.DDRB.SetBits(1 << 1)
	avr.TCCR1A.Set(avr.TCCR1A_COM1A0)
	avr.TCCR1B.Set(avr.TCCR1B_WGM12 | avr.TCCR1B_CS11 | avr.TCCR1B_CS10)
	return t.SetCompare(compare)
}

// SetCompare writes the 16-bit register high byte first
func (avrTimer1) SetCompare(compare uint16) error {
	avr.OCR1AH.Set(uint8(compare >> 8))
	avr.OCR1AL.Set(uint8(compare))
	return nil
}

// avrSerial transmits on USART0. TinyGo's UART write polls UDRE0.
type avrSerial struct {
	uart *machine.UART
}

func (s *avrSerial) Configure(baud uint32) error {
	s.uart = machine.UART0
	return s.uart.Configure(machine.UARTConfig{BaudRate: baud})
}

func (s *avrSerial) Write(p []byte) (int, error) {
	return s.uart.Write(p)
}

// avrGPIO maps core pins to TinyGo pin numbers (PD2 = 18)
type avrGPIO struct{}

func (avrGPIO) ConfigureOutput(pin core.GPIOPin) error {
	machine.Pin(pin).Configure(machine.PinConfig{Mode: machine.PinOutput})
	return nil
}

func (avrGPIO) ConfigureInputPullUp(pin core.GPIOPin) error {
	machine.Pin(pin).Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	return nil
}

func (avrGPIO) SetPin(pin core.GPIOPin, value bool) error {
	machine.Pin(pin).Set(value)
	return nil
}

func (avrGPIO) ReadPin(pin core.GPIOPin) bool {
	return machine.Pin(pin).Get()
}

// avrPower uses the SMCR sleep controller and PCINT2 for wake up
type avrPower struct{}

// ConfigureWake enables the pin-change interrupt for a port D pin
func (avrPower) ConfigureWake(pin core.GPIOPin) error {
	avr.PCMSK2.SetBits(1 << (uint8(pin) & 0x07))
	avr.PCIFR.Set(avr.PCIFR_PCIF2)
	avr.PCICR.SetBits(avr.PCICR_PCIE2)
	return nil
}

func (avrPower) SetStandby() {
	avr.SMCR.ReplaceBits(avr.SMCR_SM2|avr.SMCR_SM1, avr.SMCR_SM2|avr.SMCR_SM1|avr.SMCR_SM0, 0)
}

func (avrPower) SleepEnable() {
	avr.SMCR.SetBits(avr.SMCR_SE)
}

// Sleep unmasks and sleeps back to back. The instruction after sei
// always executes before a pending interrupt is taken, so a wake edge
// that arrived while masked ends the sleep instead of being handled
// before it.
func (avrPower) Sleep(core.State) {
	avr.Asm("sei\nsleep")
}

func (avrPower) SleepDisable() {
	avr.SMCR.ClearBits(avr.SMCR_SE)
}
