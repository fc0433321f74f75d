//go:build rp2040 && pio

package main

import (
	"machine"
	"math"
	"time"

	pio "github.com/tinygo-org/pio/rp2-pio"
	"github.com/tinygo-org/pio/rp2-pio/piolib"

	"potbuzz/protocol"
)

// pioBuzzer generates the tone with a PIO square-wave program, leaving
// the PWM slices free. Build with -tags pio.
type pioBuzzer struct {
	pulsar *piolib.Pulsar
}

func newBuzzer(pin machine.Pin) (*pioBuzzer, error) {
	sm, err := pio.PIO0.ClaimStateMachine()
	if err != nil {
		return nil, err
	}
	pulsar, err := piolib.NewPulsar(sm, pin)
	if err != nil {
		return nil, err
	}
	return &pioBuzzer{pulsar: pulsar}, nil
}

func (b *pioBuzzer) ConfigureBuzzer(compare uint16) error {
	if err := b.SetCompare(compare); err != nil {
		return err
	}
	return b.pulsar.TryQueue(math.MaxUint32)
}

// SetCompare retunes the running program. Safe from interrupt context.
func (b *pioBuzzer) SetCompare(compare uint16) error {
	return b.pulsar.SetPeriod(time.Duration(protocol.CompareToPeriodNano(compare)))
}

// service tops up the pulse queue so the tone never ends
func (b *pioBuzzer) service() {
	if b.pulsar.Queued() == 0 {
		b.pulsar.TryQueue(math.MaxUint32)
	}
}
