// Package monitor decodes the board's report stream on the host.
package monitor

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/golang/glog"

	"potbuzz/core"
	"potbuzz/protocol"
)

// lineBuffer holds partial lines between reads. Reports are far shorter.
const lineBuffer = 256

// Reading is one decoded report
type Reading struct {
	Time    time.Time `json:"time"`
	Value   uint16    `json:"value"`
	Compare uint16    `json:"compare"`
	Hz      uint32    `json:"hz"`
}

// Publisher forwards readings somewhere else
type Publisher interface {
	Publish(r Reading) error
}

// Counters track what the monitor has seen
type Counters struct {
	Lines     uint64
	Readings  uint64
	BadLines  uint64
	Overflows uint64
	PubErrors uint64
}

// Monitor reads report lines from src and turns them into readings.
type Monitor struct {
	src    io.Reader
	source core.ReportSource
	pub    Publisher
	now    func() time.Time

	readings chan Reading

	mu       sync.Mutex
	counters Counters
}

// Option configures a Monitor
type Option func(*Monitor)

// WithSource sets which value the board reports. With ReportReading the
// compare value is derived from the reading.
func WithSource(s core.ReportSource) Option {
	return func(m *Monitor) { m.source = s }
}

// WithPublisher forwards every reading to p
func WithPublisher(p Publisher) Option {
	return func(m *Monitor) { m.pub = p }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) { m.now = now }
}

// New creates a monitor reading from src
func New(src io.Reader, opts ...Option) *Monitor {
	m := &Monitor{
		src:      src,
		now:      time.Now,
		readings: make(chan Reading, 16),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Readings delivers decoded reports. It is closed when Run returns.
func (m *Monitor) Readings() <-chan Reading {
	return m.readings
}

// Counters returns a copy of the counters
func (m *Monitor) Counters() Counters {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters
}

// Run reads until EOF, a read error or ctx is done. A read that times out
// with no data is not an error.
func (m *Monitor) Run(ctx context.Context) error {
	defer close(m.readings)

	fifo := protocol.NewFifoBuffer(lineBuffer)
	buf := make([]byte, 64)
	for ctx.Err() == nil {
		n, err := m.src.Read(buf)
		if n > 0 {
			m.feed(ctx, fifo, buf[:n])
		}
		if errors.Is(err, io.EOF) {
			if !fifo.IsEmpty() {
				// stream ended mid-line
				m.count(func(c *Counters) { c.BadLines++ })
				glog.V(1).Infof("monitor: %d bytes without a line end at EOF", fifo.Available())
			}
			return nil
		}
		if err != nil {
			return err
		}
	}
	return ctx.Err()
}

func (m *Monitor) feed(ctx context.Context, fifo *protocol.FifoBuffer, data []byte) {
	for len(data) > 0 {
		n := fifo.Write(data)
		data = data[n:]
		for {
			line, ok := fifo.NextLine()
			if !ok {
				break
			}
			m.handleLine(ctx, line)
		}
		if fifo.Free() == 0 {
			// no terminator in a full buffer, drop it
			m.count(func(c *Counters) { c.Overflows++ })
			glog.Warningf("monitor: dropping %d bytes without a line end", fifo.Available())
			fifo.Reset()
		}
	}
}

func (m *Monitor) handleLine(ctx context.Context, line []byte) {
	m.count(func(c *Counters) { c.Lines++ })
	value, err := protocol.ParseReport(line)
	if err != nil {
		m.count(func(c *Counters) { c.BadLines++ })
		glog.V(1).Infof("monitor: skipping %q: %v", line, err)
		return
	}

	r := m.decode(value)
	m.count(func(c *Counters) { c.Readings++ })
	if glog.V(2) {
		glog.Infof("monitor: value=%d compare=%d hz=%d", r.Value, r.Compare, r.Hz)
	}

	if m.pub != nil {
		if err := m.pub.Publish(r); err != nil {
			m.count(func(c *Counters) { c.PubErrors++ })
			glog.Errorf("monitor: publish: %v", err)
		}
	}

	select {
	case m.readings <- r:
	case <-ctx.Done():
	}
}

func (m *Monitor) decode(value uint16) Reading {
	r := Reading{Time: m.now(), Value: value, Compare: value}
	if m.source == core.ReportReading {
		r.Compare = core.MapCompare(value)
	}
	r.Hz = protocol.CompareToHz(r.Compare)
	return r
}

func (m *Monitor) count(fn func(*Counters)) {
	m.mu.Lock()
	fn(&m.counters)
	m.mu.Unlock()
}
