package height

import (
	"sync"

	"go.uber.org/zap"
)

// Measurer produces a height in pixels.
type Measurer interface {
	Measure() (int, error)
}

// MeasurerFunc adapts a function to Measurer.
type MeasurerFunc func() (int, error)

// Measure calls f.
func (f MeasurerFunc) Measure() (int, error) { return f() }

// Sink receives height reports. initial is true exactly once, for the
// Idle → Reported transition.
type Sink interface {
	ReportHeight(height int, initial bool)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(height int, initial bool)

// ReportHeight calls f.
func (f SinkFunc) ReportHeight(height int, initial bool) { f(height, initial) }

// State is the negotiation state.
type State int

const (
	StateIdle State = iota
	StateReported
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateReported:
		return "reported"
	default:
		return "unknown"
	}
}

// Machine is the height negotiation state machine of one component instance.
type Machine struct {
	content  Measurer
	fallback Measurer
	sink     Sink
	logger   *zap.Logger

	mu    sync.Mutex
	state State
	last  int
}

// Option configures a Machine.
type Option func(*Machine)

// WithFallback sets the measurer used when the content measurer fails.
func WithFallback(m Measurer) Option {
	return func(h *Machine) { h.fallback = m }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(h *Machine) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// New creates an Idle machine.
func New(content Measurer, sink Sink, opts ...Option) *Machine {
	m := &Machine{
		content: content,
		sink:    sink,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Measure re-measures and reports when the height changed. The first
// successful measurement is always reported. It returns the measured height
// and whether a report was emitted.
func (m *Machine) Measure() (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	h, ok := m.measure()
	if !ok {
		return 0, false
	}
	if m.state == StateReported && h == m.last {
		return h, false
	}
	m.report(h)
	return h, true
}

// Force re-measures and reports regardless of change. When measurement
// fails after a report, the last height is reported again unchanged. It
// returns false only from Idle with no measurement.
func (m *Machine) Force() (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	h, ok := m.measure()
	if !ok {
		if m.state != StateReported {
			return 0, false
		}
		m.sink.ReportHeight(m.last, false)
		return m.last, true
	}
	m.report(h)
	return h, true
}

// Peek measures without changing state or reporting.
func (m *Machine) Peek() (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.measure()
}

// Last returns the last reported height and whether one exists.
func (m *Machine) Last() (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last, m.state == StateReported
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// report must be called with mu held.
func (m *Machine) report(h int) {
	initial := m.state == StateIdle
	m.state = StateReported
	m.last = h
	m.sink.ReportHeight(h, initial)
}

// measure must be called with mu held.
func (m *Machine) measure() (int, bool) {
	h, err := m.content.Measure()
	if err != nil {
		if m.fallback == nil {
			m.logger.Debug("Content measurement unavailable", zap.Error(err))
			return 0, false
		}
		m.logger.Debug("Falling back to document measurement", zap.Error(err))
		if h, err = m.fallback.Measure(); err != nil {
			m.logger.Debug("Fallback measurement failed", zap.Error(err))
			return 0, false
		}
	}
	if h < 0 {
		h = 0
	}
	return h, true
}
