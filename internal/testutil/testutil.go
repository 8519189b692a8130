// Package testutil provides mocks and helpers shared by package tests.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/framebridge/internal/protocol"
)

// MockPort is a mock implementation of transport.Port.
type MockPort struct {
	mock.Mock
	inbox chan []byte
}

// Post mocks the Post method.
func (m *MockPort) Post(raw []byte) error {
	args := m.Called(raw)
	return args.Error(0)
}

// Inbox returns the channel fed by Push.
func (m *MockPort) Inbox() <-chan []byte {
	return m.inbox
}

// Close mocks the Close method.
func (m *MockPort) Close() error {
	args := m.Called()
	return args.Error(0)
}

// Push queues raw for the port's reader.
func (m *MockPort) Push(raw []byte) {
	m.inbox <- raw
}

// NewMockPort creates a mock port that accepts every post.
func NewMockPort(t *testing.T) *MockPort {
	t.Helper()
	m := &MockPort{inbox: make(chan []byte, 16)}

	// Default behavior: posts and close succeed
	m.On("Post", mock.Anything).Return(nil).Maybe()
	m.On("Close").Return(nil).Maybe()

	return m
}

// Posted decodes every message posted to m for dir.
func (m *MockPort) Posted(t *testing.T, dir protocol.Direction) []protocol.Envelope {
	t.Helper()
	var out []protocol.Envelope
	for _, call := range m.Calls {
		if call.Method != "Post" {
			continue
		}
		env, err := protocol.Decode(call.Arguments.Get(0).([]byte), dir)
		require.NoError(t, err)
		out = append(out, env)
	}
	return out
}

// MockSink is a mock implementation of height.Sink.
type MockSink struct {
	mock.Mock
}

// ReportHeight mocks the ReportHeight method.
func (m *MockSink) ReportHeight(height int, initial bool) {
	m.Called(height, initial)
}

// NewMockSink creates a sink that accepts every report.
func NewMockSink(t *testing.T) *MockSink {
	t.Helper()
	m := new(MockSink)
	m.On("ReportHeight", mock.Anything, mock.Anything).Return().Maybe()
	return m
}

// MockMeasurer is a mock implementation of height.Measurer.
type MockMeasurer struct {
	mock.Mock
}

// Measure mocks the Measure method.
func (m *MockMeasurer) Measure() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

// EncodeEvent encodes an outbound event, failing the test on error.
func EncodeEvent(t *testing.T, identifier string, p protocol.Payload) []byte {
	t.Helper()
	raw, err := protocol.Encode(protocol.Outbound, identifier, p.Kind(), p)
	require.NoError(t, err)
	return raw
}

// EncodeCommand encodes an inbound command, failing the test on error.
func EncodeCommand(t *testing.T, identifier string, kind protocol.Kind) []byte {
	t.Helper()
	raw, err := protocol.Encode(protocol.Inbound, identifier, kind, nil)
	require.NoError(t, err)
	return raw
}
