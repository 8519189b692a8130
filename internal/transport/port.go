// Package transport defines the one-way message channel between peers.
//
// A Port posts raw envelopes to the other side and exposes an inbox of raw
// envelopes arriving from it. Post never blocks and never waits for delivery:
// when a receiver cannot keep up the message is dropped, matching the
// at-most-once, fire-and-forget channel the protocol assumes. Delivery order
// between one sender and one receiver is preserved.
package transport

import "errors"

var (
	ErrClosed  = errors.New("transport: port closed")
	ErrDropped = errors.New("transport: message dropped")
)

// DefaultQueueSize is the per-receiver buffer used when none is configured.
const DefaultQueueSize = 256

// Port is one endpoint of the channel.
type Port interface {
	// Post sends raw to the other side without blocking.
	Post(raw []byte) error
	// Inbox delivers messages from the other side. It is closed when the
	// port closes.
	Inbox() <-chan []byte
	// Close releases the port.
	Close() error
}
