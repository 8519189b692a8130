// Package memory provides an in-process channel shared by one host and any
// number of component instances.
//
// The bus mirrors a single physical message channel: every host post reaches
// every attached component, and every component post reaches the host.
// Receivers must filter by identifier.
package memory

import (
	"sync"
	"sync/atomic"

	"github.com/GriffinCanCode/framebridge/internal/transport"
)

// Bus is an in-memory shared channel.
type Bus struct {
	mu         sync.RWMutex
	queueSize  int
	host       *endpoint
	components map[*endpoint]struct{}
	dropped    atomic.Uint64
}

// NewBus creates a bus whose receivers buffer up to queueSize messages.
func NewBus(queueSize int) *Bus {
	if queueSize <= 0 {
		queueSize = transport.DefaultQueueSize
	}
	b := &Bus{
		queueSize:  queueSize,
		components: make(map[*endpoint]struct{}),
	}
	b.host = b.newEndpoint(true)
	return b
}

// Host returns the host endpoint.
func (b *Bus) Host() transport.Port {
	return b.host
}

// Attach adds a component endpoint.
func (b *Bus) Attach() transport.Port {
	ep := b.newEndpoint(false)
	b.mu.Lock()
	b.components[ep] = struct{}{}
	b.mu.Unlock()
	return ep
}

// Dropped returns the number of messages lost to full queues.
func (b *Bus) Dropped() uint64 {
	return b.dropped.Load()
}

func (b *Bus) newEndpoint(host bool) *endpoint {
	return &endpoint{
		bus:   b,
		host:  host,
		inbox: make(chan []byte, b.queueSize),
	}
}

type endpoint struct {
	bus    *Bus
	host   bool
	inbox  chan []byte
	closed bool // guarded by bus.mu
}

func (e *endpoint) Post(raw []byte) error {
	b := e.bus
	b.mu.RLock()
	defer b.mu.RUnlock()

	if e.closed {
		return transport.ErrClosed
	}

	msg := append([]byte(nil), raw...)
	if !e.host {
		return b.deliver(b.host, msg)
	}

	var err error
	for ep := range b.components {
		if derr := b.deliver(ep, msg); derr != nil {
			err = derr
		}
	}
	return err
}

// deliver must be called with bus.mu held.
func (b *Bus) deliver(to *endpoint, msg []byte) error {
	if to.closed {
		return nil
	}
	select {
	case to.inbox <- msg:
		return nil
	default:
		b.dropped.Add(1)
		return transport.ErrDropped
	}
}

func (e *endpoint) Inbox() <-chan []byte {
	return e.inbox
}

func (e *endpoint) Close() error {
	b := e.bus
	b.mu.Lock()
	defer b.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true
	delete(b.components, e)
	close(e.inbox)
	return nil
}
