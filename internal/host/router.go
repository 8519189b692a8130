package host

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/framebridge/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/framebridge/internal/protocol"
	"github.com/GriffinCanCode/framebridge/internal/transport"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrNoIdentifier   = errors.New("identifier required")
)

var (
	outbound = protocol.Outbound.String()
	inbound  = protocol.Inbound.String()
)

// Event is one accepted component event.
type Event struct {
	Identifier string
	Kind       protocol.Kind
	Payload    protocol.Payload
}

// Handler receives the events of one identifier.
type Handler func(Event)

type registration struct {
	seq     uint64
	handler Handler
}

// Router dispatches component events to per-identifier handlers.
type Router struct {
	mu       sync.RWMutex
	handlers map[string][]registration
	seq      uint64

	port    transport.Port
	logger  *zap.Logger
	metrics *monitoring.Metrics
}

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the router logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Router) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMetrics sets the router metrics.
func WithMetrics(m *monitoring.Metrics) Option {
	return func(r *Router) { r.metrics = m }
}

// NewRouter creates a router sending commands through port.
func NewRouter(port transport.Port, opts ...Option) *Router {
	r := &Router{
		handlers: make(map[string][]registration),
		port:     port,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// On registers h for events from identifier. Handlers of one identifier run
// in registration order. The returned function removes the registration.
func (r *Router) On(identifier string, h Handler) (unsubscribe func()) {
	r.mu.Lock()
	r.seq++
	seq := r.seq
	r.handlers[identifier] = append(r.handlers[identifier], registration{seq: seq, handler: h})
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { r.remove(identifier, seq) })
	}
}

func (r *Router) remove(identifier string, seq uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	regs := r.handlers[identifier]
	for i, reg := range regs {
		if reg.seq != seq {
			continue
		}
		next := make([]registration, 0, len(regs)-1)
		next = append(next, regs[:i]...)
		next = append(next, regs[i+1:]...)
		if len(next) == 0 {
			delete(r.handlers, identifier)
		} else {
			r.handlers[identifier] = next
		}
		return
	}
}

// Registered reports whether any handler is registered for identifier.
func (r *Router) Registered(identifier string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers[identifier]) > 0
}

// Identifiers returns every identifier with at least one handler.
func (r *Router) Identifiers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.handlers))
	for id := range r.handlers {
		ids = append(ids, id)
	}
	return ids
}

// Send posts a command to identifier. Delivery is not awaited.
func (r *Router) Send(identifier string, kind protocol.Kind, payload protocol.Payload) error {
	if identifier == "" {
		return ErrNoIdentifier
	}
	if !kind.IsCommand() {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, kind)
	}

	raw, err := protocol.Encode(protocol.Inbound, identifier, kind, payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", kind, err)
	}
	if err := r.port.Post(raw); err != nil {
		r.metrics.RecordDropped(inbound, monitoring.ReasonQueueFull)
		return fmt.Errorf("post %s: %w", kind, err)
	}
	r.metrics.RecordSent(inbound, kind.String())
	return nil
}

// Deliver processes one raw message from the channel and returns the number
// of handlers that received it.
func (r *Router) Deliver(raw []byte) int {
	env, err := protocol.Decode(raw, protocol.Outbound)
	if err != nil {
		r.metrics.RecordDropped(outbound, monitoring.ReasonMalformed)
		r.logger.Debug("Dropping malformed message", zap.Error(err))
		return 0
	}

	// The handlers map is the identity filter: a registration only sees
	// envelopes whose source equals the identifier it was registered for.
	r.mu.RLock()
	regs := r.handlers[env.Identifier]
	r.mu.RUnlock()

	if len(regs) == 0 {
		r.metrics.RecordDropped(outbound, monitoring.ReasonIdentity)
		return 0
	}
	if !env.Known() {
		r.metrics.RecordDropped(outbound, monitoring.ReasonUnknownKind)
		r.logger.Debug("Ignoring unknown event",
			zap.String("identifier", env.Identifier),
			zap.String("kind", env.Kind.String()))
		return 0
	}

	r.metrics.RecordReceived(outbound, env.Kind.String())
	ev := Event{Identifier: env.Identifier, Kind: env.Kind, Payload: env.Payload}
	for _, reg := range regs {
		r.invoke(reg.handler, ev)
	}
	return len(regs)
}

func (r *Router) invoke(h Handler, ev Event) {
	defer func() {
		if rec := recover(); rec != nil {
			r.metrics.IncHandlerPanics()
			r.logger.Error("Handler panicked",
				zap.String("identifier", ev.Identifier),
				zap.String("kind", ev.Kind.String()),
				zap.Any("panic", rec))
		}
	}()
	h(ev)
}

// Run delivers messages from the router's port until ctx ends or the port
// closes.
func (r *Router) Run(ctx context.Context) error {
	inbox := r.port.Inbox()
	for {
		select {
		case raw, ok := <-inbox:
			if !ok {
				return transport.ErrClosed
			}
			r.Deliver(raw)
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		}
	}
}
