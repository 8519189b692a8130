package ws

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/framebridge/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/framebridge/internal/protocol"
	"github.com/GriffinCanCode/framebridge/internal/transport"
)

// Hub is the host-side Port over all component connections.
//
// Commands are routed to the connection that most recently sent an event
// with the target as its source. Any connection can claim an identifier
// this way; origin checks on upgrade are the only guard.
type Hub struct {
	cfg      Config
	logger   *zap.Logger
	metrics  *monitoring.Metrics
	upgrader websocket.Upgrader

	mu     sync.RWMutex
	conns  map[string]*Conn
	routes map[string]string // identifier -> conn id
	closed bool

	inbox chan []byte
	pumps sync.WaitGroup
}

// NewHub creates a hub.
func NewHub(cfg Config, logger *zap.Logger) *Hub {
	cfg = cfg.normalized()
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Hub{
		cfg:    cfg,
		logger: logger.Named("hub"),
		conns:  make(map[string]*Conn),
		routes: make(map[string]string),
		inbox:  make(chan []byte, cfg.QueueSize),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     cfg.CheckOrigin,
	}
	return h
}

// WithMetrics adds metrics collection to the hub
func (h *Hub) WithMetrics(m *monitoring.Metrics) *Hub {
	h.metrics = m
	return h
}

// ServeHTTP upgrades the request and serves the connection until it closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed",
			zap.String("origin", r.Header.Get("Origin")),
			zap.Error(err),
		)
		return
	}

	conn := newConn(c, h.cfg, h.logger)
	if !h.attach(conn) {
		conn.Close()
		return
	}
	<-conn.Done()
}

// Attach adds an established connection to the hub.
func (h *Hub) attach(conn *Conn) bool {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return false
	}
	h.conns[conn.ID()] = conn
	h.pumps.Add(1)
	h.mu.Unlock()

	h.metrics.IncWSConnections()
	h.logger.Info("Component connected", zap.String("conn", conn.ID()))

	go h.pump(conn)
	return true
}

func (h *Hub) pump(conn *Conn) {
	defer h.pumps.Done()
	defer h.detach(conn)

	for raw := range conn.Inbox() {
		if env, err := protocol.Decode(raw, protocol.Outbound); err == nil {
			h.learn(env.Identifier, conn.ID())
		}
		select {
		case h.inbox <- raw:
		default:
			h.metrics.RecordDropped(protocol.Outbound.String(), monitoring.ReasonQueueFull)
		}
	}
}

func (h *Hub) learn(identifier, connID string) {
	h.mu.RLock()
	current, ok := h.routes[identifier]
	h.mu.RUnlock()
	if ok && current == connID {
		return
	}

	h.mu.Lock()
	h.routes[identifier] = connID
	h.mu.Unlock()
	h.logger.Debug("Learned component route",
		zap.String("identifier", identifier),
		zap.String("conn", connID),
	)
}

func (h *Hub) detach(conn *Conn) {
	h.mu.Lock()
	delete(h.conns, conn.ID())
	for identifier, connID := range h.routes {
		if connID == conn.ID() {
			delete(h.routes, identifier)
		}
	}
	h.mu.Unlock()

	h.metrics.DecWSConnections()
	h.logger.Info("Component disconnected", zap.String("conn", conn.ID()))
}

// Post routes a command envelope to the connection that announced its
// target, or to every connection when the target is unknown.
func (h *Hub) Post(raw []byte) error {
	env, err := protocol.Decode(raw, protocol.Inbound)
	if err != nil {
		return err
	}

	h.mu.RLock()
	if h.closed {
		h.mu.RUnlock()
		return transport.ErrClosed
	}
	var targets []*Conn
	if connID, ok := h.routes[env.Identifier]; ok {
		targets = append(targets, h.conns[connID])
	} else {
		for _, c := range h.conns {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if perr := c.Post(raw); perr != nil {
			err = perr
		}
	}
	return err
}

// Inbox delivers frames from every connection.
func (h *Hub) Inbox() <-chan []byte { return h.inbox }

// Close disconnects every component and closes the inbox.
func (h *Hub) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	conns := make([]*Conn, 0, len(h.conns))
	for _, c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		c.Close()
	}
	h.pumps.Wait()
	close(h.inbox)
	return nil
}

// Connections returns the number of live connections.
func (h *Hub) Connections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Route returns the connection serving identifier.
func (h *Hub) Route(identifier string) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	connID, ok := h.routes[identifier]
	return connID, ok
}
