package ws

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/framebridge/internal/transport"
)

// Conn is a transport.Port over one WebSocket connection.
type Conn struct {
	id     string
	conn   *websocket.Conn
	cfg    Config
	logger *zap.Logger

	inbox  chan []byte
	outbox chan []byte
	done   chan struct{}

	closeOnce sync.Once
	dropped   atomic.Uint64
}

// Dial connects to a bridge endpoint.
func Dial(ctx context.Context, url string, cfg Config, logger *zap.Logger) (*Conn, error) {
	c, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", url, err)
	}
	return newConn(c, cfg, logger), nil
}

func newConn(c *websocket.Conn, cfg Config, logger *zap.Logger) *Conn {
	cfg = cfg.normalized()
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.NewString()

	conn := &Conn{
		id:     id,
		conn:   c,
		cfg:    cfg,
		logger: logger.With(zap.String("conn", id)),
		inbox:  make(chan []byte, cfg.QueueSize),
		outbox: make(chan []byte, cfg.QueueSize),
		done:   make(chan struct{}),
	}
	c.SetReadLimit(cfg.ReadLimit)

	go conn.readLoop()
	go conn.writeLoop()
	return conn
}

// ID returns the connection identifier.
func (c *Conn) ID() string { return c.id }

// Done is closed once the connection is closed.
func (c *Conn) Done() <-chan struct{} { return c.done }

// Dropped returns the number of frames lost to full queues.
func (c *Conn) Dropped() uint64 { return c.dropped.Load() }

// Post queues raw for writing.
func (c *Conn) Post(raw []byte) error {
	select {
	case <-c.done:
		return transport.ErrClosed
	default:
	}

	select {
	case c.outbox <- append([]byte(nil), raw...):
		return nil
	default:
		c.dropped.Add(1)
		return transport.ErrDropped
	}
}

// Inbox delivers inbound text frames. It is closed when the connection ends.
func (c *Conn) Inbox() <-chan []byte { return c.inbox }

// Close sends a close frame and releases the connection.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		err = c.conn.Close()
	})
	return err
}

func (c *Conn) readLoop() {
	defer close(c.inbox)
	defer c.Close()

	for {
		typ, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Debug("WebSocket read error", zap.Error(err))
			}
			return
		}
		if typ != websocket.TextMessage {
			continue
		}

		select {
		case c.inbox <- data:
		default:
			c.dropped.Add(1)
			c.logger.Debug("Inbound frame dropped, inbox full")
		}
	}
}

func (c *Conn) writeLoop() {
	for {
		select {
		case raw := <-c.outbox:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
				c.logger.Debug("WebSocket write error", zap.Error(err))
				c.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}
