package wsconn

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var (
	ErrConnClosed     = errors.New("connection closed")
	ErrSendBufferFull = errors.New("send buffer full")
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 << 10

	DefaultSendBufferSize = 256
)

// Conn is a websocket connection of a named user. Outgoing messages go
// through a buffered queue drained by WritePump, so Send never blocks on the
// network.
type Conn struct {
	id       string
	username string
	ws       *websocket.Conn
	send     chan []byte

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func New(ws *websocket.Conn, username string, bufferSize int) *Conn {
	if bufferSize <= 0 {
		bufferSize = DefaultSendBufferSize
	}

	ws.SetReadLimit(maxMessageSize)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	return &Conn{
		id:       uuid.NewString(),
		username: username,
		ws:       ws,
		send:     make(chan []byte, bufferSize),
		done:     make(chan struct{}),
	}
}

func (c *Conn) ID() string {
	return c.id
}

func (c *Conn) Username() string {
	return c.username
}

// Send queues data for the write pump. It fails instead of waiting when the
// queue is full or the connection is closed.
func (c *Conn) Send(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return ErrConnClosed
	}

	select {
	case c.send <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// ReadMessage reads the next frame. Ping/pong keeps the read deadline moving.
func (c *Conn) ReadMessage() (int, []byte, error) {
	return c.ws.ReadMessage()
}

// WritePump writes queued messages and pings until the connection is closed,
// ctx is done or a write fails. Messages queued before Close are flushed.
// Once it returns, Send fails with ErrConnClosed.
func (c *Conn) WritePump(ctx context.Context) error {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
		c.ws.Close()
	}()

	for {
		select {
		case data := <-c.send:
			if err := c.write(websocket.TextMessage, data); err != nil {
				return err
			}
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return err
			}
		case <-c.done:
			return c.flush()
		case <-ctx.Done():
			c.Close()
			return c.flush()
		}
	}
}

func (c *Conn) flush() error {
	for {
		select {
		case data := <-c.send:
			if err := c.write(websocket.TextMessage, data); err != nil {
				return err
			}
		default:
			return c.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		}
	}
}

func (c *Conn) write(messageType int, data []byte) error {
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteMessage(messageType, data)
}

// Close stops accepting messages and lets WritePump flush and close the
// socket. Safe to call more than once.
func (c *Conn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.closed = true
	close(c.done)
}

// CloseWithCode sends a close frame with code right away, bypassing the
// queue, and closes the connection.
func (c *Conn) CloseWithCode(code int, reason string) error {
	err := c.ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), time.Now().Add(writeWait))
	c.Close()
	return err
}
