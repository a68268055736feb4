package wshub

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// Conn is a single live WebSocket connection identified by an opaque handle.
// The handle is assigned at upgrade time and is the only thing the rest of
// the system ever sees; nothing outside this package touches the socket.
type Conn struct {
	handle string
	ws     *websocket.Conn
	mu     sync.Mutex
	closed bool
}

func NewConn(handle string, ws *websocket.Conn) *Conn {
	return &Conn{
		handle: handle,
		ws:     ws,
	}
}

// Handle returns the opaque connection handle.
func (c *Conn) Handle() string {
	return c.handle
}

// Send writes v as a single JSON message. Writes are serialized; gorilla
// connections allow only one concurrent writer.
func (c *Conn) Send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return errors.New("connection closed")
	}

	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.ws.WriteJSON(v)
}

func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	return c.ws.Close()
}
